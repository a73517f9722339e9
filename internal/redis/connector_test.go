package redis

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meCeltic/Bookmark-AI/internal/logger"
)

func testOptions(addr string) Options {
	return Options{
		Addr:           addr,
		DialTimeout:    100 * time.Millisecond,
		ReadTimeout:    100 * time.Millisecond,
		WriteTimeout:   100 * time.Millisecond,
		PoolSize:       2,
		ConnectTimeout: 3 * time.Second,
		RetryInterval:  20 * time.Millisecond,
		MaxWait:        50 * time.Millisecond,
		PingTimeout:    100 * time.Millisecond,
		WarnThreshold:  1,
	}
}

// freeAddr returns a local address nothing is listening on.
func freeAddr(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return addr
}

func TestConnectSucceeds(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := Connect(context.Background(), testOptions(mr.Addr()), logger.NewNop())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	got, err := mr.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestConnectRetriesUntilServerStarts(t *testing.T) {
	addr := freeAddr(t)
	mr := miniredis.NewMiniRedis()
	defer mr.Close()

	go func() {
		time.Sleep(150 * time.Millisecond)
		_ = mr.StartAddr(addr)
	}()

	client, err := Connect(context.Background(), testOptions(addr), logger.NewNop())
	require.NoError(t, err)
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnectGivesUpAfterTimeout(t *testing.T) {
	opts := testOptions(freeAddr(t))
	opts.ConnectTimeout = 200 * time.Millisecond

	start := time.Now()
	client, err := Connect(context.Background(), opts, logger.NewNop())

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestConnectStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Connect(ctx, testOptions(freeAddr(t)), logger.NewNop())
	require.Error(t, err)
}

func TestConnectRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{name: "missing addr", mutate: func(o *Options) { o.Addr = "" }},
		{name: "zero connect timeout", mutate: func(o *Options) { o.ConnectTimeout = 0 }},
		{name: "zero retry interval", mutate: func(o *Options) { o.RetryInterval = 0 }},
		{name: "zero max wait", mutate: func(o *Options) { o.MaxWait = 0 }},
		{name: "zero ping timeout", mutate: func(o *Options) { o.PingTimeout = 0 }},
		{name: "negative warn threshold", mutate: func(o *Options) { o.WarnThreshold = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := testOptions("127.0.0.1:6379")
			tt.mutate(&opts)

			_, err := Connect(context.Background(), opts, logger.NewNop())
			require.Error(t, err)
		})
	}
}
