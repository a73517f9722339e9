package config

import (
	"strings"
	"testing"
	"time"
)

func TestRequireEnv(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     string
		wantPanic bool
	}{
		{name: "variable set", key: "TEST_VAR", value: "test_value"},
		{name: "variable not set", key: "TEST_VAR_MISSING", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("requireEnv() should have panicked")
					}
				}()
			}

			result := requireEnv(tt.key)
			if !tt.wantPanic && result != tt.value {
				t.Errorf("requireEnv() = %v, want %v", result, tt.value)
			}
		})
	}
}

func TestParseTokens(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		expected  map[string]string
		wantPanic bool
	}{
		{
			name:     "single pair",
			raw:      "abc123:alice",
			expected: map[string]string{"abc123": "alice"},
		},
		{
			name:     "several pairs with spaces",
			raw:      " abc123 : alice , def456:bob ",
			expected: map[string]string{"abc123": "alice", "def456": "bob"},
		},
		{name: "missing user", raw: "abc123:", wantPanic: true},
		{name: "missing separator", raw: "abc123", wantPanic: true},
		{name: "only commas", raw: ",,", wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantPanic {
				defer func() {
					if r := recover(); r == nil {
						t.Errorf("parseTokens() should have panicked")
					}
				}()
			}

			result := parseTokens(tt.raw)
			if tt.wantPanic {
				return
			}
			if len(result) != len(tt.expected) {
				t.Fatalf("parseTokens() = %v, want %v", result, tt.expected)
			}
			for token, user := range tt.expected {
				if result[token] != user {
					t.Errorf("parseTokens()[%q] = %q, want %q", token, result[token], user)
				}
			}
		})
	}
}

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in       string
		expected []string
	}{
		{in: "", expected: nil},
		{in: "a", expected: []string{"a"}},
		{in: ` "https://a.example" , 'b' ,, c `, expected: []string{"https://a.example", "b", "c"}},
	}

	for _, tt := range tests {
		result := splitAndTrim(tt.in)
		if strings.Join(result, "|") != strings.Join(tt.expected, "|") {
			t.Errorf("splitAndTrim(%q) = %v, want %v", tt.in, result, tt.expected)
		}
	}
}

func TestMustDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      time.Duration
		expected time.Duration
	}{
		{name: "valid duration", key: "TEST_DURATION", value: "5s", def: time.Second, expected: 5 * time.Second},
		{name: "invalid duration uses default", key: "TEST_DURATION_INVALID", value: "invalid", def: 10 * time.Second, expected: 10 * time.Second},
		{name: "missing variable uses default", key: "TEST_DURATION_MISSING", def: 15 * time.Second, expected: 15 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustDuration(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustDuration() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestMustBool(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		value    string
		def      bool
		expected bool
	}{
		{name: "true value", key: "TEST_BOOL", value: "true", def: false, expected: true},
		{name: "false value", key: "TEST_BOOL_FALSE", value: "false", def: true, expected: false},
		{name: "invalid value uses default", key: "TEST_BOOL_INVALID", value: "invalid", def: true, expected: true},
		{name: "missing variable uses default", key: "TEST_BOOL_MISSING", def: false, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value != "" {
				t.Setenv(tt.key, tt.value)
			}

			result := mustBool(tt.key, tt.def)
			if result != tt.expected {
				t.Errorf("mustBool() = %v, want %v", result, tt.expected)
			}
		})
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("BOOKMARK_API_TOKENS", "secret:alice")
	t.Setenv("BOOKMARK_STORE", "")

	cfg := Load()

	if cfg.Store != StoreMemory {
		t.Errorf("Store = %q, want %q", cfg.Store, StoreMemory)
	}
	if cfg.ListenPort != ":8080" {
		t.Errorf("ListenPort = %q, want :8080", cfg.ListenPort)
	}
	if cfg.FetchTimeout != 5*time.Second {
		t.Errorf("FetchTimeout = %v, want 5s", cfg.FetchTimeout)
	}
	if cfg.FetchMaxBytes != 2<<20 {
		t.Errorf("FetchMaxBytes = %d, want %d", cfg.FetchMaxBytes, 2<<20)
	}
	if !cfg.SummaryEnabled || cfg.SummaryEndpoint != "https://r.jina.ai/http://" {
		t.Errorf("summary = %v %q, want enabled jina endpoint", cfg.SummaryEnabled, cfg.SummaryEndpoint)
	}
	if cfg.APITokens["secret"] != "alice" {
		t.Errorf("APITokens = %v", cfg.APITokens)
	}
}

func TestLoadStoreValidation(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		wantPanic bool
	}{
		{name: "redis without address", env: map[string]string{"BOOKMARK_STORE": "redis"}, wantPanic: true},
		{name: "redis with address", env: map[string]string{"BOOKMARK_STORE": "redis", "BOOKMARK_REDIS_ADDR": "localhost:6379"}},
		{
			name: "redis password required",
			env: map[string]string{
				"BOOKMARK_STORE":                   "redis",
				"BOOKMARK_REDIS_ADDR":              "localhost:6379",
				"BOOKMARK_REDIS_PASSWORD_REQUIRED": "true",
			},
			wantPanic: true,
		},
		{name: "postgres without dsn", env: map[string]string{"BOOKMARK_STORE": "postgres"}, wantPanic: true},
		{name: "postgres with dsn", env: map[string]string{"BOOKMARK_STORE": "Postgres", "BOOKMARK_POSTGRES_DSN": "postgres://u:p@db/bookmarks"}},
		{name: "unknown store", env: map[string]string{"BOOKMARK_STORE": "sqlite"}, wantPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOOKMARK_API_TOKENS", "secret:alice")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			defer func() {
				r := recover()
				if tt.wantPanic && r == nil {
					t.Errorf("Load() should have panicked")
				}
				if !tt.wantPanic && r != nil {
					t.Errorf("Load() panicked: %v", r)
				}
			}()

			Load()
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{
		APITokens:     map[string]string{"secret": "alice"},
		RedisPassword: "hunter2",
		PostgresDSN:   "postgres://u:p@db/bookmarks",
	}

	out := cfg.Redacted()
	dump := strings.Join([]string{out.RedisPassword, out.PostgresDSN}, " ")
	for token := range out.APITokens {
		dump += " " + token
	}

	for _, secret := range []string{"secret", "hunter2", "u:p@db"} {
		if strings.Contains(dump, secret) {
			t.Errorf("redacted config leaks %q: %s", secret, dump)
		}
	}
	if cfg.RedisPassword != "hunter2" {
		t.Errorf("Redacted() mutated the original config")
	}
}
