package utils

import (
	"io"
)

// maxDrain caps how much of an unread body we consume before closing.
const maxDrain = 64 << 10

// Close closes c and ignores any error.
// Use for best-effort cleanup in defer where error handling is not critical.
func Close(c io.Closer) {
	_ = c.Close()
}

// DrainAndClose reads a bounded remainder of rc before closing it so the
// underlying keep-alive connection can be reused.
func DrainAndClose(rc io.ReadCloser) {
	_, _ = io.CopyN(io.Discard, rc, maxDrain)
	_ = rc.Close()
}
