package deps

import (
	"context"
	"time"

	"github.com/meCeltic/Bookmark-AI/internal/logger"
	"github.com/meCeltic/Bookmark-AI/internal/metadata"
	"github.com/meCeltic/Bookmark-AI/internal/store"
)

// MetadataFetcher is satisfied by *metadata.Fetcher. It never fails.
type MetadataFetcher interface {
	Fetch(ctx context.Context, rawURL string) metadata.Metadata
}

type Deps struct {
	Logger    logger.Logger
	StartTime time.Time
	Version   string
	Commit    string
	BuildDate string
	GoVersion string

	Store        store.Store     // bookmark persistence
	StoreBackend string          // "memory" | "redis" | "postgres", reported by /healthz
	Fetcher      MetadataFetcher // outbound metadata extraction

	APITokens      map[string]string // bearer token -> user id
	CORSOrigins    []string          // browser origins allowed to call /api
	AllowedCIDRS   []string          // IPs allowed to access readyz/metrics/import
	TrustProxy     bool              // true if running behind a trusted reverse proxy (e.g., cloudflared)
	RequestTimeout time.Duration     // per-request deadline (0 = chi default of none)

	FetchRateBurst  int // token bucket on routes that fetch remote pages
	FetchRatePerMin int

	ImportTrigger chan struct{} // manual seed import (nil if import disabled)
}
