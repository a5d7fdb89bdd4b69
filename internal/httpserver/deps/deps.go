package deps

import (
	"context"
	"net/http"
	"time"

	"github.com/MrSnakeDoc/sift/internal/domain"
	"github.com/MrSnakeDoc/sift/internal/index"
	"github.com/MrSnakeDoc/sift/internal/logger"
	"github.com/MrSnakeDoc/sift/internal/search"
)

// Searcher runs aggregated searches. Implemented by *search.Engine.
type Searcher interface {
	Search(ctx context.Context, criteria domain.SearchCriteria, targets []search.Target) (*search.Result, error)
}

// Feed exposes the last RSS refresh. Implemented by *scheduler.RSSRefresher.
type Feed interface {
	Latest() *search.Result
}

// StatusSource exposes indexer health. Implemented by *status.Manager.
type StatusSource interface {
	Get(id string) domain.IndexerStatus
	Snapshot() []domain.IndexerStatus
}

// Pinger checks a backing store. Implemented by the Redis store.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Deps struct {
	Logger       logger.Logger
	StartTime    time.Time
	Version      string
	Commit       string
	BuildDate    string
	GoVersion    string
	TimeNow      func() time.Time // for testing, defaults to time.Now
	AllowedHosts []string         // Host headers allowed to access the server
	AllowedCIDRS []string         // IPs allowed to access the API and operational endpoints
	TrustProxy   bool             // true if running behind a trusted reverse proxy (e.g., cloudflared)

	RateLimitBurst     int // per-IP burst on API routes (0 disables the limiter)
	RateLimitPerMinute int // per-IP refill on API routes

	IndexerFile   string             // Path to the indexer definitions file
	Store         Pinger             // Redis store, used for health only
	MemoryIndex   *index.MemoryIndex // Loaded indexers
	Engine        Searcher
	Status        StatusSource
	Feed          Feed
	Metrics       http.Handler  // Prometheus exposition, nil disables /metrics
	ReloadTrigger chan struct{} // Channel to trigger manual definitions reload
}
