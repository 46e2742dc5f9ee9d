package channelsync

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/rendizy/channelsync/internal/engine"
	"github.com/rendizy/channelsync/pkg/logging"
	"github.com/rendizy/channelsync/pkg/staysnet"
	"github.com/rendizy/channelsync/pkg/store"
)

// config holds the client configuration assembled by options.
type config struct {
	tenantID         string
	channel          staysnet.Client
	store            store.Store
	concurrency      int
	autoSyncInterval time.Duration
	now              func() time.Time
}

func defaultConfig() *config {
	return &config{
		concurrency: engine.DefaultConcurrency,
	}
}

// Option is a function that configures a Client.
type Option func(*config) error

// WithTenant sets the tenant all reads and writes are scoped to.
func WithTenant(tenantID string) Option {
	return func(c *config) error {
		c.tenantID = tenantID
		return nil
	}
}

// WithChannelClient sets the channel-manager client records are fetched
// from.
func WithChannelClient(ch staysnet.Client) Option {
	return func(c *config) error {
		c.channel = ch
		return nil
	}
}

// WithStore sets the local store records are written to.
func WithStore(s store.Store) Option {
	return func(c *config) error {
		c.store = s
		return nil
	}
}

// WithConcurrency sets the default per-phase worker-pool size. Individual
// runs may override it with sync.WithConcurrency.
func WithConcurrency(n int) Option {
	return func(c *config) error {
		c.concurrency = n
		return nil
	}
}

// WithAutoSyncInterval configures how often AutoSyncOn runs a scheduled
// sync.
func WithAutoSyncInterval(interval time.Duration) Option {
	return func(c *config) error {
		c.autoSyncInterval = interval
		return nil
	}
}

// WithLogger replaces the process-wide default logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *config) error {
		logging.SetDefault(logger)
		return nil
	}
}

// WithClock injects the clock used to anchor the default reservation
// window. Nil means the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *config) error {
		c.now = now
		return nil
	}
}
