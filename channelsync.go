// Package channelsync reconciles channel-manager records into a local
// property-rental store. A sync run imports guests, properties, and
// reservations from Stays.net in that order, dedup-matching each record
// against existing rows, deriving calendar occupancy blocks from imported
// reservations, and reporting per-entity statistics for the run.
package channelsync

import (
	"context"
	"fmt"
	stdsync "sync"
	"time"

	"github.com/rendizy/channelsync/internal/engine"
	"github.com/rendizy/channelsync/pkg/staysnet"
	"github.com/rendizy/channelsync/pkg/store"
	"github.com/rendizy/channelsync/pkg/sync"
)

// Client runs sync operations for one tenant against one channel manager.
type Client interface {
	// Sync executes a full reconciliation run: guests, then properties,
	// then reservations. Record-level failures are collected in the
	// result rather than returned; the error is non-nil only when the
	// run could not start or was canceled.
	Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error)

	// Store exposes the local store the client writes through.
	Store() store.Store

	// OnRunCompleted registers a callback for finished runs.
	OnRunCompleted(RunCompletedHook)

	// OnRunFailed registers a callback for runs that could not complete.
	OnRunFailed(RunFailedHook)

	// AutoSyncer controls scheduled background runs.
	AutoSyncer
}

// client is the internal implementation of the Client interface.
type client struct {
	config *config
	engine *engine.Engine
	hooks  *hooks

	mu             stdsync.Mutex
	ticker         *time.Ticker
	cancelAutoSync context.CancelFunc
}

// New creates a Client with the given options. A tenant ID, a
// channel-manager client, and a store are required.
func New(opts ...Option) (Client, error) {
	c := &client{config: defaultConfig(), hooks: newHooks()}
	if err := c.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}

	eng, err := engine.New(engine.Config{
		TenantID:    c.config.tenantID,
		Channel:     c.config.channel,
		Store:       c.config.store,
		Concurrency: c.config.concurrency,
		Now:         c.config.now,
	})
	if err != nil {
		return nil, err
	}
	c.engine = eng
	return c, nil
}

// options applies the given options to the client config.
func (c *client) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c.config); err != nil {
			return err
		}
	}
	return nil
}

func (c *client) Sync(ctx context.Context, opts ...sync.Option) (*sync.Result, error) {
	result, err := c.engine.Run(ctx, sync.Defaults().Apply(opts...))
	if err != nil {
		c.hooks.triggerFailed(err)
		return result, err
	}
	c.hooks.triggerCompleted(result)
	return result, nil
}

func (c *client) Store() store.Store {
	return c.config.store
}

func (c *client) OnRunCompleted(fn RunCompletedHook) {
	c.hooks.OnRunCompleted(fn)
}

func (c *client) OnRunFailed(fn RunFailedHook) {
	c.hooks.OnRunFailed(fn)
}

// NewStaysNetClient creates the Stays.net HTTP client for use with
// WithChannelClient.
func NewStaysNetClient(baseURL, clientID, clientSecret string) staysnet.Client {
	return staysnet.NewHTTPClient(baseURL, clientID, clientSecret)
}
