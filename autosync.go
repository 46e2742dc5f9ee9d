package channelsync

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/logging"
)

// autoSyncRunTimeout bounds each scheduled run.
const autoSyncRunTimeout = 5 * time.Minute

// AutoSyncer provides controls for scheduled background sync runs.
type AutoSyncer interface {
	// AutoSyncOn begins scheduled runs if an interval is configured.
	AutoSyncOn() error

	// AutoSyncOff stops scheduled runs.
	AutoSyncOff() error
}

// Compile-time interface check.
var _ AutoSyncer = (*client)(nil)

// AutoSyncOn begins scheduled background runs at the configured interval.
func (c *client) AutoSyncOn() error {
	if c.config.autoSyncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoSyncInterval",
			Value:   c.config.autoSyncInterval,
			Message: "auto-sync interval must be positive",
		}
	}

	// Stop any running schedule to prevent resource leaks.
	if err := c.AutoSyncOff(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticker = time.NewTicker(c.config.autoSyncInterval)
	ctx, cancel := context.WithCancel(context.Background())
	c.cancelAutoSync = cancel

	go func(parentCtx context.Context, tick <-chan time.Time) {
		for {
			select {
			case <-tick:
				runCtx, runCancel := context.WithTimeout(parentCtx, autoSyncRunTimeout)
				result, err := c.Sync(runCtx)
				runCancel()

				if err != nil {
					if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
						return
					}
					logging.Error().Err(err).Msg("scheduled sync failed")
					continue
				}
				logging.Info().Str("run_id", result.RunID).Msg(result.Summary())
			case <-parentCtx.Done():
				return
			}
		}
	}(ctx, c.ticker.C)

	return nil
}

// AutoSyncOff stops scheduled background runs.
func (c *client) AutoSyncOff() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ticker != nil {
		c.ticker.Stop()
		c.ticker = nil
	}
	if c.cancelAutoSync != nil {
		c.cancelAutoSync()
		c.cancelAutoSync = nil
	}
	return nil
}
