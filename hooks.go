package channelsync

import (
	stdsync "sync"

	"github.com/rendizy/channelsync/pkg/sync"
)

// Hook function types for sync run events.
type (
	// RunCompletedHook is called after a sync run finishes, whether or
	// not individual records failed.
	RunCompletedHook func(result *sync.Result)

	// RunFailedHook is called when a run could not complete at all.
	RunFailedHook func(err error)
)

// hooks manages event callbacks for sync runs.
type hooks struct {
	mu             stdsync.RWMutex
	onRunCompleted []RunCompletedHook
	onRunFailed    []RunFailedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnRunCompleted registers a callback for finished runs.
func (h *hooks) OnRunCompleted(fn RunCompletedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRunCompleted = append(h.onRunCompleted, fn)
}

// OnRunFailed registers a callback for runs that could not complete.
func (h *hooks) OnRunFailed(fn RunFailedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onRunFailed = append(h.onRunFailed, fn)
}

func (h *hooks) triggerCompleted(result *sync.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onRunCompleted {
		fn(result)
	}
}

func (h *hooks) triggerFailed(err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onRunFailed {
		fn(err)
	}
}
