// Package sync provides options, the run plan format, and result reporting
// for channel-manager synchronization runs.
package sync

import (
	"time"

	"github.com/rendizy/channelsync/pkg/errors"
)

// Default date window applied when the caller gives no reservation range.
const (
	DefaultRangeBack    = 30 * 24 * time.Hour
	DefaultRangeForward = 365 * 24 * time.Hour
)

// DateRange bounds the reservation fetch window.
type DateRange struct {
	From time.Time
	To   time.Time
}

// IsZero reports whether no range was set.
func (r DateRange) IsZero() bool {
	return r.From.IsZero() && r.To.IsZero()
}

// DefaultDateRange returns the window used when the caller gives none:
// DefaultRangeBack in the past through DefaultRangeForward in the future.
func DefaultDateRange(now time.Time) DateRange {
	return DateRange{
		From: now.Add(-DefaultRangeBack),
		To:   now.Add(DefaultRangeForward),
	}
}

// Options controls a single sync run.
type Options struct {
	// Properties restricts the property phase (and, transitively, the
	// reservations that can resolve) to the given channel external ids.
	// Empty means all properties.
	Properties []string

	// Range bounds the reservation fetch. Zero means the default window.
	Range DateRange

	// DryRun resolves and maps every record but writes nothing.
	DryRun bool

	// Concurrency caps the per-phase worker pool. Zero means the
	// client-level default.
	Concurrency int
}

// Apply applies the given options and returns the receiver.
func (o *Options) Apply(opts ...Option) *Options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Defaults returns the default sync options.
func Defaults() *Options {
	return &Options{}
}

// Validate checks if the sync options are valid.
func (o *Options) Validate() error {
	if o.Concurrency < 0 {
		return &errors.ValidationError{
			Field:   "Concurrency",
			Value:   o.Concurrency,
			Message: "concurrency must be non-negative",
		}
	}
	if !o.Range.IsZero() && !o.Range.To.After(o.Range.From) {
		return &errors.ValidationError{
			Field:   "Range",
			Value:   o.Range,
			Message: "range end must be after range start",
		}
	}
	return nil
}

// WantsProperty reports whether the allow-list admits the given external id.
func (o *Options) WantsProperty(externalID string) bool {
	if len(o.Properties) == 0 {
		return true
	}
	for _, id := range o.Properties {
		if id == externalID {
			return true
		}
	}
	return false
}

// Option is a function that configures sync Options.
type Option func(*Options)

// WithProperties restricts the run to the given property external ids.
func WithProperties(ids ...string) Option {
	return func(o *Options) {
		o.Properties = ids
	}
}

// WithDateRange bounds the reservation fetch window.
func WithDateRange(from, to time.Time) Option {
	return func(o *Options) {
		o.Range = DateRange{From: from, To: to}
	}
}

// WithDryRun configures dry run mode.
func WithDryRun(dryRun bool) Option {
	return func(o *Options) {
		o.DryRun = dryRun
	}
}

// WithConcurrency caps the per-phase worker pool.
func WithConcurrency(n int) Option {
	return func(o *Options) {
		o.Concurrency = n
	}
}
