// Package engine runs the three-phase reconciliation of channel-manager
// records into the local store: guests, then properties, then reservations.
// Phase order is load-bearing: reservations resolve their foreign keys
// against the entities the earlier phases just upserted.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/identity"
	"github.com/rendizy/channelsync/pkg/logging"
	"github.com/rendizy/channelsync/pkg/staysnet"
	"github.com/rendizy/channelsync/pkg/store"
	pkgsync "github.com/rendizy/channelsync/pkg/sync"
)

// DefaultConcurrency is the per-phase worker-pool size when the caller sets
// none.
const DefaultConcurrency = 4

// Config wires an Engine.
type Config struct {
	TenantID    string
	Channel     staysnet.Client
	Store       store.Store
	Concurrency int

	// Now injects the clock; nil means time.Now. The default reservation
	// window is anchored to it.
	Now func() time.Time
}

// Engine orchestrates sync runs for one tenant.
type Engine struct {
	tenantID    string
	channel     staysnet.Client
	store       store.Store
	concurrency int
	now         func() time.Time
}

// New validates the config and builds an Engine.
func New(cfg Config) (*Engine, error) {
	if cfg.TenantID == "" {
		return nil, errors.NewValidationError("TenantID", cfg.TenantID, "tenant ID is required")
	}
	if cfg.Channel == nil {
		return nil, errors.NewValidationError("Channel", nil, "channel-manager client is required")
	}
	if cfg.Store == nil {
		return nil, errors.NewValidationError("Store", nil, "store is required")
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = DefaultConcurrency
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Engine{
		tenantID:    cfg.TenantID,
		channel:     cfg.Channel,
		store:       cfg.Store,
		concurrency: cfg.Concurrency,
		now:         cfg.Now,
	}, nil
}

// runState is the mutable shared state of one run. All mutation of the
// result goes through it because phase workers run concurrently.
type runState struct {
	mu     sync.Mutex
	result *pkgsync.Result
}

func (s *runState) apply(stats *pkgsync.Stats, out outcome, entity, externalID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch out {
	case outcomeCreated:
		stats.Created++
	case outcomeUpdated:
		stats.Updated++
	case outcomeFailed:
		stats.Failed++
		s.result.AddError(entity, externalID, err)
	}
}

func (s *runState) phaseError(phase string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.Errors = append(s.result.Errors, fmt.Sprintf("%s fetch: %v", phase, err))
}

func (s *runState) blockCreated() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.result.BlocksCreated++
}

// Run executes one full sync: guests, properties, reservations, in that
// order. A failed phase fetch skips that phase and the run continues;
// per-record failures are counted and reported without aborting anything.
// Success flips to false only when the run produced errors before any
// record-level work happened.
func (e *Engine) Run(ctx context.Context, opts *pkgsync.Options) (*pkgsync.Result, error) {
	if opts == nil {
		opts = pkgsync.Defaults()
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	ctx = logging.WithRunID(ctx, runID)
	log := logging.Default().With().
		Str("run_id", runID).
		Str("tenant", e.tenantID).
		Logger()

	started := e.now()
	state := &runState{result: &pkgsync.Result{
		RunID:     runID,
		DryRun:    opts.DryRun,
		StartedAt: started,
		Success:   true,
	}}
	exec := newExecutor(e.store, e.tenantID, opts.DryRun)
	refs := newXref()

	concurrency := e.concurrency
	if opts.Concurrency > 0 {
		concurrency = opts.Concurrency
	}

	log.Info().Bool("dry_run", opts.DryRun).Int("concurrency", concurrency).Msg("sync run started")

	phases := []func(context.Context, *zerolog.Logger, *executor, *xref, *runState, *pkgsync.Options, int){
		e.syncGuests,
		e.syncProperties,
		e.syncReservations,
	}
	for _, phase := range phases {
		if err := ctx.Err(); err != nil {
			state.result.Success = false
			state.result.Duration = e.now().Sub(started)
			return state.result, err
		}
		phase(ctx, &log, exec, refs, state, opts, concurrency)
	}

	res := state.result
	if res.Guests.Processed()+res.Properties.Processed()+res.Reservations.Processed() == 0 && len(res.Errors) > 0 {
		res.Success = false
	}
	res.Duration = e.now().Sub(started)

	log.Info().
		Bool("success", res.Success).
		Int("errors", len(res.Errors)).
		Dur("duration", res.Duration).
		Msg(res.Summary())
	return res, nil
}

func (e *Engine) syncGuests(ctx context.Context, log *zerolog.Logger, exec *executor, refs *xref, state *runState, _ *pkgsync.Options, concurrency int) {
	recs, err := e.channel.ListGuests(ctx)
	if err != nil {
		log.Error().Err(err).Msg("guest phase skipped")
		state.phaseError("guests", err)
		return
	}
	state.result.Guests.Fetched = len(recs)
	log.Info().Int("fetched", len(recs)).Msg("guest phase started")

	var grp errgroup.Group
	grp.SetLimit(concurrency)
	for _, rec := range recs {
		rec := rec
		grp.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			extID := rec.ExternalID()
			canonical := identity.FromExternalID(extID)
			id, out, err := exec.upsertGuest(ctx, staysnet.MapGuest(rec), canonical)
			state.apply(&state.result.Guests, out, "guest", extID, err)
			if out != outcomeFailed {
				refs.set(kindGuest, extID, id)
			}
			return nil
		})
	}
	_ = grp.Wait()
}

func (e *Engine) syncProperties(ctx context.Context, log *zerolog.Logger, exec *executor, refs *xref, state *runState, opts *pkgsync.Options, concurrency int) {
	recs, err := e.channel.ListProperties(ctx)
	if err != nil {
		log.Error().Err(err).Msg("property phase skipped")
		state.phaseError("properties", err)
		return
	}
	state.result.Properties.Fetched = len(recs)
	log.Info().Int("fetched", len(recs)).Msg("property phase started")

	var grp errgroup.Group
	grp.SetLimit(concurrency)
	for _, rec := range recs {
		// Allow-list filter admits either the opaque object ID or the
		// business code.
		if !opts.WantsProperty(rec.ExternalID()) && !opts.WantsProperty(rec.ID) {
			continue
		}
		rec := rec
		grp.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			extID := rec.ExternalID()
			canonical := identity.FromExternalID(extID)
			id, out, err := exec.upsertProperty(ctx, staysnet.MapProperty(rec), canonical)
			state.apply(&state.result.Properties, out, "property", extID, err)
			if out != outcomeFailed {
				// Reservations reference listings by either key.
				refs.set(kindProperty, extID, id)
				refs.set(kindProperty, rec.ID, id)
			}
			return nil
		})
	}
	_ = grp.Wait()
}

func (e *Engine) syncReservations(ctx context.Context, log *zerolog.Logger, exec *executor, refs *xref, state *runState, opts *pkgsync.Options, concurrency int) {
	rng := opts.Range
	if rng.IsZero() {
		rng = pkgsync.DefaultDateRange(e.now())
	}
	recs, err := e.channel.ListReservations(ctx, staysnet.Range{Start: rng.From, End: rng.To})
	if err != nil {
		log.Error().Err(err).Msg("reservation phase skipped")
		state.phaseError("reservations", err)
		return
	}
	state.result.Reservations.Fetched = len(recs)
	log.Info().Int("fetched", len(recs)).
		Time("from", rng.From).Time("to", rng.To).
		Msg("reservation phase started")

	var grp errgroup.Group
	grp.SetLimit(concurrency)
	for _, rec := range recs {
		rec := rec
		grp.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			extID := rec.ExternalID()

			res, err := staysnet.MapReservation(rec)
			if err != nil {
				state.apply(&state.result.Reservations, outcomeFailed, "reservation", extID, err)
				return nil
			}

			propertyID, ok := e.resolvePropertyRef(ctx, refs, rec.ListingRef())
			if !ok {
				err := errors.NewUnresolvedReferenceError("property", rec.ListingRef())
				state.apply(&state.result.Reservations, outcomeFailed, "reservation", extID, err)
				return nil
			}
			guestID, ok := e.resolveGuestRef(ctx, refs, rec.ClientRef())
			if !ok {
				err := errors.NewUnresolvedReferenceError("guest", rec.ClientRef())
				state.apply(&state.result.Reservations, outcomeFailed, "reservation", extID, err)
				return nil
			}
			res.PropertyID = propertyID
			res.GuestID = guestID

			id, out, err := exec.upsertReservation(ctx, res, identity.FromExternalID(extID))
			state.apply(&state.result.Reservations, out, "reservation", extID, err)
			if out == outcomeFailed {
				return nil
			}
			refs.set(kindReservation, extID, id)

			// Derived occupancy block, best effort: a block failure never
			// fails the reservation it was derived from.
			res.ID = id
			created, err := exec.ensureCalendarBlock(ctx, res)
			if err != nil {
				log.Warn().Err(err).Str("reservation", extID).Msg("calendar block not created")
				return nil
			}
			if created {
				state.blockCreated()
			}
			return nil
		})
	}
	_ = grp.Wait()
}

// resolvePropertyRef resolves a reservation's listing reference: the
// run-scoped map first, then the store by business code or canonical
// derived ID for properties synced on an earlier run. An unresolvable
// reference is a miss, never a substitute row.
func (e *Engine) resolvePropertyRef(ctx context.Context, refs *xref, listingRef string) (uuid.UUID, bool) {
	if id, ok := refs.lookup(kindProperty, listingRef); ok {
		return id, true
	}
	if listingRef == "" {
		return uuid.Nil, false
	}
	if id, err := e.store.FindPropertyByCode(ctx, e.tenantID, listingRef); err == nil {
		return id, true
	}
	if identity.IsExternalID(listingRef) {
		if id, err := e.store.FindPropertyByID(ctx, e.tenantID, identity.FromExternalID(listingRef)); err == nil {
			return id, true
		}
	}
	return uuid.Nil, false
}

// resolveGuestRef resolves a reservation's client reference via the
// run-scoped map, then the store under the canonical derived ID.
func (e *Engine) resolveGuestRef(ctx context.Context, refs *xref, clientRef string) (uuid.UUID, bool) {
	if id, ok := refs.lookup(kindGuest, clientRef); ok {
		return id, true
	}
	if !identity.IsExternalID(clientRef) {
		return uuid.Nil, false
	}
	if id, err := e.store.FindGuestByID(ctx, e.tenantID, identity.FromExternalID(clientRef)); err == nil {
		return id, true
	}
	return uuid.Nil, false
}
