package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendizy/channelsync/pkg/rental"
	"github.com/rendizy/channelsync/pkg/store"
)

// outcome is the terminal state of one record's upsert.
type outcome int

const (
	outcomeCreated outcome = iota
	outcomeUpdated
	outcomeFailed
)

// executor applies create-or-update writes. Store errors never escape as
// phase failures: they come back as outcomeFailed with the original error
// so the caller can count and report the record and move on.
type executor struct {
	store    store.Store
	resolver *resolver
	tenantID string
	dryRun   bool
}

func newExecutor(s store.Store, tenantID string, dryRun bool) *executor {
	return &executor{
		store:    s,
		resolver: &resolver{store: s, tenantID: tenantID},
		tenantID: tenantID,
		dryRun:   dryRun,
	}
}

// upsertGuest writes one guest, creating under the canonical ID on a dedup
// miss or updating the matched row on a hit. Returns the local ID the guest
// now lives under.
func (e *executor) upsertGuest(ctx context.Context, g rental.Guest, canonical uuid.UUID) (uuid.UUID, outcome, error) {
	g.TenantID = e.tenantID
	existing, found, err := e.resolver.resolveGuest(ctx, g, canonical)
	if err != nil {
		return uuid.Nil, outcomeFailed, err
	}
	if found {
		g.ID = existing
		if !e.dryRun {
			if err := e.store.UpdateGuest(ctx, g); err != nil {
				return uuid.Nil, outcomeFailed, err
			}
		}
		return existing, outcomeUpdated, nil
	}
	g.ID = canonical
	if !e.dryRun {
		if err := e.store.InsertGuest(ctx, g); err != nil {
			return uuid.Nil, outcomeFailed, err
		}
	}
	return canonical, outcomeCreated, nil
}

// upsertProperty writes one property, dedup-keyed on business code.
func (e *executor) upsertProperty(ctx context.Context, p rental.Property, canonical uuid.UUID) (uuid.UUID, outcome, error) {
	p.TenantID = e.tenantID
	existing, found, err := e.resolver.resolveProperty(ctx, p)
	if err != nil {
		return uuid.Nil, outcomeFailed, err
	}
	if found {
		p.ID = existing
		if !e.dryRun {
			if err := e.store.UpdateProperty(ctx, p); err != nil {
				return uuid.Nil, outcomeFailed, err
			}
		}
		return existing, outcomeUpdated, nil
	}
	p.ID = canonical
	if !e.dryRun {
		if err := e.store.InsertProperty(ctx, p); err != nil {
			return uuid.Nil, outcomeFailed, err
		}
	}
	return canonical, outcomeCreated, nil
}

// upsertReservation writes one reservation. The caller has already resolved
// PropertyID and GuestID.
func (e *executor) upsertReservation(ctx context.Context, r rental.Reservation, canonical uuid.UUID) (uuid.UUID, outcome, error) {
	r.TenantID = e.tenantID
	existing, found, err := e.resolver.resolveReservation(ctx, r, canonical)
	if err != nil {
		return uuid.Nil, outcomeFailed, err
	}
	if found {
		r.ID = existing
		if !e.dryRun {
			if err := e.store.UpdateReservation(ctx, r); err != nil {
				return uuid.Nil, outcomeFailed, err
			}
		}
		return existing, outcomeUpdated, nil
	}
	r.ID = canonical
	if !e.dryRun {
		if err := e.store.InsertReservation(ctx, r); err != nil {
			return uuid.Nil, outcomeFailed, err
		}
	}
	return canonical, outcomeCreated, nil
}
