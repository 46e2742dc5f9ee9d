package engine

import (
	"context"

	"github.com/google/uuid"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/rental"
	"github.com/rendizy/channelsync/pkg/store"
)

// resolver runs the ordered dedup lookups for each entity kind. Strategies
// are tried in order and the first hit wins; a miss on every strategy means
// the record is new. All lookups are tenant-scoped.
type resolver struct {
	store    store.Store
	tenantID string
}

// resolveGuest matches an incoming guest against existing rows:
// email first, then the canonical derived ID, then CPF/passport. Email
// outranks the derived ID so that a guest re-imported under a new channel
// object ID still lands on the same local row.
func (r *resolver) resolveGuest(ctx context.Context, g rental.Guest, canonical uuid.UUID) (uuid.UUID, bool, error) {
	if g.Email != "" {
		id, err := r.store.FindGuestByEmail(ctx, r.tenantID, g.Email)
		if err == nil {
			return id, true, nil
		}
		if !errors.IsNotFound(err) {
			return uuid.Nil, false, err
		}
	}

	id, err := r.store.FindGuestByID(ctx, r.tenantID, canonical)
	if err == nil {
		return id, true, nil
	}
	if !errors.IsNotFound(err) {
		return uuid.Nil, false, err
	}

	if doc := g.Document(); doc != "" {
		id, err := r.store.FindGuestByDocument(ctx, r.tenantID, doc)
		if err == nil {
			return id, true, nil
		}
		if !errors.IsNotFound(err) {
			return uuid.Nil, false, err
		}
	}

	return uuid.Nil, false, nil
}

// resolveProperty matches by business code, the only key stable across the
// channel manager's own re-imports.
func (r *resolver) resolveProperty(ctx context.Context, p rental.Property) (uuid.UUID, bool, error) {
	if p.Code == "" {
		return uuid.Nil, false, nil
	}
	id, err := r.store.FindPropertyByCode(ctx, r.tenantID, p.Code)
	if err == nil {
		return id, true, nil
	}
	if !errors.IsNotFound(err) {
		return uuid.Nil, false, err
	}
	return uuid.Nil, false, nil
}

// resolveReservation matches by the channel's partner code first, then by
// the canonical derived ID.
func (r *resolver) resolveReservation(ctx context.Context, res rental.Reservation, canonical uuid.UUID) (uuid.UUID, bool, error) {
	if res.ExternalID != "" {
		id, err := r.store.FindReservationByExternalID(ctx, r.tenantID, res.ExternalID)
		if err == nil {
			return id, true, nil
		}
		if !errors.IsNotFound(err) {
			return uuid.Nil, false, err
		}
	}

	id, err := r.store.FindReservationByID(ctx, r.tenantID, canonical)
	if err == nil {
		return id, true, nil
	}
	if !errors.IsNotFound(err) {
		return uuid.Nil, false, err
	}
	return uuid.Nil, false, nil
}
