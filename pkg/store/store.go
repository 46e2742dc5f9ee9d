// Package store defines the local persistence contract the reconciliation
// engine writes through. Every operation is tenant-scoped and ctx-first;
// lookups return the matched local ID so the engine can redirect an update
// at a row that was matched by a secondary key (email, business code)
// rather than by identity.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rendizy/channelsync/pkg/rental"
)

// Store is the local persistence layer for sync runs.
//
// Find methods return the local ID of the matching row, or
// errors.ErrNotFound when no row matches.
type Store interface {
	GuestStore
	PropertyStore
	ReservationStore
	CalendarStore
}

// GuestStore persists guests.
type GuestStore interface {
	FindGuestByEmail(ctx context.Context, tenantID, email string) (uuid.UUID, error)
	FindGuestByID(ctx context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error)
	FindGuestByDocument(ctx context.Context, tenantID, document string) (uuid.UUID, error)
	InsertGuest(ctx context.Context, g rental.Guest) error
	UpdateGuest(ctx context.Context, g rental.Guest) error
}

// PropertyStore persists properties.
type PropertyStore interface {
	FindPropertyByCode(ctx context.Context, tenantID, code string) (uuid.UUID, error)
	FindPropertyByID(ctx context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error)
	InsertProperty(ctx context.Context, p rental.Property) error
	UpdateProperty(ctx context.Context, p rental.Property) error
}

// ReservationStore persists reservations.
type ReservationStore interface {
	FindReservationByExternalID(ctx context.Context, tenantID, externalID string) (uuid.UUID, error)
	FindReservationByID(ctx context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error)
	InsertReservation(ctx context.Context, r rental.Reservation) error
	UpdateReservation(ctx context.Context, r rental.Reservation) error
}

// CalendarStore persists derived calendar blocks.
type CalendarStore interface {
	// CalendarBlockExists reports whether a block already covers the exact
	// (property, start, end) triple for the tenant.
	CalendarBlockExists(ctx context.Context, tenantID string, propertyID uuid.UUID, start, end time.Time) (bool, error)
	InsertCalendarBlock(ctx context.Context, b rental.CalendarBlock) error
}
