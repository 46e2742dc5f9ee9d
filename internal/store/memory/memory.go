// Package memory provides an in-memory Store implementation for tests and
// dry runs. It is safe for concurrent use by a sync run's worker pool.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/rental"
	"github.com/rendizy/channelsync/pkg/store"
)

// Store is a map-backed store.Store.
type Store struct {
	mu           sync.RWMutex
	guests       map[string]map[uuid.UUID]rental.Guest // tenantID -> id -> guest
	properties   map[string]map[uuid.UUID]rental.Property
	reservations map[string]map[uuid.UUID]rental.Reservation
	blocks       map[string][]rental.CalendarBlock
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		guests:       make(map[string]map[uuid.UUID]rental.Guest),
		properties:   make(map[string]map[uuid.UUID]rental.Property),
		reservations: make(map[string]map[uuid.UUID]rental.Reservation),
		blocks:       make(map[string][]rental.CalendarBlock),
	}
}

// FindGuestByEmail returns the ID of the tenant's guest with the given email.
func (s *Store) FindGuestByEmail(_ context.Context, tenantID, email string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if email == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	for id, g := range s.guests[tenantID] {
		if g.Email == email {
			return id, nil
		}
	}
	return uuid.Nil, errors.ErrNotFound
}

// FindGuestByID returns the guest ID if the tenant has a guest with that ID.
func (s *Store) FindGuestByID(_ context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.guests[tenantID][id]; ok {
		return id, nil
	}
	return uuid.Nil, errors.ErrNotFound
}

// FindGuestByDocument returns the ID of the tenant's guest with the given
// national document.
func (s *Store) FindGuestByDocument(_ context.Context, tenantID, document string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if document == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	for id, g := range s.guests[tenantID] {
		if g.Document() == document {
			return id, nil
		}
	}
	return uuid.Nil, errors.ErrNotFound
}

// InsertGuest stores a new guest.
func (s *Store) InsertGuest(_ context.Context, g rental.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.guests[g.TenantID]
	if tenant == nil {
		tenant = make(map[uuid.UUID]rental.Guest)
		s.guests[g.TenantID] = tenant
	}
	if _, ok := tenant[g.ID]; ok {
		return errors.NewStoreError("insert", "guest", g.ID.String(), errors.ErrAlreadyExists)
	}
	tenant[g.ID] = g
	return nil
}

// UpdateGuest replaces an existing guest.
func (s *Store) UpdateGuest(_ context.Context, g rental.Guest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.guests[g.TenantID]
	if _, ok := tenant[g.ID]; !ok {
		return errors.NewStoreError("update", "guest", g.ID.String(), errors.ErrNotFound)
	}
	tenant[g.ID] = g
	return nil
}

// FindPropertyByCode returns the ID of the tenant's property with the given
// business code.
func (s *Store) FindPropertyByCode(_ context.Context, tenantID, code string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if code == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	for id, p := range s.properties[tenantID] {
		if p.Code == code {
			return id, nil
		}
	}
	return uuid.Nil, errors.ErrNotFound
}

// FindPropertyByID returns the property ID if the tenant owns it.
func (s *Store) FindPropertyByID(_ context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.properties[tenantID][id]; ok {
		return id, nil
	}
	return uuid.Nil, errors.ErrNotFound
}

// InsertProperty stores a new property.
func (s *Store) InsertProperty(_ context.Context, p rental.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.properties[p.TenantID]
	if tenant == nil {
		tenant = make(map[uuid.UUID]rental.Property)
		s.properties[p.TenantID] = tenant
	}
	if _, ok := tenant[p.ID]; ok {
		return errors.NewStoreError("insert", "property", p.ID.String(), errors.ErrAlreadyExists)
	}
	tenant[p.ID] = p
	return nil
}

// UpdateProperty replaces an existing property.
func (s *Store) UpdateProperty(_ context.Context, p rental.Property) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.properties[p.TenantID]
	if _, ok := tenant[p.ID]; !ok {
		return errors.NewStoreError("update", "property", p.ID.String(), errors.ErrNotFound)
	}
	tenant[p.ID] = p
	return nil
}

// FindReservationByExternalID returns the ID of the tenant's reservation
// with the given channel-manager partner code.
func (s *Store) FindReservationByExternalID(_ context.Context, tenantID, externalID string) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if externalID == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	for id, r := range s.reservations[tenantID] {
		if r.ExternalID == externalID {
			return id, nil
		}
	}
	return uuid.Nil, errors.ErrNotFound
}

// FindReservationByID returns the reservation ID if the tenant has one.
func (s *Store) FindReservationByID(_ context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if _, ok := s.reservations[tenantID][id]; ok {
		return id, nil
	}
	return uuid.Nil, errors.ErrNotFound
}

// InsertReservation stores a new reservation.
func (s *Store) InsertReservation(_ context.Context, r rental.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.reservations[r.TenantID]
	if tenant == nil {
		tenant = make(map[uuid.UUID]rental.Reservation)
		s.reservations[r.TenantID] = tenant
	}
	if _, ok := tenant[r.ID]; ok {
		return errors.NewStoreError("insert", "reservation", r.ID.String(), errors.ErrAlreadyExists)
	}
	tenant[r.ID] = r
	return nil
}

// UpdateReservation replaces an existing reservation.
func (s *Store) UpdateReservation(_ context.Context, r rental.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tenant := s.reservations[r.TenantID]
	if _, ok := tenant[r.ID]; !ok {
		return errors.NewStoreError("update", "reservation", r.ID.String(), errors.ErrNotFound)
	}
	tenant[r.ID] = r
	return nil
}

// CalendarBlockExists reports whether a block covers the exact triple.
func (s *Store) CalendarBlockExists(_ context.Context, tenantID string, propertyID uuid.UUID, start, end time.Time) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.blocks[tenantID] {
		if b.PropertyID == propertyID && b.StartDate.Equal(start) && b.EndDate.Equal(end) {
			return true, nil
		}
	}
	return false, nil
}

// InsertCalendarBlock stores a new calendar block. A block already covering
// the same property and date range is rejected, mirroring the unique index
// the SQL store relies on.
func (s *Store) InsertCalendarBlock(_ context.Context, b rental.CalendarBlock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.blocks[b.TenantID] {
		if existing.ID == b.ID ||
			(existing.PropertyID == b.PropertyID && existing.StartDate.Equal(b.StartDate) && existing.EndDate.Equal(b.EndDate)) {
			return errors.NewStoreError("insert", "calendar_block", b.ID, errors.ErrAlreadyExists)
		}
	}
	s.blocks[b.TenantID] = append(s.blocks[b.TenantID], b)
	return nil
}

// Inspection helpers for tests.

// Guest returns the stored guest, if present.
func (s *Store) Guest(tenantID string, id uuid.UUID) (rental.Guest, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.guests[tenantID][id]
	return g, ok
}

// Property returns the stored property, if present.
func (s *Store) Property(tenantID string, id uuid.UUID) (rental.Property, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.properties[tenantID][id]
	return p, ok
}

// Reservation returns the stored reservation, if present.
func (s *Store) Reservation(tenantID string, id uuid.UUID) (rental.Reservation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.reservations[tenantID][id]
	return r, ok
}

// Reservations returns all of the tenant's reservations.
func (s *Store) Reservations(tenantID string) []rental.Reservation {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rental.Reservation, 0, len(s.reservations[tenantID]))
	for _, r := range s.reservations[tenantID] {
		out = append(out, r)
	}
	return out
}

// CalendarBlocks returns all of the tenant's calendar blocks.
func (s *Store) CalendarBlocks(tenantID string) []rental.CalendarBlock {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]rental.CalendarBlock, len(s.blocks[tenantID]))
	copy(out, s.blocks[tenantID])
	return out
}
