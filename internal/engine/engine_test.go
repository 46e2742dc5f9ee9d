package engine

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendizy/channelsync/internal/store/memory"
	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/identity"
	"github.com/rendizy/channelsync/pkg/rental"
	"github.com/rendizy/channelsync/pkg/staysnet"
	pkgsync "github.com/rendizy/channelsync/pkg/sync"
)

const testTenant = "org-1"

const (
	guestOID       = "aaaaaaaaaaaaaaaaaaaaaaaa"
	listingOID     = "bbbbbbbbbbbbbbbbbbbbbbbb"
	reservationOID = "cccccccccccccccccccccccc"
)

// fakeChannel is an in-memory staysnet.Client for engine tests.
type fakeChannel struct {
	guests       []staysnet.Guest
	listings     []staysnet.Listing
	reservations []staysnet.Reservation

	guestsErr       error
	listingsErr     error
	reservationsErr error

	gotRange staysnet.Range
}

func (f *fakeChannel) ListGuests(context.Context) ([]staysnet.Guest, error) {
	return f.guests, f.guestsErr
}

func (f *fakeChannel) ListProperties(context.Context) ([]staysnet.Listing, error) {
	return f.listings, f.listingsErr
}

func (f *fakeChannel) ListReservations(_ context.Context, r staysnet.Range) ([]staysnet.Reservation, error) {
	f.gotRange = r
	return f.reservations, f.reservationsErr
}

func testGuest() staysnet.Guest {
	return staysnet.Guest{
		ObjectID: guestOID,
		Name:     "joão silva",
		Email:    "Joao@Example.com",
		Phone:    "+55 11 99999-0000",
		CPF:      "12345678900",
	}
}

func testListing() staysnet.Listing {
	return staysnet.Listing{
		ObjectID:     listingOID,
		ID:           "AP01",
		InternalName: "Apartamento Centro",
		Status:       "active",
		MaxGuests:    4,
	}
}

func testReservation() staysnet.Reservation {
	return staysnet.Reservation{
		ObjectID:     reservationOID,
		ListingID:    listingOID,
		ClientID:     guestOID,
		CheckInDate:  "2026-03-10",
		CheckOutDate: "2026-03-13",
		Type:         "booked",
		GuestCounts:  &staysnet.GuestCounts{Adults: 2, Total: 2},
		Price: &staysnet.ReservationPrice{
			Currency: "BRL",
			HostingDetails: &staysnet.HostingDetails{
				NightPrice: 10000,
				BaseTotal:  30000,
			},
		},
		Total:       30000,
		PartnerCode: "STAYS-1",
	}
}

func newTestEngine(t *testing.T, ch staysnet.Client, st *memory.Store) *Engine {
	t.Helper()
	eng, err := New(Config{TenantID: testTenant, Channel: ch, Store: st})
	require.NoError(t, err)
	return eng
}

func TestNewValidatesConfig(t *testing.T) {
	st := memory.New()
	ch := &fakeChannel{}

	_, err := New(Config{Channel: ch, Store: st})
	assert.Error(t, err)

	_, err = New(Config{TenantID: testTenant, Store: st})
	assert.Error(t, err)

	_, err = New(Config{TenantID: testTenant, Channel: ch})
	assert.Error(t, err)
}

func TestRunFullScenario(t *testing.T) {
	st := memory.New()
	ch := &fakeChannel{
		guests:       []staysnet.Guest{testGuest()},
		listings:     []staysnet.Listing{testListing()},
		reservations: []staysnet.Reservation{testReservation()},
	}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, pkgsync.Stats{Fetched: 1, Created: 1}, res.Guests)
	assert.Equal(t, pkgsync.Stats{Fetched: 1, Created: 1}, res.Properties)
	assert.Equal(t, pkgsync.Stats{Fetched: 1, Created: 1}, res.Reservations)
	assert.Equal(t, 1, res.BlocksCreated)

	guestID := identity.FromExternalID(guestOID)
	guest, ok := st.Guest(testTenant, guestID)
	require.True(t, ok)
	assert.Equal(t, "João Silva", guest.FullName)
	assert.Equal(t, "joao@example.com", guest.Email)

	propertyID := identity.FromExternalID(listingOID)
	property, ok := st.Property(testTenant, propertyID)
	require.True(t, ok)
	assert.Equal(t, "AP01", property.Code)
	assert.Equal(t, rental.PropertyStatusActive, property.Status)

	reservation, ok := st.Reservation(testTenant, identity.FromExternalID(reservationOID))
	require.True(t, ok)
	assert.Equal(t, guestID, reservation.GuestID)
	assert.Equal(t, propertyID, reservation.PropertyID)
	assert.Equal(t, 3, reservation.Nights)
	assert.InDelta(t, 300.0, reservation.Pricing.Total, 0.001)
	assert.InDelta(t, 100.0, reservation.Pricing.PricePerNight, 0.001)
	assert.Equal(t, rental.ReservationStatusConfirmed, reservation.Status)
	assert.Equal(t, "STAYS-1", reservation.ExternalID)

	blocks := st.CalendarBlocks(testTenant)
	require.Len(t, blocks, 1)
	assert.Equal(t, propertyID, blocks[0].PropertyID)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), blocks[0].StartDate)
	assert.Equal(t, time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC), blocks[0].EndDate)
	assert.Equal(t, 3, blocks[0].Nights)
	assert.Equal(t, rental.BlockTypeBlock, blocks[0].Type)
	assert.Equal(t, rental.BlockSubtypeReservation, blocks[0].Subtype)
	assert.Equal(t, reservation.ID, blocks[0].SourceReservationID)
}

func TestRunIsIdempotent(t *testing.T) {
	st := memory.New()
	ch := &fakeChannel{
		guests:       []staysnet.Guest{testGuest()},
		listings:     []staysnet.Listing{testListing()},
		reservations: []staysnet.Reservation{testReservation()},
	}
	eng := newTestEngine(t, ch, st)

	_, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	second, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, second.Success)
	assert.Equal(t, 0, second.TotalCreated())
	assert.Equal(t, 3, second.TotalUpdated())
	assert.Equal(t, 0, second.BlocksCreated, "blocks are not recreated")

	assert.Len(t, st.Reservations(testTenant), 1)
	assert.Len(t, st.CalendarBlocks(testTenant), 1)
}

// slowCalendarStore widens the window between the block existence check and
// the insert so concurrent workers race on the same date range.
type slowCalendarStore struct {
	*memory.Store
}

func (s *slowCalendarStore) CalendarBlockExists(ctx context.Context, tenantID string, propertyID uuid.UUID, start, end time.Time) (bool, error) {
	exists, err := s.Store.CalendarBlockExists(ctx, tenantID, propertyID, start, end)
	time.Sleep(10 * time.Millisecond)
	return exists, err
}

func TestConcurrentReservationsShareOneBlock(t *testing.T) {
	second := testReservation()
	second.ObjectID = "cccccccccccccccccccccc02"
	second.PartnerCode = "STAYS-2"

	st := &slowCalendarStore{Store: memory.New()}
	ch := &fakeChannel{
		guests:       []staysnet.Guest{testGuest()},
		listings:     []staysnet.Listing{testListing()},
		reservations: []staysnet.Reservation{testReservation(), second},
	}
	eng, err := New(Config{TenantID: testTenant, Channel: ch, Store: st})
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), pkgsync.Defaults().Apply(pkgsync.WithConcurrency(4)))
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Empty(t, res.Errors)
	assert.Equal(t, 2, res.Reservations.Created)
	assert.Equal(t, 1, res.BlocksCreated)
	assert.Len(t, st.CalendarBlocks(testTenant), 1)
}

func TestGuestDedupByEmailBeatsExternalID(t *testing.T) {
	st := memory.New()
	existingID := identity.FromExternalID("dddddddddddddddddddddddd")
	require.NoError(t, st.InsertGuest(context.Background(), rental.Guest{
		ID:         existingID,
		TenantID:   testTenant,
		FullName:   "João Silva",
		Email:      "joao@example.com",
		Source:     rental.SourceStaysNet,
		ExternalID: "dddddddddddddddddddddddd",
	}))

	// Same person re-imported under a new channel object ID.
	ch := &fakeChannel{guests: []staysnet.Guest{testGuest()}}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 0, res.Guests.Created)
	assert.Equal(t, 1, res.Guests.Updated)

	guest, ok := st.Guest(testTenant, existingID)
	require.True(t, ok, "update lands on the row matched by email")
	assert.Equal(t, guestOID, guest.ExternalID)

	_, ok = st.Guest(testTenant, identity.FromExternalID(guestOID))
	assert.False(t, ok, "no duplicate row under the derived ID")
}

// flakyStore fails guest inserts for one specific email.
type flakyStore struct {
	*memory.Store
	failEmail string
}

func (f *flakyStore) InsertGuest(ctx context.Context, g rental.Guest) error {
	if g.Email == f.failEmail {
		return stderrors.New("disk full")
	}
	return f.Store.InsertGuest(ctx, g)
}

func TestPartialFailureDoesNotAbortRun(t *testing.T) {
	guests := make([]staysnet.Guest, 0, 5)
	for _, g := range []struct{ oid, email string }{
		{"aaaaaaaaaaaaaaaaaaaaaaa1", "g1@example.com"},
		{"aaaaaaaaaaaaaaaaaaaaaaa2", "g2@example.com"},
		{"aaaaaaaaaaaaaaaaaaaaaaa3", "bad@example.com"},
		{"aaaaaaaaaaaaaaaaaaaaaaa4", "g4@example.com"},
		{"aaaaaaaaaaaaaaaaaaaaaaa5", "g5@example.com"},
	} {
		guests = append(guests, staysnet.Guest{ObjectID: g.oid, Name: "Guest", Email: g.email})
	}

	st := &flakyStore{Store: memory.New(), failEmail: "bad@example.com"}
	ch := &fakeChannel{guests: guests}
	eng, err := New(Config{TenantID: testTenant, Channel: ch, Store: st})
	require.NoError(t, err)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, res.Success, "record-level failures do not fail the run")
	assert.Equal(t, 4, res.Guests.Created)
	assert.Equal(t, 1, res.Guests.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], "aaaaaaaaaaaaaaaaaaaaaaa3")
	assert.Contains(t, res.Errors[0], "disk full")
}

func TestUnresolvedReferenceSkipsReservation(t *testing.T) {
	st := memory.New()
	rec := testReservation()
	rec.ListingID = "eeeeeeeeeeeeeeeeeeeeeeee" // never synced
	ch := &fakeChannel{
		guests:       []staysnet.Guest{testGuest()},
		reservations: []staysnet.Reservation{rec},
	}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.Equal(t, 1, res.Reservations.Fetched)
	assert.Equal(t, 0, res.Reservations.Created)
	assert.Equal(t, 1, res.Reservations.Failed)
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0], reservationOID)

	assert.Empty(t, st.Reservations(testTenant), "never attached to a substitute property")
	assert.Empty(t, st.CalendarBlocks(testTenant))
}

func TestPhaseFetchErrorSkipsPhaseOnly(t *testing.T) {
	st := memory.New()
	ch := &fakeChannel{
		guestsErr: errors.NewAPIError("/booking/clients", 503, "unavailable"),
		listings:  []staysnet.Listing{testListing()},
	}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, res.Success, "later phases did record-level work")
	assert.Equal(t, 0, res.Guests.Fetched)
	assert.Equal(t, 1, res.Properties.Created)
	require.NotEmpty(t, res.Errors)
	assert.Contains(t, res.Errors[0], "guests fetch")
}

func TestRunFailsWhenNothingProcessed(t *testing.T) {
	st := memory.New()
	apiErr := errors.NewAPIError("/", 503, "down")
	ch := &fakeChannel{guestsErr: apiErr, listingsErr: apiErr, reservationsErr: apiErr}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Len(t, res.Errors, 3)
}

func TestDryRunWritesNothing(t *testing.T) {
	st := memory.New()
	ch := &fakeChannel{
		guests:       []staysnet.Guest{testGuest()},
		listings:     []staysnet.Listing{testListing()},
		reservations: []staysnet.Reservation{testReservation()},
	}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), pkgsync.Defaults().Apply(pkgsync.WithDryRun(true)))
	require.NoError(t, err)

	assert.True(t, res.DryRun)
	assert.Equal(t, 3, res.TotalCreated())
	assert.Equal(t, 1, res.BlocksCreated)

	_, ok := st.Guest(testTenant, identity.FromExternalID(guestOID))
	assert.False(t, ok)
	assert.Empty(t, st.Reservations(testTenant))
	assert.Empty(t, st.CalendarBlocks(testTenant))
}

func TestPropertyAllowList(t *testing.T) {
	st := memory.New()
	other := testListing()
	other.ObjectID = "ffffffffffffffffffffffff"
	other.ID = "AP02"
	ch := &fakeChannel{listings: []staysnet.Listing{testListing(), other}}
	eng := newTestEngine(t, ch, st)

	res, err := eng.Run(context.Background(), pkgsync.Defaults().Apply(pkgsync.WithProperties("AP02")))
	require.NoError(t, err)

	assert.Equal(t, 2, res.Properties.Fetched)
	assert.Equal(t, 1, res.Properties.Created)

	_, ok := st.Property(testTenant, identity.FromExternalID(other.ObjectID))
	assert.True(t, ok)
	_, ok = st.Property(testTenant, identity.FromExternalID(listingOID))
	assert.False(t, ok)
}

func TestDefaultReservationWindow(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	ch := &fakeChannel{}
	eng, err := New(Config{
		TenantID: testTenant,
		Channel:  ch,
		Store:    memory.New(),
		Now:      func() time.Time { return now },
	})
	require.NoError(t, err)

	_, err = eng.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, now.AddDate(0, 0, -30), ch.gotRange.Start)
	assert.Equal(t, now.AddDate(0, 0, 365), ch.gotRange.End)
}

func TestExplicitReservationWindow(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	ch := &fakeChannel{}
	eng := newTestEngine(t, ch, memory.New())

	_, err := eng.Run(context.Background(), pkgsync.Defaults().Apply(pkgsync.WithDateRange(from, to)))
	require.NoError(t, err)

	assert.Equal(t, from, ch.gotRange.Start)
	assert.Equal(t, to, ch.gotRange.End)
}

func TestCancelledReservationKeepsCancelledStatus(t *testing.T) {
	st := memory.New()
	rec := testReservation()
	rec.Type = "cancelled"
	ch := &fakeChannel{
		guests:       []staysnet.Guest{testGuest()},
		listings:     []staysnet.Listing{testListing()},
		reservations: []staysnet.Reservation{rec},
	}
	eng := newTestEngine(t, ch, st)

	_, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	reservation, ok := st.Reservation(testTenant, identity.FromExternalID(reservationOID))
	require.True(t, ok)
	assert.Equal(t, rental.ReservationStatusCancelled, reservation.Status)
}

func TestReservationResolvesEntitiesFromEarlierRun(t *testing.T) {
	st := memory.New()
	// First run imports only guests and properties.
	ch := &fakeChannel{
		guests:   []staysnet.Guest{testGuest()},
		listings: []staysnet.Listing{testListing()},
	}
	eng := newTestEngine(t, ch, st)
	_, err := eng.Run(context.Background(), nil)
	require.NoError(t, err)

	// Second run sees only the reservation; FKs must resolve via the store.
	chpost := &fakeChannel{reservations: []staysnet.Reservation{testReservation()}}
	eng2 := newTestEngine(t, chpost, st)
	res, err := eng2.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.Equal(t, 1, res.Reservations.Created)
	assert.Empty(t, res.Errors)
}

func TestRunCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	eng := newTestEngine(t, &fakeChannel{}, memory.New())
	res, err := eng.Run(ctx, nil)
	require.Error(t, err)
	require.NotNil(t, res)
	assert.False(t, res.Success)
}
