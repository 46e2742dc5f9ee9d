package staysnet

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/rental"
)

func TestMapGuestSplitsAndCasesName(t *testing.T) {
	g := MapGuest(Guest{
		ObjectID: "aaaaaaaaaaaaaaaaaaaaaaaa",
		Name:     "maria da silva santos",
		Email:    " Maria@Example.COM ",
		Phone:    "+55 11 99999-0000",
	})

	assert.Equal(t, "Maria", g.FirstName)
	assert.Equal(t, "Da Silva Santos", g.LastName)
	assert.Equal(t, "Maria Da Silva Santos", g.FullName)
	assert.Equal(t, "maria@example.com", g.Email)
	assert.Equal(t, "+55 11 99999-0000", g.Phone)
	assert.Equal(t, "pt-BR", g.Language)
	assert.Equal(t, rental.SourceStaysNet, g.Source)
	assert.Equal(t, "aaaaaaaaaaaaaaaaaaaaaaaa", g.ExternalID)
}

func TestMapGuestBlankName(t *testing.T) {
	g := MapGuest(Guest{
		ObjectID: "aaaaaaaaaaaaaaaaaaaaaaaa",
		Name:     "   ",
		Email:    "anon@example.com",
	})

	assert.Empty(t, g.FirstName)
	assert.Empty(t, g.LastName)
	assert.Empty(t, g.FullName)
	assert.Equal(t, "anon@example.com", g.Email)
}

func TestMapGuestDocumentFallbacks(t *testing.T) {
	g := MapGuest(Guest{
		ObjectID:  "aaaaaaaaaaaaaaaaaaaaaaaa",
		FirstName: "João",
		LastName:  "Souza",
		Telephone: "11 5555-0000",
		Document:  &GuestDocument{CPF: "12345678900", Passport: "AB123456"},
	})

	assert.Equal(t, "12345678900", g.CPF)
	assert.Equal(t, "AB123456", g.Passport)
	assert.Equal(t, "11 5555-0000", g.Phone)
	assert.Equal(t, "João Souza", g.FullName)
}

func TestMapProperty(t *testing.T) {
	p := MapProperty(Listing{
		ObjectID: "bbbbbbbbbbbbbbbbbbbbbbbb",
		ID:       "AB01F",
		Title:    &MultilingualText{PtBR: "Apartamento Vista Mar"},
		Status:   "active",
		Address: &ListingAddress{
			Street:       "Av. Atlântica",
			StreetNumber: "1702",
			Region:       "Copacabana",
			City:         "Rio de Janeiro",
			StateCode:    "RJ",
			Zip:          "22021-001",
			CountryCode:  "BR",
		},
		MaxGuests:       4,
		Rooms:           2,
		Beds:            3,
		Bathrooms:       1.5,
		DefaultCurrency: "BRL",
		OTAChannels:     []OTAChannel{{Name: "Airbnb"}, {Name: "My Website"}},
	})

	assert.Equal(t, "Apartamento Vista Mar", p.Name)
	assert.Equal(t, "AB01F", p.Code)
	assert.Equal(t, rental.PropertyStatusActive, p.Status)
	assert.True(t, p.IsActive)
	assert.Equal(t, "RJ", p.Address.State)
	assert.Equal(t, 4, p.MaxGuests)
	assert.Equal(t, 1, p.Bathrooms)
	assert.True(t, p.DirectBooking)
	assert.Equal(t, "bbbbbbbbbbbbbbbbbbbbbbbb", p.ExternalID)
}

func TestMapPropertyDefaults(t *testing.T) {
	p := MapProperty(Listing{ObjectID: "bbbbbbbbbbbbbbbbbbbbbbbb"})

	assert.Equal(t, "Propriedade sem nome", p.Name)
	assert.Equal(t, "bbbbbbbbbbbbbbbbbbbbbbbb", p.Code)
	assert.Equal(t, rental.PropertyStatusDraft, p.Status)
	assert.False(t, p.IsActive)
	assert.Equal(t, 2, p.MaxGuests)
	assert.Equal(t, "BRL", p.Pricing.Currency)
}

func TestMapReservation(t *testing.T) {
	rec := Reservation{
		ObjectID:     "cccccccccccccccccccccccc",
		ListingID:    "bbbbbbbbbbbbbbbbbbbbbbbb",
		ClientID:     "aaaaaaaaaaaaaaaaaaaaaaaa",
		CheckInDate:  "2025-01-01",
		CheckOutDate: "2025-01-04",
		Total:        30000,
		NightPrice:   10000,
		PartnerCode:  "HMBQWE123",
		Partner:      &Partner{Name: "Airbnb"},
	}

	r, err := MapReservation(rec)
	require.NoError(t, err)

	assert.Equal(t, 3, r.Nights)
	assert.Equal(t, 300.0, r.Pricing.Total)
	assert.Equal(t, 300.0, r.Pricing.BaseTotal)
	assert.Equal(t, 100.0, r.Pricing.PricePerNight)
	assert.Equal(t, "BRL", r.Pricing.Currency)
	assert.Equal(t, rental.ReservationStatusConfirmed, r.Status)
	assert.Equal(t, "Airbnb", r.Platform)
	assert.Equal(t, "HMBQWE123", r.ExternalID)
}

func TestMapReservationCancelled(t *testing.T) {
	r, err := MapReservation(Reservation{
		ObjectID:     "cccccccccccccccccccccccc",
		Type:         "cancelled",
		CheckInDate:  "2025-02-10",
		CheckOutDate: "2025-02-12",
	})
	require.NoError(t, err)

	assert.Equal(t, rental.ReservationStatusCancelled, r.Status)
	assert.Equal(t, rental.SourceStaysNet, r.Platform)
}

func TestMapReservationMissingCheckIn(t *testing.T) {
	_, err := MapReservation(Reservation{
		ObjectID:     "cccccccccccccccccccccccc",
		CheckOutDate: "2025-01-04",
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
	assert.Contains(t, err.Error(), "checkInDate")
	assert.Contains(t, err.Error(), "cccccccccccccccccccccccc")
}

func TestMapReservationCheckOutBeforeCheckIn(t *testing.T) {
	_, err := MapReservation(Reservation{
		ObjectID:     "cccccccccccccccccccccccc",
		CheckInDate:  "2025-01-04",
		CheckOutDate: "2025-01-01",
	})

	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestMapReservationHostingDetailsPreferred(t *testing.T) {
	rec := Reservation{
		ObjectID:     "cccccccccccccccccccccccc",
		CheckInDate:  "2025-03-01",
		CheckOutDate: "2025-03-03",
		NightPrice:   1, // overridden by hostingDetails
		Price: &ReservationPrice{
			Currency: "USD",
			HostingDetails: &HostingDetails{
				NightPrice: 25000,
				BaseTotal:  50000,
				Fees:       &HostingFees{Cleaning: 8000, Service: 2000, Tax: 1000},
			},
		},
	}

	r, err := MapReservation(rec)
	require.NoError(t, err)

	assert.Equal(t, 250.0, r.Pricing.PricePerNight)
	assert.Equal(t, 500.0, r.Pricing.BaseTotal)
	assert.Equal(t, 80.0, r.Pricing.CleaningFee)
	assert.Equal(t, 20.0, r.Pricing.ServiceFee)
	assert.Equal(t, 10.0, r.Pricing.Taxes)
	assert.Equal(t, "USD", r.Pricing.Currency)
}
