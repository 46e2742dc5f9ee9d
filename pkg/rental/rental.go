// Package rental defines the durable entity shapes of the property-rental
// platform that the reconciliation engine writes to: guests, properties,
// reservations, and the calendar blocks derived from them.
//
// Every entity carries Source and ExternalID provenance fields. On
// subsequent sync runs those fields, together with the more semantically
// stable business keys (guest email, property code), are the dedup keys
// that keep the local mirror free of duplicates.
package rental

import (
	"time"

	"github.com/google/uuid"
)

// SourceStaysNet identifies records imported from the Stays.net channel
// manager.
const SourceStaysNet = "staysnet"

// PropertyStatus is the publication state of a property.
type PropertyStatus string

// Property statuses.
const (
	PropertyStatusActive PropertyStatus = "active"
	PropertyStatusDraft  PropertyStatus = "draft"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

// Reservation statuses.
const (
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Guest is a person who has booked, or may book, a stay.
type Guest struct {
	ID        uuid.UUID
	TenantID  string
	FirstName string
	LastName  string
	FullName  string
	Email     string
	Phone     string
	CPF       string
	Passport  string
	Language  string

	// Provenance
	Source     string
	ExternalID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Document returns the guest's national document, preferring CPF over
// passport. Empty when neither is known.
func (g *Guest) Document() string {
	if g.CPF != "" {
		return g.CPF
	}
	return g.Passport
}

// Address is a property's street address.
type Address struct {
	Street       string
	Number       string
	Complement   string
	Neighborhood string
	City         string
	State        string
	ZipCode      string
	Country      string
}

// PropertyPricing holds a property's base pricing configuration in major
// currency units.
type PropertyPricing struct {
	BasePrice float64
	Currency  string
}

// Property is a rentable unit.
type Property struct {
	ID       uuid.UUID
	TenantID string
	Name     string

	// Code is the channel manager's business code for the listing. It is
	// stable across the channel manager's own re-imports, which the opaque
	// object ID is not, so it is the dedup key for properties.
	Code string

	Type      string
	Status    PropertyStatus
	Address   Address
	MaxGuests int
	Bedrooms  int
	Beds      int
	Bathrooms int

	CoverPhoto  string
	Photos      []string
	Description string
	Pricing     PropertyPricing

	DirectBooking bool
	IsActive      bool

	// Provenance
	Source     string
	ExternalID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Occupants is the guest-count breakdown of a reservation.
type Occupants struct {
	Adults   int
	Children int
	Infants  int
	Pets     int
	Total    int
}

// ReservationPricing holds a reservation's monetary breakdown in major
// currency units. The channel manager reports integers in minor units
// (centavos); mapping divides by 100.
type ReservationPricing struct {
	PricePerNight float64
	BaseTotal     float64
	CleaningFee   float64
	ServiceFee    float64
	Taxes         float64
	Total         float64
	Currency      string
}

// Reservation is a guest's stay at a property for a date range.
type Reservation struct {
	ID         uuid.UUID
	TenantID   string
	PropertyID uuid.UUID
	GuestID    uuid.UUID

	CheckIn  time.Time
	CheckOut time.Time
	Nights   int

	Occupants Occupants
	Pricing   ReservationPricing
	Status    ReservationStatus

	// Platform is the sales channel the booking originated on
	// (airbnb, booking.com, direct, ...).
	Platform string

	// ExternalID is the channel manager's partner code for the booking,
	// the dedup key for reservations.
	ExternalID  string
	ExternalURL string
	Notes       string

	// Provenance
	Source string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CalendarBlock is derived occupancy state: one block per reservation date
// range, keeping the availability calendar consistent with imported
// reservations. It is created by the sync engine as a best-effort secondary
// effect and is idempotent on (PropertyID, StartDate, EndDate).
type CalendarBlock struct {
	ID         string
	TenantID   string
	PropertyID uuid.UUID

	// StartDate and EndDate are calendar days; time-of-day is zero.
	StartDate time.Time
	EndDate   time.Time
	Nights    int

	Type    string
	Subtype string
	Reason  string
	Notes   string

	// SourceReservationID is the reservation this block was derived from.
	SourceReservationID uuid.UUID

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Calendar block type constants.
const (
	BlockTypeBlock          = "block"
	BlockSubtypeReservation = "reservation"
)

// Nights returns the integer day count between check-in and check-out.
// Partial days round up, matching how the channel manager bills nights.
func Nights(checkIn, checkOut time.Time) int {
	d := checkOut.Sub(checkIn)
	if d <= 0 {
		return 0
	}
	nights := int(d / (24 * time.Hour))
	if d%(24*time.Hour) != 0 {
		nights++
	}
	return nights
}

// MajorUnits converts an amount in currency minor units (centavos) to major
// units (reais).
func MajorUnits(minor int64) float64 {
	return float64(minor) / 100
}

// Day truncates t to its calendar day in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
