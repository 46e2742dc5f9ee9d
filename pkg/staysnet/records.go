// Package staysnet provides the Stays.net channel-manager client and the
// raw record shapes its API returns. The payloads are loosely shaped; the
// structs below model every field the sync engine extracts and silently
// ignore the rest.
//
// Several fields appear under more than one name depending on the API
// version that produced the record (_id vs id, checkInDate vs from). The
// accessor methods encapsulate those fallbacks so callers never reach into
// alternates themselves.
package staysnet

import (
	"time"

	"github.com/rendizy/channelsync/pkg/errors"
)

// Guest is a raw channel-manager client record.
type Guest struct {
	ObjectID  string         `json:"_id"`
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	FirstName string         `json:"firstName"`
	LastName  string         `json:"lastName"`
	Email     string         `json:"email"`
	Phone     string         `json:"phone"`
	Telephone string         `json:"telephone"`
	CPF       string         `json:"cpf"`
	Passport  string         `json:"passport"`
	Document  *GuestDocument `json:"document"`
	Language  string         `json:"language"`
	CreatedAt string         `json:"createdAt"`
	UpdatedAt string         `json:"updatedAt"`
}

// ExternalID returns the record's opaque channel-manager ID.
func (g Guest) ExternalID() string {
	if g.ObjectID != "" {
		return g.ObjectID
	}
	return g.ID
}

// GuestDocument holds a guest's identity documents.
type GuestDocument struct {
	CPF      string `json:"cpf"`
	Passport string `json:"passport"`
}

// MultilingualText is a map of locale code to text, as the channel manager
// stores titles and descriptions.
type MultilingualText struct {
	PtBR string `json:"pt_BR"`
	EnUS string `json:"en_US"`
}

// Preferred returns the pt_BR text, falling back to en_US.
func (m MultilingualText) Preferred() string {
	if m.PtBR != "" {
		return m.PtBR
	}
	return m.EnUS
}

// Listing is a raw channel-manager property record.
type Listing struct {
	ObjectID        string            `json:"_id"`
	ID              string            `json:"id"` // business code, e.g. "AB01F"
	Title           *MultilingualText `json:"_mstitle"`
	Description     *MultilingualText `json:"_msdesc"`
	InternalName    string            `json:"internalName"`
	Status          string            `json:"status"`
	Address         *ListingAddress   `json:"address"`
	MaxGuests       int               `json:"_i_maxGuests"`
	Rooms           int               `json:"_i_rooms"`
	Beds            int               `json:"_i_beds"`
	Bathrooms       float64           `json:"_f_bathrooms"`
	MainImage       *ImageMeta        `json:"_t_mainImageMeta"`
	DefaultCurrency string            `json:"deff_curr"`
	OTAChannels     []OTAChannel      `json:"otaChannels"`
	CreatedAt       string            `json:"createdAt"`
	UpdatedAt       string            `json:"updatedAt"`
}

// ExternalID returns the record's opaque channel-manager ID.
func (l Listing) ExternalID() string {
	if l.ObjectID != "" {
		return l.ObjectID
	}
	return l.ID
}

// ImageMeta is a listing image reference.
type ImageMeta struct {
	URL string `json:"url"`
}

// ListingAddress is the address block of a listing.
type ListingAddress struct {
	Street       string `json:"street"`
	StreetNumber string `json:"streetNumber"`
	Additional   string `json:"additional"`
	Region       string `json:"region"`
	City         string `json:"city"`
	State        string `json:"state"`
	StateCode    string `json:"stateCode"`
	Zip          string `json:"zip"`
	CountryCode  string `json:"countryCode"`
}

// OTAChannel identifies a sales channel a listing is published on.
type OTAChannel struct {
	Name string `json:"name"`
}

// Reservation is a raw channel-manager booking record. Monetary fields are
// integers in currency minor units.
type Reservation struct {
	ObjectID   string `json:"_id"`
	ID         string `json:"id"`
	ListingID  string `json:"_idlisting"`
	ListingID2 string `json:"listingId"`
	ClientID   string `json:"_idclient"`
	ClientID2  string `json:"clientId"`

	CheckInDate  string `json:"checkInDate"`
	From         string `json:"from"`
	CheckOutDate string `json:"checkOutDate"`
	To           string `json:"to"`

	Type        string       `json:"type"` // "booked", "cancelled", ...
	MaxGuests   int          `json:"_i_maxGuests"`
	GuestCounts *GuestCounts `json:"guests"`

	Price      *ReservationPrice `json:"price"`
	NightPrice int64             `json:"_f_nightPrice"`
	Total      int64             `json:"_f_total"`
	Stats      *ReservationStats `json:"stats"`

	Partner         *Partner `json:"partner"`
	PartnerCode     string   `json:"partnerCode"`
	ExternalIDField string   `json:"externalId"`
	ReservationURL  string   `json:"reservationUrl"`
	Source          string   `json:"source"`

	Notes           string `json:"notes"`
	SpecialRequests string `json:"specialRequests"`

	CreationDate string `json:"creationDate"`
	CreatedAt    string `json:"createdAt"`
	UpdatedAt    string `json:"updatedAt"`
}

// GuestCounts is the occupant breakdown of a booking.
type GuestCounts struct {
	Adults   int `json:"adults"`
	Children int `json:"children"`
	Infants  int `json:"infants"`
	Pets     int `json:"pets"`
	Total    int `json:"total"`
}

// ReservationPrice is the monetary block of a booking. Amounts are integers
// in currency minor units.
type ReservationPrice struct {
	Currency       string          `json:"currency"`
	HostingDetails *HostingDetails `json:"hostingDetails"`
}

// HostingDetails breaks a booking's price into its host-side components.
type HostingDetails struct {
	NightPrice int64        `json:"_f_nightPrice"`
	BaseTotal  int64        `json:"baseTotal"`
	Fees       *HostingFees `json:"fees"`
}

// HostingFees are the per-booking fees in currency minor units.
type HostingFees struct {
	Cleaning int64 `json:"cleaning"`
	Service  int64 `json:"service"`
	Tax      int64 `json:"tax"`
}

// ReservationStats carries payment aggregates for a booking.
type ReservationStats struct {
	TotalPaid int64 `json:"_f_totalPaid"`
}

// Partner identifies the sales channel a booking originated on.
type Partner struct {
	Name string `json:"name"`
}

// ExternalID returns the record's opaque channel-manager ID.
func (r Reservation) ExternalID() string {
	if r.ObjectID != "" {
		return r.ObjectID
	}
	return r.ID
}

// ListingRef returns the external ID of the listing this booking is for.
func (r Reservation) ListingRef() string {
	if r.ListingID != "" {
		return r.ListingID
	}
	return r.ListingID2
}

// ClientRef returns the external ID of the guest this booking belongs to.
func (r Reservation) ClientRef() string {
	if r.ClientID != "" {
		return r.ClientID
	}
	return r.ClientID2
}

// PartnerRef returns the partner code the channel manager assigned to the
// booking, falling back to the raw externalId field.
func (r Reservation) PartnerRef() string {
	if r.PartnerCode != "" {
		return r.PartnerCode
	}
	return r.ExternalIDField
}

// CheckIn parses the booking's check-in timestamp.
func (r Reservation) CheckIn() (time.Time, error) {
	return parseDate("checkInDate", firstNonEmpty(r.CheckInDate, r.From))
}

// CheckOut parses the booking's check-out timestamp.
func (r Reservation) CheckOut() (time.Time, error) {
	return parseDate("checkOutDate", firstNonEmpty(r.CheckOutDate, r.To))
}

// dateFormats are the timestamp layouts the channel manager is known to
// emit, tried in order.
var dateFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.NewMappingError("reservation", "", field, "missing")
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errors.NewMappingError("reservation", "", field, "unparseable date "+value)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
