package staysnet

import (
	"math"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/rental"
)

// nameCaser title-cases guest names, which arrive in whatever casing the
// booking channel happened to send.
var nameCaser = cases.Title(language.BrazilianPortuguese)

// MapGuest converts a raw client record into the local guest shape. The
// caller assigns ID and TenantID.
func MapGuest(rec Guest) rental.Guest {
	first := rec.FirstName
	last := rec.LastName
	if first == "" {
		// Name can be blank or all whitespace on sparse records.
		if parts := strings.Fields(rec.Name); len(parts) > 0 {
			first = parts[0]
			if len(parts) > 1 {
				last = strings.Join(parts[1:], " ")
			}
		}
	}
	first = nameCaser.String(strings.TrimSpace(first))
	last = nameCaser.String(strings.TrimSpace(last))

	full := strings.TrimSpace(rec.Name)
	if full == "" {
		full = strings.TrimSpace(first + " " + last)
	}
	full = nameCaser.String(full)

	cpf := rec.CPF
	passport := rec.Passport
	if rec.Document != nil {
		if cpf == "" {
			cpf = rec.Document.CPF
		}
		if passport == "" {
			passport = rec.Document.Passport
		}
	}

	lang := rec.Language
	if lang == "" {
		lang = "pt-BR"
	}

	return rental.Guest{
		FirstName:  first,
		LastName:   last,
		FullName:   full,
		Email:      strings.ToLower(strings.TrimSpace(rec.Email)),
		Phone:      firstNonEmpty(rec.Phone, rec.Telephone),
		CPF:        cpf,
		Passport:   passport,
		Language:   lang,
		Source:     rental.SourceStaysNet,
		ExternalID: rec.ExternalID(),
		CreatedAt:  timestampOrNow(rec.CreatedAt),
		UpdatedAt:  timestampOrNow(rec.UpdatedAt),
	}
}

// MapProperty converts a raw listing record into the local property shape.
// The caller assigns ID and TenantID.
func MapProperty(rec Listing) rental.Property {
	name := rec.InternalName
	if rec.Title != nil && rec.Title.Preferred() != "" {
		name = rec.Title.Preferred()
	}
	if name == "" {
		name = "Propriedade sem nome"
	}

	status := rental.PropertyStatusDraft
	if rec.Status == "active" {
		status = rental.PropertyStatusActive
	}

	var addr rental.Address
	if rec.Address != nil {
		addr = rental.Address{
			Street:       rec.Address.Street,
			Number:       rec.Address.StreetNumber,
			Complement:   rec.Address.Additional,
			Neighborhood: rec.Address.Region,
			City:         rec.Address.City,
			State:        firstNonEmpty(rec.Address.StateCode, rec.Address.State),
			ZipCode:      rec.Address.Zip,
			Country:      firstNonEmpty(rec.Address.CountryCode, "BR"),
		}
	}

	maxGuests := rec.MaxGuests
	if maxGuests == 0 {
		maxGuests = 2
	}

	var coverPhoto string
	var photos []string
	if rec.MainImage != nil && rec.MainImage.URL != "" {
		coverPhoto = rec.MainImage.URL
		photos = []string{rec.MainImage.URL}
	}

	var description string
	if rec.Description != nil {
		description = rec.Description.Preferred()
	}

	direct := false
	for _, ch := range rec.OTAChannels {
		if strings.Contains(strings.ToLower(ch.Name), "website") {
			direct = true
			break
		}
	}

	return rental.Property{
		Name:      name,
		Code:      firstNonEmpty(rec.ID, rec.ObjectID),
		Type:      "apartment",
		Status:    status,
		Address:   addr,
		MaxGuests: maxGuests,
		Bedrooms:  rec.Rooms,
		Beds:      rec.Beds,
		Bathrooms: int(math.Floor(rec.Bathrooms)),

		CoverPhoto:  coverPhoto,
		Photos:      photos,
		Description: description,
		Pricing: rental.PropertyPricing{
			BasePrice: 0,
			Currency:  firstNonEmpty(rec.DefaultCurrency, "BRL"),
		},

		DirectBooking: direct,
		IsActive:      rec.Status == "active",

		Source:     rental.SourceStaysNet,
		ExternalID: rec.ExternalID(),
		CreatedAt:  timestampOrNow(rec.CreatedAt),
		UpdatedAt:  timestampOrNow(rec.UpdatedAt),
	}
}

// MapReservation converts a raw booking record into the local reservation
// shape. The caller assigns ID, TenantID, PropertyID, and GuestID. Monetary
// fields arrive as integers in minor units and are converted to major units.
func MapReservation(rec Reservation) (rental.Reservation, error) {
	checkIn, err := rec.CheckIn()
	if err != nil {
		return rental.Reservation{}, errors.NewMappingError("reservation", rec.ExternalID(), "checkInDate", "missing or unparseable")
	}
	checkOut, err := rec.CheckOut()
	if err != nil {
		return rental.Reservation{}, errors.NewMappingError("reservation", rec.ExternalID(), "checkOutDate", "missing or unparseable")
	}
	if !checkOut.After(checkIn) {
		return rental.Reservation{}, errors.NewMappingError("reservation", rec.ExternalID(), "checkOutDate", "check-out not after check-in")
	}

	occ := rental.Occupants{Adults: 1, Total: 1}
	if rec.GuestCounts != nil {
		occ = rental.Occupants{
			Adults:   rec.GuestCounts.Adults,
			Children: rec.GuestCounts.Children,
			Infants:  rec.GuestCounts.Infants,
			Pets:     rec.GuestCounts.Pets,
			Total:    rec.GuestCounts.Total,
		}
	}
	if rec.MaxGuests > 0 {
		occ.Adults = rec.MaxGuests
		occ.Total = rec.MaxGuests
	}
	if occ.Adults == 0 {
		occ.Adults = 1
	}
	if occ.Total == 0 {
		occ.Total = occ.Adults
	}

	nightPrice := rec.NightPrice
	baseTotal := rec.Total
	var cleaning, service, tax int64
	currency := "BRL"
	if rec.Price != nil {
		if rec.Price.Currency != "" {
			currency = rec.Price.Currency
		}
		if hd := rec.Price.HostingDetails; hd != nil {
			if hd.NightPrice != 0 {
				nightPrice = hd.NightPrice
			}
			if hd.BaseTotal != 0 {
				baseTotal = hd.BaseTotal
			}
			if hd.Fees != nil {
				cleaning = hd.Fees.Cleaning
				service = hd.Fees.Service
				tax = hd.Fees.Tax
			}
		}
	}
	total := rec.Total
	if rec.Stats != nil && rec.Stats.TotalPaid != 0 {
		total = rec.Stats.TotalPaid
	}

	status := rental.ReservationStatusConfirmed
	if rec.Type == "cancelled" {
		status = rental.ReservationStatusCancelled
	}

	platform := rental.SourceStaysNet
	if rec.Partner != nil && rec.Partner.Name != "" {
		platform = rec.Partner.Name
	} else if rec.Source != "" {
		platform = rec.Source
	}

	return rental.Reservation{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Nights:   rental.Nights(checkIn, checkOut),

		Occupants: occ,
		Pricing: rental.ReservationPricing{
			PricePerNight: rental.MajorUnits(nightPrice),
			BaseTotal:     rental.MajorUnits(baseTotal),
			CleaningFee:   rental.MajorUnits(cleaning),
			ServiceFee:    rental.MajorUnits(service),
			Taxes:         rental.MajorUnits(tax),
			Total:         rental.MajorUnits(total),
			Currency:      currency,
		},
		Status: status,

		Platform:    platform,
		ExternalID:  rec.PartnerRef(),
		ExternalURL: rec.ReservationURL,
		Notes:       firstNonEmpty(rec.Notes, rec.SpecialRequests),

		Source:    rental.SourceStaysNet,
		CreatedAt: timestampOrNow(firstNonEmpty(rec.CreationDate, rec.CreatedAt)),
		UpdatedAt: timestampOrNow(rec.UpdatedAt),
	}, nil
}

// timestampOrNow parses a channel-manager timestamp, defaulting to now when
// absent or unparseable.
func timestampOrNow(value string) time.Time {
	if value == "" {
		return time.Now().UTC()
	}
	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC()
		}
	}
	return time.Now().UTC()
}
