// Package postgres provides the production Store implementation backed by
// PostgreSQL via pgx.
package postgres

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rendizy/channelsync/pkg/errors"
	"github.com/rendizy/channelsync/pkg/rental"
	"github.com/rendizy/channelsync/pkg/store"
)

// Store is a pgxpool-backed store.Store.
type Store struct {
	pool *pgxpool.Pool
}

// Compile-time interface check.
var _ store.Store = (*Store)(nil)

// New creates a Store over an existing connection pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Open connects to the database and returns a Store.
func Open(ctx context.Context, databaseURL string) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, errors.NewConfigError("postgres", "invalid database URL", err)
	}
	cfg.MaxConnLifetime = 5 * time.Minute
	cfg.MaxConnIdleTime = 1 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Store{pool: pool}, nil
}

// Close releases the underlying pool.
func (s *Store) Close() {
	s.pool.Close()
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// findID runs a single-column ID lookup and maps pgx.ErrNoRows to
// errors.ErrNotFound.
func (s *Store) findID(ctx context.Context, query string, args ...any) (uuid.UUID, error) {
	var id uuid.UUID
	if err := s.pool.QueryRow(ctx, query, args...).Scan(&id); err != nil {
		if stderrors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, errors.ErrNotFound
		}
		return uuid.Nil, err
	}
	return id, nil
}

// FindGuestByEmail returns the ID of the tenant's guest with the given email.
func (s *Store) FindGuestByEmail(ctx context.Context, tenantID, email string) (uuid.UUID, error) {
	if email == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	return s.findID(ctx,
		`SELECT id FROM guests WHERE organization_id=$1 AND email=$2`,
		tenantID, email)
}

// FindGuestByID returns the guest ID if the tenant owns a guest with it.
func (s *Store) FindGuestByID(ctx context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error) {
	return s.findID(ctx,
		`SELECT id FROM guests WHERE organization_id=$1 AND id=$2`,
		tenantID, id)
}

// FindGuestByDocument returns the ID of the tenant's guest with the given
// national document (CPF or passport).
func (s *Store) FindGuestByDocument(ctx context.Context, tenantID, document string) (uuid.UUID, error) {
	if document == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	return s.findID(ctx,
		`SELECT id FROM guests WHERE organization_id=$1 AND (cpf=$2 OR passport=$2)`,
		tenantID, document)
}

// InsertGuest stores a new guest.
func (s *Store) InsertGuest(ctx context.Context, g rental.Guest) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO guests (
			id, organization_id, first_name, last_name, full_name,
			email, phone, cpf, passport, language,
			source, external_id, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		g.ID, g.TenantID, g.FirstName, g.LastName, g.FullName,
		g.Email, g.Phone, g.CPF, g.Passport, g.Language,
		g.Source, g.ExternalID, g.CreatedAt, g.UpdatedAt,
	)
	return errors.WrapStore("insert", "guest", g.ID.String(), err)
}

// UpdateGuest updates an existing guest, restricted to its ID.
func (s *Store) UpdateGuest(ctx context.Context, g rental.Guest) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE guests SET
			first_name=$3, last_name=$4, full_name=$5, email=$6, phone=$7,
			cpf=$8, passport=$9, language=$10, source=$11, external_id=$12,
			updated_at=$13
		WHERE organization_id=$1 AND id=$2`,
		g.TenantID, g.ID, g.FirstName, g.LastName, g.FullName, g.Email, g.Phone,
		g.CPF, g.Passport, g.Language, g.Source, g.ExternalID, time.Now().UTC(),
	)
	return errors.WrapStore("update", "guest", g.ID.String(), err)
}

// FindPropertyByCode returns the ID of the tenant's property with the given
// business code.
func (s *Store) FindPropertyByCode(ctx context.Context, tenantID, code string) (uuid.UUID, error) {
	if code == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	return s.findID(ctx,
		`SELECT id FROM properties WHERE organization_id=$1 AND code=$2`,
		tenantID, code)
}

// FindPropertyByID returns the property ID if the tenant owns it.
func (s *Store) FindPropertyByID(ctx context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error) {
	return s.findID(ctx,
		`SELECT id FROM properties WHERE organization_id=$1 AND id=$2`,
		tenantID, id)
}

// InsertProperty stores a new property.
func (s *Store) InsertProperty(ctx context.Context, p rental.Property) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO properties (
			id, organization_id, name, code, type, status,
			address_street, address_number, address_complement, address_neighborhood,
			address_city, address_state, address_zip_code, address_country,
			max_guests, bedrooms, beds, bathrooms,
			cover_photo, photos, description,
			pricing_base_price, pricing_currency,
			platforms_direct, is_active, source, external_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27,$28,$29)`,
		p.ID, p.TenantID, p.Name, p.Code, p.Type, p.Status,
		p.Address.Street, p.Address.Number, p.Address.Complement, p.Address.Neighborhood,
		p.Address.City, p.Address.State, p.Address.ZipCode, p.Address.Country,
		p.MaxGuests, p.Bedrooms, p.Beds, p.Bathrooms,
		p.CoverPhoto, p.Photos, p.Description,
		p.Pricing.BasePrice, p.Pricing.Currency,
		p.DirectBooking, p.IsActive, p.Source, p.ExternalID,
		p.CreatedAt, p.UpdatedAt,
	)
	return errors.WrapStore("insert", "property", p.ID.String(), err)
}

// UpdateProperty updates an existing property, restricted to its ID.
func (s *Store) UpdateProperty(ctx context.Context, p rental.Property) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE properties SET
			name=$3, code=$4, type=$5, status=$6,
			address_street=$7, address_number=$8, address_complement=$9,
			address_neighborhood=$10, address_city=$11, address_state=$12,
			address_zip_code=$13, address_country=$14,
			max_guests=$15, bedrooms=$16, beds=$17, bathrooms=$18,
			cover_photo=$19, photos=$20, description=$21,
			pricing_base_price=$22, pricing_currency=$23,
			platforms_direct=$24, is_active=$25, source=$26, external_id=$27,
			updated_at=$28
		WHERE organization_id=$1 AND id=$2`,
		p.TenantID, p.ID, p.Name, p.Code, p.Type, p.Status,
		p.Address.Street, p.Address.Number, p.Address.Complement,
		p.Address.Neighborhood, p.Address.City, p.Address.State,
		p.Address.ZipCode, p.Address.Country,
		p.MaxGuests, p.Bedrooms, p.Beds, p.Bathrooms,
		p.CoverPhoto, p.Photos, p.Description,
		p.Pricing.BasePrice, p.Pricing.Currency,
		p.DirectBooking, p.IsActive, p.Source, p.ExternalID,
		time.Now().UTC(),
	)
	return errors.WrapStore("update", "property", p.ID.String(), err)
}

// FindReservationByExternalID returns the ID of the tenant's reservation
// with the given partner code.
func (s *Store) FindReservationByExternalID(ctx context.Context, tenantID, externalID string) (uuid.UUID, error) {
	if externalID == "" {
		return uuid.Nil, errors.ErrNotFound
	}
	return s.findID(ctx,
		`SELECT id FROM reservations WHERE organization_id=$1 AND external_id=$2`,
		tenantID, externalID)
}

// FindReservationByID returns the reservation ID if the tenant owns it.
func (s *Store) FindReservationByID(ctx context.Context, tenantID string, id uuid.UUID) (uuid.UUID, error) {
	return s.findID(ctx,
		`SELECT id FROM reservations WHERE organization_id=$1 AND id=$2`,
		tenantID, id)
}

// InsertReservation stores a new reservation.
func (s *Store) InsertReservation(ctx context.Context, r rental.Reservation) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO reservations (
			id, organization_id, property_id, guest_id,
			check_in, check_out, nights,
			guests_adults, guests_children, guests_infants, guests_pets, guests_total,
			pricing_price_per_night, pricing_base_total, pricing_cleaning_fee,
			pricing_service_fee, pricing_taxes, pricing_total, pricing_currency,
			status, platform, external_id, external_url, notes, source,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,
			$19,$20,$21,$22,$23,$24,$25,$26,$27)`,
		r.ID, r.TenantID, r.PropertyID, r.GuestID,
		r.CheckIn, r.CheckOut, r.Nights,
		r.Occupants.Adults, r.Occupants.Children, r.Occupants.Infants, r.Occupants.Pets, r.Occupants.Total,
		r.Pricing.PricePerNight, r.Pricing.BaseTotal, r.Pricing.CleaningFee,
		r.Pricing.ServiceFee, r.Pricing.Taxes, r.Pricing.Total, r.Pricing.Currency,
		r.Status, r.Platform, r.ExternalID, r.ExternalURL, r.Notes, r.Source,
		r.CreatedAt, r.UpdatedAt,
	)
	return errors.WrapStore("insert", "reservation", r.ID.String(), err)
}

// UpdateReservation updates an existing reservation, restricted to its ID.
func (s *Store) UpdateReservation(ctx context.Context, r rental.Reservation) error {
	_, err := s.pool.Exec(ctx, `
		UPDATE reservations SET
			property_id=$3, guest_id=$4, check_in=$5, check_out=$6, nights=$7,
			guests_adults=$8, guests_children=$9, guests_infants=$10,
			guests_pets=$11, guests_total=$12,
			pricing_price_per_night=$13, pricing_base_total=$14,
			pricing_cleaning_fee=$15, pricing_service_fee=$16, pricing_taxes=$17,
			pricing_total=$18, pricing_currency=$19,
			status=$20, platform=$21, external_id=$22, external_url=$23,
			notes=$24, source=$25, updated_at=$26
		WHERE organization_id=$1 AND id=$2`,
		r.TenantID, r.ID, r.PropertyID, r.GuestID, r.CheckIn, r.CheckOut, r.Nights,
		r.Occupants.Adults, r.Occupants.Children, r.Occupants.Infants,
		r.Occupants.Pets, r.Occupants.Total,
		r.Pricing.PricePerNight, r.Pricing.BaseTotal,
		r.Pricing.CleaningFee, r.Pricing.ServiceFee, r.Pricing.Taxes,
		r.Pricing.Total, r.Pricing.Currency,
		r.Status, r.Platform, r.ExternalID, r.ExternalURL,
		r.Notes, r.Source, time.Now().UTC(),
	)
	return errors.WrapStore("update", "reservation", r.ID.String(), err)
}

// CalendarBlockExists reports whether a block covers the exact triple.
func (s *Store) CalendarBlockExists(ctx context.Context, tenantID string, propertyID uuid.UUID, start, end time.Time) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM calendar_blocks
			WHERE organization_id=$1 AND property_id=$2 AND start_date=$3 AND end_date=$4
		)`,
		tenantID, propertyID, start, end,
	).Scan(&exists)
	if err != nil {
		return false, errors.WrapStore("find", "calendar_block", "", err)
	}
	return exists, nil
}

// InsertCalendarBlock stores a new calendar block.
func (s *Store) InsertCalendarBlock(ctx context.Context, b rental.CalendarBlock) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO calendar_blocks (
			id, organization_id, property_id, start_date, end_date, nights,
			type, subtype, reason, notes, source_reservation_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
		b.ID, b.TenantID, b.PropertyID, b.StartDate, b.EndDate, b.Nights,
		b.Type, b.Subtype, b.Reason, b.Notes, b.SourceReservationID,
		b.CreatedAt, b.UpdatedAt,
	)
	if isUniqueViolation(err) {
		return errors.NewStoreError("insert", "calendar_block", b.ID, errors.ErrAlreadyExists)
	}
	return errors.WrapStore("insert", "calendar_block", b.ID, err)
}

// isUniqueViolation reports whether err is a unique constraint violation
// (SQLSTATE 23505), which the blocks table raises on a duplicate
// (organization, property, date range) triple.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return stderrors.As(err, &pgErr) && pgErr.Code == "23505"
}
