package postgres

import (
	"context"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS guests (
	id UUID PRIMARY KEY,
	organization_id TEXT NOT NULL,
	first_name TEXT NOT NULL DEFAULT '',
	last_name TEXT NOT NULL DEFAULT '',
	full_name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	cpf TEXT NOT NULL DEFAULT '',
	passport TEXT NOT NULL DEFAULT '',
	language TEXT NOT NULL DEFAULT 'pt-BR',
	source TEXT NOT NULL DEFAULT '',
	external_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS properties (
	id UUID PRIMARY KEY,
	organization_id TEXT NOT NULL,
	name TEXT NOT NULL,
	code TEXT NOT NULL,
	type TEXT NOT NULL DEFAULT 'apartment',
	status TEXT NOT NULL DEFAULT 'draft',
	address_street TEXT NOT NULL DEFAULT '',
	address_number TEXT NOT NULL DEFAULT '',
	address_complement TEXT NOT NULL DEFAULT '',
	address_neighborhood TEXT NOT NULL DEFAULT '',
	address_city TEXT NOT NULL DEFAULT '',
	address_state TEXT NOT NULL DEFAULT '',
	address_zip_code TEXT NOT NULL DEFAULT '',
	address_country TEXT NOT NULL DEFAULT 'BR',
	max_guests INT NOT NULL DEFAULT 2,
	bedrooms INT NOT NULL DEFAULT 0,
	beds INT NOT NULL DEFAULT 0,
	bathrooms INT NOT NULL DEFAULT 0,
	cover_photo TEXT NOT NULL DEFAULT '',
	photos TEXT[] NOT NULL DEFAULT '{}',
	description TEXT NOT NULL DEFAULT '',
	pricing_base_price NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_currency TEXT NOT NULL DEFAULT 'BRL',
	platforms_direct BOOLEAN NOT NULL DEFAULT TRUE,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	source TEXT NOT NULL DEFAULT '',
	external_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS reservations (
	id UUID PRIMARY KEY,
	organization_id TEXT NOT NULL,
	property_id UUID NOT NULL REFERENCES properties(id),
	guest_id UUID NOT NULL REFERENCES guests(id),
	check_in TIMESTAMPTZ NOT NULL,
	check_out TIMESTAMPTZ NOT NULL,
	nights INT NOT NULL DEFAULT 0,
	guests_adults INT NOT NULL DEFAULT 1,
	guests_children INT NOT NULL DEFAULT 0,
	guests_infants INT NOT NULL DEFAULT 0,
	guests_pets INT NOT NULL DEFAULT 0,
	guests_total INT NOT NULL DEFAULT 1,
	pricing_price_per_night NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_base_total NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_cleaning_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_service_fee NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_taxes NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_total NUMERIC(12,2) NOT NULL DEFAULT 0,
	pricing_currency TEXT NOT NULL DEFAULT 'BRL',
	status TEXT NOT NULL DEFAULT 'confirmed',
	platform TEXT NOT NULL DEFAULT '',
	external_id TEXT NOT NULL DEFAULT '',
	external_url TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	source TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS calendar_blocks (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL,
	property_id UUID NOT NULL REFERENCES properties(id),
	start_date DATE NOT NULL,
	end_date DATE NOT NULL,
	nights INT NOT NULL DEFAULT 0,
	type TEXT NOT NULL DEFAULT 'block',
	subtype TEXT NOT NULL DEFAULT 'reservation',
	reason TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	source_reservation_id UUID,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_guests_org_email ON guests(organization_id, email);
CREATE INDEX IF NOT EXISTS idx_guests_org_cpf ON guests(organization_id, cpf);
CREATE INDEX IF NOT EXISTS idx_properties_org_code ON properties(organization_id, code);
CREATE INDEX IF NOT EXISTS idx_reservations_org_external ON reservations(organization_id, external_id);
CREATE UNIQUE INDEX IF NOT EXISTS idx_blocks_org_property_range
	ON calendar_blocks(organization_id, property_id, start_date, end_date);
`

// Migrate creates the sync target tables when they do not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, schemaSQL)
	return err
}
