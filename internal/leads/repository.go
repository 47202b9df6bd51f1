package leads

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrDuplicateExternalID is returned when a lead with the same IndiaMART
// unique ID already exists. The schema enforces this with a partial unique
// index, which closes the race between concurrent manual and scheduled fetches.
var ErrDuplicateExternalID = errors.New("lead with this IndiaMART unique ID already exists")

const leadColumns = `
	id, name, partner_name, contact_name, email, phone, street, city,
	state_id, country_id, description, indiamart_unique_id,
	indiamart_query_type, probability, created_at, updated_at`

// Repository provides data access for leads and geography references.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new leads repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// ExistsByExternalID reports whether a lead with the given IndiaMART unique ID
// has already been imported.
func (r *Repository) ExistsByExternalID(ctx context.Context, externalID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM leads WHERE indiamart_unique_id = $1)
	`, externalID).Scan(&exists)
	return exists, err
}

// Create inserts a new lead and returns it. A conflicting IndiaMART unique ID
// yields ErrDuplicateExternalID instead of a second row.
func (r *Repository) Create(ctx context.Context, in NewLead) (Lead, error) {
	var lead Lead
	err := r.pool.QueryRow(ctx, `
		INSERT INTO leads (
			name, partner_name, contact_name, email, phone, street, city,
			state_id, country_id, description, indiamart_unique_id,
			indiamart_query_type, probability
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (indiamart_unique_id) WHERE indiamart_unique_id <> '' DO NOTHING
		RETURNING`+leadColumns+`
	`, in.Name, in.PartnerName, in.ContactName, in.Email, in.Phone, in.Street,
		in.City, in.StateID, in.CountryID, in.Description, in.IndiamartUniqueID,
		in.IndiamartQueryType, in.Probability,
	).Scan(
		&lead.ID, &lead.Name, &lead.PartnerName, &lead.ContactName, &lead.Email,
		&lead.Phone, &lead.Street, &lead.City, &lead.StateID, &lead.CountryID,
		&lead.Description, &lead.IndiamartUniqueID, &lead.IndiamartQueryType,
		&lead.Probability, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		// ON CONFLICT DO NOTHING returns no row when the insert was skipped.
		return Lead{}, ErrDuplicateExternalID
	}
	return lead, err
}

// List returns imported leads, newest first.
func (r *Repository) List(ctx context.Context, limit int) ([]Lead, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	rows, err := r.pool.Query(ctx, `
		SELECT`+leadColumns+`
		FROM leads
		ORDER BY created_at DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Lead
	for rows.Next() {
		var lead Lead
		if err := rows.Scan(
			&lead.ID, &lead.Name, &lead.PartnerName, &lead.ContactName, &lead.Email,
			&lead.Phone, &lead.Street, &lead.City, &lead.StateID, &lead.CountryID,
			&lead.Description, &lead.IndiamartUniqueID, &lead.IndiamartQueryType,
			&lead.Probability, &lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		results = append(results, lead)
	}
	return results, rows.Err()
}

// FindStateByName resolves a state reference by exact name.
// A miss returns (nil, nil); unresolved geography is not an error.
func (r *Repository) FindStateByName(ctx context.Context, name string) (*uuid.UUID, error) {
	if name == "" {
		return nil, nil
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM states WHERE name = $1`, name).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// FindCountryByISO resolves a country reference by ISO code.
// A miss returns (nil, nil); unresolved geography is not an error.
func (r *Repository) FindCountryByISO(ctx context.Context, isoCode string) (*uuid.UUID, error) {
	if isoCode == "" {
		return nil, nil
	}

	var id uuid.UUID
	err := r.pool.QueryRow(ctx, `SELECT id FROM countries WHERE iso_code = $1`, isoCode).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &id, nil
}
