package repositories

import (
	"context"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type VenueRepository interface {
	Create(ctx context.Context, venue *models.Venue) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Venue, error)
	Update(ctx context.Context, venue *models.Venue) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Venue, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.VenueFilter) ([]*models.Venue, error)
}

const venueColumns = `id, tenant_id, name, type, address, city, capacity, setup_access_time, curfew, restrictions,
	contact_name, contact_phone, contact_email, notes, created_at, updated_at`

type venueRepo struct {
	db DBTX
}

func NewVenueRepository(db DBTX) VenueRepository {
	return &venueRepo{db: db}
}

func scanVenue(row pgx.Row, v *models.Venue) error {
	return row.Scan(&v.ID, &v.TenantID, &v.Name, &v.Type, &v.Address, &v.City, &v.Capacity, &v.SetupAccessTime, &v.Curfew,
		&v.Restrictions, &v.ContactName, &v.ContactPhone, &v.ContactEmail, &v.Notes, &v.CreatedAt, &v.UpdatedAt)
}

func (r *venueRepo) Create(ctx context.Context, venue *models.Venue) error {
	query := `
		INSERT INTO venues (id, tenant_id, name, type, address, city, capacity, setup_access_time, curfew, restrictions,
			contact_name, contact_phone, contact_email, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, venue.ID, venue.TenantID, venue.Name, venue.Type, venue.Address, venue.City, venue.Capacity,
		venue.SetupAccessTime, venue.Curfew, venue.Restrictions, venue.ContactName, venue.ContactPhone, venue.ContactEmail, venue.Notes).
		Scan(&venue.CreatedAt, &venue.UpdatedAt)
	return translateError(err)
}

func (r *venueRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Venue, error) {
	venue := &models.Venue{}
	query := `SELECT ` + venueColumns + ` FROM venues WHERE tenant_id = $1 AND id = $2`
	if err := scanVenue(r.db.QueryRow(ctx, query, tenantID, id), venue); err != nil {
		return nil, translateError(err)
	}
	return venue, nil
}

func (r *venueRepo) Update(ctx context.Context, venue *models.Venue) error {
	query := `
		UPDATE venues
		SET name = $1, type = $2, address = $3, city = $4, capacity = $5, setup_access_time = $6, curfew = $7,
			restrictions = $8, contact_name = $9, contact_phone = $10, contact_email = $11, notes = $12, updated_at = NOW()
		WHERE tenant_id = $13 AND id = $14
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, venue.Name, venue.Type, venue.Address, venue.City, venue.Capacity, venue.SetupAccessTime,
		venue.Curfew, venue.Restrictions, venue.ContactName, venue.ContactPhone, venue.ContactEmail, venue.Notes,
		venue.TenantID, venue.ID).Scan(&venue.UpdatedAt)
	return translateError(err)
}

func (r *venueRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM venues WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return expectAffected(tag, err)
}

func (r *venueRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Venue, error) {
	return r.Search(ctx, tenantID, &models.VenueFilter{Limit: limit, Offset: offset})
}

func (r *venueRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.VenueFilter) ([]*models.Venue, error) {
	b := newSearchBuilder(`SELECT `+venueColumns+` FROM venues WHERE tenant_id = $1`, tenantID)

	if filter.Query != "" {
		p := b.next(likePattern(filter.Query))
		b.query += ` AND (name ILIKE ` + p + ` OR COALESCE(city, '') ILIKE ` + p + ` OR COALESCE(address, '') ILIKE ` + p + `)`
	}
	if filter.Type != nil {
		b.where(`type = %s`, *filter.Type)
	}
	if filter.City != nil {
		b.where(`city ILIKE %s`, *filter.City)
	}
	if filter.MinCapacity != nil {
		b.where(`capacity >= %s`, *filter.MinCapacity)
	}

	query, args := b.page(`name, id`, filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var venues []*models.Venue
	for rows.Next() {
		venue := &models.Venue{}
		if err := scanVenue(rows, venue); err != nil {
			return nil, err
		}
		venues = append(venues, venue)
	}
	return venues, rows.Err()
}
