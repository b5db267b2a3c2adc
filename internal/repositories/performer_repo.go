package repositories

import (
	"context"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type PerformerRepository interface {
	Create(ctx context.Context, performer *models.Performer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Performer, error)
	Update(ctx context.Context, performer *models.Performer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Performer, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.PerformerFilter) ([]*models.Performer, error)
	RefreshTotalBookings(ctx context.Context, tenantID, id uuid.UUID) error
	RecountBookings(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

const performerColumns = `id, tenant_id, name, stage_name, type, bio, specialties, setup_time, performance_time, breakdown_time,
	requirements, contact_email, contact_phone, standard_rate, availability, rating, total_bookings, created_at, updated_at`

// bookingCountSubquery counts non-cancelled bookings of performer p
const bookingCountSubquery = `(SELECT COUNT(*) FROM bookings b WHERE b.performer_id = p.id AND b.tenant_id = p.tenant_id AND b.status <> 'cancelled')`

type performerRepo struct {
	db DBTX
}

func NewPerformerRepository(db DBTX) PerformerRepository {
	return &performerRepo{db: db}
}

func scanPerformer(row pgx.Row, p *models.Performer) error {
	return row.Scan(&p.ID, &p.TenantID, &p.Name, &p.StageName, &p.Type, &p.Bio, &p.Specialties, &p.SetupTime,
		&p.PerformanceTime, &p.BreakdownTime, &p.Requirements, &p.ContactEmail, &p.ContactPhone, &p.StandardRate,
		&p.Availability, &p.Rating, &p.TotalBookings, &p.CreatedAt, &p.UpdatedAt)
}

func (r *performerRepo) Create(ctx context.Context, p *models.Performer) error {
	query := `
		INSERT INTO performers (id, tenant_id, name, stage_name, type, bio, specialties, setup_time, performance_time,
			breakdown_time, requirements, contact_email, contact_phone, standard_rate, availability, rating, total_bookings,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, 0, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.ID, p.TenantID, p.Name, p.StageName, p.Type, p.Bio, p.Specialties, p.SetupTime,
		p.PerformanceTime, p.BreakdownTime, p.Requirements, p.ContactEmail, p.ContactPhone, p.StandardRate,
		p.Availability, p.Rating).Scan(&p.CreatedAt, &p.UpdatedAt)
	return translateError(err)
}

func (r *performerRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Performer, error) {
	performer := &models.Performer{}
	query := `SELECT ` + performerColumns + ` FROM performers WHERE tenant_id = $1 AND id = $2`
	if err := scanPerformer(r.db.QueryRow(ctx, query, tenantID, id), performer); err != nil {
		return nil, translateError(err)
	}
	return performer, nil
}

func (r *performerRepo) Update(ctx context.Context, p *models.Performer) error {
	query := `
		UPDATE performers
		SET name = $1, stage_name = $2, type = $3, bio = $4, specialties = $5, setup_time = $6, performance_time = $7,
			breakdown_time = $8, requirements = $9, contact_email = $10, contact_phone = $11, standard_rate = $12,
			availability = $13, rating = $14, updated_at = NOW()
		WHERE tenant_id = $15 AND id = $16
		RETURNING total_bookings, updated_at
	`
	err := r.db.QueryRow(ctx, query, p.Name, p.StageName, p.Type, p.Bio, p.Specialties, p.SetupTime, p.PerformanceTime,
		p.BreakdownTime, p.Requirements, p.ContactEmail, p.ContactPhone, p.StandardRate, p.Availability, p.Rating,
		p.TenantID, p.ID).Scan(&p.TotalBookings, &p.UpdatedAt)
	return translateError(err)
}

// Delete fails with ErrReferenceViolation while bookings still reference the performer.
func (r *performerRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM performers WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return expectAffected(tag, err)
}

func (r *performerRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Performer, error) {
	return r.Search(ctx, tenantID, &models.PerformerFilter{Limit: limit, Offset: offset})
}

func (r *performerRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.PerformerFilter) ([]*models.Performer, error) {
	b := newSearchBuilder(`SELECT `+performerColumns+` FROM performers WHERE tenant_id = $1`, tenantID)

	if filter.Query != "" {
		p := b.next(likePattern(filter.Query))
		b.query += ` AND (name ILIKE ` + p + ` OR COALESCE(stage_name, '') ILIKE ` + p + ` OR COALESCE(bio, '') ILIKE ` + p + `)`
	}
	if filter.Type != nil {
		b.where(`type = %s`, *filter.Type)
	}
	if filter.Specialty != nil {
		b.where(`%s = ANY(specialties)`, *filter.Specialty)
	}
	if filter.MinRating != nil {
		b.where(`rating >= %s`, *filter.MinRating)
	}
	if filter.MaxRate != nil {
		b.where(`standard_rate <= %s`, *filter.MaxRate)
	}

	query, args := b.page(`name, id`, filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var performers []*models.Performer
	for rows.Next() {
		performer := &models.Performer{}
		if err := scanPerformer(rows, performer); err != nil {
			return nil, err
		}
		performers = append(performers, performer)
	}
	return performers, rows.Err()
}

// RefreshTotalBookings recomputes the cached booking counter of one performer.
func (r *performerRepo) RefreshTotalBookings(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		UPDATE performers p
		SET total_bookings = ` + bookingCountSubquery + `, updated_at = NOW()
		WHERE p.tenant_id = $1 AND p.id = $2
	`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	return expectAffected(tag, err)
}

// RecountBookings repairs drifted counters for a whole tenant and reports how many changed.
func (r *performerRepo) RecountBookings(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	query := `
		UPDATE performers p
		SET total_bookings = ` + bookingCountSubquery + `, updated_at = NOW()
		WHERE p.tenant_id = $1 AND p.total_bookings <> ` + bookingCountSubquery + `
	`
	tag, err := r.db.Exec(ctx, query, tenantID)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}
