package repositories

import (
	"context"
	"time"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type EventRepository interface {
	Create(ctx context.Context, event *models.Event) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.EventFilter) ([]*models.Event, error)
	ReconcileSpent(ctx context.Context, tenantID, id uuid.UUID) error
	ReconcileAllSpent(ctx context.Context, tenantID uuid.UUID) (int64, error)
	BudgetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.BudgetSummary, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error)
	CountUpcoming(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error)
}

const eventColumns = `id, tenant_id, name, type, status, date, start_time, end_time, guest_count, description, notes,
	venue_id, venue_custom, client_id, total_budget, spent_amount, timeline, created_by_id, created_at, updated_at`

// spentSubquery sums what has been paid out across every booking of event e
const spentSubquery = `COALESCE((SELECT SUM(b.paid_amount) FROM bookings b WHERE b.event_id = e.id AND b.tenant_id = e.tenant_id), 0)`

type eventRepo struct {
	db DBTX
}

func NewEventRepository(db DBTX) EventRepository {
	return &eventRepo{db: db}
}

func scanEvent(row pgx.Row, e *models.Event) error {
	return row.Scan(&e.ID, &e.TenantID, &e.Name, &e.Type, &e.Status, &e.Date, &e.StartTime, &e.EndTime, &e.GuestCount,
		&e.Description, &e.Notes, &e.VenueID, &e.VenueCustom, &e.ClientID, &e.TotalBudget, &e.SpentAmount, &e.Timeline,
		&e.CreatedByID, &e.CreatedAt, &e.UpdatedAt)
}

func (r *eventRepo) Create(ctx context.Context, e *models.Event) error {
	query := `
		INSERT INTO events (id, tenant_id, name, type, status, date, start_time, end_time, guest_count, description, notes,
			venue_id, venue_custom, client_id, total_budget, spent_amount, timeline, created_by_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, e.ID, e.TenantID, e.Name, e.Type, e.Status, e.Date, e.StartTime, e.EndTime,
		e.GuestCount, e.Description, e.Notes, e.VenueID, e.VenueCustom, e.ClientID, e.TotalBudget, e.SpentAmount,
		e.Timeline, e.CreatedByID).Scan(&e.CreatedAt, &e.UpdatedAt)
	return translateError(err)
}

func (r *eventRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error) {
	event := &models.Event{}
	query := `SELECT ` + eventColumns + ` FROM events WHERE tenant_id = $1 AND id = $2`
	if err := scanEvent(r.db.QueryRow(ctx, query, tenantID, id), event); err != nil {
		return nil, translateError(err)
	}
	return event, nil
}

// Update writes the editable fields. Status and spent amount have their own paths.
func (r *eventRepo) Update(ctx context.Context, e *models.Event) error {
	query := `
		UPDATE events
		SET name = $1, type = $2, date = $3, start_time = $4, end_time = $5, guest_count = $6, description = $7,
			notes = $8, venue_id = $9, venue_custom = $10, client_id = $11, total_budget = $12, timeline = $13,
			updated_at = NOW()
		WHERE tenant_id = $14 AND id = $15
		RETURNING status, spent_amount, updated_at
	`
	err := r.db.QueryRow(ctx, query, e.Name, e.Type, e.Date, e.StartTime, e.EndTime, e.GuestCount, e.Description,
		e.Notes, e.VenueID, e.VenueCustom, e.ClientID, e.TotalBudget, e.Timeline, e.TenantID, e.ID).
		Scan(&e.Status, &e.SpentAmount, &e.UpdatedAt)
	return translateError(err)
}

func (r *eventRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE events SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	return expectAffected(tag, err)
}

// Delete cascades to the event's bookings and tasks.
func (r *eventRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM events WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return expectAffected(tag, err)
}

func (r *eventRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.EventFilter) ([]*models.Event, error) {
	b := newSearchBuilder(`SELECT `+eventColumns+` FROM events WHERE tenant_id = $1`, tenantID)

	if filter.Query != "" {
		p := b.next(likePattern(filter.Query))
		b.query += ` AND (name ILIKE ` + p + ` OR COALESCE(description, '') ILIKE ` + p + `)`
	}
	if filter.Status != nil {
		b.where(`status = %s`, *filter.Status)
	}
	if filter.Type != nil {
		b.where(`type = %s`, *filter.Type)
	}
	if filter.VenueID != nil {
		b.where(`venue_id = %s`, *filter.VenueID)
	}
	if filter.ClientID != nil {
		b.where(`client_id = %s`, *filter.ClientID)
	}
	if filter.DateFrom != nil {
		b.where(`date >= %s`, *filter.DateFrom)
	}
	if filter.DateTo != nil {
		b.where(`date <= %s`, *filter.DateTo)
	}

	query, args := b.page(`date, start_time, id`, filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := scanEvent(rows, event); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// ReconcileSpent sets spent_amount to the sum paid across the event's bookings.
func (r *eventRepo) ReconcileSpent(ctx context.Context, tenantID, id uuid.UUID) error {
	return reconcileSpent(ctx, r.db, tenantID, id)
}

func reconcileSpent(ctx context.Context, db DBTX, tenantID, id uuid.UUID) error {
	query := `
		UPDATE events e
		SET spent_amount = ` + spentSubquery + `, updated_at = NOW()
		WHERE e.tenant_id = $1 AND e.id = $2
	`
	tag, err := db.Exec(ctx, query, tenantID, id)
	return expectAffected(tag, err)
}

// ReconcileAllSpent repairs every drifted event of a tenant and reports how many changed.
func (r *eventRepo) ReconcileAllSpent(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	query := `
		UPDATE events e
		SET spent_amount = ` + spentSubquery + `, updated_at = NOW()
		WHERE e.tenant_id = $1 AND e.spent_amount IS DISTINCT FROM ` + spentSubquery + `
	`
	tag, err := r.db.Exec(ctx, query, tenantID)
	if err != nil {
		return 0, translateError(err)
	}
	return tag.RowsAffected(), nil
}

// BudgetSummary loads the raw aggregates; the derived figures are computed by the caller.
func (r *eventRepo) BudgetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.BudgetSummary, error) {
	query := `
		SELECT e.total_budget,
			COALESCE(SUM(b.agreed_rate) FILTER (WHERE b.status <> 'cancelled'), 0),
			COALESCE(SUM(b.paid_amount), 0),
			COALESCE(SUM(b.agreed_rate - b.paid_amount) FILTER (WHERE b.status <> 'cancelled'), 0),
			COUNT(b.id) FILTER (WHERE b.status <> 'cancelled')
		FROM events e
		LEFT JOIN bookings b ON b.event_id = e.id AND b.tenant_id = e.tenant_id
		WHERE e.tenant_id = $1 AND e.id = $2
		GROUP BY e.id, e.total_budget
	`
	summary := &models.BudgetSummary{EventID: id}
	err := r.db.QueryRow(ctx, query, tenantID, id).
		Scan(&summary.TotalBudget, &summary.Committed, &summary.Paid, &summary.Outstanding, &summary.BookingsCount)
	if err != nil {
		return nil, translateError(err)
	}
	return summary, nil
}

func (r *eventRepo) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM events WHERE tenant_id = $1 GROUP BY status`, tenantID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// CountUpcoming counts planning or confirmed events dated within [from, to].
func (r *eventRepo) CountUpcoming(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error) {
	query := `
		SELECT COUNT(*) FROM events
		WHERE tenant_id = $1 AND date >= $2 AND date <= $3 AND status IN ('planning', 'confirmed')
	`
	var count int
	if err := r.db.QueryRow(ctx, query, tenantID, from, to).Scan(&count); err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
