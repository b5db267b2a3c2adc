package repositories

import (
	"context"
	"time"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// EventTaskRepository scopes every statement to the tenant through the owning event.
type EventTaskRepository interface {
	Create(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.EventTask, error)
	Update(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.EventTask, error)
	ListOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*models.OverdueTask, error)
	CountOpen(ctx context.Context, tenantID uuid.UUID, now time.Time) (open, overdue int, err error)
}

const taskColumns = `t.id, t.event_id, t.title, t.description, t.status, t.priority, t.due_date, t.completed_at,
	t.assigned_to, t.created_at, t.updated_at`

type eventTaskRepo struct {
	db DBTX
}

func NewEventTaskRepository(db DBTX) EventTaskRepository {
	return &eventTaskRepo{db: db}
}

func scanTask(row pgx.Row, t *models.EventTask, extra ...any) error {
	dest := []any{&t.ID, &t.EventID, &t.Title, &t.Description, &t.Status, &t.Priority, &t.DueDate, &t.CompletedAt,
		&t.AssignedTo, &t.CreatedAt, &t.UpdatedAt}
	return row.Scan(append(dest, extra...)...)
}

// Create inserts only when the event belongs to the tenant; otherwise ErrNotFound.
func (r *eventTaskRepo) Create(ctx context.Context, tenantID uuid.UUID, t *models.EventTask) error {
	query := `
		INSERT INTO event_tasks (id, event_id, title, description, status, priority, due_date, completed_at,
			assigned_to, created_at, updated_at)
		SELECT $1, e.id, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		FROM events e
		WHERE e.id = $2 AND e.tenant_id = $10
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, t.ID, t.EventID, t.Title, t.Description, t.Status, t.Priority, t.DueDate,
		t.CompletedAt, t.AssignedTo, tenantID).Scan(&t.CreatedAt, &t.UpdatedAt)
	return translateError(err)
}

func (r *eventTaskRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.EventTask, error) {
	task := &models.EventTask{}
	query := `
		SELECT ` + taskColumns + `
		FROM event_tasks t
		JOIN events e ON e.id = t.event_id
		WHERE e.tenant_id = $1 AND t.id = $2
	`
	if err := scanTask(r.db.QueryRow(ctx, query, tenantID, id), task); err != nil {
		return nil, translateError(err)
	}
	return task, nil
}

func (r *eventTaskRepo) Update(ctx context.Context, tenantID uuid.UUID, t *models.EventTask) error {
	query := `
		UPDATE event_tasks t
		SET title = $1, description = $2, status = $3, priority = $4, due_date = $5, completed_at = $6,
			assigned_to = $7, updated_at = NOW()
		FROM events e
		WHERE e.id = t.event_id AND e.tenant_id = $8 AND t.id = $9
		RETURNING t.updated_at
	`
	err := r.db.QueryRow(ctx, query, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CompletedAt,
		t.AssignedTo, tenantID, t.ID).Scan(&t.UpdatedAt)
	return translateError(err)
}

func (r *eventTaskRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `
		DELETE FROM event_tasks t
		USING events e
		WHERE e.id = t.event_id AND e.tenant_id = $1 AND t.id = $2
	`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	return expectAffected(tag, err)
}

func (r *eventTaskRepo) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.EventTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM event_tasks t
		JOIN events e ON e.id = t.event_id
		WHERE e.tenant_id = $1 AND t.event_id = $2
		ORDER BY t.due_date NULLS LAST, t.created_at
	`
	rows, err := r.db.Query(ctx, query, tenantID, eventID)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var tasks []*models.EventTask
	for rows.Next() {
		task := &models.EventTask{}
		if err := scanTask(rows, task); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// ListOverdue returns unfinished tasks due before now on events that are still active.
func (r *eventTaskRepo) ListOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*models.OverdueTask, error) {
	query := `
		SELECT ` + taskColumns + `, e.name
		FROM event_tasks t
		JOIN events e ON e.id = t.event_id
		WHERE e.tenant_id = $1 AND t.status <> 'done' AND t.due_date < $2
			AND e.status NOT IN ('completed', 'cancelled')
		ORDER BY t.due_date
	`
	rows, err := r.db.Query(ctx, query, tenantID, now)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var tasks []*models.OverdueTask
	for rows.Next() {
		task := &models.OverdueTask{}
		if err := scanTask(rows, &task.EventTask, &task.EventName); err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

func (r *eventTaskRepo) CountOpen(ctx context.Context, tenantID uuid.UUID, now time.Time) (open, overdue int, err error) {
	query := `
		SELECT COUNT(*), COUNT(*) FILTER (WHERE t.due_date < $2)
		FROM event_tasks t
		JOIN events e ON e.id = t.event_id
		WHERE e.tenant_id = $1 AND t.status <> 'done' AND e.status NOT IN ('completed', 'cancelled')
	`
	if err = r.db.QueryRow(ctx, query, tenantID, now).Scan(&open, &overdue); err != nil {
		return 0, 0, translateError(err)
	}
	return open, overdue, nil
}
