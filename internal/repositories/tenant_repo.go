package repositories

import (
	"context"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type TenantRepository interface {
	CreateWithOwner(ctx context.Context, tenant *models.Tenant, owner *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	Update(ctx context.Context, tenant *models.Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

const (
	tenantColumns = `id, name, slug, subscription_plan, subscription_status, created_at, updated_at`

	insertTenantQuery = `
		INSERT INTO tenants (id, name, slug, subscription_plan, subscription_status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, NOW(), NOW())
		RETURNING created_at, updated_at
	`
)

type tenantRepo struct {
	db DBTX
}

func NewTenantRepository(db DBTX) TenantRepository {
	return &tenantRepo{db: db}
}

func scanTenant(row pgx.Row, t *models.Tenant) error {
	return row.Scan(&t.ID, &t.Name, &t.Slug, &t.SubscriptionPlan, &t.SubscriptionStatus, &t.CreatedAt, &t.UpdatedAt)
}

func insertTenant(ctx context.Context, db DBTX, tenant *models.Tenant) error {
	err := db.QueryRow(ctx, insertTenantQuery, tenant.ID, tenant.Name, tenant.Slug, tenant.SubscriptionPlan, tenant.SubscriptionStatus).
		Scan(&tenant.CreatedAt, &tenant.UpdatedAt)
	return translateError(err)
}

// CreateWithOwner inserts the tenant and its first user atomically.
func (r *tenantRepo) CreateWithOwner(ctx context.Context, tenant *models.Tenant, owner *models.User) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := insertTenant(ctx, tx, tenant); err != nil {
			return err
		}
		return insertUser(ctx, tx, owner)
	})
}

func (r *tenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = $1`
	if err := scanTenant(r.db.QueryRow(ctx, query, id), tenant); err != nil {
		return nil, translateError(err)
	}
	return tenant, nil
}

func (r *tenantRepo) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	tenant := &models.Tenant{}
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE slug = $1`
	if err := scanTenant(r.db.QueryRow(ctx, query, slug), tenant); err != nil {
		return nil, translateError(err)
	}
	return tenant, nil
}

func (r *tenantRepo) Update(ctx context.Context, tenant *models.Tenant) error {
	query := `
		UPDATE tenants
		SET name = $1, slug = $2, subscription_plan = $3, subscription_status = $4, updated_at = NOW()
		WHERE id = $5
	`
	tag, err := r.db.Exec(ctx, query, tenant.Name, tenant.Slug, tenant.SubscriptionPlan, tenant.SubscriptionStatus, tenant.ID)
	return expectAffected(tag, err)
}

func (r *tenantRepo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return expectAffected(tag, err)
}

// ListIDs returns every tenant id, used by background jobs to fan out.
func (r *tenantRepo) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := r.db.Query(ctx, `SELECT id FROM tenants ORDER BY created_at`)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
