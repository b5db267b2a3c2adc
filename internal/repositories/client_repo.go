package repositories

import (
	"context"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ClientRepository interface {
	Create(ctx context.Context, client *models.Client) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, client *models.Client) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Client, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ClientFilter) ([]*models.Client, error)
}

const clientColumns = `id, tenant_id, name, email, phone, company, address, city, client_type, tags, notes, created_at, updated_at`

type clientRepo struct {
	db DBTX
}

func NewClientRepository(db DBTX) ClientRepository {
	return &clientRepo{db: db}
}

func scanClient(row pgx.Row, c *models.Client) error {
	return row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.Address, &c.City, &c.ClientType,
		&c.Tags, &c.Notes, &c.CreatedAt, &c.UpdatedAt)
}

func (r *clientRepo) Create(ctx context.Context, client *models.Client) error {
	query := `
		INSERT INTO clients (id, tenant_id, name, email, phone, company, address, city, client_type, tags, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, client.ID, client.TenantID, client.Name, client.Email, client.Phone, client.Company,
		client.Address, client.City, client.ClientType, client.Tags, client.Notes).
		Scan(&client.CreatedAt, &client.UpdatedAt)
	return translateError(err)
}

func (r *clientRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error) {
	client := &models.Client{}
	query := `SELECT ` + clientColumns + ` FROM clients WHERE tenant_id = $1 AND id = $2`
	if err := scanClient(r.db.QueryRow(ctx, query, tenantID, id), client); err != nil {
		return nil, translateError(err)
	}
	return client, nil
}

func (r *clientRepo) Update(ctx context.Context, client *models.Client) error {
	query := `
		UPDATE clients
		SET name = $1, email = $2, phone = $3, company = $4, address = $5, city = $6, client_type = $7, tags = $8,
			notes = $9, updated_at = NOW()
		WHERE tenant_id = $10 AND id = $11
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, client.Name, client.Email, client.Phone, client.Company, client.Address, client.City,
		client.ClientType, client.Tags, client.Notes, client.TenantID, client.ID).Scan(&client.UpdatedAt)
	return translateError(err)
}

func (r *clientRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return expectAffected(tag, err)
}

func (r *clientRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	return r.Search(ctx, tenantID, &models.ClientFilter{Limit: limit, Offset: offset})
}

func (r *clientRepo) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ClientFilter) ([]*models.Client, error) {
	b := newSearchBuilder(`SELECT `+clientColumns+` FROM clients WHERE tenant_id = $1`, tenantID)

	if filter.Query != "" {
		p := b.next(likePattern(filter.Query))
		b.query += ` AND (name ILIKE ` + p + ` OR email ILIKE ` + p + ` OR COALESCE(company, '') ILIKE ` + p + `)`
	}
	if filter.ClientType != nil {
		b.where(`client_type = %s`, *filter.ClientType)
	}
	if filter.Tag != nil {
		b.where(`%s = ANY(tags)`, *filter.Tag)
	}

	query, args := b.page(`name, id`, filter.Limit, filter.Offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var clients []*models.Client
	for rows.Next() {
		client := &models.Client{}
		if err := scanClient(rows, client); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}
