package repositories

import (
	"context"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	CountByRole(ctx context.Context, tenantID uuid.UUID, role string) (int, error)
}

const (
	userColumns = `id, tenant_id, email, name, password_hash, role, created_at, updated_at`

	insertUserQuery = `
		INSERT INTO users (id, tenant_id, email, name, password_hash, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING created_at, updated_at
	`
)

type userRepo struct {
	db DBTX
}

func NewUserRepository(db DBTX) UserRepository {
	return &userRepo{db: db}
}

func scanUser(row pgx.Row, u *models.User) error {
	return row.Scan(&u.ID, &u.TenantID, &u.Email, &u.Name, &u.PasswordHash, &u.Role, &u.CreatedAt, &u.UpdatedAt)
}

func insertUser(ctx context.Context, db DBTX, user *models.User) error {
	err := db.QueryRow(ctx, insertUserQuery, user.ID, user.TenantID, user.Email, user.Name, user.PasswordHash, user.Role).
		Scan(&user.CreatedAt, &user.UpdatedAt)
	return translateError(err)
}

func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	return insertUser(ctx, r.db, user)
}

func (r *userRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE tenant_id = $1 AND id = $2`
	if err := scanUser(r.db.QueryRow(ctx, query, tenantID, id), user); err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

// GetByEmail looks up a user across tenants; emails are globally unique.
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user := &models.User{}
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := scanUser(r.db.QueryRow(ctx, query, email), user); err != nil {
		return nil, translateError(err)
	}
	return user, nil
}

func (r *userRepo) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET email = $1, name = $2, role = $3, updated_at = NOW()
		WHERE tenant_id = $4 AND id = $5
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, user.Email, user.Name, user.Role, user.TenantID, user.ID).Scan(&user.UpdatedAt)
	return translateError(err)
}

func (r *userRepo) UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, passwordHash, tenantID, id)
	return expectAffected(tag, err)
}

func (r *userRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return expectAffected(tag, err)
}

func (r *userRepo) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	query := `
		SELECT ` + userColumns + `
		FROM users
		WHERE tenant_id = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, tenantID, limit, offset)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := scanUser(rows, user); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

func (r *userRepo) CountByRole(ctx context.Context, tenantID uuid.UUID, role string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND role = $2`
	if err := r.db.QueryRow(ctx, query, tenantID, role).Scan(&count); err != nil {
		return 0, translateError(err)
	}
	return count, nil
}
