package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
)

type UserRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     UserRepository
	tenantID uuid.UUID
	context  context.Context
}

func (suite *UserRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	assert.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewUserRepository(mock)
	suite.tenantID = uuid.New()
	suite.context = context.Background()
}

func (suite *UserRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestUserRepoTestSuite(t *testing.T) {
	suite.Run(t, new(UserRepoTestSuite))
}

func userRow() []string {
	return []string{"id", "tenant_id", "email", "name", "password_hash", "role", "created_at", "updated_at"}
}

func (suite *UserRepoTestSuite) TestCreate_DuplicateEmail() {
	user := &models.User{ID: uuid.New(), TenantID: suite.tenantID, Email: "dup@acme.test", PasswordHash: "h", Role: models.RoleStaff}

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(user.ID, user.TenantID, user.Email, user.Name, user.PasswordHash, user.Role).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := suite.repo.Create(suite.context, user)
	assert.True(suite.T(), errors.Is(err, common.ErrConflict))
}

func (suite *UserRepoTestSuite) TestCreate_UnknownTenant() {
	user := &models.User{ID: uuid.New(), TenantID: uuid.New(), Email: "x@acme.test", PasswordHash: "h", Role: models.RoleStaff}

	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs(user.ID, user.TenantID, user.Email, user.Name, user.PasswordHash, user.Role).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "users_tenant_id_fkey"})

	err := suite.repo.Create(suite.context, user)
	assert.True(suite.T(), errors.Is(err, common.ErrReferenceViolation))
}

func (suite *UserRepoTestSuite) TestGetByEmail_Found() {
	id := uuid.New()
	now := time.Now()
	name := "Sam"

	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email = $1")).
		WithArgs("sam@acme.test").
		WillReturnRows(pgxmock.NewRows(userRow()).
			AddRow(id, suite.tenantID, "sam@acme.test", &name, "hash", models.RoleAdmin, now, now))

	user, err := suite.repo.GetByEmail(suite.context, "sam@acme.test")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), id, user.ID)
	assert.Equal(suite.T(), "Sam", *user.Name)
	assert.Equal(suite.T(), "hash", user.PasswordHash)
}

func (suite *UserRepoTestSuite) TestGetByID_OtherTenantIsNotFound() {
	id := uuid.New()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE tenant_id = $1 AND id = $2")).
		WithArgs(suite.tenantID, id).
		WillReturnError(pgx.ErrNoRows)

	user, err := suite.repo.GetByID(suite.context, suite.tenantID, id)
	assert.Nil(suite.T(), user)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *UserRepoTestSuite) TestCountByRole() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users WHERE tenant_id = $1 AND role = $2")).
		WithArgs(suite.tenantID, models.RoleOwner).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(2))

	count, err := suite.repo.CountByRole(suite.context, suite.tenantID, models.RoleOwner)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, count)
}

func (suite *UserRepoTestSuite) TestDelete_NotFound() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WithArgs(suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := suite.repo.Delete(suite.context, suite.tenantID, id)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *UserRepoTestSuite) TestDelete_StillReferencedByEvents() {
	id := uuid.New()
	suite.mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users")).
		WithArgs(suite.tenantID, id).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "events_created_by_fkey"})

	err := suite.repo.Delete(suite.context, suite.tenantID, id)
	assert.True(suite.T(), errors.Is(err, common.ErrReferenceViolation))
}
