package database

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"testing/fstest"

	"github.com/jackc/pgx/v5"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadMigrations_SortedAndFiltered(t *testing.T) {
	fsys := fstest.MapFS{
		"m/002_tasks.sql":  {Data: []byte("CREATE TABLE tasks (id INT);")},
		"m/001_init.sql":   {Data: []byte("CREATE TABLE init (id INT);")},
		"m/README.md":      {Data: []byte("ignored")},
		"m/003_extra.sql":  {Data: []byte("SELECT 1;")},
	}

	migrations, err := loadMigrations(fsys, "m")
	require.NoError(t, err)
	require.Len(t, migrations, 3)
	assert.Equal(t, "001_init.sql", migrations[0].Version)
	assert.Equal(t, "002_tasks.sql", migrations[1].Version)
	assert.Equal(t, "003_extra.sql", migrations[2].Version)
	assert.Len(t, migrations[0].Checksum, 64)
}

func TestLoadMigrations_EmbeddedSchema(t *testing.T) {
	migrations, err := LoadMigrations()
	require.NoError(t, err)
	require.NotEmpty(t, migrations)
	assert.Equal(t, "001_init.sql", migrations[0].Version)
	for _, table := range []string{"tenants", "users", "venues", "clients", "performers", "events", "bookings", "event_tasks"} {
		assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS "+table+" (")
	}
	assert.Contains(t, migrations[0].SQL, "CONSTRAINT tenants_slug_key UNIQUE (slug)")
	assert.Contains(t, migrations[0].SQL, "CONSTRAINT users_email_key UNIQUE (email)")
}

func TestRunMigrations_AppliesPending(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	m := Migration{Version: "001_init.sql", Checksum: "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", SQL: "CREATE TABLE demo (id INT)"}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT checksum FROM schema_migrations")).
		WithArgs(m.Version).
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE demo")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO schema_migrations")).
		WithArgs(m.Version, m.Checksum).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	err = runMigrations(context.Background(), mock, []Migration{m}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_SkipsApplied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	m := Migration{Version: "001_init.sql", Checksum: "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", SQL: "CREATE TABLE demo (id INT)"}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT checksum FROM schema_migrations")).
		WithArgs(m.Version).
		WillReturnRows(pgxmock.NewRows([]string{"checksum"}).AddRow(m.Checksum))

	err = runMigrations(context.Background(), mock, []Migration{m}, zap.NewNop())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_ChecksumMismatch(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	m := Migration{Version: "001_init.sql", Checksum: "cccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc", SQL: "CREATE TABLE demo (id INT)"}

	mock.ExpectExec(regexp.QuoteMeta("CREATE TABLE IF NOT EXISTS schema_migrations")).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT checksum FROM schema_migrations")).
		WithArgs(m.Version).
		WillReturnRows(pgxmock.NewRows([]string{"checksum"}).AddRow("something-else"))

	err = runMigrations(context.Background(), mock, []Migration{m}, zap.NewNop())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrChecksumMismatch))
}
