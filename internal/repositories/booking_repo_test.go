package repositories

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"stagebook/internal/common"

	"github.com/google/uuid"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type BookingRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     BookingRepository
	tenantID uuid.UUID
	context  context.Context
}

func (suite *BookingRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock
	suite.repo = NewBookingRepository(mock)
	suite.tenantID = uuid.New()
	suite.context = context.Background()
}

func (suite *BookingRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestBookingRepoTestSuite(t *testing.T) {
	suite.Run(t, new(BookingRepoTestSuite))
}

func bookingRowColumns() []string {
	return []string{"id", "tenant_id", "event_id", "performer_id", "status", "call_time", "setup_start",
		"performance_start", "performance_end", "load_out", "agreed_rate", "deposit", "paid_amount",
		"contract_signed", "contract_url", "notes", "created_at", "updated_at"}
}

func (suite *BookingRepoTestSuite) TestGetByID_PreservesDecimals() {
	id, eventID, performerID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	rate := decimal.RequireFromString("1234.56")
	deposit := decimal.RequireFromString("0.10")
	paid := decimal.RequireFromString("617.28")
	start := "20:00"

	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE tenant_id = $1 AND id = $2")).
		WithArgs(suite.tenantID, id).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns()).
			AddRow(id, suite.tenantID, eventID, performerID, "confirmed", nil, nil, &start, nil, nil,
				rate, &deposit, paid, false, nil, nil, now, now))

	booking, err := suite.repo.GetByID(suite.context, suite.tenantID, id)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "1234.56", booking.AgreedRate.StringFixed(2))
	assert.Equal(suite.T(), "0.10", booking.Deposit.StringFixed(2))
	assert.True(suite.T(), booking.Balance().Equal(decimal.RequireFromString("617.28")))
	assert.Equal(suite.T(), "20:00", *booking.PerformanceStart)
	assert.Nil(suite.T(), booking.SetupStart)
}

func (suite *BookingRepoTestSuite) TestRecordPayment_ReconcilesEventInSameTx() {
	id, eventID, performerID := uuid.New(), uuid.New(), uuid.New()
	now := time.Now()
	amount := decimal.RequireFromString("250.00")

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("SET paid_amount = paid_amount + $1")).
		WithArgs(amount, suite.tenantID, id).
		WillReturnRows(pgxmock.NewRows(bookingRowColumns()).
			AddRow(id, suite.tenantID, eventID, performerID, "confirmed", nil, nil, nil, nil, nil,
				decimal.RequireFromString("1000.00"), nil, decimal.RequireFromString("250.00"), false, nil, nil, now, now))
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE events e")).
		WithArgs(suite.tenantID, eventID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	booking, err := suite.repo.RecordPayment(suite.context, suite.tenantID, id, amount)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), eventID, booking.EventID)
	assert.Equal(suite.T(), "250.00", booking.PaidAmount.StringFixed(2))
}

func (suite *BookingRepoTestSuite) TestRecordPayment_OverpaymentRejected() {
	id := uuid.New()
	amount := decimal.RequireFromString("5000.00")

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("SET paid_amount = paid_amount + $1")).
		WithArgs(amount, suite.tenantID, id).
		WillReturnError(&pgconn.PgError{Code: "23514", ConstraintName: "bookings_check"})
	suite.mock.ExpectRollback()

	booking, err := suite.repo.RecordPayment(suite.context, suite.tenantID, id, amount)
	assert.Nil(suite.T(), booking)
	assert.True(suite.T(), errors.Is(err, common.ErrInvalidInput))
}

func (suite *BookingRepoTestSuite) TestDelete_ReconcilesEvent() {
	id, eventID := uuid.New(), uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM bookings WHERE tenant_id = $1 AND id = $2 RETURNING event_id")).
		WithArgs(suite.tenantID, id).
		WillReturnRows(pgxmock.NewRows([]string{"event_id"}).AddRow(eventID))
	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE events e")).
		WithArgs(suite.tenantID, eventID).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	suite.mock.ExpectCommit()

	assert.NoError(suite.T(), suite.repo.Delete(suite.context, suite.tenantID, id))
}

func (suite *BookingRepoTestSuite) TestDelete_Missing() {
	id := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM bookings")).
		WithArgs(suite.tenantID, id).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	err := suite.repo.Delete(suite.context, suite.tenantID, id)
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *BookingRepoTestSuite) TestSetContractURL_ClearsSignature() {
	id := uuid.New()
	key := "contracts/" + id.String() + ".pdf"

	suite.mock.ExpectExec(regexp.QuoteMeta("SET contract_url = $1, contract_signed = FALSE")).
		WithArgs(key, suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	assert.NoError(suite.T(), suite.repo.SetContractURL(suite.context, suite.tenantID, id, key))
}

func (suite *BookingRepoTestSuite) TestSetContractURL_Missing() {
	id := uuid.New()

	suite.mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET contract_url")).
		WithArgs("contracts/x.pdf", suite.tenantID, id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	err := suite.repo.SetContractURL(suite.context, suite.tenantID, id, "contracts/x.pdf")
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *BookingRepoTestSuite) TestWithPerformerLock_CheckAndInsertShareTransaction() {
	b := newTestBooking(suite.tenantID)
	from := time.Date(2026, 6, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 6, 14, 0, 0, 0, 0, time.UTC)
	now := time.Now()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT id FROM performers WHERE tenant_id = $1 AND id = $2 FOR UPDATE")).
		WithArgs(suite.tenantID, b.PerformerID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(b.PerformerID))
	suite.mock.ExpectQuery(regexp.QuoteMeta("JOIN events e ON e.id = b.event_id")).
		WithArgs(suite.tenantID, b.PerformerID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"id", "event_id", "status", "date", "start_time", "end_time",
			"setup_start", "performance_start", "performance_end", "load_out"}))
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(b.ID, b.TenantID, b.EventID, b.PerformerID, b.Status, b.CallTime, b.SetupStart,
			b.PerformanceStart, b.PerformanceEnd, b.LoadOut, b.AgreedRate, b.Deposit, b.PaidAmount, b.ContractSigned,
			b.ContractURL, b.Notes).
		WillReturnRows(pgxmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))
	suite.mock.ExpectCommit()

	err := suite.repo.WithPerformerLock(suite.context, suite.tenantID, b.PerformerID, func(repo BookingRepository) error {
		schedule, err := repo.ListPerformerSchedule(suite.context, suite.tenantID, b.PerformerID, from, to)
		if err != nil {
			return err
		}
		suite.Empty(schedule)
		return repo.Create(suite.context, b)
	})
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), now, b.CreatedAt)
}

func (suite *BookingRepoTestSuite) TestWithPerformerLock_RollsBackOnConflict() {
	performerID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(suite.tenantID, performerID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(performerID))
	suite.mock.ExpectRollback()

	err := suite.repo.WithPerformerLock(suite.context, suite.tenantID, performerID, func(BookingRepository) error {
		return common.ErrScheduleConflict
	})
	assert.True(suite.T(), errors.Is(err, common.ErrScheduleConflict))
}

func (suite *BookingRepoTestSuite) TestWithPerformerLock_MissingPerformer() {
	performerID := uuid.New()

	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("FOR UPDATE")).
		WithArgs(suite.tenantID, performerID).
		WillReturnError(pgx.ErrNoRows)
	suite.mock.ExpectRollback()

	err := suite.repo.WithPerformerLock(suite.context, suite.tenantID, performerID, func(BookingRepository) error {
		suite.Fail("callback must not run without the lock")
		return nil
	})
	assert.True(suite.T(), errors.Is(err, common.ErrNotFound))
}

func (suite *BookingRepoTestSuite) TestListPerformerSchedule() {
	performerID := uuid.New()
	from := time.Date(2025, 6, 13, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	bookingID, eventID := uuid.New(), uuid.New()
	setup := "21:30"

	suite.mock.ExpectQuery(regexp.QuoteMeta("JOIN events e ON e.id = b.event_id")).
		WithArgs(suite.tenantID, performerID, from, to).
		WillReturnRows(pgxmock.NewRows([]string{"id", "event_id", "status", "date", "start_time", "end_time",
			"setup_start", "performance_start", "performance_end", "load_out"}).
			AddRow(bookingID, eventID, "confirmed", time.Date(2025, 6, 14, 0, 0, 0, 0, time.UTC), "22:00", "02:00",
				&setup, nil, nil, nil))

	schedule, err := suite.repo.ListPerformerSchedule(suite.context, suite.tenantID, performerID, from, to)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), schedule, 1)
	assert.Equal(suite.T(), bookingID, schedule[0].BookingID)
	assert.Equal(suite.T(), "02:00", schedule[0].EventEnd)
	assert.Equal(suite.T(), "21:30", *schedule[0].SetupStart)
}

func (suite *BookingRepoTestSuite) TestTotals() {
	suite.mock.ExpectQuery(regexp.QuoteMeta("FROM bookings")).
		WithArgs(suite.tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"committed", "paid", "outstanding"}).
			AddRow(decimal.RequireFromString("3000.50"), decimal.RequireFromString("1200.25"), decimal.RequireFromString("1900.25")))

	committed, paid, outstanding, err := suite.repo.Totals(suite.context, suite.tenantID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "3000.50", committed.StringFixed(2))
	assert.Equal(suite.T(), "1200.25", paid.StringFixed(2))
	assert.Equal(suite.T(), "1900.25", outstanding.StringFixed(2))
}

func (suite *BookingRepoTestSuite) TestCreate_CrossTenantEventRejected() {
	b := newTestBooking(suite.tenantID)

	// composite (event_id, tenant_id) foreign key
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO bookings")).
		WithArgs(b.ID, b.TenantID, b.EventID, b.PerformerID, b.Status, b.CallTime, b.SetupStart,
			b.PerformanceStart, b.PerformanceEnd, b.LoadOut, b.AgreedRate, b.Deposit, b.PaidAmount, b.ContractSigned,
			b.ContractURL, b.Notes).
		WillReturnError(&pgconn.PgError{Code: "23503", ConstraintName: "bookings_event_fkey"})

	err := suite.repo.Create(suite.context, b)
	assert.True(suite.T(), errors.Is(err, common.ErrReferenceViolation))
}
