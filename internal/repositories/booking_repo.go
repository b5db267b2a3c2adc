package repositories

import (
	"context"
	"time"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, booking *models.Booking) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.Booking, error)
	ListByPerformer(ctx context.Context, tenantID, performerID uuid.UUID, limit, offset int) ([]*models.Booking, error)
	ListPerformerSchedule(ctx context.Context, tenantID, performerID uuid.UUID, from, to time.Time) ([]*models.ScheduledBooking, error)
	RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*models.Booking, error)
	SetContractURL(ctx context.Context, tenantID, id uuid.UUID, url string) error
	MarkContractSigned(ctx context.Context, tenantID, id uuid.UUID) error
	CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error)
	Totals(ctx context.Context, tenantID uuid.UUID) (committed, paid, outstanding decimal.Decimal, err error)
	WithPerformerLock(ctx context.Context, tenantID, performerID uuid.UUID, fn func(repo BookingRepository) error) error
}

const bookingColumns = `id, tenant_id, event_id, performer_id, status, call_time, setup_start, performance_start,
	performance_end, load_out, agreed_rate, deposit, paid_amount, contract_signed, contract_url, notes, created_at, updated_at`

type bookingRepo struct {
	db DBTX
}

func NewBookingRepository(db DBTX) BookingRepository {
	return &bookingRepo{db: db}
}

// WithPerformerLock runs fn in a transaction holding the performer row lock, so
// concurrent schedule checks for the same performer are serialized. The
// repository handed to fn works inside that transaction.
func (r *bookingRepo) WithPerformerLock(ctx context.Context, tenantID, performerID uuid.UUID, fn func(repo BookingRepository) error) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var locked uuid.UUID
		err := tx.QueryRow(ctx, `SELECT id FROM performers WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
			tenantID, performerID).Scan(&locked)
		if err != nil {
			return translateError(err)
		}
		return fn(&bookingRepo{db: tx})
	})
}

func scanBooking(row pgx.Row, b *models.Booking) error {
	return row.Scan(&b.ID, &b.TenantID, &b.EventID, &b.PerformerID, &b.Status, &b.CallTime, &b.SetupStart,
		&b.PerformanceStart, &b.PerformanceEnd, &b.LoadOut, &b.AgreedRate, &b.Deposit, &b.PaidAmount,
		&b.ContractSigned, &b.ContractURL, &b.Notes, &b.CreatedAt, &b.UpdatedAt)
}

func (r *bookingRepo) Create(ctx context.Context, b *models.Booking) error {
	query := `
		INSERT INTO bookings (id, tenant_id, event_id, performer_id, status, call_time, setup_start, performance_start,
			performance_end, load_out, agreed_rate, deposit, paid_amount, contract_signed, contract_url, notes,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, NOW(), NOW())
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query, b.ID, b.TenantID, b.EventID, b.PerformerID, b.Status, b.CallTime, b.SetupStart,
		b.PerformanceStart, b.PerformanceEnd, b.LoadOut, b.AgreedRate, b.Deposit, b.PaidAmount, b.ContractSigned,
		b.ContractURL, b.Notes).Scan(&b.CreatedAt, &b.UpdatedAt)
	return translateError(err)
}

func (r *bookingRepo) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	booking := &models.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE tenant_id = $1 AND id = $2`
	if err := scanBooking(r.db.QueryRow(ctx, query, tenantID, id), booking); err != nil {
		return nil, translateError(err)
	}
	return booking, nil
}

// Update writes schedule, money terms and notes. Status, payments and contract fields have their own paths.
func (r *bookingRepo) Update(ctx context.Context, b *models.Booking) error {
	query := `
		UPDATE bookings
		SET call_time = $1, setup_start = $2, performance_start = $3, performance_end = $4, load_out = $5,
			agreed_rate = $6, deposit = $7, notes = $8, updated_at = NOW()
		WHERE tenant_id = $9 AND id = $10
		RETURNING updated_at
	`
	err := r.db.QueryRow(ctx, query, b.CallTime, b.SetupStart, b.PerformanceStart, b.PerformanceEnd, b.LoadOut,
		b.AgreedRate, b.Deposit, b.Notes, b.TenantID, b.ID).Scan(&b.UpdatedAt)
	return translateError(err)
}

func (r *bookingRepo) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	query := `UPDATE bookings SET status = $1, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, status, tenantID, id)
	return expectAffected(tag, err)
}

// Delete removes the booking and re-derives the event's spent amount in the same transaction.
func (r *bookingRepo) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return inTx(ctx, r.db, func(tx pgx.Tx) error {
		var eventID uuid.UUID
		err := tx.QueryRow(ctx, `DELETE FROM bookings WHERE tenant_id = $1 AND id = $2 RETURNING event_id`, tenantID, id).
			Scan(&eventID)
		if err != nil {
			return translateError(err)
		}
		return reconcileSpent(ctx, tx, tenantID, eventID)
	})
}

func (r *bookingRepo) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND event_id = $2
		ORDER BY performance_start NULLS LAST, created_at
	`
	return r.list(ctx, query, tenantID, eventID)
}

func (r *bookingRepo) ListByPerformer(ctx context.Context, tenantID, performerID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE tenant_id = $1 AND performer_id = $2
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`
	return r.list(ctx, query, tenantID, performerID, limit, offset)
}

func (r *bookingRepo) list(ctx context.Context, query string, args ...any) ([]*models.Booking, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var bookings []*models.Booking
	for rows.Next() {
		booking := &models.Booking{}
		if err := scanBooking(rows, booking); err != nil {
			return nil, err
		}
		bookings = append(bookings, booking)
	}
	return bookings, rows.Err()
}

// ListPerformerSchedule returns the performer's non-cancelled bookings on events dated within [from, to].
func (r *bookingRepo) ListPerformerSchedule(ctx context.Context, tenantID, performerID uuid.UUID, from, to time.Time) ([]*models.ScheduledBooking, error) {
	query := `
		SELECT b.id, b.event_id, b.status, e.date, e.start_time, e.end_time,
			b.setup_start, b.performance_start, b.performance_end, b.load_out
		FROM bookings b
		JOIN events e ON e.id = b.event_id AND e.tenant_id = b.tenant_id
		WHERE b.tenant_id = $1 AND b.performer_id = $2 AND b.status <> 'cancelled'
			AND e.status <> 'cancelled' AND e.date >= $3 AND e.date <= $4
		ORDER BY e.date, e.start_time
	`
	rows, err := r.db.Query(ctx, query, tenantID, performerID, from, to)
	if err != nil {
		return nil, translateError(err)
	}
	defer rows.Close()

	var schedule []*models.ScheduledBooking
	for rows.Next() {
		s := &models.ScheduledBooking{}
		if err := rows.Scan(&s.BookingID, &s.EventID, &s.Status, &s.EventDate, &s.EventStart, &s.EventEnd,
			&s.SetupStart, &s.PerformanceStart, &s.PerformanceEnd, &s.LoadOut); err != nil {
			return nil, err
		}
		schedule = append(schedule, s)
	}
	return schedule, rows.Err()
}

// RecordPayment adds amount to the paid total and reconciles the event's spent amount atomically.
// Overpayment is rejected by the paid_amount <= agreed_rate check constraint.
func (r *bookingRepo) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*models.Booking, error) {
	booking := &models.Booking{}
	err := inTx(ctx, r.db, func(tx pgx.Tx) error {
		query := `
			UPDATE bookings
			SET paid_amount = paid_amount + $1, updated_at = NOW()
			WHERE tenant_id = $2 AND id = $3
			RETURNING ` + bookingColumns
		if err := scanBooking(tx.QueryRow(ctx, query, amount, tenantID, id), booking); err != nil {
			return translateError(err)
		}
		return reconcileSpent(ctx, tx, tenantID, booking.EventID)
	})
	if err != nil {
		return nil, err
	}
	return booking, nil
}

// SetContractURL points the booking at a freshly generated contract. The new
// document has not been signed, so the signed flag is cleared.
func (r *bookingRepo) SetContractURL(ctx context.Context, tenantID, id uuid.UUID, url string) error {
	query := `UPDATE bookings SET contract_url = $1, contract_signed = FALSE, updated_at = NOW() WHERE tenant_id = $2 AND id = $3`
	tag, err := r.db.Exec(ctx, query, url, tenantID, id)
	return expectAffected(tag, err)
}

func (r *bookingRepo) MarkContractSigned(ctx context.Context, tenantID, id uuid.UUID) error {
	query := `UPDATE bookings SET contract_signed = TRUE, updated_at = NOW() WHERE tenant_id = $1 AND id = $2`
	tag, err := r.db.Exec(ctx, query, tenantID, id)
	return expectAffected(tag, err)
}

func (r *bookingRepo) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM bookings WHERE tenant_id = $1 GROUP BY status`, tenantID)
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

// Totals sums money across the tenant. Paid includes cancelled bookings; committed and outstanding do not.
func (r *bookingRepo) Totals(ctx context.Context, tenantID uuid.UUID) (committed, paid, outstanding decimal.Decimal, err error) {
	query := `
		SELECT COALESCE(SUM(agreed_rate) FILTER (WHERE status <> 'cancelled'), 0),
			COALESCE(SUM(paid_amount), 0),
			COALESCE(SUM(agreed_rate - paid_amount) FILTER (WHERE status <> 'cancelled'), 0)
		FROM bookings
		WHERE tenant_id = $1
	`
	if err = r.db.QueryRow(ctx, query, tenantID).Scan(&committed, &paid, &outstanding); err != nil {
		return decimal.Zero, decimal.Zero, decimal.Zero, translateError(err)
	}
	return committed, paid, outstanding, nil
}
