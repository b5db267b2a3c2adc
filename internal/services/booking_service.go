package services

import (
	"context"
	"fmt"
	"time"

	"stagebook/internal/caching"
	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"
	"stagebook/internal/storage"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const contractLinkExpiry = 15 * time.Minute

var bookingTransitions = map[string][]string{
	models.BookingPending:   {models.BookingConfirmed, models.BookingCancelled},
	models.BookingConfirmed: {models.BookingCompleted, models.BookingCancelled},
}

func bookingIsClosed(status string) bool {
	return status == models.BookingCompleted || status == models.BookingCancelled
}

// ContractEnqueuer schedules asynchronous contract generation for a booking
type ContractEnqueuer interface {
	EnqueueContract(ctx context.Context, tenantID, bookingID uuid.UUID) error
}

type BookingService interface {
	Create(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	Update(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Booking, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.Booking, error)
	ListByPerformer(ctx context.Context, tenantID, performerID uuid.UUID, limit, offset int) ([]*models.Booking, error)
	RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*models.Booking, error)
	SignContract(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error)
	RequestContract(ctx context.Context, tenantID, id uuid.UUID) error
	ContractLink(ctx context.Context, tenantID, id uuid.UUID) (string, error)
}

type bookingService struct {
	bookingRepo   repositories.BookingRepository
	eventRepo     repositories.EventRepository
	performerRepo repositories.PerformerRepository
	cache         caching.CacheService
	store         storage.ObjectStorage
	enqueuer      ContractEnqueuer
	log           *zap.Logger
}

func NewBookingService(
	bookingRepo repositories.BookingRepository,
	eventRepo repositories.EventRepository,
	performerRepo repositories.PerformerRepository,
	cache caching.CacheService,
	store storage.ObjectStorage,
	enqueuer ContractEnqueuer,
	log *zap.Logger,
) BookingService {
	return &bookingService{
		bookingRepo:   bookingRepo,
		eventRepo:     eventRepo,
		performerRepo: performerRepo,
		cache:         cache,
		store:         store,
		enqueuer:      enqueuer,
		log:           log.Named("bookings"),
	}
}

func validateBookingTerms(booking *models.Booking) error {
	for field, marker := range map[string]*string{
		"call_time":         booking.CallTime,
		"setup_start":       booking.SetupStart,
		"performance_start": booking.PerformanceStart,
		"performance_end":   booking.PerformanceEnd,
		"load_out":          booking.LoadOut,
	} {
		if err := optionalClock(field, marker); err != nil {
			return err
		}
	}
	if err := nonNegativeMoney("agreed_rate", &booking.AgreedRate); err != nil {
		return err
	}
	if err := nonNegativeMoney("deposit", booking.Deposit); err != nil {
		return err
	}
	if booking.Deposit != nil && booking.Deposit.GreaterThan(booking.AgreedRate) {
		return common.NewValidationError("deposit", "cannot exceed the agreed rate")
	}
	if booking.PaidAmount.GreaterThan(booking.AgreedRate) {
		return common.NewValidationError("agreed_rate", "cannot be below the amount already paid")
	}
	booking.Notes = common.TrimOptional(booking.Notes)
	return nil
}

func (s *bookingService) Create(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) error {
	event, err := s.eventRepo.GetByID(ctx, tenantID, booking.EventID)
	if err != nil {
		return fmt.Errorf("event: %w", err)
	}
	if eventIsClosed(event.Status) {
		return fmt.Errorf("cannot book performers for a %s event: %w", event.Status, common.ErrInvalidTransition)
	}
	performer, err := s.performerRepo.GetByID(ctx, tenantID, booking.PerformerID)
	if err != nil {
		return fmt.Errorf("performer: %w", err)
	}

	booking.ID = uuid.New()
	booking.TenantID = tenantID
	booking.Status = models.BookingPending
	booking.PaidAmount = decimal.Zero
	booking.ContractSigned = false
	booking.ContractURL = nil

	if err := validateBookingTerms(booking); err != nil {
		return err
	}
	if err := deriveMarkers(event.StartTime, performer, booking); err != nil {
		return err
	}

	err = s.bookingRepo.WithPerformerLock(ctx, tenantID, booking.PerformerID, func(repo repositories.BookingRepository) error {
		if err := s.checkAvailability(ctx, repo, tenantID, event, booking); err != nil {
			return err
		}
		if err := repo.Create(ctx, booking); err != nil {
			return fmt.Errorf("failed to create booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.afterChange(ctx, tenantID, booking)
	return nil
}

// checkAvailability rejects the booking when its window overlaps another live booking of the performer.
// Callers run it under WithPerformerLock together with the write.
func (s *bookingService) checkAvailability(ctx context.Context, repo repositories.BookingRepository, tenantID uuid.UUID, event *models.Event, booking *models.Booking) error {
	window, err := bookingWindowFor(event, booking)
	if err != nil {
		return err
	}

	// a window can start up to a day before its event date and end up to two days after
	from := event.Date.AddDate(0, 0, -2)
	to := event.Date.AddDate(0, 0, 2)
	schedule, err := repo.ListPerformerSchedule(ctx, tenantID, booking.PerformerID, from, to)
	if err != nil {
		return fmt.Errorf("failed to load performer schedule: %w", err)
	}

	for _, other := range schedule {
		if other.BookingID == booking.ID {
			continue
		}
		otherWindow, err := scheduledWindow(other)
		if err != nil {
			s.log.Warn("skipping booking with unreadable schedule",
				zap.String("booking_id", other.BookingID.String()), zap.Error(err))
			continue
		}
		if window.overlaps(otherWindow) {
			return fmt.Errorf("overlaps booking %s on %s: %w",
				other.BookingID, other.EventDate.Format(time.DateOnly), common.ErrScheduleConflict)
		}
	}
	return nil
}

// afterChange refreshes everything derived from a booking row
func (s *bookingService) afterChange(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) {
	if err := s.performerRepo.RefreshTotalBookings(ctx, tenantID, booking.PerformerID); err != nil {
		s.log.Warn("failed to refresh performer booking count",
			zap.String("performer_id", booking.PerformerID.String()), zap.Error(err))
	}
	if err := s.cache.DeletePerformer(ctx, tenantID, booking.PerformerID); err != nil {
		s.log.Warn("failed to evict performer", zap.Error(err))
	}
	evictEvent(ctx, s.cache, s.log, tenantID, booking.EventID)
}

func (s *bookingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	return s.bookingRepo.GetByID(ctx, tenantID, id)
}

// Update rewrites schedule markers and money terms. Markers left empty are derived again.
func (s *bookingService) Update(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) error {
	existing, err := s.bookingRepo.GetByID(ctx, tenantID, booking.ID)
	if err != nil {
		return err
	}
	if bookingIsClosed(existing.Status) {
		return fmt.Errorf("booking is %s: %w", existing.Status, common.ErrInvalidTransition)
	}

	booking.TenantID = tenantID
	booking.EventID = existing.EventID
	booking.PerformerID = existing.PerformerID
	booking.Status = existing.Status
	booking.PaidAmount = existing.PaidAmount
	booking.ContractSigned = existing.ContractSigned
	booking.ContractURL = existing.ContractURL
	booking.CreatedAt = existing.CreatedAt

	if err := validateBookingTerms(booking); err != nil {
		return err
	}

	event, err := s.eventRepo.GetByID(ctx, tenantID, booking.EventID)
	if err != nil {
		return fmt.Errorf("event: %w", err)
	}
	performer, err := s.performerRepo.GetByID(ctx, tenantID, booking.PerformerID)
	if err != nil {
		return fmt.Errorf("performer: %w", err)
	}
	if err := deriveMarkers(event.StartTime, performer, booking); err != nil {
		return err
	}

	err = s.bookingRepo.WithPerformerLock(ctx, tenantID, booking.PerformerID, func(repo repositories.BookingRepository) error {
		if err := s.checkAvailability(ctx, repo, tenantID, event, booking); err != nil {
			return err
		}
		if err := repo.Update(ctx, booking); err != nil {
			return fmt.Errorf("failed to update booking: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	evictEvent(ctx, s.cache, s.log, tenantID, booking.EventID)
	return nil
}

func (s *bookingService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Booking, error) {
	if err := oneOf("status", status, models.BookingStatuses); err != nil {
		return nil, err
	}
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(bookingTransitions, booking.Status, status); err != nil {
		return nil, err
	}

	if err := s.bookingRepo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	s.log.Info("booking status changed",
		zap.String("booking_id", id.String()),
		zap.String("from", booking.Status),
		zap.String("to", status),
	)
	booking.Status = status
	s.afterChange(ctx, tenantID, booking)
	return booking, nil
}

func (s *bookingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := s.bookingRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	if booking.ContractURL != nil {
		if err := s.store.Delete(ctx, *booking.ContractURL); err != nil {
			s.log.Warn("failed to delete contract object", zap.String("object", *booking.ContractURL), zap.Error(err))
		}
	}
	s.afterChange(ctx, tenantID, booking)
	return nil
}

func (s *bookingService) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.Booking, error) {
	if _, err := s.eventRepo.GetByID(ctx, tenantID, eventID); err != nil {
		return nil, err
	}
	return s.bookingRepo.ListByEvent(ctx, tenantID, eventID)
}

func (s *bookingService) ListByPerformer(ctx context.Context, tenantID, performerID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	if _, err := s.performerRepo.GetByID(ctx, tenantID, performerID); err != nil {
		return nil, err
	}
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.bookingRepo.ListByPerformer(ctx, tenantID, performerID, limit, offset)
}

func (s *bookingService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*models.Booking, error) {
	if !amount.IsPositive() {
		return nil, common.NewValidationError("amount", "must be greater than zero")
	}
	if err := nonNegativeMoney("amount", &amount); err != nil {
		return nil, err
	}

	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, fmt.Errorf("cannot pay a cancelled booking: %w", common.ErrInvalidTransition)
	}
	if balance := booking.Balance(); amount.GreaterThan(balance) {
		return nil, common.NewValidationError("amount", fmt.Sprintf("exceeds the outstanding balance of %s", balance.StringFixed(2)))
	}

	updated, err := s.bookingRepo.RecordPayment(ctx, tenantID, id, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to record payment: %w", err)
	}
	s.log.Info("payment recorded",
		zap.String("booking_id", id.String()),
		zap.String("amount", amount.StringFixed(2)),
		zap.String("paid_total", updated.PaidAmount.StringFixed(2)),
	)
	evictEvent(ctx, s.cache, s.log, tenantID, updated.EventID)
	return updated, nil
}

func (s *bookingService) SignContract(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if booking.Status == models.BookingCancelled {
		return nil, fmt.Errorf("cannot sign a cancelled booking: %w", common.ErrInvalidTransition)
	}
	if booking.ContractURL == nil {
		return nil, fmt.Errorf("contract has not been generated yet: %w", common.ErrInvalidTransition)
	}
	if booking.ContractSigned {
		return booking, nil
	}
	if err := s.bookingRepo.MarkContractSigned(ctx, tenantID, id); err != nil {
		return nil, err
	}
	booking.ContractSigned = true
	return booking, nil
}

func (s *bookingService) RequestContract(ctx context.Context, tenantID, id uuid.UUID) error {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if booking.Status == models.BookingCancelled {
		return fmt.Errorf("cannot issue a contract for a cancelled booking: %w", common.ErrInvalidTransition)
	}
	if err := s.enqueuer.EnqueueContract(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to enqueue contract generation: %w", err)
	}
	return nil
}

func (s *bookingService) ContractLink(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	booking, err := s.bookingRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return "", err
	}
	if booking.ContractURL == nil {
		return "", fmt.Errorf("contract: %w", common.ErrNotFound)
	}
	return s.store.PresignedURL(ctx, *booking.ContractURL, contractLinkExpiry)
}
