package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stagebook/internal/caching"
	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const eventCacheTTL = 5 * time.Minute

var eventTransitions = map[string][]string{
	models.EventStatusPlanning:   {models.EventStatusConfirmed, models.EventStatusCancelled},
	models.EventStatusConfirmed:  {models.EventStatusPlanning, models.EventStatusInProgress, models.EventStatusCancelled},
	models.EventStatusInProgress: {models.EventStatusCompleted, models.EventStatusCancelled},
}

// eventIsClosed reports whether an event has reached a terminal status
func eventIsClosed(status string) bool {
	return status == models.EventStatusCompleted || status == models.EventStatusCancelled
}

type EventService interface {
	Create(ctx context.Context, tenantID, createdByID uuid.UUID, event *models.Event) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error)
	Update(ctx context.Context, tenantID uuid.UUID, event *models.Event) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Event, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.EventFilter) ([]*models.Event, error)
	BudgetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.BudgetSummary, error)
}

type eventService struct {
	eventRepo  repositories.EventRepository
	venueRepo  repositories.VenueRepository
	clientRepo repositories.ClientRepository
	userRepo   repositories.UserRepository
	cache      caching.CacheService
	log        *zap.Logger
}

func NewEventService(
	eventRepo repositories.EventRepository,
	venueRepo repositories.VenueRepository,
	clientRepo repositories.ClientRepository,
	userRepo repositories.UserRepository,
	cache caching.CacheService,
	log *zap.Logger,
) EventService {
	return &eventService{
		eventRepo:  eventRepo,
		venueRepo:  venueRepo,
		clientRepo: clientRepo,
		userRepo:   userRepo,
		cache:      cache,
		log:        log.Named("events"),
	}
}

func validateEvent(event *models.Event) error {
	if err := requireText("name", event.Name); err != nil {
		return err
	}
	if event.Type == "" {
		event.Type = models.EventOther
	}
	if err := oneOf("type", event.Type, models.EventTypes); err != nil {
		return err
	}
	if event.Date.IsZero() {
		return common.NewValidationError("date", "is required")
	}
	if !common.IsClock(event.StartTime) {
		return common.NewValidationError("start_time", "must be a time in HH:MM format")
	}
	if !common.IsClock(event.EndTime) {
		return common.NewValidationError("end_time", "must be a time in HH:MM format")
	}
	if err := nonNegativeInt("guest_count", event.GuestCount); err != nil {
		return err
	}
	if err := nonNegativeMoney("total_budget", event.TotalBudget); err != nil {
		return err
	}

	event.VenueCustom = common.TrimOptional(event.VenueCustom)
	if event.VenueID != nil && event.VenueCustom != nil {
		return common.NewValidationError("venue_custom", "cannot be combined with venue_id")
	}

	var err error
	if event.Timeline, err = jsonShape("timeline", event.Timeline, '['); err != nil {
		return err
	}

	event.Name = strings.TrimSpace(event.Name)
	event.Date = time.Date(event.Date.Year(), event.Date.Month(), event.Date.Day(), 0, 0, 0, 0, time.UTC)
	return nil
}

// checkReferences loads the venue and client through tenant-scoped lookups,
// so ids from another tenant surface as not found.
func (s *eventService) checkReferences(ctx context.Context, tenantID uuid.UUID, event *models.Event) error {
	if event.VenueID != nil {
		venue, err := s.venueRepo.GetByID(ctx, tenantID, *event.VenueID)
		if err != nil {
			return fmt.Errorf("venue: %w", err)
		}
		if venue.Capacity != nil && event.GuestCount != nil && *event.GuestCount > *venue.Capacity {
			return common.NewValidationError("guest_count", fmt.Sprintf("exceeds venue capacity of %d", *venue.Capacity))
		}
	}
	if event.ClientID != nil {
		if _, err := s.clientRepo.GetByID(ctx, tenantID, *event.ClientID); err != nil {
			return fmt.Errorf("client: %w", err)
		}
	}
	return nil
}

func (s *eventService) Create(ctx context.Context, tenantID, createdByID uuid.UUID, event *models.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}
	if _, err := s.userRepo.GetByID(ctx, tenantID, createdByID); err != nil {
		return fmt.Errorf("creator: %w", err)
	}
	if err := s.checkReferences(ctx, tenantID, event); err != nil {
		return err
	}

	spent := decimal.Zero
	event.ID = uuid.New()
	event.TenantID = tenantID
	event.CreatedByID = createdByID
	event.Status = models.EventStatusPlanning
	event.SpentAmount = &spent

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return fmt.Errorf("failed to create event: %w", err)
	}
	invalidateAnalytics(ctx, s.cache, s.log, tenantID)
	return nil
}

func (s *eventService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error) {
	if cached, err := s.cache.GetEvent(ctx, tenantID, id); err == nil && cached != nil {
		return cached, nil
	}

	event, err := s.eventRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetEvent(ctx, event, eventCacheTTL); err != nil {
		s.log.Warn("failed to cache event", zap.String("event_id", id.String()), zap.Error(err))
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, tenantID uuid.UUID, event *models.Event) error {
	existing, err := s.eventRepo.GetByID(ctx, tenantID, event.ID)
	if err != nil {
		return err
	}
	if eventIsClosed(existing.Status) {
		return fmt.Errorf("event is %s: %w", existing.Status, common.ErrInvalidTransition)
	}
	if err := validateEvent(event); err != nil {
		return err
	}
	if err := s.checkReferences(ctx, tenantID, event); err != nil {
		return err
	}

	event.TenantID = tenantID
	event.CreatedByID = existing.CreatedByID
	event.CreatedAt = existing.CreatedAt
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	evictEvent(ctx, s.cache, s.log, tenantID, event.ID)
	return nil
}

func (s *eventService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Event, error) {
	if err := oneOf("status", status, models.EventStatuses); err != nil {
		return nil, err
	}
	event, err := s.eventRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := checkTransition(eventTransitions, event.Status, status); err != nil {
		return nil, err
	}

	if err := s.eventRepo.UpdateStatus(ctx, tenantID, id, status); err != nil {
		return nil, err
	}
	s.log.Info("event status changed",
		zap.String("event_id", id.String()),
		zap.String("from", event.Status),
		zap.String("to", status),
	)
	event.Status = status
	evictEvent(ctx, s.cache, s.log, tenantID, id)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.eventRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	evictEvent(ctx, s.cache, s.log, tenantID, id)
	return nil
}

func (s *eventService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.EventFilter) ([]*models.Event, error) {
	if filter.Status != nil {
		if err := oneOf("status", *filter.Status, models.EventStatuses); err != nil {
			return nil, err
		}
	}
	if filter.Type != nil {
		if err := oneOf("type", *filter.Type, models.EventTypes); err != nil {
			return nil, err
		}
	}
	if filter.DateFrom != nil && filter.DateTo != nil && filter.DateTo.Before(*filter.DateFrom) {
		return nil, common.NewValidationError("date_to", "must not be before date_from")
	}
	return s.eventRepo.Search(ctx, tenantID, filter)
}

func (s *eventService) BudgetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.BudgetSummary, error) {
	summary, err := s.eventRepo.BudgetSummary(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if summary.TotalBudget != nil {
		remaining := summary.TotalBudget.Sub(summary.Committed)
		summary.Remaining = &remaining
		summary.OverBudget = summary.Committed.GreaterThan(*summary.TotalBudget)
	}
	return summary, nil
}

func checkTransition(table map[string][]string, from, to string) error {
	for _, allowed := range table[from] {
		if allowed == to {
			return nil
		}
	}
	return fmt.Errorf("cannot move from %s to %s: %w", from, to, common.ErrInvalidTransition)
}

func evictEvent(ctx context.Context, cache caching.CacheService, log *zap.Logger, tenantID, eventID uuid.UUID) {
	if err := cache.DeleteEvent(ctx, tenantID, eventID); err != nil {
		log.Warn("failed to evict event", zap.String("event_id", eventID.String()), zap.Error(err))
	}
	invalidateAnalytics(ctx, cache, log, tenantID)
}

func invalidateAnalytics(ctx context.Context, cache caching.CacheService, log *zap.Logger, tenantID uuid.UUID) {
	if err := cache.DeleteTenantAnalytics(ctx, tenantID); err != nil {
		log.Warn("failed to invalidate dashboard", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}
