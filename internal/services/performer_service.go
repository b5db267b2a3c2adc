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

const performerCacheTTL = 15 * time.Minute

var maxRating = decimal.NewFromInt(5)

type PerformerService interface {
	Create(ctx context.Context, tenantID uuid.UUID, performer *models.Performer) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Performer, error)
	Update(ctx context.Context, tenantID uuid.UUID, performer *models.Performer) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Performer, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.PerformerFilter) ([]*models.Performer, error)
}

type performerService struct {
	performerRepo repositories.PerformerRepository
	cache         caching.CacheService
	log           *zap.Logger
}

func NewPerformerService(performerRepo repositories.PerformerRepository, cache caching.CacheService, log *zap.Logger) PerformerService {
	return &performerService{performerRepo: performerRepo, cache: cache, log: log.Named("performers")}
}

func validatePerformer(performer *models.Performer) error {
	if err := requireText("name", performer.Name); err != nil {
		return err
	}
	if err := oneOf("type", performer.Type, models.PerformerTypes); err != nil {
		return err
	}
	for field, minutes := range map[string]int{
		"setup_time":       performer.SetupTime,
		"performance_time": performer.PerformanceTime,
		"breakdown_time":   performer.BreakdownTime,
	} {
		if err := nonNegativeInt(field, &minutes); err != nil {
			return err
		}
	}
	if err := nonNegativeMoney("standard_rate", performer.StandardRate); err != nil {
		return err
	}
	if err := nonNegativeMoney("rating", performer.Rating); err != nil {
		return err
	}
	if performer.Rating != nil && performer.Rating.GreaterThan(maxRating) {
		return common.NewValidationError("rating", "must be between 0 and 5")
	}

	var err error
	if performer.Requirements, err = jsonShape("requirements", performer.Requirements, '{'); err != nil {
		return err
	}
	if performer.Availability, err = jsonShape("availability", performer.Availability, '{'); err != nil {
		return err
	}

	performer.Name = strings.TrimSpace(performer.Name)
	performer.StageName = common.TrimOptional(performer.StageName)
	performer.ContactEmail = common.TrimOptional(performer.ContactEmail)
	performer.ContactPhone = common.TrimOptional(performer.ContactPhone)
	performer.Specialties = emptyIfNil(performer.Specialties)
	return nil
}

func (s *performerService) Create(ctx context.Context, tenantID uuid.UUID, performer *models.Performer) error {
	if err := validatePerformer(performer); err != nil {
		return err
	}
	performer.ID = uuid.New()
	performer.TenantID = tenantID
	performer.TotalBookings = 0
	if err := s.performerRepo.Create(ctx, performer); err != nil {
		return fmt.Errorf("failed to create performer: %w", err)
	}
	return nil
}

func (s *performerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Performer, error) {
	if cached, err := s.cache.GetPerformer(ctx, tenantID, id); err == nil && cached != nil {
		return cached, nil
	}

	performer, err := s.performerRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetPerformer(ctx, performer, performerCacheTTL); err != nil {
		s.log.Warn("failed to cache performer", zap.String("performer_id", id.String()), zap.Error(err))
	}
	return performer, nil
}

func (s *performerService) Update(ctx context.Context, tenantID uuid.UUID, performer *models.Performer) error {
	if err := validatePerformer(performer); err != nil {
		return err
	}
	performer.TenantID = tenantID
	if err := s.performerRepo.Update(ctx, performer); err != nil {
		return err
	}
	s.evict(ctx, tenantID, performer.ID)
	return nil
}

func (s *performerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if err := s.performerRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.evict(ctx, tenantID, id)
	return nil
}

func (s *performerService) evict(ctx context.Context, tenantID, id uuid.UUID) {
	if err := s.cache.DeletePerformer(ctx, tenantID, id); err != nil {
		s.log.Warn("failed to evict performer", zap.String("performer_id", id.String()), zap.Error(err))
	}
}

func (s *performerService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Performer, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.performerRepo.List(ctx, tenantID, limit, offset)
}

func (s *performerService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.PerformerFilter) ([]*models.Performer, error) {
	if filter.Type != nil {
		if err := oneOf("type", *filter.Type, models.PerformerTypes); err != nil {
			return nil, err
		}
	}
	return s.performerRepo.Search(ctx, tenantID, filter)
}
