package services

import (
	"context"
	"fmt"
	"strings"

	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"

	"github.com/google/uuid"
)

type VenueService interface {
	Create(ctx context.Context, tenantID uuid.UUID, venue *models.Venue) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Venue, error)
	Update(ctx context.Context, tenantID uuid.UUID, venue *models.Venue) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Venue, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.VenueFilter) ([]*models.Venue, error)
}

type venueService struct {
	venueRepo repositories.VenueRepository
}

func NewVenueService(venueRepo repositories.VenueRepository) VenueService {
	return &venueService{venueRepo: venueRepo}
}

func validateVenue(venue *models.Venue) error {
	if err := requireText("name", venue.Name); err != nil {
		return err
	}
	if venue.Type == "" {
		venue.Type = models.VenueOther
	}
	if err := oneOf("type", venue.Type, models.VenueTypes); err != nil {
		return err
	}
	if err := nonNegativeInt("capacity", venue.Capacity); err != nil {
		return err
	}
	if err := optionalClock("setup_access_time", venue.SetupAccessTime); err != nil {
		return err
	}
	if err := optionalClock("curfew", venue.Curfew); err != nil {
		return err
	}

	venue.Name = strings.TrimSpace(venue.Name)
	venue.Address = common.TrimOptional(venue.Address)
	venue.City = common.TrimOptional(venue.City)
	venue.ContactName = common.TrimOptional(venue.ContactName)
	venue.ContactPhone = common.TrimOptional(venue.ContactPhone)
	venue.ContactEmail = common.TrimOptional(venue.ContactEmail)
	venue.Restrictions = emptyIfNil(venue.Restrictions)
	return nil
}

func (s *venueService) Create(ctx context.Context, tenantID uuid.UUID, venue *models.Venue) error {
	if err := validateVenue(venue); err != nil {
		return err
	}
	venue.ID = uuid.New()
	venue.TenantID = tenantID
	if err := s.venueRepo.Create(ctx, venue); err != nil {
		return fmt.Errorf("failed to create venue: %w", err)
	}
	return nil
}

func (s *venueService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Venue, error) {
	return s.venueRepo.GetByID(ctx, tenantID, id)
}

func (s *venueService) Update(ctx context.Context, tenantID uuid.UUID, venue *models.Venue) error {
	if err := validateVenue(venue); err != nil {
		return err
	}
	venue.TenantID = tenantID
	return s.venueRepo.Update(ctx, venue)
}

func (s *venueService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.venueRepo.Delete(ctx, tenantID, id)
}

func (s *venueService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Venue, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.venueRepo.List(ctx, tenantID, limit, offset)
}

func (s *venueService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.VenueFilter) ([]*models.Venue, error) {
	if filter.Type != nil {
		if err := oneOf("type", *filter.Type, models.VenueTypes); err != nil {
			return nil, err
		}
	}
	if err := nonNegativeInt("min_capacity", filter.MinCapacity); err != nil {
		return nil, err
	}
	return s.venueRepo.Search(ctx, tenantID, filter)
}
