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

type ClientService interface {
	Create(ctx context.Context, tenantID uuid.UUID, client *models.Client) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error)
	Update(ctx context.Context, tenantID uuid.UUID, client *models.Client) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Client, error)
	Search(ctx context.Context, tenantID uuid.UUID, filter *models.ClientFilter) ([]*models.Client, error)
}

type clientService struct {
	clientRepo repositories.ClientRepository
}

func NewClientService(clientRepo repositories.ClientRepository) ClientService {
	return &clientService{clientRepo: clientRepo}
}

func validateClient(client *models.Client) error {
	if err := requireText("name", client.Name); err != nil {
		return err
	}
	client.Email = normalizeEmail(client.Email)
	if err := requireText("email", client.Email); err != nil {
		return err
	}
	if client.ClientType == "" {
		client.ClientType = models.ClientIndividual
	}
	if err := oneOf("client_type", client.ClientType, models.ClientTypes); err != nil {
		return err
	}

	client.Name = strings.TrimSpace(client.Name)
	client.Phone = common.TrimOptional(client.Phone)
	client.Company = common.TrimOptional(client.Company)
	client.Address = common.TrimOptional(client.Address)
	client.City = common.TrimOptional(client.City)

	tags := make([]string, 0, len(client.Tags))
	for _, tag := range client.Tags {
		if tag = strings.ToLower(strings.TrimSpace(tag)); tag != "" {
			tags = append(tags, tag)
		}
	}
	client.Tags = tags
	return nil
}

func (s *clientService) Create(ctx context.Context, tenantID uuid.UUID, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	client.ID = uuid.New()
	client.TenantID = tenantID
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return fmt.Errorf("failed to create client: %w", err)
	}
	return nil
}

func (s *clientService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error) {
	return s.clientRepo.GetByID(ctx, tenantID, id)
}

func (s *clientService) Update(ctx context.Context, tenantID uuid.UUID, client *models.Client) error {
	if err := validateClient(client); err != nil {
		return err
	}
	client.TenantID = tenantID
	return s.clientRepo.Update(ctx, client)
}

func (s *clientService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.clientRepo.Delete(ctx, tenantID, id)
}

func (s *clientService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.clientRepo.List(ctx, tenantID, limit, offset)
}

func (s *clientService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ClientFilter) ([]*models.Client, error) {
	if filter.ClientType != nil {
		if err := oneOf("client_type", *filter.ClientType, models.ClientTypes); err != nil {
			return nil, err
		}
	}
	return s.clientRepo.Search(ctx, tenantID, filter)
}
