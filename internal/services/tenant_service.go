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
	"go.uber.org/zap"
)

const tenantCacheTTL = 10 * time.Minute

type TenantService interface {
	Register(ctx context.Context, req *RegisterRequest) (*models.Tenant, *models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	Update(ctx context.Context, req *UpdateTenantRequest) (*models.Tenant, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type tenantService struct {
	tenantRepo repositories.TenantRepository
	cache      caching.CacheService
	log        *zap.Logger
}

func NewTenantService(tenantRepo repositories.TenantRepository, cache caching.CacheService, log *zap.Logger) TenantService {
	return &tenantService{tenantRepo: tenantRepo, cache: cache, log: log.Named("tenants")}
}

// RegisterRequest creates a tenant together with its owner account
type RegisterRequest struct {
	TenantName string  `json:"tenant_name" validate:"required,max=255"`
	TenantSlug string  `json:"tenant_slug" validate:"omitempty,slug,max=100"`
	Plan       string  `json:"plan" validate:"omitempty,oneof=free starter professional enterprise"`
	Email      string  `json:"email" validate:"required,email,max=320"`
	Name       *string `json:"name" validate:"omitempty,max=255"`
	Password   string  `json:"password" validate:"required,min=8,max=72"`
}

type UpdateTenantRequest struct {
	ID                 uuid.UUID `json:"-"`
	Name               string    `json:"name" validate:"required,max=255"`
	Slug               string    `json:"slug" validate:"required,slug,max=100"`
	SubscriptionPlan   string    `json:"subscription_plan" validate:"required,oneof=free starter professional enterprise"`
	SubscriptionStatus string    `json:"subscription_status" validate:"required,oneof=trialing active past_due cancelled"`
}

func (s *tenantService) newTenant(name, slug, plan string) (*models.Tenant, error) {
	if err := requireText("name", name); err != nil {
		return nil, err
	}
	if slug == "" {
		slug = common.Slugify(name)
	}
	if !common.IsSlug(slug) {
		return nil, common.NewValidationError("slug", "must contain lowercase letters, digits and single hyphens")
	}
	if plan == "" {
		plan = models.PlanFree
	}
	if err := oneOf("plan", plan, models.SubscriptionPlans); err != nil {
		return nil, err
	}
	return &models.Tenant{
		ID:                 uuid.New(),
		Name:               strings.TrimSpace(name),
		Slug:               slug,
		SubscriptionPlan:   plan,
		SubscriptionStatus: models.SubscriptionTrialing,
	}, nil
}

func (s *tenantService) Register(ctx context.Context, req *RegisterRequest) (*models.Tenant, *models.User, error) {
	tenant, err := s.newTenant(req.TenantName, req.TenantSlug, req.Plan)
	if err != nil {
		return nil, nil, err
	}

	email := normalizeEmail(req.Email)
	if err := requireText("email", email); err != nil {
		return nil, nil, err
	}
	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, nil, err
	}

	owner := &models.User{
		ID:           uuid.New(),
		TenantID:     tenant.ID,
		Email:        email,
		Name:         common.TrimOptional(req.Name),
		PasswordHash: hash,
		Role:         models.RoleOwner,
	}

	if err := s.tenantRepo.CreateWithOwner(ctx, tenant, owner); err != nil {
		return nil, nil, fmt.Errorf("failed to register tenant: %w", err)
	}

	s.log.Info("tenant registered", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", tenant.Slug))
	return tenant, owner, nil
}

func (s *tenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	if cached, err := s.cache.GetTenant(ctx, id); err == nil && cached != nil {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	if slug == "" {
		return nil, common.NewValidationError("slug", "is required")
	}
	if cached, err := s.cache.GetTenantBySlug(ctx, slug); err == nil && cached != nil {
		return cached, nil
	}

	tenant, err := s.tenantRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.remember(ctx, tenant)
	return tenant, nil
}

func (s *tenantService) remember(ctx context.Context, tenant *models.Tenant) {
	if err := s.cache.SetTenant(ctx, tenant, tenantCacheTTL); err != nil {
		s.log.Warn("failed to cache tenant", zap.String("tenant_id", tenant.ID.String()), zap.Error(err))
	}
}

func (s *tenantService) Update(ctx context.Context, req *UpdateTenantRequest) (*models.Tenant, error) {
	existing, err := s.tenantRepo.GetByID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	if err := requireText("name", req.Name); err != nil {
		return nil, err
	}
	if !common.IsSlug(req.Slug) {
		return nil, common.NewValidationError("slug", "must contain lowercase letters, digits and single hyphens")
	}
	if err := oneOf("subscription_plan", req.SubscriptionPlan, models.SubscriptionPlans); err != nil {
		return nil, err
	}
	if err := oneOf("subscription_status", req.SubscriptionStatus, models.SubscriptionStatuses); err != nil {
		return nil, err
	}

	// old slug key must go before the slug changes
	if err := s.cache.DeleteTenant(ctx, existing); err != nil {
		s.log.Warn("failed to evict tenant cache", zap.Error(err))
	}

	existing.Name = strings.TrimSpace(req.Name)
	existing.Slug = req.Slug
	existing.SubscriptionPlan = req.SubscriptionPlan
	existing.SubscriptionStatus = req.SubscriptionStatus

	if err := s.tenantRepo.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to update tenant: %w", err)
	}
	return existing, nil
}

// Delete removes the tenant and, through cascading keys, everything it owns.
func (s *tenantService) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.tenantRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.tenantRepo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.cache.DeleteTenant(ctx, existing); err != nil {
		s.log.Warn("failed to evict tenant cache", zap.Error(err))
	}
	if err := s.cache.InvalidateTenantCache(ctx, id); err != nil {
		s.log.Warn("failed to invalidate tenant cache", zap.Error(err))
	}
	return nil
}
