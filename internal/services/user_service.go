package services

import (
	"context"
	"errors"
	"fmt"

	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	minPasswordLength = 8
	maxPasswordBytes  = 72
)

type UserService interface {
	Create(ctx context.Context, req *CreateUserRequest) (*models.User, error)
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error)
	Update(ctx context.Context, req *UpdateUserRequest) (*models.User, error)
	ChangePassword(ctx context.Context, tenantID, id uuid.UUID, currentPassword, newPassword string) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type userService struct {
	userRepo repositories.UserRepository
	log      *zap.Logger
}

func NewUserService(userRepo repositories.UserRepository, log *zap.Logger) UserService {
	return &userService{userRepo: userRepo, log: log.Named("users")}
}

type CreateUserRequest struct {
	TenantID uuid.UUID `json:"-"`
	Email    string    `json:"email" validate:"required,email,max=320"`
	Name     *string   `json:"name" validate:"omitempty,max=255"`
	Password string    `json:"password" validate:"required,min=8,max=72"`
	Role     string    `json:"role" validate:"omitempty,oneof=owner admin manager staff"`
}

type UpdateUserRequest struct {
	TenantID uuid.UUID `json:"-"`
	ID       uuid.UUID `json:"-"`
	Email    string    `json:"email" validate:"required,email,max=320"`
	Name     *string   `json:"name" validate:"omitempty,max=255"`
	Role     string    `json:"role" validate:"required,oneof=owner admin manager staff"`
}

func hashPassword(password string) (string, error) {
	if len(password) < minPasswordLength {
		return "", common.NewValidationError("password", fmt.Sprintf("must be at least %d characters", minPasswordLength))
	}
	// bcrypt only reads the first 72 bytes; multibyte characters reach that before 72 runes
	if len(password) > maxPasswordBytes {
		return "", common.NewValidationError("password", fmt.Sprintf("must be at most %d bytes", maxPasswordBytes))
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// requireOwnerActor guards any change that grants or removes the owner role
func requireOwnerActor(ctx context.Context) error {
	role, _ := common.GetRoleFromContext(ctx)
	if role != models.RoleOwner {
		return fmt.Errorf("only owners can manage owner accounts: %w", common.ErrForbidden)
	}
	return nil
}

func (s *userService) Create(ctx context.Context, req *CreateUserRequest) (*models.User, error) {
	email := normalizeEmail(req.Email)
	if err := requireText("email", email); err != nil {
		return nil, err
	}
	role := req.Role
	if role == "" {
		role = models.RoleStaff
	}
	if err := oneOf("role", role, models.UserRoles); err != nil {
		return nil, err
	}
	if role == models.RoleOwner {
		if err := requireOwnerActor(ctx); err != nil {
			return nil, err
		}
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		TenantID:     req.TenantID,
		Email:        email,
		Name:         common.TrimOptional(req.Name),
		PasswordHash: hash,
		Role:         role,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

func (s *userService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	return s.userRepo.GetByID(ctx, tenantID, id)
}

func (s *userService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	limit, offset = common.ValidatePaginationParams(limit, offset)
	return s.userRepo.List(ctx, tenantID, limit, offset)
}

func (s *userService) Update(ctx context.Context, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, req.TenantID, req.ID)
	if err != nil {
		return nil, err
	}

	email := normalizeEmail(req.Email)
	if err := requireText("email", email); err != nil {
		return nil, err
	}
	if err := oneOf("role", req.Role, models.UserRoles); err != nil {
		return nil, err
	}

	if req.Role != user.Role && (req.Role == models.RoleOwner || user.Role == models.RoleOwner) {
		if err := requireOwnerActor(ctx); err != nil {
			return nil, err
		}
		if user.Role == models.RoleOwner {
			if err := s.ensureAnotherOwner(ctx, req.TenantID); err != nil {
				return nil, err
			}
		}
	}

	user.Email = email
	user.Name = common.TrimOptional(req.Name)
	user.Role = req.Role
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

func (s *userService) ensureAnotherOwner(ctx context.Context, tenantID uuid.UUID) error {
	owners, err := s.userRepo.CountByRole(ctx, tenantID, models.RoleOwner)
	if err != nil {
		return fmt.Errorf("failed to count owners: %w", err)
	}
	if owners <= 1 {
		return fmt.Errorf("tenant must keep at least one owner: %w", common.ErrForbidden)
	}
	return nil
}

func (s *userService) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, currentPassword, newPassword string) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(currentPassword)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return common.NewValidationError("current_password", "is incorrect")
		}
		return fmt.Errorf("failed to verify password: %w", err)
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.userRepo.UpdatePassword(ctx, tenantID, id, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	s.log.Info("password changed", zap.String("user_id", id.String()))
	return nil
}

func (s *userService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	user, err := s.userRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if user.Role == models.RoleOwner {
		if err := requireOwnerActor(ctx); err != nil {
			return err
		}
		if err := s.ensureAnotherOwner(ctx, tenantID); err != nil {
			return err
		}
	}
	return s.userRepo.Delete(ctx, tenantID, id)
}
