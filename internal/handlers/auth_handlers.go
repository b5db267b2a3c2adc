package handlers

import (
	"net/http"

	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// AuthHandlers handles registration, login and token lifecycle
type AuthHandlers struct {
	authService   services.AuthService
	tenantService services.TenantService
	userService   services.UserService
	log           *zap.Logger
}

func NewAuthHandlers(authService services.AuthService, tenantService services.TenantService, userService services.UserService, log *zap.Logger) *AuthHandlers {
	return &AuthHandlers{
		authService:   authService,
		tenantService: tenantService,
		userService:   userService,
		log:           log.Named("auth"),
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RegisterResponse is returned after creating a tenant and its owner
type RegisterResponse struct {
	Tenant *models.Tenant        `json:"tenant"`
	User   *models.User          `json:"user"`
	Tokens *models.TokenResponse `json:"tokens"`
}

type MeResponse struct {
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant"`
}

// Register godoc
// @Summary Register a tenant with its owner account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body services.RegisterRequest true "Tenant and owner"
// @Success 201 {object} RegisterResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/auth/register [post]
func (h *AuthHandlers) Register(c echo.Context) error {
	var req services.RegisterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	ctx := c.Request().Context()
	tenant, owner, err := h.tenantService.Register(ctx, &req)
	if err != nil {
		return err
	}
	tokens, err := h.authService.IssueTokens(ctx, owner)
	if err != nil {
		return err
	}

	h.log.Info("tenant registered", zap.String("tenant_id", tenant.ID.String()), zap.String("slug", tenant.Slug))
	return c.JSON(http.StatusCreated, RegisterResponse{Tenant: tenant, User: owner, Tokens: tokens})
}

// Login godoc
// @Summary Exchange credentials for tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /v1/auth/login [post]
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

// Refresh godoc
// @Summary Rotate a refresh token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshRequest true "Refresh token"
// @Success 200 {object} models.TokenResponse
// @Failure 401 {object} common.ErrorResponse
// @Router /v1/auth/refresh [post]
func (h *AuthHandlers) Refresh(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	tokens, err := h.authService.Refresh(c.Request().Context(), req.RefreshToken)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokens)
}

// Logout godoc
// @Summary Revoke a refresh token
// @Tags auth
// @Accept json
// @Param request body RefreshRequest true "Refresh token"
// @Success 204
// @Router /v1/auth/logout [post]
func (h *AuthHandlers) Logout(c echo.Context) error {
	var req RefreshRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.authService.Logout(c.Request().Context(), req.RefreshToken); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Me godoc
// @Summary Current user and tenant
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Router /v1/me [get]
func (h *AuthHandlers) Me(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	uid, err := userID(c)
	if err != nil {
		return err
	}

	ctx := c.Request().Context()
	user, err := h.userService.GetByID(ctx, tid, uid)
	if err != nil {
		return err
	}
	tenant, err := h.tenantService.GetByID(ctx, tid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MeResponse{User: user, Tenant: tenant})
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ChangePassword godoc
// @Summary Change the current user's password
// @Tags auth
// @Accept json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Passwords"
// @Success 204
// @Router /v1/me/password [put]
func (h *AuthHandlers) ChangePassword(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req ChangePasswordRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	if err := h.userService.ChangePassword(c.Request().Context(), tid, uid, req.CurrentPassword, req.NewPassword); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
