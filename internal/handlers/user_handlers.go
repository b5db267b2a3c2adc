package handlers

import (
	"net/http"

	"stagebook/internal/services"

	"github.com/labstack/echo/v4"
)

// UserHandlers manages the tenant's user accounts
type UserHandlers struct {
	userService services.UserService
}

func NewUserHandlers(userService services.UserService) *UserHandlers {
	return &UserHandlers{userService: userService}
}

// ListUsers godoc
// @Summary List users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} listResponse
// @Router /v1/users [get]
func (h *UserHandlers) ListUsers(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	users, err := h.userService.List(c.Request().Context(), tid, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: users, Limit: limit, Offset: offset})
}

// CreateUser godoc
// @Summary Create a user
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.CreateUserRequest true "User"
// @Success 201 {object} models.User
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/users [post]
func (h *UserHandlers) CreateUser(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	var req services.CreateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.TenantID = tid

	user, err := h.userService.Create(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *UserHandlers) GetUser(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.userService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser godoc
// @Summary Update a user's profile or role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body services.UpdateUserRequest true "User"
// @Success 200 {object} models.User
// @Failure 403 {object} common.ErrorResponse
// @Router /v1/users/{id} [put]
func (h *UserHandlers) UpdateUser(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req services.UpdateUserRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.TenantID = tid
	req.ID = id

	user, err := h.userService.Update(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

func (h *UserHandlers) DeleteUser(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.userService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
