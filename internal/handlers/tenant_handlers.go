package handlers

import (
	"net/http"

	"stagebook/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// TenantHandlers exposes the caller's own tenant and the public slug lookup
type TenantHandlers struct {
	tenantService services.TenantService
}

func NewTenantHandlers(tenantService services.TenantService) *TenantHandlers {
	return &TenantHandlers{tenantService: tenantService}
}

// GetTenant godoc
// @Summary Current tenant
// @Tags tenant
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Tenant
// @Router /v1/tenant [get]
func (h *TenantHandlers) GetTenant(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	tenant, err := h.tenantService.GetByID(c.Request().Context(), tid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// UpdateTenant godoc
// @Summary Update the current tenant
// @Tags tenant
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body services.UpdateTenantRequest true "Tenant"
// @Success 200 {object} models.Tenant
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/tenant [put]
func (h *TenantHandlers) UpdateTenant(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	var req services.UpdateTenantRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	req.ID = tid

	tenant, err := h.tenantService.Update(c.Request().Context(), &req)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tenant)
}

// DeleteTenant godoc
// @Summary Delete the current tenant and all of its data
// @Tags tenant
// @Security BearerAuth
// @Success 204
// @Router /v1/tenant [delete]
func (h *TenantHandlers) DeleteTenant(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	if err := h.tenantService.Delete(c.Request().Context(), tid); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// TenantLookupResponse is the public view of a tenant, used by clients to resolve a workspace slug before login
type TenantLookupResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
	Slug string    `json:"slug"`
}

// LookupTenant godoc
// @Summary Resolve a tenant by slug
// @Tags tenant
// @Produce json
// @Param slug path string true "Tenant slug"
// @Success 200 {object} TenantLookupResponse
// @Failure 404 {object} common.ErrorResponse
// @Router /v1/tenants/{slug} [get]
func (h *TenantHandlers) LookupTenant(c echo.Context) error {
	tenant, err := h.tenantService.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, TenantLookupResponse{ID: tenant.ID, Name: tenant.Name, Slug: tenant.Slug})
}
