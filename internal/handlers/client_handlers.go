package handlers

import (
	"net/http"

	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/labstack/echo/v4"
)

// ClientHandlers handles client-related HTTP requests
type ClientHandlers struct {
	clientService services.ClientService
}

func NewClientHandlers(clientService services.ClientService) *ClientHandlers {
	return &ClientHandlers{clientService: clientService}
}

// ListClients godoc
// @Summary List or search clients
// @Tags clients
// @Produce json
// @Security BearerAuth
// @Param query query string false "Matches name, email and company"
// @Param client_type query string false "individual, corporate or agency"
// @Param tag query string false "Tag"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} listResponse
// @Router /v1/clients [get]
func (h *ClientHandlers) ListClients(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	filter := &models.ClientFilter{
		Query:      c.QueryParam("query"),
		ClientType: queryString(c, "client_type"),
		Tag:        queryString(c, "tag"),
		Limit:      limit,
		Offset:     offset,
	}
	clients, err := h.clientService.Search(c.Request().Context(), tid, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: clients, Limit: limit, Offset: offset})
}

// CreateClient godoc
// @Summary Create a client
// @Tags clients
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Client true "Client"
// @Success 201 {object} models.Client
// @Failure 409 {object} common.ErrorResponse
// @Router /v1/clients [post]
func (h *ClientHandlers) CreateClient(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	var client models.Client
	if err := bindAndValidate(c, &client); err != nil {
		return err
	}
	if err := h.clientService.Create(c.Request().Context(), tid, &client); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, client)
}

func (h *ClientHandlers) GetClient(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.clientService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) UpdateClient(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var client models.Client
	if err := bindAndValidate(c, &client); err != nil {
		return err
	}
	client.ID = id
	if err := h.clientService.Update(c.Request().Context(), tid, &client); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, client)
}

func (h *ClientHandlers) DeleteClient(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.clientService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
