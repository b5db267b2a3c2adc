package handlers

import (
	"net/http"

	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/labstack/echo/v4"
)

// VenueHandlers handles venue-related HTTP requests
type VenueHandlers struct {
	venueService services.VenueService
}

func NewVenueHandlers(venueService services.VenueService) *VenueHandlers {
	return &VenueHandlers{venueService: venueService}
}

// ListVenues godoc
// @Summary List or search venues
// @Tags venues
// @Produce json
// @Security BearerAuth
// @Param query query string false "Matches name, city and address"
// @Param type query string false "Venue type"
// @Param city query string false "City"
// @Param min_capacity query int false "Minimum capacity"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} listResponse
// @Router /v1/venues [get]
func (h *VenueHandlers) ListVenues(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	minCapacity, err := queryInt(c, "min_capacity")
	if err != nil {
		return err
	}

	filter := &models.VenueFilter{
		Query:       c.QueryParam("query"),
		Type:        queryString(c, "type"),
		City:        queryString(c, "city"),
		MinCapacity: minCapacity,
		Limit:       limit,
		Offset:      offset,
	}
	venues, err := h.venueService.Search(c.Request().Context(), tid, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: venues, Limit: limit, Offset: offset})
}

// CreateVenue godoc
// @Summary Create a venue
// @Tags venues
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body models.Venue true "Venue"
// @Success 201 {object} models.Venue
// @Router /v1/venues [post]
func (h *VenueHandlers) CreateVenue(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	var venue models.Venue
	if err := bindAndValidate(c, &venue); err != nil {
		return err
	}
	if err := h.venueService.Create(c.Request().Context(), tid, &venue); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, venue)
}

func (h *VenueHandlers) GetVenue(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	venue, err := h.venueService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, venue)
}

func (h *VenueHandlers) UpdateVenue(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var venue models.Venue
	if err := bindAndValidate(c, &venue); err != nil {
		return err
	}
	venue.ID = id
	if err := h.venueService.Update(c.Request().Context(), tid, &venue); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, venue)
}

func (h *VenueHandlers) DeleteVenue(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.venueService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
