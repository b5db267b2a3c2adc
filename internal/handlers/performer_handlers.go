package handlers

import (
	"encoding/json"
	"net/http"

	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// PerformerHandlers handles performer-related HTTP requests
type PerformerHandlers struct {
	performerService services.PerformerService
	bookingService   services.BookingService
}

func NewPerformerHandlers(performerService services.PerformerService, bookingService services.BookingService) *PerformerHandlers {
	return &PerformerHandlers{performerService: performerService, bookingService: bookingService}
}

// PerformerRequest is the create/update payload. Omitted timings take the
// defaults of 30, 60 and 30 minutes.
type PerformerRequest struct {
	Name            string           `json:"name" validate:"required,max=255"`
	StageName       *string          `json:"stage_name" validate:"omitempty,max=255"`
	Type            string           `json:"type"`
	Bio             *string          `json:"bio"`
	Specialties     []string         `json:"specialties"`
	SetupTime       *int             `json:"setup_time" validate:"omitempty,gte=0"`
	PerformanceTime *int             `json:"performance_time" validate:"omitempty,gte=0"`
	BreakdownTime   *int             `json:"breakdown_time" validate:"omitempty,gte=0"`
	Requirements    json.RawMessage  `json:"requirements" swaggertype:"object"`
	ContactEmail    *string          `json:"contact_email" validate:"omitempty,email"`
	ContactPhone    *string          `json:"contact_phone"`
	StandardRate    *decimal.Decimal `json:"standard_rate" swaggertype:"string"`
	Availability    json.RawMessage  `json:"availability" swaggertype:"object"`
	Rating          *decimal.Decimal `json:"rating" swaggertype:"string"`
}

func (r *PerformerRequest) toModel() *models.Performer {
	orDefault := func(v *int, def int) int {
		if v == nil {
			return def
		}
		return *v
	}
	return &models.Performer{
		Name:            r.Name,
		StageName:       r.StageName,
		Type:            r.Type,
		Bio:             r.Bio,
		Specialties:     r.Specialties,
		SetupTime:       orDefault(r.SetupTime, models.DefaultSetupTime),
		PerformanceTime: orDefault(r.PerformanceTime, models.DefaultPerformanceTime),
		BreakdownTime:   orDefault(r.BreakdownTime, models.DefaultBreakdownTime),
		Requirements:    r.Requirements,
		ContactEmail:    r.ContactEmail,
		ContactPhone:    r.ContactPhone,
		StandardRate:    r.StandardRate,
		Availability:    r.Availability,
		Rating:          r.Rating,
	}
}

// ListPerformers godoc
// @Summary List or search performers
// @Tags performers
// @Produce json
// @Security BearerAuth
// @Param query query string false "Matches name, stage name and bio"
// @Param type query string false "Performer type"
// @Param specialty query string false "Specialty"
// @Param min_rating query string false "Minimum rating"
// @Param max_rate query string false "Maximum standard rate"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} listResponse
// @Router /v1/performers [get]
func (h *PerformerHandlers) ListPerformers(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	minRating, err := queryDecimal(c, "min_rating")
	if err != nil {
		return err
	}
	maxRate, err := queryDecimal(c, "max_rate")
	if err != nil {
		return err
	}

	filter := &models.PerformerFilter{
		Query:     c.QueryParam("query"),
		Type:      queryString(c, "type"),
		Specialty: queryString(c, "specialty"),
		MinRating: minRating,
		MaxRate:   maxRate,
		Limit:     limit,
		Offset:    offset,
	}
	performers, err := h.performerService.Search(c.Request().Context(), tid, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: performers, Limit: limit, Offset: offset})
}

// CreatePerformer godoc
// @Summary Create a performer
// @Tags performers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body PerformerRequest true "Performer"
// @Success 201 {object} models.Performer
// @Router /v1/performers [post]
func (h *PerformerHandlers) CreatePerformer(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	var req PerformerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	performer := req.toModel()
	if err := h.performerService.Create(c.Request().Context(), tid, performer); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, performer)
}

func (h *PerformerHandlers) GetPerformer(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	performer, err := h.performerService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, performer)
}

func (h *PerformerHandlers) UpdatePerformer(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PerformerRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	performer := req.toModel()
	performer.ID = id
	if err := h.performerService.Update(c.Request().Context(), tid, performer); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, performer)
}

func (h *PerformerHandlers) DeletePerformer(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.performerService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListPerformerBookings godoc
// @Summary Bookings of a performer
// @Tags performers
// @Produce json
// @Security BearerAuth
// @Param id path string true "Performer ID"
// @Success 200 {object} listResponse
// @Router /v1/performers/{id}/bookings [get]
func (h *PerformerHandlers) ListPerformerBookings(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}
	bookings, err := h.bookingService.ListByPerformer(c.Request().Context(), tid, id, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: bookings, Limit: limit, Offset: offset})
}
