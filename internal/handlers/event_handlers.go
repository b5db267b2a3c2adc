package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// EventHandlers handles event-related HTTP requests
type EventHandlers struct {
	eventService services.EventService
}

func NewEventHandlers(eventService services.EventService) *EventHandlers {
	return &EventHandlers{eventService: eventService}
}

// EventRequest is the create/update payload; date is "YYYY-MM-DD", times are "HH:MM"
type EventRequest struct {
	Name        string           `json:"name" validate:"required,max=255"`
	Type        string           `json:"type"`
	Date        string           `json:"date" validate:"required"`
	StartTime   string           `json:"start_time" validate:"required,clock"`
	EndTime     string           `json:"end_time" validate:"required,clock"`
	GuestCount  *int             `json:"guest_count" validate:"omitempty,gte=0"`
	Description *string          `json:"description"`
	Notes       *string          `json:"notes"`
	VenueID     *uuid.UUID       `json:"venue_id"`
	VenueCustom *string          `json:"venue_custom"`
	ClientID    *uuid.UUID       `json:"client_id"`
	TotalBudget *decimal.Decimal `json:"total_budget" swaggertype:"string"`
	Timeline    json.RawMessage  `json:"timeline" swaggertype:"array,object"`
}

func (r *EventRequest) toModel() (*models.Event, error) {
	date, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return nil, common.NewValidationError("date", "must be a date in YYYY-MM-DD format")
	}
	return &models.Event{
		Name:        r.Name,
		Type:        r.Type,
		Date:        date,
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		GuestCount:  r.GuestCount,
		Description: r.Description,
		Notes:       r.Notes,
		VenueID:     r.VenueID,
		VenueCustom: r.VenueCustom,
		ClientID:    r.ClientID,
		TotalBudget: r.TotalBudget,
		Timeline:    r.Timeline,
	}, nil
}

type StatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// ListEvents godoc
// @Summary List or search events
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param query query string false "Matches name and description"
// @Param status query string false "Status"
// @Param type query string false "Event type"
// @Param venue_id query string false "Venue ID"
// @Param client_id query string false "Client ID"
// @Param date_from query string false "YYYY-MM-DD"
// @Param date_to query string false "YYYY-MM-DD"
// @Param limit query int false "Page size (max 100)"
// @Param offset query int false "Offset"
// @Success 200 {object} listResponse
// @Router /v1/events [get]
func (h *EventHandlers) ListEvents(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	limit, offset, err := pagination(c)
	if err != nil {
		return err
	}

	filter := &models.EventFilter{
		Query:  c.QueryParam("query"),
		Status: queryString(c, "status"),
		Type:   queryString(c, "type"),
		Limit:  limit,
		Offset: offset,
	}
	if filter.VenueID, err = queryUUID(c, "venue_id"); err != nil {
		return err
	}
	if filter.ClientID, err = queryUUID(c, "client_id"); err != nil {
		return err
	}
	if filter.DateFrom, err = queryDate(c, "date_from"); err != nil {
		return err
	}
	if filter.DateTo, err = queryDate(c, "date_to"); err != nil {
		return err
	}

	events, err := h.eventService.Search(c.Request().Context(), tid, filter)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Items: events, Limit: limit, Offset: offset})
}

// CreateEvent godoc
// @Summary Create an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} common.ErrorResponse
// @Router /v1/events [post]
func (h *EventHandlers) CreateEvent(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	uid, err := userID(c)
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := req.toModel()
	if err != nil {
		return err
	}
	if err := h.eventService.Create(c.Request().Context(), tid, uid, event); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, event)
}

func (h *EventHandlers) GetEvent(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	event, err := h.eventService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

// UpdateEvent godoc
// @Summary Update an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body EventRequest true "Event"
// @Success 200 {object} models.Event
// @Failure 422 {object} common.ErrorResponse "Event is completed or cancelled"
// @Router /v1/events/{id} [put]
func (h *EventHandlers) UpdateEvent(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req EventRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := req.toModel()
	if err != nil {
		return err
	}
	event.ID = id

	ctx := c.Request().Context()
	if err := h.eventService.Update(ctx, tid, event); err != nil {
		return err
	}
	updated, err := h.eventService.GetByID(ctx, tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, updated)
}

// UpdateEventStatus godoc
// @Summary Move an event through its lifecycle
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body StatusRequest true "Target status"
// @Success 200 {object} models.Event
// @Failure 422 {object} common.ErrorResponse
// @Router /v1/events/{id}/status [patch]
func (h *EventHandlers) UpdateEventStatus(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req StatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	event, err := h.eventService.UpdateStatus(c.Request().Context(), tid, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, event)
}

func (h *EventHandlers) DeleteEvent(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.eventService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GetEventBudget godoc
// @Summary Budget summary of an event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} models.BudgetSummary
// @Router /v1/events/{id}/budget [get]
func (h *EventHandlers) GetEventBudget(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	summary, err := h.eventService.BudgetSummary(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
