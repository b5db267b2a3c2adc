package handlers

import (
	"net/http"

	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

// BookingHandlers handles performer bookings and their payments and contracts
type BookingHandlers struct {
	bookingService services.BookingService
}

func NewBookingHandlers(bookingService services.BookingService) *BookingHandlers {
	return &BookingHandlers{bookingService: bookingService}
}

// BookingRequest is the create/update payload. Omitted schedule markers are
// derived from the performer's timings and the event start.
type BookingRequest struct {
	PerformerID      *uuid.UUID       `json:"performer_id"`
	CallTime         *string          `json:"call_time" validate:"omitempty,clock"`
	SetupStart       *string          `json:"setup_start" validate:"omitempty,clock"`
	PerformanceStart *string          `json:"performance_start" validate:"omitempty,clock"`
	PerformanceEnd   *string          `json:"performance_end" validate:"omitempty,clock"`
	LoadOut          *string          `json:"load_out" validate:"omitempty,clock"`
	AgreedRate       *decimal.Decimal `json:"agreed_rate" validate:"required" swaggertype:"string"`
	Deposit          *decimal.Decimal `json:"deposit" swaggertype:"string"`
	Notes            *string          `json:"notes"`
}

// toModel builds the booking. performer_id is only read on create; updates keep
// the stored performer.
func (r *BookingRequest) toModel(withPerformer bool) (*models.Booking, error) {
	if r.AgreedRate == nil {
		return nil, common.NewValidationError("agreed_rate", "agreed_rate is required")
	}
	booking := &models.Booking{
		CallTime:         r.CallTime,
		SetupStart:       r.SetupStart,
		PerformanceStart: r.PerformanceStart,
		PerformanceEnd:   r.PerformanceEnd,
		LoadOut:          r.LoadOut,
		AgreedRate:       *r.AgreedRate,
		Deposit:          r.Deposit,
		Notes:            r.Notes,
	}
	if withPerformer {
		if r.PerformerID == nil || *r.PerformerID == uuid.Nil {
			return nil, common.NewValidationError("performer_id", "performer_id is required")
		}
		booking.PerformerID = *r.PerformerID
	}
	return booking, nil
}

type PaymentRequest struct {
	Amount decimal.Decimal `json:"amount" swaggertype:"string"`
}

type ContractLinkResponse struct {
	URL string `json:"url"`
}

// ListEventBookings godoc
// @Summary Bookings of an event
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} models.Booking
// @Router /v1/events/{id}/bookings [get]
func (h *BookingHandlers) ListEventBookings(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	bookings, err := h.bookingService.ListByEvent(c.Request().Context(), tid, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookings)
}

// CreateBooking godoc
// @Summary Book a performer for an event
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body BookingRequest true "Booking"
// @Success 201 {object} models.Booking
// @Failure 409 {object} common.ErrorResponse "Performer already booked"
// @Router /v1/events/{id}/bookings [post]
func (h *BookingHandlers) CreateBooking(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req BookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	booking, err := req.toModel(true)
	if err != nil {
		return err
	}
	booking.EventID = eventID

	if err := h.bookingService.Create(c.Request().Context(), tid, booking); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, booking)
}

func (h *BookingHandlers) GetBooking(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookingService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// UpdateBooking godoc
// @Summary Update booking terms and schedule
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body BookingRequest true "Booking (performer_id is ignored)"
// @Success 200 {object} models.Booking
// @Router /v1/bookings/{id} [put]
func (h *BookingHandlers) UpdateBooking(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req BookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	booking, err := req.toModel(false)
	if err != nil {
		return err
	}
	booking.ID = id

	if err := h.bookingService.Update(c.Request().Context(), tid, booking); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) UpdateBookingStatus(c echo.Context) error {
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
	booking, err := h.bookingService.UpdateStatus(c.Request().Context(), tid, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

func (h *BookingHandlers) DeleteBooking(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.bookingService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RecordPayment godoc
// @Summary Record a payment towards the agreed rate
// @Tags bookings
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Param request body PaymentRequest true "Amount"
// @Success 200 {object} models.Booking
// @Router /v1/bookings/{id}/payments [post]
func (h *BookingHandlers) RecordPayment(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req PaymentRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	booking, err := h.bookingService.RecordPayment(c.Request().Context(), tid, id, req.Amount)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}

// RequestContract godoc
// @Summary Queue contract PDF generation
// @Tags bookings
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 202
// @Router /v1/bookings/{id}/contract [post]
func (h *BookingHandlers) RequestContract(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.bookingService.RequestContract(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.JSON(http.StatusAccepted, map[string]string{"status": "queued"})
}

// GetContract godoc
// @Summary Short-lived download link for the contract PDF
// @Tags bookings
// @Produce json
// @Security BearerAuth
// @Param id path string true "Booking ID"
// @Success 200 {object} ContractLinkResponse
// @Failure 404 {object} common.ErrorResponse "No contract generated yet"
// @Router /v1/bookings/{id}/contract [get]
func (h *BookingHandlers) GetContract(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	url, err := h.bookingService.ContractLink(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, ContractLinkResponse{URL: url})
}

func (h *BookingHandlers) SignContract(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	booking, err := h.bookingService.SignContract(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, booking)
}
