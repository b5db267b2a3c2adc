package repositories

import (
	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func stringPtr(s string) *string {
	return &s
}

func newTestBooking(tenantID uuid.UUID) *models.Booking {
	return &models.Booking{
		ID:          uuid.New(),
		TenantID:    tenantID,
		EventID:     uuid.New(),
		PerformerID: uuid.New(),
		Status:      models.BookingPending,
		AgreedRate:  decimal.RequireFromString("800.00"),
		PaidAmount:  decimal.Zero,
	}
}
