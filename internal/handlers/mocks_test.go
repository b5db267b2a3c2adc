package handlers

import (
	"context"

	"stagebook/internal/jobs/background"
	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockEventService struct {
	mock.Mock
}

func (m *MockEventService) Create(ctx context.Context, tenantID, createdByID uuid.UUID, event *models.Event) error {
	return m.Called(ctx, tenantID, createdByID, event).Error(0)
}

func (m *MockEventService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Update(ctx context.Context, tenantID uuid.UUID, event *models.Event) error {
	return m.Called(ctx, tenantID, event).Error(0)
}

func (m *MockEventService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Event, error) {
	args := m.Called(ctx, tenantID, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockEventService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.EventFilter) ([]*models.Event, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventService) BudgetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.BudgetSummary, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetSummary), args.Error(1)
}

type MockPerformerService struct {
	mock.Mock
}

func (m *MockPerformerService) Create(ctx context.Context, tenantID uuid.UUID, performer *models.Performer) error {
	return m.Called(ctx, tenantID, performer).Error(0)
}

func (m *MockPerformerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Performer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Performer), args.Error(1)
}

func (m *MockPerformerService) Update(ctx context.Context, tenantID uuid.UUID, performer *models.Performer) error {
	return m.Called(ctx, tenantID, performer).Error(0)
}

func (m *MockPerformerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPerformerService) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Performer, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Performer), args.Error(1)
}

func (m *MockPerformerService) Search(ctx context.Context, tenantID uuid.UUID, filter *models.PerformerFilter) ([]*models.Performer, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Performer), args.Error(1)
}

type MockBookingService struct {
	mock.Mock
}

func (m *MockBookingService) booking(args mock.Arguments) (*models.Booking, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingService) Create(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) error {
	return m.Called(ctx, tenantID, booking).Error(0)
}

func (m *MockBookingService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	return m.booking(m.Called(ctx, tenantID, id))
}

func (m *MockBookingService) Update(ctx context.Context, tenantID uuid.UUID, booking *models.Booking) error {
	return m.Called(ctx, tenantID, booking).Error(0)
}

func (m *MockBookingService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.Booking, error) {
	return m.booking(m.Called(ctx, tenantID, id, status))
}

func (m *MockBookingService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockBookingService) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) ListByPerformer(ctx context.Context, tenantID, performerID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, performerID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingService) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*models.Booking, error) {
	return m.booking(m.Called(ctx, tenantID, id, amount))
}

func (m *MockBookingService) SignContract(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	return m.booking(m.Called(ctx, tenantID, id))
}

func (m *MockBookingService) RequestContract(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockBookingService) ContractLink(ctx context.Context, tenantID, id uuid.UUID) (string, error) {
	args := m.Called(ctx, tenantID, id)
	return args.String(0), args.Error(1)
}

type MockEventTaskService struct {
	mock.Mock
}

func (m *MockEventTaskService) task(args mock.Arguments) (*models.EventTask, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventTask), args.Error(1)
}

func (m *MockEventTaskService) Create(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error {
	return m.Called(ctx, tenantID, task).Error(0)
}

func (m *MockEventTaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.EventTask, error) {
	return m.task(m.Called(ctx, tenantID, id))
}

func (m *MockEventTaskService) Update(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error {
	return m.Called(ctx, tenantID, task).Error(0)
}

func (m *MockEventTaskService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.EventTask, error) {
	return m.task(m.Called(ctx, tenantID, id, status))
}

func (m *MockEventTaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockEventTaskService) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.EventTask, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.EventTask), args.Error(1)
}

func (m *MockEventTaskService) ListOverdue(ctx context.Context, tenantID uuid.UUID) ([]*models.OverdueTask, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.OverdueTask), args.Error(1)
}

type MockAnalytics struct {
	mock.Mock
}

func (m *MockAnalytics) Dashboard(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantDashboard), args.Error(1)
}

func (m *MockAnalytics) Refresh(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantDashboard), args.Error(1)
}

type MockTenantService struct {
	mock.Mock
}

func (m *MockTenantService) tenant(args mock.Arguments) (*models.Tenant, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantService) Register(ctx context.Context, req *services.RegisterRequest) (*models.Tenant, *models.User, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*models.Tenant), args.Get(1).(*models.User), args.Error(2)
}

func (m *MockTenantService) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, id))
}

func (m *MockTenantService) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, slug))
}

func (m *MockTenantService) Update(ctx context.Context, req *services.UpdateTenantRequest) (*models.Tenant, error) {
	return m.tenant(m.Called(ctx, req))
}

func (m *MockTenantService) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type stubScheduler []background.JobStatus

func (s stubScheduler) Status() []background.JobStatus { return s }
