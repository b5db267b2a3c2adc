package services

import (
	"context"
	"io"
	"time"

	"stagebook/internal/models"
	"stagebook/internal/repositories"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockTenantRepository struct {
	mock.Mock
}

func (m *MockTenantRepository) CreateWithOwner(ctx context.Context, tenant *models.Tenant, owner *models.User) error {
	return m.Called(ctx, tenant, owner).Error(0)
}

func (m *MockTenantRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) GetBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockTenantRepository) Update(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *MockTenantRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockTenantRepository) ListIDs(ctx context.Context) ([]uuid.UUID, error) {
	args := m.Called(ctx)
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Update(ctx context.Context, user *models.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error {
	return m.Called(ctx, tenantID, id, passwordHash).Error(0)
}

func (m *MockUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockUserRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.User, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.User), args.Error(1)
}

func (m *MockUserRepository) CountByRole(ctx context.Context, tenantID uuid.UUID, role string) (int, error) {
	args := m.Called(ctx, tenantID, role)
	return args.Int(0), args.Error(1)
}

type MockVenueRepository struct {
	mock.Mock
}

func (m *MockVenueRepository) Create(ctx context.Context, venue *models.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *MockVenueRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Venue, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Venue), args.Error(1)
}

func (m *MockVenueRepository) Update(ctx context.Context, venue *models.Venue) error {
	return m.Called(ctx, venue).Error(0)
}

func (m *MockVenueRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockVenueRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Venue, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Venue), args.Error(1)
}

func (m *MockVenueRepository) Search(ctx context.Context, tenantID uuid.UUID, filter *models.VenueFilter) ([]*models.Venue, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Venue), args.Error(1)
}

type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Client), args.Error(1)
}

func (m *MockClientRepository) Update(ctx context.Context, client *models.Client) error {
	return m.Called(ctx, client).Error(0)
}

func (m *MockClientRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockClientRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Client, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Client), args.Error(1)
}

func (m *MockClientRepository) Search(ctx context.Context, tenantID uuid.UUID, filter *models.ClientFilter) ([]*models.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Client), args.Error(1)
}

type MockPerformerRepository struct {
	mock.Mock
}

func (m *MockPerformerRepository) Create(ctx context.Context, performer *models.Performer) error {
	return m.Called(ctx, performer).Error(0)
}

func (m *MockPerformerRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Performer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Performer), args.Error(1)
}

func (m *MockPerformerRepository) Update(ctx context.Context, performer *models.Performer) error {
	return m.Called(ctx, performer).Error(0)
}

func (m *MockPerformerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPerformerRepository) List(ctx context.Context, tenantID uuid.UUID, limit, offset int) ([]*models.Performer, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	return args.Get(0).([]*models.Performer), args.Error(1)
}

func (m *MockPerformerRepository) Search(ctx context.Context, tenantID uuid.UUID, filter *models.PerformerFilter) ([]*models.Performer, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Performer), args.Error(1)
}

func (m *MockPerformerRepository) RefreshTotalBookings(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockPerformerRepository) RecountBookings(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockEventRepository struct {
	mock.Mock
}

func (m *MockEventRepository) Create(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockEventRepository) Update(ctx context.Context, event *models.Event) error {
	return m.Called(ctx, event).Error(0)
}

func (m *MockEventRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	return m.Called(ctx, tenantID, id, status).Error(0)
}

func (m *MockEventRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockEventRepository) Search(ctx context.Context, tenantID uuid.UUID, filter *models.EventFilter) ([]*models.Event, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]*models.Event), args.Error(1)
}

func (m *MockEventRepository) ReconcileSpent(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockEventRepository) ReconcileAllSpent(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockEventRepository) BudgetSummary(ctx context.Context, tenantID, id uuid.UUID) (*models.BudgetSummary, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BudgetSummary), args.Error(1)
}

func (m *MockEventRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockEventRepository) CountUpcoming(ctx context.Context, tenantID uuid.UUID, from, to time.Time) (int, error) {
	args := m.Called(ctx, tenantID, from, to)
	return args.Int(0), args.Error(1)
}

type MockBookingRepository struct {
	mock.Mock
	lockedPerformers []uuid.UUID
}

// WithPerformerLock records the lock and runs fn against the mock itself.
func (m *MockBookingRepository) WithPerformerLock(ctx context.Context, tenantID, performerID uuid.UUID, fn func(repo repositories.BookingRepository) error) error {
	m.lockedPerformers = append(m.lockedPerformers, performerID)
	return fn(m)
}

func (m *MockBookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) Update(ctx context.Context, booking *models.Booking) error {
	return m.Called(ctx, booking).Error(0)
}

func (m *MockBookingRepository) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	return m.Called(ctx, tenantID, id, status).Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockBookingRepository) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, eventID)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListByPerformer(ctx context.Context, tenantID, performerID uuid.UUID, limit, offset int) ([]*models.Booking, error) {
	args := m.Called(ctx, tenantID, performerID, limit, offset)
	return args.Get(0).([]*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListPerformerSchedule(ctx context.Context, tenantID, performerID uuid.UUID, from, to time.Time) ([]*models.ScheduledBooking, error) {
	args := m.Called(ctx, tenantID, performerID, from, to)
	return args.Get(0).([]*models.ScheduledBooking), args.Error(1)
}

func (m *MockBookingRepository) RecordPayment(ctx context.Context, tenantID, id uuid.UUID, amount decimal.Decimal) (*models.Booking, error) {
	args := m.Called(ctx, tenantID, id, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Booking), args.Error(1)
}

func (m *MockBookingRepository) SetContractURL(ctx context.Context, tenantID, id uuid.UUID, url string) error {
	return m.Called(ctx, tenantID, id, url).Error(0)
}

func (m *MockBookingRepository) MarkContractSigned(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockBookingRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID) (map[string]int, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockBookingRepository) Totals(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Get(2).(decimal.Decimal), args.Error(3)
}

type MockEventTaskRepository struct {
	mock.Mock
}

func (m *MockEventTaskRepository) Create(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error {
	return m.Called(ctx, tenantID, task).Error(0)
}

func (m *MockEventTaskRepository) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.EventTask, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.EventTask), args.Error(1)
}

func (m *MockEventTaskRepository) Update(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error {
	return m.Called(ctx, tenantID, task).Error(0)
}

func (m *MockEventTaskRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

func (m *MockEventTaskRepository) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.EventTask, error) {
	args := m.Called(ctx, tenantID, eventID)
	return args.Get(0).([]*models.EventTask), args.Error(1)
}

func (m *MockEventTaskRepository) ListOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*models.OverdueTask, error) {
	args := m.Called(ctx, tenantID, now)
	return args.Get(0).([]*models.OverdueTask), args.Error(1)
}

func (m *MockEventTaskRepository) CountOpen(ctx context.Context, tenantID uuid.UUID, now time.Time) (int, int, error) {
	args := m.Called(ctx, tenantID, now)
	return args.Int(0), args.Int(1), args.Error(2)
}

// MockCacheService records cache traffic; tests that do not care about the cache use Maybe().
type MockCacheService struct {
	mock.Mock
}

func (m *MockCacheService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	args := m.Called(ctx, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Tenant), args.Error(1)
}

func (m *MockCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	return m.Called(ctx, tenant, ttl).Error(0)
}

func (m *MockCacheService) DeleteTenant(ctx context.Context, tenant *models.Tenant) error {
	return m.Called(ctx, tenant).Error(0)
}

func (m *MockCacheService) GetEvent(ctx context.Context, tenantID, eventID uuid.UUID) (*models.Event, error) {
	args := m.Called(ctx, tenantID, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Event), args.Error(1)
}

func (m *MockCacheService) SetEvent(ctx context.Context, event *models.Event, ttl time.Duration) error {
	return m.Called(ctx, event, ttl).Error(0)
}

func (m *MockCacheService) DeleteEvent(ctx context.Context, tenantID, eventID uuid.UUID) error {
	return m.Called(ctx, tenantID, eventID).Error(0)
}

func (m *MockCacheService) GetPerformer(ctx context.Context, tenantID, performerID uuid.UUID) (*models.Performer, error) {
	args := m.Called(ctx, tenantID, performerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Performer), args.Error(1)
}

func (m *MockCacheService) SetPerformer(ctx context.Context, performer *models.Performer, ttl time.Duration) error {
	return m.Called(ctx, performer, ttl).Error(0)
}

func (m *MockCacheService) DeletePerformer(ctx context.Context, tenantID, performerID uuid.UUID) error {
	return m.Called(ctx, tenantID, performerID).Error(0)
}

func (m *MockCacheService) GetTenantAnalytics(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.TenantDashboard), args.Error(1)
}

func (m *MockCacheService) SetTenantAnalytics(ctx context.Context, dashboard *models.TenantDashboard, ttl time.Duration) error {
	return m.Called(ctx, dashboard, ttl).Error(0)
}

func (m *MockCacheService) DeleteTenantAnalytics(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockCacheService) SetRefreshSession(ctx context.Context, tokenHash string, session *models.RefreshSession, ttl time.Duration) error {
	return m.Called(ctx, tokenHash, session, ttl).Error(0)
}

func (m *MockCacheService) ConsumeRefreshSession(ctx context.Context, tokenHash string) (*models.RefreshSession, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RefreshSession), args.Error(1)
}

func (m *MockCacheService) DeleteRefreshSession(ctx context.Context, tokenHash string) error {
	return m.Called(ctx, tokenHash).Error(0)
}

func (m *MockCacheService) FailureCount(ctx context.Context, key string) (int, error) {
	args := m.Called(ctx, key)
	return args.Int(0), args.Error(1)
}

func (m *MockCacheService) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	args := m.Called(ctx, key, window)
	return args.Int(0), args.Error(1)
}

func (m *MockCacheService) ResetFailures(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func (m *MockCacheService) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockObjectStorage struct {
	mock.Mock
}

func (m *MockObjectStorage) Upload(ctx context.Context, objectName string, reader io.Reader, objectSize int64, contentType string) error {
	return m.Called(ctx, objectName, reader, objectSize, contentType).Error(0)
}

func (m *MockObjectStorage) PresignedURL(ctx context.Context, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *MockObjectStorage) Delete(ctx context.Context, objectName string) error {
	return m.Called(ctx, objectName).Error(0)
}

func (m *MockObjectStorage) EnsureBucket(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *MockObjectStorage) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type MockContractEnqueuer struct {
	mock.Mock
}

func (m *MockContractEnqueuer) EnqueueContract(ctx context.Context, tenantID, bookingID uuid.UUID) error {
	return m.Called(ctx, tenantID, bookingID).Error(0)
}

// allowCacheWrites lets evictions and invalidations happen without asserting on them
func allowCacheWrites(c *MockCacheService) {
	c.On("DeleteEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	c.On("DeletePerformer", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	c.On("DeleteTenantAnalytics", mock.Anything, mock.Anything).Return(nil).Maybe()
}

func stringPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func decimalPtr(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
