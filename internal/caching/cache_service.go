package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"stagebook/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const keyPrefix = "stagebook"

type CacheService interface {
	// Tenant caching
	GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error)
	SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error
	DeleteTenant(ctx context.Context, tenant *models.Tenant) error

	// Event caching
	GetEvent(ctx context.Context, tenantID, eventID uuid.UUID) (*models.Event, error)
	SetEvent(ctx context.Context, event *models.Event, ttl time.Duration) error
	DeleteEvent(ctx context.Context, tenantID, eventID uuid.UUID) error

	// Performer caching
	GetPerformer(ctx context.Context, tenantID, performerID uuid.UUID) (*models.Performer, error)
	SetPerformer(ctx context.Context, performer *models.Performer, ttl time.Duration) error
	DeletePerformer(ctx context.Context, tenantID, performerID uuid.UUID) error

	// Analytics caching
	GetTenantAnalytics(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error)
	SetTenantAnalytics(ctx context.Context, dashboard *models.TenantDashboard, ttl time.Duration) error
	DeleteTenantAnalytics(ctx context.Context, tenantID uuid.UUID) error

	// Refresh token sessions, keyed by token hash
	SetRefreshSession(ctx context.Context, tokenHash string, session *models.RefreshSession, ttl time.Duration) error
	ConsumeRefreshSession(ctx context.Context, tokenHash string) (*models.RefreshSession, error)
	DeleteRefreshSession(ctx context.Context, tokenHash string) error

	// Failure counters for rate limiting, one fixed window per key
	FailureCount(ctx context.Context, key string) (int, error)
	RecordFailure(ctx context.Context, key string, window time.Duration) (int, error)
	ResetFailures(ctx context.Context, key string) error

	// Cache invalidation
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisCacheService(client *redis.Client, log *zap.Logger) CacheService {
	return &redisCacheService{client: client, log: log.Named("cache")}
}

// NewRedisClient builds a client from an address that may carry a redis:// scheme.
func NewRedisClient(addr, password string, db int) *redis.Client {
	parsedAddr := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://")
	return redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})
}

func tenantKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:tenant:%s:profile", keyPrefix, tenantID)
}

func slugKey(slug string) string {
	return fmt.Sprintf("%s:slug:%s", keyPrefix, slug)
}

func eventKey(tenantID, eventID uuid.UUID) string {
	return fmt.Sprintf("%s:event:%s:%s", keyPrefix, tenantID, eventID)
}

func performerKey(tenantID, performerID uuid.UUID) string {
	return fmt.Sprintf("%s:performer:%s:%s", keyPrefix, tenantID, performerID)
}

func analyticsKey(tenantID uuid.UUID) string {
	return fmt.Sprintf("%s:analytics:%s:dashboard", keyPrefix, tenantID)
}

func refreshKey(tokenHash string) string {
	return fmt.Sprintf("%s:refresh:%s", keyPrefix, tokenHash)
}

func rateLimitKey(key string) string {
	return fmt.Sprintf("%s:ratelimit:%s", keyPrefix, key)
}

// getJSON returns found=false on a cache miss.
func (r *redisCacheService) getJSON(ctx context.Context, key string, dst any) (bool, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		// corrupt entry, drop it and treat as a miss
		r.log.Warn("discarding undecodable cache entry", zap.String("key", key), zap.Error(err))
		r.client.Del(ctx, key)
		return false, nil
	}
	return true, nil
}

func (r *redisCacheService) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) GetTenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	found, err := r.getJSON(ctx, tenantKey(tenantID), &tenant)
	if err != nil || !found {
		return nil, err
	}
	return &tenant, nil
}

func (r *redisCacheService) GetTenantBySlug(ctx context.Context, slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	found, err := r.getJSON(ctx, slugKey(slug), &tenant)
	if err != nil || !found {
		return nil, err
	}
	return &tenant, nil
}

func (r *redisCacheService) SetTenant(ctx context.Context, tenant *models.Tenant, ttl time.Duration) error {
	data, err := json.Marshal(tenant)
	if err != nil {
		return err
	}
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, tenantKey(tenant.ID), data, ttl)
	pipe.Set(ctx, slugKey(tenant.Slug), data, ttl)
	_, err = pipe.Exec(ctx)
	return err
}

func (r *redisCacheService) DeleteTenant(ctx context.Context, tenant *models.Tenant) error {
	return r.client.Del(ctx, tenantKey(tenant.ID), slugKey(tenant.Slug)).Err()
}

func (r *redisCacheService) GetEvent(ctx context.Context, tenantID, eventID uuid.UUID) (*models.Event, error) {
	var event models.Event
	found, err := r.getJSON(ctx, eventKey(tenantID, eventID), &event)
	if err != nil || !found {
		return nil, err
	}
	return &event, nil
}

func (r *redisCacheService) SetEvent(ctx context.Context, event *models.Event, ttl time.Duration) error {
	return r.setJSON(ctx, eventKey(event.TenantID, event.ID), event, ttl)
}

func (r *redisCacheService) DeleteEvent(ctx context.Context, tenantID, eventID uuid.UUID) error {
	return r.client.Del(ctx, eventKey(tenantID, eventID)).Err()
}

func (r *redisCacheService) GetPerformer(ctx context.Context, tenantID, performerID uuid.UUID) (*models.Performer, error) {
	var performer models.Performer
	found, err := r.getJSON(ctx, performerKey(tenantID, performerID), &performer)
	if err != nil || !found {
		return nil, err
	}
	return &performer, nil
}

func (r *redisCacheService) SetPerformer(ctx context.Context, performer *models.Performer, ttl time.Duration) error {
	return r.setJSON(ctx, performerKey(performer.TenantID, performer.ID), performer, ttl)
}

func (r *redisCacheService) DeletePerformer(ctx context.Context, tenantID, performerID uuid.UUID) error {
	return r.client.Del(ctx, performerKey(tenantID, performerID)).Err()
}

func (r *redisCacheService) GetTenantAnalytics(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error) {
	var dashboard models.TenantDashboard
	found, err := r.getJSON(ctx, analyticsKey(tenantID), &dashboard)
	if err != nil || !found {
		return nil, err
	}
	return &dashboard, nil
}

func (r *redisCacheService) SetTenantAnalytics(ctx context.Context, dashboard *models.TenantDashboard, ttl time.Duration) error {
	return r.setJSON(ctx, analyticsKey(dashboard.TenantID), dashboard, ttl)
}

func (r *redisCacheService) DeleteTenantAnalytics(ctx context.Context, tenantID uuid.UUID) error {
	return r.client.Del(ctx, analyticsKey(tenantID)).Err()
}

func (r *redisCacheService) SetRefreshSession(ctx context.Context, tokenHash string, session *models.RefreshSession, ttl time.Duration) error {
	return r.setJSON(ctx, refreshKey(tokenHash), session, ttl)
}

// ConsumeRefreshSession reads and removes the session in one GETDEL, so a token
// can be redeemed at most once. A missing session yields (nil, nil).
func (r *redisCacheService) ConsumeRefreshSession(ctx context.Context, tokenHash string) (*models.RefreshSession, error) {
	data, err := r.client.GetDel(ctx, refreshKey(tokenHash)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var session models.RefreshSession
	if err := json.Unmarshal(data, &session); err != nil {
		r.log.Warn("discarding undecodable refresh session", zap.Error(err))
		return nil, nil
	}
	return &session, nil
}

func (r *redisCacheService) DeleteRefreshSession(ctx context.Context, tokenHash string) error {
	return r.client.Del(ctx, refreshKey(tokenHash)).Err()
}

func (r *redisCacheService) FailureCount(ctx context.Context, key string) (int, error) {
	count, err := r.client.Get(ctx, rateLimitKey(key)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return count, err
}

// RecordFailure counts one failure and returns the total for the window, which
// starts at the first failure.
func (r *redisCacheService) RecordFailure(ctx context.Context, key string, window time.Duration) (int, error) {
	cacheKey := rateLimitKey(key)
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := r.client.Expire(ctx, cacheKey, window).Err(); err != nil {
			// a counter without a TTL would never reset
			r.client.Del(ctx, cacheKey)
			return 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
	}
	return int(count), nil
}

func (r *redisCacheService) ResetFailures(ctx context.Context, key string) error {
	return r.client.Del(ctx, rateLimitKey(key)).Err()
}

// InvalidateTenantCache removes every tenant-scoped key. SCAN keeps redis responsive on large keyspaces.
func (r *redisCacheService) InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error {
	pattern := fmt.Sprintf("%s:*:%s:*", keyPrefix, tenantID)
	iter := r.client.Scan(ctx, 0, pattern, 200).Iterator()

	var batch []string
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == 200 {
			if err := r.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(batch) > 0 {
		return r.client.Del(ctx, batch...).Err()
	}
	return nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
