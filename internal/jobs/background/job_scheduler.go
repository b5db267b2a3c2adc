package background

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"stagebook/internal/models"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	tenantConcurrency = 5
	jobTimeout        = 10 * time.Minute
)

type TenantLister interface {
	ListIDs(ctx context.Context) ([]uuid.UUID, error)
}

type DashboardRefresher interface {
	Refresh(ctx context.Context, tenantID uuid.UUID) (*models.TenantDashboard, error)
}

type SpentReconciler interface {
	ReconcileAllSpent(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type BookingRecounter interface {
	RecountBookings(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

type OverdueLister interface {
	ListOverdue(ctx context.Context, tenantID uuid.UUID, now time.Time) ([]*models.OverdueTask, error)
}

type TenantCacheInvalidator interface {
	InvalidateTenantCache(ctx context.Context, tenantID uuid.UUID) error
}

// Dependencies are the stores the periodic jobs operate on
type Dependencies struct {
	Tenants    TenantLister
	Analytics  DashboardRefresher
	Events     SpentReconciler
	Performers BookingRecounter
	Tasks      OverdueLister
	Cache      TenantCacheInvalidator
}

// JobScheduler runs periodic maintenance across every tenant
type JobScheduler struct {
	scheduler gocron.Scheduler
	deps      Dependencies
	log       *zap.Logger
	now       func() time.Time
	jobs      map[string]gocron.Job
	mu        sync.RWMutex
}

func NewJobScheduler(deps Dependencies, log *zap.Logger) (*JobScheduler, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create scheduler: %w", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		deps:      deps,
		log:       log.Named("scheduler"),
		now:       time.Now,
		jobs:      make(map[string]gocron.Job),
	}
	if err := js.registerJobs(); err != nil {
		_ = scheduler.Shutdown()
		return nil, err
	}
	return js, nil
}

func (js *JobScheduler) Start() {
	js.log.Info("starting background job scheduler", zap.Int("jobs", len(js.jobs)))
	js.scheduler.Start()
}

func (js *JobScheduler) Stop() error {
	js.log.Info("stopping background job scheduler")
	return js.scheduler.Shutdown()
}

func (js *JobScheduler) registerJobs() error {
	builtin := []struct {
		name     string
		interval time.Duration
		run      func(context.Context)
	}{
		{"tenant-analytics-refresh", 5 * time.Minute, js.refreshTenantAnalytics},
		{"event-spent-reconcile", time.Hour, js.reconcileEventSpent},
		{"performer-booking-recount", 24 * time.Hour, js.recountPerformerBookings},
		{"overdue-task-scan", 30 * time.Minute, js.scanOverdueTasks},
	}

	for _, b := range builtin {
		run := b.run
		job, err := js.scheduler.NewJob(
			gocron.DurationJob(b.interval),
			gocron.NewTask(func() {
				ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
				defer cancel()
				run(ctx)
			}),
			gocron.WithName(b.name),
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
		)
		if err != nil {
			return fmt.Errorf("failed to create %s job: %w", b.name, err)
		}
		js.jobs[b.name] = job
	}
	return nil
}

// forEachTenant runs fn for every tenant with bounded concurrency. Failures are
// logged per tenant and never stop the fan-out.
func (js *JobScheduler) forEachTenant(ctx context.Context, job string, fn func(context.Context, uuid.UUID) error) int {
	tenantIDs, err := js.deps.Tenants.ListIDs(ctx)
	if err != nil {
		js.log.Error("failed to list tenants", zap.String("job", job), zap.Error(err))
		return 0
	}

	semaphore := make(chan struct{}, tenantConcurrency)
	var wg sync.WaitGroup
	var failed int
	var failedMu sync.Mutex

	for _, tenantID := range tenantIDs {
		wg.Add(1)
		go func(tenantID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			if err := fn(ctx, tenantID); err != nil {
				js.log.Warn("tenant job failed",
					zap.String("job", job),
					zap.String("tenant_id", tenantID.String()),
					zap.Error(err))
				failedMu.Lock()
				failed++
				failedMu.Unlock()
			}
		}(tenantID)
	}
	wg.Wait()

	js.log.Info("tenant job completed",
		zap.String("job", job),
		zap.Int("tenants", len(tenantIDs)),
		zap.Int("failed", failed))
	return len(tenantIDs) - failed
}

func (js *JobScheduler) refreshTenantAnalytics(ctx context.Context) {
	js.forEachTenant(ctx, "tenant-analytics-refresh", func(ctx context.Context, tenantID uuid.UUID) error {
		_, err := js.deps.Analytics.Refresh(ctx, tenantID)
		return err
	})
}

func (js *JobScheduler) reconcileEventSpent(ctx context.Context) {
	js.forEachTenant(ctx, "event-spent-reconcile", func(ctx context.Context, tenantID uuid.UUID) error {
		changed, err := js.deps.Events.ReconcileAllSpent(ctx, tenantID)
		if err != nil {
			return err
		}
		if changed > 0 {
			js.log.Warn("repaired drifted event spend",
				zap.String("tenant_id", tenantID.String()),
				zap.Int64("events", changed))
			js.invalidate(ctx, tenantID)
		}
		return nil
	})
}

func (js *JobScheduler) recountPerformerBookings(ctx context.Context) {
	js.forEachTenant(ctx, "performer-booking-recount", func(ctx context.Context, tenantID uuid.UUID) error {
		changed, err := js.deps.Performers.RecountBookings(ctx, tenantID)
		if err != nil {
			return err
		}
		if changed > 0 {
			js.log.Warn("repaired performer booking counters",
				zap.String("tenant_id", tenantID.String()),
				zap.Int64("performers", changed))
			js.invalidate(ctx, tenantID)
		}
		return nil
	})
}

func (js *JobScheduler) scanOverdueTasks(ctx context.Context) {
	now := js.now().UTC()
	js.forEachTenant(ctx, "overdue-task-scan", func(ctx context.Context, tenantID uuid.UUID) error {
		tasks, err := js.deps.Tasks.ListOverdue(ctx, tenantID, now)
		if err != nil {
			return err
		}
		for _, task := range tasks {
			fields := []zap.Field{
				zap.String("tenant_id", tenantID.String()),
				zap.String("event_id", task.EventID.String()),
				zap.String("event", task.EventName),
				zap.String("task_id", task.ID.String()),
				zap.String("title", task.Title),
				zap.String("priority", task.Priority),
			}
			if task.DueDate != nil {
				fields = append(fields, zap.Time("due_date", *task.DueDate))
			}
			js.log.Warn("task overdue", fields...)
		}
		return nil
	})
}

func (js *JobScheduler) invalidate(ctx context.Context, tenantID uuid.UUID) {
	if js.deps.Cache == nil {
		return
	}
	if err := js.deps.Cache.InvalidateTenantCache(ctx, tenantID); err != nil {
		js.log.Warn("failed to invalidate tenant cache", zap.String("tenant_id", tenantID.String()), zap.Error(err))
	}
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn any, params ...any) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if _, exists := js.jobs[name]; exists {
		return fmt.Errorf("job %q already registered", name)
	}
	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)
	if err != nil {
		return err
	}

	js.jobs[name] = job
	js.log.Info("added custom job", zap.String("job", name), zap.Duration("interval", interval))
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, exists := js.jobs[name]
	if !exists {
		return nil
	}
	delete(js.jobs, name)
	return js.scheduler.RemoveJob(job.ID())
}

// JobStatus describes one scheduled job
type JobStatus struct {
	Name    string    `json:"name"`
	NextRun time.Time `json:"next_run,omitempty"`
	LastRun time.Time `json:"last_run,omitempty"`
}

// Status lists scheduled jobs sorted by name
func (js *JobScheduler) Status() []JobStatus {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make([]JobStatus, 0, len(js.jobs))
	for name, job := range js.jobs {
		s := JobStatus{Name: name}
		if next, err := job.NextRun(); err == nil {
			s.NextRun = next
		}
		if last, err := job.LastRun(); err == nil {
			s.LastRun = last
		}
		status = append(status, s)
	}
	sort.Slice(status, func(i, j int) bool { return status[i].Name < status[j].Name })
	return status
}
