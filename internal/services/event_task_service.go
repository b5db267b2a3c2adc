package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stagebook/internal/common"
	"stagebook/internal/models"
	"stagebook/internal/repositories"

	"github.com/google/uuid"
)

type EventTaskService interface {
	Create(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.EventTask, error)
	Update(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error
	UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.EventTask, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.EventTask, error)
	ListOverdue(ctx context.Context, tenantID uuid.UUID) ([]*models.OverdueTask, error)
}

type eventTaskService struct {
	taskRepo  repositories.EventTaskRepository
	eventRepo repositories.EventRepository
	now       func() time.Time
}

func NewEventTaskService(taskRepo repositories.EventTaskRepository, eventRepo repositories.EventRepository) EventTaskService {
	return &eventTaskService{taskRepo: taskRepo, eventRepo: eventRepo, now: time.Now}
}

func validateTask(task *models.EventTask) error {
	if err := requireText("title", task.Title); err != nil {
		return err
	}
	if task.Status == "" {
		task.Status = models.TaskTodo
	}
	if err := oneOf("status", task.Status, models.TaskStatuses); err != nil {
		return err
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if err := oneOf("priority", task.Priority, models.TaskPriorities); err != nil {
		return err
	}
	task.Title = strings.TrimSpace(task.Title)
	task.AssignedTo = common.TrimOptional(task.AssignedTo)
	return nil
}

// stampCompletion keeps CompletedAt in step with the done status
func (s *eventTaskService) stampCompletion(task *models.EventTask, previous *models.EventTask) {
	switch {
	case task.Status != models.TaskDone:
		task.CompletedAt = nil
	case previous != nil && previous.Status == models.TaskDone && previous.CompletedAt != nil:
		task.CompletedAt = previous.CompletedAt
	default:
		now := s.now().UTC()
		task.CompletedAt = &now
	}
}

func (s *eventTaskService) Create(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error {
	if err := validateTask(task); err != nil {
		return err
	}
	task.ID = uuid.New()
	s.stampCompletion(task, nil)

	if err := s.taskRepo.Create(ctx, tenantID, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (s *eventTaskService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*models.EventTask, error) {
	return s.taskRepo.GetByID(ctx, tenantID, id)
}

func (s *eventTaskService) Update(ctx context.Context, tenantID uuid.UUID, task *models.EventTask) error {
	existing, err := s.taskRepo.GetByID(ctx, tenantID, task.ID)
	if err != nil {
		return err
	}
	if err := validateTask(task); err != nil {
		return err
	}
	task.EventID = existing.EventID
	task.CreatedAt = existing.CreatedAt
	s.stampCompletion(task, existing)
	return s.taskRepo.Update(ctx, tenantID, task)
}

func (s *eventTaskService) UpdateStatus(ctx context.Context, tenantID, id uuid.UUID, status string) (*models.EventTask, error) {
	if err := oneOf("status", status, models.TaskStatuses); err != nil {
		return nil, err
	}
	task, err := s.taskRepo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	previous := *task
	task.Status = status
	s.stampCompletion(task, &previous)
	if err := s.taskRepo.Update(ctx, tenantID, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *eventTaskService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.taskRepo.Delete(ctx, tenantID, id)
}

func (s *eventTaskService) ListByEvent(ctx context.Context, tenantID, eventID uuid.UUID) ([]*models.EventTask, error) {
	if _, err := s.eventRepo.GetByID(ctx, tenantID, eventID); err != nil {
		return nil, err
	}
	return s.taskRepo.ListByEvent(ctx, tenantID, eventID)
}

func (s *eventTaskService) ListOverdue(ctx context.Context, tenantID uuid.UUID) ([]*models.OverdueTask, error) {
	return s.taskRepo.ListOverdue(ctx, tenantID, s.now())
}
