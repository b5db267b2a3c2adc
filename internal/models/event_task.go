package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	TaskTodo       = "todo"
	TaskInProgress = "in_progress"
	TaskDone       = "done"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

var (
	TaskStatuses   = []string{TaskTodo, TaskInProgress, TaskDone}
	TaskPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}
)

// EventTask has no tenant column; tenancy comes from the owning event.
type EventTask struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	EventID     uuid.UUID  `json:"event_id" db:"event_id"`
	Title       string     `json:"title" db:"title"`
	Description *string    `json:"description" db:"description"`
	Status      string     `json:"status" db:"status"`
	Priority    string     `json:"priority" db:"priority"`
	DueDate     *time.Time `json:"due_date" db:"due_date"`
	CompletedAt *time.Time `json:"completed_at" db:"completed_at"`
	AssignedTo  *string    `json:"assigned_to" db:"assigned_to"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// OverdueTask is a task past its due date together with its event name
type OverdueTask struct {
	EventTask
	EventName string `json:"event_name"`
}
