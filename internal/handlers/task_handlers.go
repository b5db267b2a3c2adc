package handlers

import (
	"net/http"
	"time"

	"stagebook/internal/models"
	"stagebook/internal/services"

	"github.com/labstack/echo/v4"
)

// TaskHandlers handles the to-do items of events
type TaskHandlers struct {
	taskService services.EventTaskService
}

func NewTaskHandlers(taskService services.EventTaskService) *TaskHandlers {
	return &TaskHandlers{taskService: taskService}
}

type TaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssignedTo  *string    `json:"assigned_to" validate:"omitempty,max=255"`
}

func (r *TaskRequest) toModel() *models.EventTask {
	return &models.EventTask{
		Title:       r.Title,
		Description: r.Description,
		Status:      r.Status,
		Priority:    r.Priority,
		DueDate:     r.DueDate,
		AssignedTo:  r.AssignedTo,
	}
}

// ListEventTasks godoc
// @Summary Tasks of an event
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {array} models.EventTask
// @Router /v1/events/{id}/tasks [get]
func (h *TaskHandlers) ListEventTasks(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	tasks, err := h.taskService.ListByEvent(c.Request().Context(), tid, eventID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}

// CreateTask godoc
// @Summary Add a task to an event
// @Tags tasks
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body TaskRequest true "Task"
// @Success 201 {object} models.EventTask
// @Router /v1/events/{id}/tasks [post]
func (h *TaskHandlers) CreateTask(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	eventID, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	task := req.toModel()
	task.EventID = eventID

	if err := h.taskService.Create(c.Request().Context(), tid, task); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, task)
}

func (h *TaskHandlers) GetTask(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	task, err := h.taskService.GetByID(c.Request().Context(), tid, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) UpdateTask(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req TaskRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	task := req.toModel()
	task.ID = id

	if err := h.taskService.Update(c.Request().Context(), tid, task); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) UpdateTaskStatus(c echo.Context) error {
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
	task, err := h.taskService.UpdateStatus(c.Request().Context(), tid, id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, task)
}

func (h *TaskHandlers) DeleteTask(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.taskService.Delete(c.Request().Context(), tid, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListOverdueTasks godoc
// @Summary Unfinished tasks past their due date
// @Tags tasks
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.OverdueTask
// @Router /v1/tasks/overdue [get]
func (h *TaskHandlers) ListOverdueTasks(c echo.Context) error {
	tid, err := tenantID(c)
	if err != nil {
		return err
	}
	tasks, err := h.taskService.ListOverdue(c.Request().Context(), tid)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tasks)
}
