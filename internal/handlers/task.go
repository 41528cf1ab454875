package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/yukikurage/taskboard-api/internal/dto"
	apierrors "github.com/yukikurage/taskboard-api/internal/errors"
	"github.com/yukikurage/taskboard-api/internal/middleware"
	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// CreateTask adds a task to the project in the path
func (h *TaskHandler) CreateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type CreateTaskRequest struct {
		Title       string            `json:"title"`
		Description string            `json:"description"`
		Status      models.TaskStatus `json:"status"`
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid task data")
		return
	}

	task, err := h.taskService.CreateTask(c.Request.Context(), c.Param("id"), userID, services.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondTaskError(c, err, "Not authorized to add tasks to this project")
		return
	}

	c.JSON(http.StatusCreated, dto.ToTaskDTO(*task))
}

// ListTasks returns the project's tasks, newest first
func (h *TaskHandler) ListTasks(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	tasks, err := h.taskService.ListTasks(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		respondTaskError(c, err, "Not authorized to view tasks in this project")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTOs(tasks))
}

// UpdateTask updates title, description and/or status of a task
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	type UpdateTaskRequest struct {
		Title       *string            `json:"title"`
		Description *string            `json:"description"`
		Status      *models.TaskStatus `json:"status"`
	}

	// An empty body is an empty update.
	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		if authErr := h.taskService.Authorize(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID); authErr != nil {
			respondTaskError(c, authErr, "Not authorized to update tasks in this project")
			return
		}
		apierrors.BadRequest(c, "Invalid task data")
		return
	}

	task, err := h.taskService.UpdateTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID, services.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
	})
	if err != nil {
		respondTaskError(c, err, "Not authorized to update tasks in this project")
		return
	}

	c.JSON(http.StatusOK, dto.ToTaskDTO(*task))
}

// DeleteTask removes a task from its project
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	userID, exists := middleware.GetUserID(c)
	if !exists {
		apierrors.Unauthorized(c, "")
		return
	}

	if err := h.taskService.DeleteTask(c.Request.Context(), c.Param("id"), c.Param("taskId"), userID); err != nil {
		respondTaskError(c, err, "Not authorized to delete tasks in this project")
		return
	}

	c.JSON(http.StatusOK, dto.MessageDTO{Message: "Task removed"})
}

func respondTaskError(c *gin.Context, err error, forbiddenMessage string) {
	switch {
	case errors.Is(err, services.ErrProjectNotFound):
		apierrors.NotFound(c, "Project not found")
	case errors.Is(err, services.ErrProjectForbidden):
		apierrors.Forbidden(c, forbiddenMessage)
	case errors.Is(err, services.ErrTaskNotFound):
		apierrors.NotFound(c, "Task not found")
	case errors.Is(err, services.ErrTitleRequired):
		apierrors.BadRequest(c, "Invalid task data")
	case errors.Is(err, services.ErrInvalidStatus):
		apierrors.BadRequest(c, "Status must be one of todo, inProgress, completed")
	default:
		log.Error().Err(err).Msg("Task request failed")
		apierrors.InternalError(c, "")
	}
}
