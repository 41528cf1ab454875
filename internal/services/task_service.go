package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yukikurage/taskboard-api/internal/models"
	"github.com/yukikurage/taskboard-api/internal/repository"
	"gorm.io/gorm"
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo    repository.TaskRepository
	projectRepo repository.ProjectRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository, projectRepo repository.ProjectRepository) *TaskService {
	return &TaskService{
		taskRepo:    taskRepo,
		projectRepo: projectRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	Title       string
	Description string
	Status      models.TaskStatus
}

// UpdateTaskInput represents a partial task update.
// Nil fields are left unchanged; an empty Title or Status counts as unchanged.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *models.TaskStatus
}

// CreateTask creates a task in a project owned by callerID
func (s *TaskService) CreateTask(ctx context.Context, projectID, callerID string, input CreateTaskInput) (*models.Task, error) {
	project, err := findOwnedProject(ctx, s.projectRepo, projectID, callerID)
	if err != nil {
		return nil, err
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if input.Status == "" {
		input.Status = models.TaskStatusTodo
	}
	if !input.Status.IsValid() {
		return nil, ErrInvalidStatus
	}

	task := &models.Task{
		Title:       title,
		Description: input.Description,
		Status:      input.Status,
		ProjectID:   project.ID,
		UserID:      project.UserID,
	}

	if err := s.taskRepo.CreateInProject(ctx, task); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasks returns a project's tasks newest first
func (s *TaskService) ListTasks(ctx context.Context, projectID, callerID string) ([]models.Task, error) {
	if _, err := findOwnedProject(ctx, s.projectRepo, projectID, callerID); err != nil {
		return nil, err
	}

	tasks, err := s.taskRepo.ListByProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// UpdateTask applies a partial update. Project ownership is checked before the
// task is looked up; completedAt follows status through the model hooks.
func (s *TaskService) UpdateTask(ctx context.Context, projectID, taskID, callerID string, input UpdateTaskInput) (*models.Task, error) {
	if _, err := findOwnedProject(ctx, s.projectRepo, projectID, callerID); err != nil {
		return nil, err
	}

	task, err := s.findTask(ctx, projectID, taskID)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		if title := strings.TrimSpace(*input.Title); title != "" {
			task.Title = title
		}
	}
	if input.Description != nil && *input.Description != "" {
		task.Description = *input.Description
	}
	if input.Status != nil && *input.Status != "" {
		if !input.Status.IsValid() {
			return nil, ErrInvalidStatus
		}
		task.Status = *input.Status
	}

	if err := s.taskRepo.Update(ctx, task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// Authorize reports whether callerID may modify taskID in projectID, applying
// the same checks, in the same order, as UpdateTask.
func (s *TaskService) Authorize(ctx context.Context, projectID, taskID, callerID string) error {
	if _, err := findOwnedProject(ctx, s.projectRepo, projectID, callerID); err != nil {
		return err
	}
	_, err := s.findTask(ctx, projectID, taskID)
	return err
}

// DeleteTask removes a task from its project and deletes it
func (s *TaskService) DeleteTask(ctx context.Context, projectID, taskID, callerID string) error {
	if _, err := findOwnedProject(ctx, s.projectRepo, projectID, callerID); err != nil {
		return err
	}

	if _, err := s.findTask(ctx, projectID, taskID); err != nil {
		return err
	}

	if err := s.taskRepo.DeleteFromProject(ctx, projectID, taskID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}

func (s *TaskService) findTask(ctx context.Context, projectID, taskID string) (*models.Task, error) {
	task, err := s.taskRepo.FindInProject(ctx, projectID, taskID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}
	return task, nil
}
