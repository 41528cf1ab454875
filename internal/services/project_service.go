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

// ProjectService handles project business logic
type ProjectService struct {
	projectRepo repository.ProjectRepository
	maxProjects int
}

// NewProjectService creates a new ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, maxProjects int) *ProjectService {
	return &ProjectService{
		projectRepo: projectRepo,
		maxProjects: maxProjects,
	}
}

// CreateProjectInput represents input for creating a project
type CreateProjectInput struct {
	Name        string
	Description string
}

// UpdateProjectInput represents a partial project update.
// A nil field is left unchanged; an empty Name is treated as unchanged
// because a project always has a name.
type UpdateProjectInput struct {
	Name        *string
	Description *string
}

// MaxProjects reports the per-owner project cap.
func (s *ProjectService) MaxProjects() int {
	return s.maxProjects
}

// CreateProject creates a project for ownerID unless the cap is reached
func (s *ProjectService) CreateProject(ctx context.Context, ownerID string, input CreateProjectInput) (*models.Project, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, ErrProjectNameRequired
	}

	project := &models.Project{
		Name:        name,
		Description: input.Description,
		UserID:      ownerID,
		TaskIDs:     []string{},
	}

	if err := s.projectRepo.CreateWithLimit(ctx, project, s.maxProjects); err != nil {
		switch {
		case errors.Is(err, repository.ErrProjectLimitReached):
			return nil, ErrProjectLimitExceeded
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrUserNotFound
		default:
			return nil, fmt.Errorf("failed to create project: %w", err)
		}
	}

	project.Tasks = []models.Task{}
	return project, nil
}

// ListProjects returns the caller's projects newest first with their tasks
func (s *ProjectService) ListProjects(ctx context.Context, ownerID string) ([]models.Project, error) {
	projects, err := s.projectRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}
	return projects, nil
}

// GetProject returns a project with its tasks if callerID owns it
func (s *ProjectService) GetProject(ctx context.Context, id, callerID string) (*models.Project, error) {
	project, err := s.ownedProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if err := s.projectRepo.PopulateTasks(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to load project tasks: %w", err)
	}
	return project, nil
}

// UpdateProject applies a partial update to a project owned by callerID
func (s *ProjectService) UpdateProject(ctx context.Context, id, callerID string, input UpdateProjectInput) (*models.Project, error) {
	project, err := s.ownedProject(ctx, id, callerID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			project.Name = name
		}
	}
	if input.Description != nil && *input.Description != "" {
		project.Description = *input.Description
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}

	return s.GetProject(ctx, id, callerID)
}

// DeleteProject deletes a project owned by callerID together with its tasks
func (s *ProjectService) DeleteProject(ctx context.Context, id, callerID string) error {
	if _, err := s.ownedProject(ctx, id, callerID); err != nil {
		return err
	}

	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	return nil
}

// Authorize reports whether callerID owns project id.
func (s *ProjectService) Authorize(ctx context.Context, id, callerID string) error {
	_, err := s.ownedProject(ctx, id, callerID)
	return err
}

// ownedProject loads a project and checks ownership.
// A missing project is reported before a foreign one.
func (s *ProjectService) ownedProject(ctx context.Context, id, callerID string) (*models.Project, error) {
	return findOwnedProject(ctx, s.projectRepo, id, callerID)
}

func findOwnedProject(ctx context.Context, repo repository.ProjectRepository, id, callerID string) (*models.Project, error) {
	project, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to find project: %w", err)
	}

	if !project.OwnedBy(callerID) {
		return nil, ErrProjectForbidden
	}
	return project, nil
}
