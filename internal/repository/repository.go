package repository

import (
	"context"
	"errors"

	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrProjectLimitReached is returned when the owner already holds the maximum number of projects.
var ErrProjectLimitReached = errors.New("project repository: project limit reached")

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *models.User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id string) (*models.User, error)

	// FindByEmail finds a user by email address
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// ProjectRepository defines the interface for project data access
type ProjectRepository interface {
	// CreateWithLimit creates a project unless its owner already has limit projects.
	// The count and the insert run in one transaction.
	CreateWithLimit(ctx context.Context, project *models.Project, limit int) error

	// FindByID finds a project by ID without its tasks
	FindByID(ctx context.Context, id string) (*models.Project, error)

	// ListByOwner lists an owner's projects newest first, tasks populated
	ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error)

	// PopulateTasks fills Project.Tasks following the project's task list order
	PopulateTasks(ctx context.Context, projects ...*models.Project) error

	// Update persists name and description changes
	Update(ctx context.Context, project *models.Project) error

	// Delete removes a project together with all of its tasks
	Delete(ctx context.Context, id string) error
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// CreateInProject creates a task and appends it to its project's task list
	CreateInProject(ctx context.Context, task *models.Task) error

	// FindInProject finds a task by ID within the given project
	FindInProject(ctx context.Context, projectID, taskID string) (*models.Task, error)

	// ListByProject lists a project's tasks newest first
	ListByProject(ctx context.Context, projectID string) ([]models.Task, error)

	// Update persists task changes; status side effects run in the model hooks
	Update(ctx context.Context, task *models.Task) error

	// DeleteFromProject removes a task from its project's task list and deletes it
	DeleteFromProject(ctx context.Context, projectID, taskID string) error
}

// forUpdate locks the selected rows for the rest of the transaction.
// SQLite has no row locks; its writers are already serialized.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "sqlite" {
		return tx
	}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"})
}
