package repository

import (
	"context"

	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// CreateInProject inserts the task and appends its ID to the project's task list
// in a single transaction.
func (r *GormTaskRepository) CreateInProject(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := forUpdate(tx).First(&project, "id = ?", task.ProjectID).Error; err != nil {
			return err
		}

		if err := tx.Create(task).Error; err != nil {
			return err
		}

		project.AppendTask(task.ID)
		return saveTaskList(tx, &project)
	})
}

// FindInProject finds a task by ID within the given project
func (r *GormTaskRepository) FindInProject(ctx context.Context, projectID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.WithContext(ctx).
		Where("id = ? AND project_id = ?", taskID, projectID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByProject lists a project's tasks newest first
func (r *GormTaskRepository) ListByProject(ctx context.Context, projectID string) ([]models.Task, error) {
	tasks := []models.Task{}
	if err := r.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// Update persists task changes
func (r *GormTaskRepository) Update(ctx context.Context, task *models.Task) error {
	return r.db.WithContext(ctx).Save(task).Error
}

// DeleteFromProject drops the task from the project's list, saves the project,
// then deletes the task record.
func (r *GormTaskRepository) DeleteFromProject(ctx context.Context, projectID, taskID string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project models.Project
		if err := forUpdate(tx).First(&project, "id = ?", projectID).Error; err != nil {
			return err
		}

		project.RemoveTask(taskID)
		if err := saveTaskList(tx, &project); err != nil {
			return err
		}

		return tx.Where("id = ? AND project_id = ?", taskID, projectID).Delete(&models.Task{}).Error
	})
}

func saveTaskList(tx *gorm.DB, project *models.Project) error {
	return tx.Model(project).Select("task_ids", "updated_at").Updates(project).Error
}
