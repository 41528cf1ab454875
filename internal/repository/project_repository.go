package repository

import (
	"context"

	"github.com/yukikurage/taskboard-api/internal/models"
	"gorm.io/gorm"
)

// GormProjectRepository is a GORM implementation of ProjectRepository
type GormProjectRepository struct {
	db *gorm.DB
}

// NewProjectRepository creates a new ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &GormProjectRepository{db: db}
}

// CreateWithLimit locks the owner row, counts the owner's projects and inserts
// the new one only while the count is below limit.
func (r *GormProjectRepository) CreateWithLimit(ctx context.Context, project *models.Project, limit int) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var owner models.User
		if err := forUpdate(tx).Select("id").First(&owner, "id = ?", project.UserID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.Model(&models.Project{}).Where("user_id = ?", project.UserID).Count(&count).Error; err != nil {
			return err
		}
		if count >= int64(limit) {
			return ErrProjectLimitReached
		}

		return tx.Create(project).Error
	})
}

// FindByID finds a project by ID without its tasks
func (r *GormProjectRepository) FindByID(ctx context.Context, id string) (*models.Project, error) {
	var project models.Project
	if err := r.db.WithContext(ctx).First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// ListByOwner lists an owner's projects newest first with tasks populated
func (r *GormProjectRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.Project, error) {
	var projects []models.Project
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").
		Find(&projects).Error; err != nil {
		return nil, err
	}

	ptrs := make([]*models.Project, len(projects))
	for i := range projects {
		ptrs[i] = &projects[i]
	}
	if err := r.PopulateTasks(ctx, ptrs...); err != nil {
		return nil, err
	}

	return projects, nil
}

// PopulateTasks loads the tasks referenced by each project's task list in one query.
// IDs whose task no longer exists are skipped.
func (r *GormProjectRepository) PopulateTasks(ctx context.Context, projects ...*models.Project) error {
	var ids []string
	for _, p := range projects {
		ids = append(ids, p.TaskIDs...)
	}

	byID := make(map[string]models.Task, len(ids))
	if len(ids) > 0 {
		var tasks []models.Task
		if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&tasks).Error; err != nil {
			return err
		}
		for _, t := range tasks {
			byID[t.ID] = t
		}
	}

	for _, p := range projects {
		p.Tasks = make([]models.Task, 0, len(p.TaskIDs))
		for _, id := range p.TaskIDs {
			if t, ok := byID[id]; ok {
				p.Tasks = append(p.Tasks, t)
			}
		}
	}

	return nil
}

// Update persists name and description changes
func (r *GormProjectRepository) Update(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).
		Model(project).
		Select("name", "description", "updated_at").
		Updates(map[string]interface{}{
			"name":        project.Name,
			"description": project.Description,
		}).Error
}

// Delete removes all tasks of the project and then the project, atomically
func (r *GormProjectRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("project_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return err
		}

		return tx.Where("id = ?", id).Delete(&models.Project{}).Error
	})
}
