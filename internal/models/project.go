package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Project struct {
	ID          string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	UserID      string    `gorm:"type:varchar(36);not null" json:"user"`
	TaskIDs     []string  `gorm:"serializer:json;type:text" json:"-"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Tasks holds the documents referenced by TaskIDs, in list order.
	// Filled in by the repository on demand, never persisted.
	Tasks []Task `gorm:"-" json:"tasks"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.TaskIDs == nil {
		p.TaskIDs = []string{}
	}
	return nil
}

// AppendTask records taskID at the end of the project's task list.
func (p *Project) AppendTask(taskID string) {
	p.TaskIDs = append(p.TaskIDs, taskID)
}

// RemoveTask drops every occurrence of taskID from the task list.
func (p *Project) RemoveTask(taskID string) {
	kept := make([]string, 0, len(p.TaskIDs))
	for _, id := range p.TaskIDs {
		if id != taskID {
			kept = append(kept, id)
		}
	}
	p.TaskIDs = kept
}

func (p *Project) OwnedBy(userID string) bool {
	return p.UserID == userID
}
