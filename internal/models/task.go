package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TaskStatus string

const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "inProgress"
	TaskStatusCompleted  TaskStatus = "completed"
)

func (s TaskStatus) IsValid() bool {
	switch s {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	}
	return false
}

type Task struct {
	ID          string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(255);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Status      TaskStatus `gorm:"type:varchar(20);not null;default:'todo'" json:"status"`
	ProjectID   string     `gorm:"type:varchar(36);not null" json:"project"`
	UserID      string     `gorm:"type:varchar(36);not null" json:"user"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`

	// persistedStatus is the status as last read from or written to the store.
	persistedStatus TaskStatus
}

// ApplyStatusTransition keeps CompletedAt in step with Status.
// Entering completed stamps the time once; any other status clears it.
func (t *Task) ApplyStatusTransition(now time.Time) {
	if t.Status == TaskStatusCompleted {
		if t.CompletedAt == nil {
			stamp := now
			t.CompletedAt = &stamp
		}
		return
	}
	t.CompletedAt = nil
}

// StatusChanged reports whether Status differs from the stored value.
// A task that has never been saved always counts as changed.
func (t *Task) StatusChanged() bool {
	return t.persistedStatus == "" || t.Status != t.persistedStatus
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Task) BeforeSave(tx *gorm.DB) error {
	if t.Status == "" {
		t.Status = TaskStatusTodo
	}
	if t.StatusChanged() {
		t.ApplyStatusTransition(time.Now())
	}
	return nil
}

func (t *Task) AfterSave(tx *gorm.DB) error {
	t.persistedStatus = t.Status
	return nil
}

func (t *Task) AfterFind(tx *gorm.DB) error {
	t.persistedStatus = t.Status
	return nil
}
