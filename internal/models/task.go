package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"

	DefaultCategory = "General"
)

var Priorities = []string{PriorityLow, PriorityMedium, PriorityHigh}

type Task struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	UserID     string     `gorm:"size:255;not null;index:idx_tasks_user_category" json:"userId"`
	Title      string     `gorm:"type:text;not null" json:"title"`
	Category   string     `gorm:"size:255;not null;default:'General';index:idx_tasks_user_category" json:"category"`
	Priority   string     `gorm:"size:10;not null;default:'medium'" json:"priority"`
	IsComplete bool       `gorm:"not null;default:false" json:"isComplete"`
	DueDate    *time.Time `json:"dueDate"`
	Image      string     `gorm:"type:text" json:"image,omitempty"`
	CreatedAt  time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// IsValidPriority reports whether p is one of the allowed priorities.
func IsValidPriority(p string) bool {
	for _, allowed := range Priorities {
		if p == allowed {
			return true
		}
	}
	return false
}
