package dto

import (
	"time"

	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
)

// DateLayout is the calendar-date wire format for due dates.
const DateLayout = "2006-01-02"

type CreateCategoryRequest struct {
	Name   string `json:"name" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

type RenameCategoryRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateTaskRequest is the typed form of a task create body. The server
// decodes the same JSON loosely.
type CreateTaskRequest struct {
	Title      string  `json:"title"`
	UserID     string  `json:"userId"`
	Category   string  `json:"category,omitempty"`
	Priority   string  `json:"priority,omitempty"`
	IsComplete *bool   `json:"isComplete,omitempty"`
	DueDate    *string `json:"dueDate,omitempty"`
	Image      string  `json:"image,omitempty"`
}

// TaskPatch is a partial task update. A "dueDate" key holding nil or ""
// clears the due date; an absent key leaves it alone.
type TaskPatch map[string]interface{}

type Category struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	UserID    string    `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
}

type Task struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Category   string    `json:"category"`
	Priority   string    `json:"priority"`
	IsComplete bool      `json:"isComplete"`
	UserID     string    `json:"userId"`
	DueDate    *string   `json:"dueDate"`
	Image      string    `json:"image,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// HasDueDate reports whether the task carries a due date.
func (t Task) HasDueDate() bool {
	return t.DueDate != nil && *t.DueDate != ""
}

func NewCategory(c *models.Category) Category {
	return Category{
		ID:        c.ID.String(),
		Name:      c.Name,
		UserID:    c.UserID,
		CreatedAt: c.CreatedAt,
	}
}

func NewCategories(list []models.Category) []Category {
	out := make([]Category, len(list))
	for i := range list {
		out[i] = NewCategory(&list[i])
	}
	return out
}

func NewTask(t *models.Task) Task {
	resp := Task{
		ID:         t.ID.String(),
		Title:      t.Title,
		Category:   t.Category,
		Priority:   t.Priority,
		IsComplete: t.IsComplete,
		UserID:     t.UserID,
		Image:      t.Image,
		CreatedAt:  t.CreatedAt,
		UpdatedAt:  t.UpdatedAt,
	}
	if t.DueDate != nil {
		d := t.DueDate.UTC().Format(DateLayout)
		resp.DueDate = &d
	}
	return resp
}

func NewTasks(list []models.Task) []Task {
	out := make([]Task, len(list))
	for i := range list {
		out[i] = NewTask(&list[i])
	}
	return out
}
