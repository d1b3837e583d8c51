package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
	"github.com/varshaaa-v/Web-Technology-Project/internal/owner"
	"gorm.io/gorm"
)

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

// Create normalizes the body and stores a new task. scopeOwner, when set,
// fills a missing userId and must match a given one.
func (s *TaskService) Create(ctx context.Context, in TaskInput, scopeOwner string) (*models.Task, error) {
	if in == nil {
		in = TaskInput{}
	}
	if scopeOwner != "" && !truthy(in["userId"]) {
		in["userId"] = scopeOwner
	}

	task, err := normalizeNewTask(in)
	if err != nil {
		return nil, err
	}
	if scopeOwner != "" && task.UserID != scopeOwner {
		return nil, ErrForbidden
	}

	if err := s.db.WithContext(ctx).Create(task).Error; err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}
	return task, nil
}

// List returns the owner's tasks, newest first.
func (s *TaskService) List(ctx context.Context, userID string) ([]models.Task, error) {
	if userID == "" {
		return nil, newValidationError("userId is required")
	}

	var tasks []models.Task
	if err := s.db.WithContext(ctx).
		Scopes(owner.ForOwner(userID)).
		Order("created_at DESC").
		Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// Update applies the recognised fields of a partial body.
func (s *TaskService) Update(ctx context.Context, id string, in TaskInput, scopeOwner string) (*models.Task, error) {
	updates := normalizeTaskUpdate(in)

	var task models.Task
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findTask(tx, id, scopeOwner, &task); err != nil {
			return err
		}
		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&task).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update task: %w", err)
		}
		return tx.First(&task, "id = ?", task.ID).Error
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) Delete(ctx context.Context, id, scopeOwner string) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return ErrTaskNotFound
	}

	result := s.db.WithContext(ctx).
		Scopes(owner.ForOwner(scopeOwner)).
		Where("id = ?", taskID).
		Delete(&models.Task{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete task: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTaskNotFound
	}
	return nil
}

func findTask(tx *gorm.DB, id, scopeOwner string, dst *models.Task) error {
	taskID, err := uuid.Parse(id)
	if err != nil {
		return ErrTaskNotFound
	}

	err = tx.Scopes(owner.ForOwner(scopeOwner)).Where("id = ?", taskID).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrTaskNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load task: %w", err)
	}
	return nil
}
