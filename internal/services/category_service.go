package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
	"github.com/varshaaa-v/Web-Technology-Project/internal/observability"
	"github.com/varshaaa-v/Web-Technology-Project/internal/owner"
	"gorm.io/gorm"
)

type CategoryService struct {
	db       *gorm.DB
	validate *validator.Validate
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{db: db, validate: validator.New()}
}

// List returns the owner's categories, oldest first.
func (s *CategoryService) List(ctx context.Context, userID string) ([]models.Category, error) {
	if userID == "" {
		return nil, newValidationError("userId is required")
	}

	var categories []models.Category
	if err := s.db.WithContext(ctx).
		Scopes(owner.ForOwner(userID)).
		Order("created_at ASC").
		Find(&categories).Error; err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *CategoryService) Create(ctx context.Context, req *dto.CreateCategoryRequest) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError("name and userId are required")
	}

	category := models.Category{
		UserID: req.UserID,
		Name:   req.Name,
	}
	if err := s.db.WithContext(ctx).Create(&category).Error; err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return &category, nil
}

// Rename changes the category name and moves the owner's tasks from the old
// name to the new one in the same transaction. scopeOwner, when set, hides
// categories of other owners.
func (s *CategoryService) Rename(ctx context.Context, id string, req *dto.RenameCategoryRequest, scopeOwner string) (*models.Category, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		return nil, newValidationError("name is required")
	}

	var category models.Category
	var moved int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := findCategory(tx, id, scopeOwner, &category); err != nil {
			return err
		}

		oldName := category.Name
		if err := tx.Model(&category).Update("name", req.Name).Error; err != nil {
			return fmt.Errorf("failed to rename category: %w", err)
		}
		category.Name = req.Name

		result := tx.Model(&models.Task{}).
			Where("user_id = ? AND category = ?", category.UserID, oldName).
			Update("category", req.Name)
		if result.Error != nil {
			return fmt.Errorf("failed to move tasks to renamed category: %w", result.Error)
		}
		moved = result.RowsAffected
		return nil
	})
	if err != nil {
		return nil, err
	}

	observability.RecordCascade("rename", moved)
	return &category, nil
}

// Delete removes the category and every task of its owner filed under its
// name, atomically.
func (s *CategoryService) Delete(ctx context.Context, id, scopeOwner string) error {
	var removed int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var category models.Category
		if err := findCategory(tx, id, scopeOwner, &category); err != nil {
			return err
		}

		result := tx.Where("user_id = ? AND category = ?", category.UserID, category.Name).
			Delete(&models.Task{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete category tasks: %w", result.Error)
		}
		removed = result.RowsAffected

		if err := tx.Delete(&category).Error; err != nil {
			return fmt.Errorf("failed to delete category: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	observability.RecordCascade("delete", removed)
	return nil
}

func findCategory(tx *gorm.DB, id, scopeOwner string, dst *models.Category) error {
	categoryID, err := uuid.Parse(id)
	if err != nil {
		return ErrCategoryNotFound
	}

	err = tx.Scopes(owner.ForOwner(scopeOwner)).Where("id = ?", categoryID).First(dst).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrCategoryNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to load category: %w", err)
	}
	return nil
}
