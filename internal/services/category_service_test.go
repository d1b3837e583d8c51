package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/varshaaa-v/Web-Technology-Project/internal/database"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/models"
	"gorm.io/gorm"
)

func seedTask(t *testing.T, db *gorm.DB, userID, title, category string) models.Task {
	t.Helper()
	task := models.Task{UserID: userID, Title: title, Category: category, Priority: models.PriorityMedium}
	require.NoError(t, db.Create(&task).Error)
	return task
}

func categoriesOf(t *testing.T, db *gorm.DB, userID string) map[string]string {
	t.Helper()
	var tasks []models.Task
	require.NoError(t, db.Where("user_id = ?", userID).Find(&tasks).Error)
	out := make(map[string]string, len(tasks))
	for _, task := range tasks {
		out[task.Title] = task.Category
	}
	return out
}

func TestCategoryList_RequiresUser(t *testing.T) {
	svc := NewCategoryService(database.OpenTest(t))

	_, err := svc.List(context.Background(), "")
	assert.True(t, IsValidation(err))
}

func TestCategoryList_OldestFirstAndScoped(t *testing.T) {
	db := database.OpenTest(t)
	svc := NewCategoryService(db)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, db.Create(&models.Category{UserID: "a@x.io", Name: "Later", CreatedAt: base.Add(time.Hour)}).Error)
	require.NoError(t, db.Create(&models.Category{UserID: "a@x.io", Name: "First", CreatedAt: base}).Error)
	require.NoError(t, db.Create(&models.Category{UserID: "b@x.io", Name: "Other", CreatedAt: base}).Error)

	list, err := svc.List(context.Background(), "a@x.io")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "First", list[0].Name)
	assert.Equal(t, "Later", list[1].Name)
}

func TestCategoryCreate(t *testing.T) {
	svc := NewCategoryService(database.OpenTest(t))
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "  Work  ", UserID: "a@x.io"})
	require.NoError(t, err)
	assert.Equal(t, "Work", cat.Name)
	assert.NotEmpty(t, cat.ID.String())

	// duplicates are allowed
	_, err = svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Work", UserID: "a@x.io"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, &dto.CreateCategoryRequest{Name: "   ", UserID: "a@x.io"})
	assert.True(t, IsValidation(err))
	_, err = svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Work"})
	assert.True(t, IsValidation(err))
}

func TestCategoryRename_CascadesToOwnerTasksOnly(t *testing.T) {
	db := database.OpenTest(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "A", UserID: "a@x.io"})
	require.NoError(t, err)

	seedTask(t, db, "a@x.io", "one", "A")
	seedTask(t, db, "a@x.io", "two", "A")
	seedTask(t, db, "a@x.io", "three", "C")
	seedTask(t, db, "b@x.io", "foreign", "A")

	renamed, err := svc.Rename(ctx, cat.ID.String(), &dto.RenameCategoryRequest{Name: " B "}, "")
	require.NoError(t, err)
	assert.Equal(t, "B", renamed.Name)

	assert.Equal(t, map[string]string{"one": "B", "two": "B", "three": "C"}, categoriesOf(t, db, "a@x.io"))
	assert.Equal(t, map[string]string{"foreign": "A"}, categoriesOf(t, db, "b@x.io"))

	var stored models.Category
	require.NoError(t, db.First(&stored, "id = ?", cat.ID).Error)
	assert.Equal(t, "B", stored.Name)
}

func TestCategoryRename_Errors(t *testing.T) {
	svc := NewCategoryService(database.OpenTest(t))
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "A", UserID: "a@x.io"})
	require.NoError(t, err)

	_, err = svc.Rename(ctx, cat.ID.String(), &dto.RenameCategoryRequest{Name: ""}, "")
	assert.True(t, IsValidation(err))

	_, err = svc.Rename(ctx, "not-a-uuid", &dto.RenameCategoryRequest{Name: "B"}, "")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.Rename(ctx, "00000000-0000-0000-0000-000000000001", &dto.RenameCategoryRequest{Name: "B"}, "")
	assert.ErrorIs(t, err, ErrCategoryNotFound)

	_, err = svc.Rename(ctx, cat.ID.String(), &dto.RenameCategoryRequest{Name: "B"}, "b@x.io")
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestCategoryDelete_CascadesToMatchingTasks(t *testing.T) {
	db := database.OpenTest(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Home", UserID: "a@x.io"})
	require.NoError(t, err)

	seedTask(t, db, "a@x.io", "dishes", "Home")
	seedTask(t, db, "a@x.io", "report", "Work")
	seedTask(t, db, "b@x.io", "laundry", "Home")

	require.NoError(t, svc.Delete(ctx, cat.ID.String(), ""))

	assert.Equal(t, map[string]string{"report": "Work"}, categoriesOf(t, db, "a@x.io"))
	assert.Equal(t, map[string]string{"laundry": "Home"}, categoriesOf(t, db, "b@x.io"))

	var count int64
	require.NoError(t, db.Model(&models.Category{}).Count(&count).Error)
	assert.Zero(t, count)

	assert.ErrorIs(t, svc.Delete(ctx, cat.ID.String(), ""), ErrCategoryNotFound)
}

func TestCategoryDelete_ScopedOwnerCannotDeleteForeign(t *testing.T) {
	db := database.OpenTest(t)
	svc := NewCategoryService(db)
	ctx := context.Background()

	cat, err := svc.Create(ctx, &dto.CreateCategoryRequest{Name: "Home", UserID: "a@x.io"})
	require.NoError(t, err)
	seedTask(t, db, "a@x.io", "dishes", "Home")

	assert.ErrorIs(t, svc.Delete(ctx, cat.ID.String(), "b@x.io"), ErrCategoryNotFound)
	assert.Equal(t, map[string]string{"dishes": "Home"}, categoriesOf(t, db, "a@x.io"))
}
