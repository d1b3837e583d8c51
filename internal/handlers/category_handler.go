package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/owner"
	"github.com/varshaaa-v/Web-Technology-Project/internal/services"
)

type CategoryHandler struct {
	categoryService *services.CategoryService
}

func NewCategoryHandler(categoryService *services.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	userID, err := owner.Resolve(c, c.Query("userId"))
	if err != nil {
		return respondError(c, err, "category.list", "Failed to fetch categories")
	}

	categories, err := h.categoryService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "category.list", "Failed to fetch categories")
	}

	return c.JSON(dto.NewCategories(categories))
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	userID, err := owner.Resolve(c, req.UserID)
	if err != nil {
		return respondError(c, err, "category.create", "Failed to create category")
	}
	req.UserID = userID

	category, err := h.categoryService.Create(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err, "category.create", "Failed to create category")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewCategory(category))
}

// Rename also moves the owner's tasks to the new name.
func (h *CategoryHandler) Rename(c *fiber.Ctx) error {
	var req dto.RenameCategoryRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c)
	}

	category, err := h.categoryService.Rename(c.UserContext(), c.Params("id"), &req, owner.GetUserID(c))
	if err != nil {
		return respondError(c, err, "category.rename", "Failed to update category")
	}

	return c.JSON(dto.NewCategory(category))
}

func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	if err := h.categoryService.Delete(c.UserContext(), c.Params("id"), owner.GetUserID(c)); err != nil {
		return respondError(c, err, "category.delete", "Failed to delete category")
	}

	return c.JSON(dto.MessageResponse{Message: "Category and tasks deleted"})
}
