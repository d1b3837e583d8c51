package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/varshaaa-v/Web-Technology-Project/internal/dto"
	"github.com/varshaaa-v/Web-Technology-Project/internal/owner"
	"github.com/varshaaa-v/Web-Technology-Project/internal/services"
)

type TaskHandler struct {
	taskService *services.TaskService
}

func NewTaskHandler(taskService *services.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// parseTaskInput decodes a loosely typed JSON body. An empty body is an
// empty input.
func parseTaskInput(c *fiber.Ctx) (services.TaskInput, error) {
	in := services.TaskInput{}
	if len(c.Body()) == 0 {
		return in, nil
	}
	if err := c.BodyParser(&in); err != nil {
		return nil, err
	}
	if in == nil {
		in = services.TaskInput{}
	}
	return in, nil
}

func (h *TaskHandler) List(c *fiber.Ctx) error {
	userID, err := owner.Resolve(c, c.Query("userId"))
	if err != nil {
		return respondError(c, err, "task.list", "Failed to fetch tasks")
	}

	tasks, err := h.taskService.List(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err, "task.list", "Failed to fetch tasks")
	}

	return c.JSON(dto.NewTasks(tasks))
}

func (h *TaskHandler) Create(c *fiber.Ctx) error {
	in, err := parseTaskInput(c)
	if err != nil {
		return invalidBody(c)
	}

	task, err := h.taskService.Create(c.UserContext(), in, owner.GetUserID(c))
	if err != nil {
		return respondError(c, err, "task.create", "Failed to create task")
	}

	return c.Status(fiber.StatusCreated).JSON(dto.NewTask(task))
}

func (h *TaskHandler) Update(c *fiber.Ctx) error {
	in, err := parseTaskInput(c)
	if err != nil {
		return invalidBody(c)
	}

	task, err := h.taskService.Update(c.UserContext(), c.Params("id"), in, owner.GetUserID(c))
	if err != nil {
		return respondError(c, err, "task.update", "Failed to update task")
	}

	return c.JSON(dto.NewTask(task))
}

func (h *TaskHandler) Delete(c *fiber.Ctx) error {
	if err := h.taskService.Delete(c.UserContext(), c.Params("id"), owner.GetUserID(c)); err != nil {
		return respondError(c, err, "task.delete", "Failed to delete task")
	}

	return c.JSON(dto.MessageResponse{Message: "Task deleted successfully"})
}
