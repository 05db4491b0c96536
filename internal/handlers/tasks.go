package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/models"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/types"
	"github.com/studyloop/studyplan-api/internal/utils"
)

// TaskHandler handles study task routes
type TaskHandler struct {
	Store storage.Storage
}

// GetTasksByPlan handles GET /api/study-plans/:id/tasks
// @Summary List a plan's tasks
// @Description Tasks are returned in creation order
// @Tags StudyTasks
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {array} models.StudyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans/{id}/tasks [get]
func (h *TaskHandler) GetTasksByPlan(c *fiber.Ctx) error {
	planID, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid plan id", fiber.StatusBadRequest, "tasks.validation.id")
	}

	tasks, err := h.Store.GetTasksByPlanID(c.Context(), planID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getTasksByPlan")
	}
	if tasks == nil {
		tasks = []models.StudyTask{}
	}

	return c.Status(fiber.StatusOK).JSON(tasks)
}

// GetStudyTask handles GET /api/tasks/:id
// @Summary Get a study task
// @Tags StudyTasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} models.StudyTask
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetStudyTask(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "tasks.validation.id")
	}

	task, err := h.Store.GetStudyTask(c.Context(), id)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study task %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getStudyTask")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// CreateStudyTasks handles POST /api/tasks
// @Summary Create one or more study tasks
// @Description Accepts a single task object or an array; the client generates whole schedules in one call
// @Tags StudyTasks
// @Accept json
// @Produce json
// @Param body body storage.NewStudyTask true "Task(s) to create"
// @Success 201 {array} models.StudyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks [post]
func (h *TaskHandler) CreateStudyTasks(c *fiber.Ctx) error {
	var body types.FlexList[storage.NewStudyTask]
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tasks.validation.input")
	}
	if len(body) == 0 {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tasks.validation.input")
	}

	inputs := body.Slice()
	for _, in := range inputs {
		if err := validate.Struct(in); err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tasks.validation.input")
		}
	}

	created := make([]models.StudyTask, 0, len(inputs))
	for _, in := range inputs {
		task, err := h.Store.CreateStudyTask(c.Context(), in)
		if err != nil {
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createStudyTasks")
		}
		created = append(created, *task)
	}

	if len(created) == 1 {
		return c.Status(fiber.StatusCreated).JSON(created[0])
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

// UpdateStudyTask handles PATCH /api/tasks/:id
// @Summary Partially update a study task
// @Tags StudyTasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body storage.TaskPatch true "Fields to change"
// @Success 200 {object} models.StudyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [patch]
func (h *TaskHandler) UpdateStudyTask(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "tasks.validation.id")
	}

	var patch storage.TaskPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tasks.validation.input")
	}
	if err := validate.Struct(patch); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "tasks.validation.input")
	}

	task, err := h.Store.UpdateStudyTask(c.Context(), id, patch)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study task %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateStudyTask")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// CompleteStudyTask handles POST /api/tasks/:id/complete
// @Summary Toggle task completion
// @Description Completion is a distinguished mutation, separate from the generic patch
// @Tags StudyTasks
// @Accept json
// @Produce json
// @Param id path int true "Task ID"
// @Param body body object true "Completion flag"
// @Success 200 {object} models.StudyTask
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{id}/complete [post]
func (h *TaskHandler) CompleteStudyTask(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "tasks.validation.id")
	}

	body := struct {
		Completed *bool `json:"completed"`
	}{}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&body); err != nil {
			return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "tasks.validation.input")
		}
	}

	// No body or no flag means "mark complete"
	completed := true
	if body.Completed != nil {
		completed = *body.Completed
	}

	task, err := h.Store.MarkTaskComplete(c.Context(), id, completed)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study task %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "completeStudyTask")
	}

	return c.Status(fiber.StatusOK).JSON(task)
}

// DeleteStudyTask handles DELETE /api/tasks/:id
// @Summary Delete a study task
// @Tags StudyTasks
// @Produce json
// @Param id path int true "Task ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /tasks/{id} [delete]
func (h *TaskHandler) DeleteStudyTask(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid task id", fiber.StatusBadRequest, "tasks.validation.id")
	}

	deleted, err := h.Store.DeleteStudyTask(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteStudyTask")
	}

	return utils.DeleteResponse(c, deleted)
}
