package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/utils"
)

// PlanHandler handles study plan routes
type PlanHandler struct {
	Store storage.Storage
}

// ListStudyPlans handles GET /api/study-plans
// @Summary List every study plan
// @Tags StudyPlans
// @Produce json
// @Success 200 {array} models.StudyPlan
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans [get]
// @Security CookieAuth
func (h *PlanHandler) ListStudyPlans(c *fiber.Ctx) error {
	plans, err := h.Store.GetAllStudyPlans(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listStudyPlans")
	}
	return c.Status(fiber.StatusOK).JSON(plans)
}

// GetStudyPlan handles GET /api/study-plans/:id
// @Summary Get a study plan
// @Tags StudyPlans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} models.StudyPlan
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans/{id} [get]
func (h *PlanHandler) GetStudyPlan(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid plan id", fiber.StatusBadRequest, "plans.validation.id")
	}

	plan, err := h.Store.GetStudyPlan(c.Context(), id)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study plan %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getStudyPlan")
	}

	return c.Status(fiber.StatusOK).JSON(plan)
}

// CreateStudyPlan handles POST /api/study-plans
// @Summary Create a study plan
// @Description Missing studyMaterials, topicsProgress and selectedSchedule get their defaults; createdAt is stamped by the server
// @Tags StudyPlans
// @Accept json
// @Produce json
// @Param body body storage.NewStudyPlan true "Plan to create"
// @Success 201 {object} models.StudyPlan
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans [post]
func (h *PlanHandler) CreateStudyPlan(c *fiber.Ctx) error {
	var in storage.NewStudyPlan
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plans.validation.input")
	}
	if err := validate.Struct(in); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	plan, err := h.Store.CreateStudyPlan(c.Context(), in)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createStudyPlan")
	}

	return c.Status(fiber.StatusCreated).JSON(plan)
}

// UpdateStudyPlan handles PATCH /api/study-plans/:id
// @Summary Partially update a study plan
// @Description Merges only the supplied fields over the stored record
// @Tags StudyPlans
// @Accept json
// @Produce json
// @Param id path int true "Plan ID"
// @Param body body storage.PlanPatch true "Fields to change"
// @Success 200 {object} models.StudyPlan
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans/{id} [patch]
func (h *PlanHandler) UpdateStudyPlan(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid plan id", fiber.StatusBadRequest, "plans.validation.id")
	}

	var patch storage.PlanPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "plans.validation.input")
	}
	if err := validate.Struct(patch); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "plans.validation.input")
	}

	plan, err := h.Store.UpdateStudyPlan(c.Context(), id, patch)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study plan %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateStudyPlan")
	}

	return c.Status(fiber.StatusOK).JSON(plan)
}

// DeleteStudyPlan handles DELETE /api/study-plans/:id
// @Summary Delete a study plan
// @Description Idempotent; tasks and weeks of the plan are not cascade-deleted
// @Tags StudyPlans
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans/{id} [delete]
func (h *PlanHandler) DeleteStudyPlan(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid plan id", fiber.StatusBadRequest, "plans.validation.id")
	}

	deleted, err := h.Store.DeleteStudyPlan(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteStudyPlan")
	}

	return utils.DeleteResponse(c, deleted)
}
