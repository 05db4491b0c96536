package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/models"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/utils"
)

// WeekHandler handles study week routes
type WeekHandler struct {
	Store storage.Storage
}

// GetWeeksByPlan handles GET /api/study-plans/:id/weeks
// @Summary List a plan's weeks
// @Tags StudyWeeks
// @Produce json
// @Param id path int true "Plan ID"
// @Success 200 {array} models.StudyWeek
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /study-plans/{id}/weeks [get]
func (h *WeekHandler) GetWeeksByPlan(c *fiber.Ctx) error {
	planID, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid plan id", fiber.StatusBadRequest, "weeks.validation.id")
	}

	weeks, err := h.Store.GetWeeksByPlanID(c.Context(), planID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getWeeksByPlan")
	}
	if weeks == nil {
		weeks = []models.StudyWeek{}
	}

	return c.Status(fiber.StatusOK).JSON(weeks)
}

// GetStudyWeek handles GET /api/weeks/:id
// @Summary Get a study week
// @Tags StudyWeeks
// @Produce json
// @Param id path int true "Week ID"
// @Success 200 {object} models.StudyWeek
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /weeks/{id} [get]
func (h *WeekHandler) GetStudyWeek(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid week id", fiber.StatusBadRequest, "weeks.validation.id")
	}

	week, err := h.Store.GetStudyWeek(c.Context(), id)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study week %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getStudyWeek")
	}

	return c.Status(fiber.StatusOK).JSON(week)
}

// CreateStudyWeek handles POST /api/weeks
// @Summary Create a study week
// @Description Task slots are embedded point-in-time snapshots of their tasks
// @Tags StudyWeeks
// @Accept json
// @Produce json
// @Param body body storage.NewStudyWeek true "Week to create"
// @Success 201 {object} models.StudyWeek
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /weeks [post]
func (h *WeekHandler) CreateStudyWeek(c *fiber.Ctx) error {
	var in storage.NewStudyWeek
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "weeks.validation.input")
	}
	if err := validate.Struct(in); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "weeks.validation.input")
	}
	// ISO dates order lexicographically
	if in.WeekEnd < in.WeekStart {
		return utils.ErrorResponse(c, "Week end precedes week start", fiber.StatusBadRequest, "weeks.validation.range")
	}

	week, err := h.Store.CreateStudyWeek(c.Context(), in)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createStudyWeek")
	}

	return c.Status(fiber.StatusCreated).JSON(week)
}

// UpdateStudyWeek handles PATCH /api/weeks/:id
// @Summary Partially update a study week
// @Tags StudyWeeks
// @Accept json
// @Produce json
// @Param id path int true "Week ID"
// @Param body body storage.WeekPatch true "Fields to change"
// @Success 200 {object} models.StudyWeek
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /weeks/{id} [patch]
func (h *WeekHandler) UpdateStudyWeek(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid week id", fiber.StatusBadRequest, "weeks.validation.id")
	}

	var patch storage.WeekPatch
	if err := c.BodyParser(&patch); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "weeks.validation.input")
	}
	if err := validate.Struct(patch); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "weeks.validation.input")
	}

	// Re-check the range invariant against the merged record before saving
	if patch.WeekStart != nil || patch.WeekEnd != nil {
		current, err := h.Store.GetStudyWeek(c.Context(), id)
		if err != nil {
			if isNotFound(err) {
				return utils.NotFoundResponse(c, fmt.Sprintf("Study week %d not found", id))
			}
			return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateStudyWeek")
		}
		start, end := current.WeekStart, current.WeekEnd
		if patch.WeekStart != nil {
			start = *patch.WeekStart
		}
		if patch.WeekEnd != nil {
			end = *patch.WeekEnd
		}
		if end < start {
			return utils.ErrorResponse(c, "Week end precedes week start", fiber.StatusBadRequest, "weeks.validation.range")
		}
	}

	week, err := h.Store.UpdateStudyWeek(c.Context(), id, patch)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study week %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "updateStudyWeek")
	}

	return c.Status(fiber.StatusOK).JSON(week)
}

// DeleteStudyWeek handles DELETE /api/weeks/:id
// @Summary Delete a study week
// @Tags StudyWeeks
// @Produce json
// @Param id path int true "Week ID"
// @Success 200 {object} utils.DeleteResponseStruct
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /weeks/{id} [delete]
func (h *WeekHandler) DeleteStudyWeek(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid week id", fiber.StatusBadRequest, "weeks.validation.id")
	}

	deleted, err := h.Store.DeleteStudyWeek(c.Context(), id)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteStudyWeek")
	}

	return utils.DeleteResponse(c, deleted)
}
