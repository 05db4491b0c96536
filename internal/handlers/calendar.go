package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/calendar"
	"github.com/studyloop/studyplan-api/internal/services"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/types"
	"github.com/studyloop/studyplan-api/internal/utils"
)

// CalendarHandler handles calendar integration routes
type CalendarHandler struct {
	Store  storage.Storage
	Client *calendar.Client
}

// GetAuthURL handles GET /api/calendar/auth-url
// @Summary Get the Google authorization URL
// @Tags Calendar
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /calendar/auth-url [get]
func (h *CalendarHandler) GetAuthURL(c *fiber.Ctx) error {
	url, err := h.Client.AuthURL(c.Context())
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "calendar.authUrl")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"url": url})
}

// GetAuthStatus handles GET /api/calendar/status
// @Summary Check calendar authorization status
// @Description Degrades to authenticated=false when the integration server is unreachable
// @Tags Calendar
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /calendar/status [get]
func (h *CalendarHandler) GetAuthStatus(c *fiber.Ctx) error {
	authenticated := h.Client.AuthStatus(c.Context())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"authenticated": authenticated})
}

// ExportPlan handles POST /api/calendar/export
// @Summary Export a plan's tasks to the calendar
// @Description A lost authorization comes back as success=false with an authUrl to redirect the user to; it is not an error
// @Tags Calendar
// @Accept json
// @Produce json
// @Param body body object true "planId, calendarName, syncMode"
// @Success 200 {object} calendar.ExportResult
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 502 {object} utils.ErrorResponseStruct
// @Router /calendar/export [post]
func (h *CalendarHandler) ExportPlan(c *fiber.Ctx) error {
	var body struct {
		PlanID       types.FlexInt64 `json:"planId"`
		CalendarName string          `json:"calendarName"`
		SyncMode     string          `json:"syncMode"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "calendar.validation.input")
	}
	if body.PlanID.Int64() < 1 {
		return utils.ErrorResponse(c, "Invalid plan id", fiber.StatusBadRequest, "calendar.validation.input")
	}
	if body.SyncMode == "" {
		body.SyncMode = calendar.SyncModeOneTime
	}
	if body.SyncMode != calendar.SyncModeFull && body.SyncMode != calendar.SyncModeOneTime {
		return utils.ErrorResponse(c, fmt.Sprintf("Invalid sync mode '%s'", body.SyncMode), fiber.StatusBadRequest, "calendar.validation.input")
	}

	result, err := services.ExportPlanTasks(c.Context(), h.Store, h.Client, body.PlanID.Int64(), body.CalendarName, body.SyncMode)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("Study plan %d not found", body.PlanID.Int64()))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadGateway, "calendar.export")
	}

	return c.Status(fiber.StatusOK).JSON(result)
}

// DisableSync handles POST /api/calendar/disable-sync
// @Summary Disable ongoing calendar synchronization
// @Description Best effort: a failure reports disabled=false, never an error
// @Tags Calendar
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /calendar/disable-sync [post]
func (h *CalendarHandler) DisableSync(c *fiber.Ctx) error {
	disabled := h.Client.DisableSync(c.Context())
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"disabled": disabled})
}
