package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/storage"
	"github.com/studyloop/studyplan-api/internal/utils"
)

// UserHandler handles user routes
type UserHandler struct {
	Store storage.Storage
}

// CreateUser handles POST /api/users
// @Summary Register a user
// @Description Create a user with a unique username
// @Tags Users
// @Accept json
// @Produce json
// @Param body body storage.NewUser true "User to create"
// @Success 201 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 409 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [post]
func (h *UserHandler) CreateUser(c *fiber.Ctx) error {
	var in storage.NewUser
	if err := c.BodyParser(&in); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "users.validation.input")
	}
	if err := validate.Struct(in); err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusBadRequest, "users.validation.input")
	}

	if _, err := h.Store.GetUserByUsername(c.Context(), in.Username); err == nil {
		return utils.ErrorResponse(c, fmt.Sprintf("Username '%s' is taken", in.Username), fiber.StatusConflict, "users.conflict")
	} else if !isNotFound(err) {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createUser")
	}

	user, err := h.Store.CreateUser(c.Context(), in)
	if err != nil {
		// The storage layer enforces uniqueness too, so a concurrent create
		// that slipped past the lookup still comes back as a conflict
		if isConflict(err) {
			return utils.ErrorResponse(c, fmt.Sprintf("Username '%s' is taken", in.Username), fiber.StatusConflict, "users.conflict")
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createUser")
	}

	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUser handles GET /api/users/:id
// @Summary Get user by id
// @Tags Users
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} models.User
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	id, ok := parseID(c, "id")
	if !ok {
		return utils.ErrorResponse(c, "Invalid user id", fiber.StatusBadRequest, "users.validation.id")
	}

	user, err := h.Store.GetUser(c.Context(), id)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("User %d not found", id))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getUser")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}

// LookupUser handles GET /api/users?username=...
// @Summary Look up a user by username
// @Tags Users
// @Produce json
// @Param username query string true "Username"
// @Success 200 {object} models.User
// @Failure 400 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Failure 500 {object} utils.ErrorResponseStruct
// @Router /users [get]
func (h *UserHandler) LookupUser(c *fiber.Ctx) error {
	username := c.Query("username")
	if username == "" {
		return utils.ErrorResponse(c, "Query parameter 'username' is required", fiber.StatusBadRequest, "users.validation.username")
	}

	user, err := h.Store.GetUserByUsername(c.Context(), username)
	if err != nil {
		if isNotFound(err) {
			return utils.NotFoundResponse(c, fmt.Sprintf("User '%s' not found", username))
		}
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "lookupUser")
	}

	return c.Status(fiber.StatusOK).JSON(user)
}
