package handlers

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/studyloop/studyplan-api/internal/storage"
)

// validate checks request inputs; one instance for all handlers, it caches
// struct metadata internally.
var validate = validator.New()

// parseID extracts a positive integer route parameter
func parseID(c *fiber.Ctx, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// isNotFound reports whether err is the storage not-found sentinel
func isNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}

// isConflict reports whether err is the storage conflict sentinel
func isConflict(err error) bool {
	return errors.Is(err, storage.ErrConflict)
}
