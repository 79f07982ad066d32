package handlers

import (
	"errors"

	"github.com/anjiri1684/torah_tutor/logger"
	"github.com/anjiri1684/torah_tutor/middleware"
	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/anjiri1684/torah_tutor/utils"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

var (
	validate = validator.New()
	svc      *services.Services
)

// Setup installs the service layer used by every handler.
func Setup(s *services.Services) {
	svc = s
}

// respond maps service errors onto HTTP statuses. Unknown errors are
// returned to fiber's error handler as 500s.
func respond(c *fiber.Ctx, err error) error {
	var status int
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, services.ErrForbidden), errors.Is(err, services.ErrTeacherNotListed):
		status = fiber.StatusForbidden
	case errors.Is(err, services.ErrConflict),
		errors.Is(err, services.ErrAlreadyProcessed),
		errors.Is(err, services.ErrInvalidTransition):
		status = fiber.StatusConflict
	case errors.Is(err, services.ErrInvalidInput), errors.Is(err, services.ErrNotEnrolled):
		status = fiber.StatusBadRequest
	case errors.Is(err, services.ErrInvalidCredentials):
		status = fiber.StatusUnauthorized
	default:
		return err
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}

// ErrorHandler renders errors that escape a handler. 5xx errors are
// reported with the request path.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	msg := err.Error()
	if code >= fiber.StatusInternalServerError {
		logger.Report(err, "request failed", map[string]interface{}{"path": c.Path(), "method": c.Method()})
		msg = "Internal server error"
	}
	return c.Status(code).JSON(fiber.Map{"error": msg})
}

func badRequest(msg string) error {
	return fiber.NewError(fiber.StatusBadRequest, msg)
}

// parseBody decodes and validates the request body into req.
func parseBody(c *fiber.Ctx, req interface{}) error {
	if err := c.BodyParser(req); err != nil {
		return badRequest("Cannot parse JSON")
	}
	if err := validate.Struct(req); err != nil {
		return badRequest(err.Error())
	}
	return nil
}

func paramID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + name)
	}
	return id, nil
}

func currentUserID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := middleware.UserID(c)
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, err.Error())
	}
	return id, nil
}

// currentUser loads the caller's profile. The role in the token may be stale
// after an admin changes it, so authorization decisions use the stored one.
func currentUser(c *fiber.Ctx) (models.Profile, error) {
	id, err := currentUserID(c)
	if err != nil {
		return models.Profile{}, err
	}
	p, err := svc.Profile(c.UserContext(), id)
	if errors.Is(err, services.ErrNotFound) {
		return models.Profile{}, fiber.NewError(fiber.StatusUnauthorized, "account no longer exists")
	}
	return p, err
}

func page(c *fiber.Ctx) (limit, offset int) {
	return utils.Page(c.Query("page"), c.Query("page_size"), 20)
}
