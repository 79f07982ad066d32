package routes

import "github.com/gofiber/fiber/v2"

// Setup mounts every REST route group.
func Setup(app *fiber.App) {
	AuthRoutes(app)
	ProfileRoutes(app)
	CourseRoutes(app)
	TeacherRoutes(app)
	AdminRoutes(app)
	MessagingRoutes(app)
	UploadRoutes(app)
}
