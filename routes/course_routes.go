package routes

import (
	"github.com/anjiri1684/torah_tutor/handlers"
	"github.com/anjiri1684/torah_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

// CourseRoutes are shared by every role; the services decide ownership.
func CourseRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	courses := api.Group("/courses", middleware.Protected())
	courses.Get("/:courseId", handlers.GetCourse)
	courses.Put("/:courseId", handlers.UpdateCourse)
	courses.Delete("/:courseId", handlers.DeactivateCourse)
	courses.Post("/:courseId/enrollments", handlers.EnrollStudent)

	trials := courses.Group("/:courseId/trial", middleware.StudentRequired())
	trials.Get("", handlers.GetTrialEligibility)
	trials.Post("", handlers.BookTrial)

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("", handlers.GetMySessions)
	sessions.Post("/:sessionId/cancel", handlers.CancelSession)

	api.Get("/enrollments", middleware.Protected(), middleware.StudentRequired(), handlers.GetMyEnrollments)
}
