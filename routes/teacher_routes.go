package routes

import (
	"github.com/anjiri1684/torah_tutor/handlers"
	"github.com/anjiri1684/torah_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func TeacherRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	teacher := api.Group("/teacher", middleware.Protected(), middleware.TeacherRequired())
	teacher.Post("/reapply", handlers.ReapplyForApproval)
	teacher.Get("/approval-history", handlers.GetMyApprovalHistory)
	teacher.Get("/payments", handlers.GetMyPayments)

	courses := teacher.Group("/courses")
	courses.Get("", handlers.GetMyCourses)
	courses.Post("", handlers.CreateCourse)

	sessions := teacher.Group("/sessions")
	sessions.Post("", handlers.ScheduleSession)
	sessions.Put("/:sessionId/meeting-link", handlers.AddMeetingLink)
	sessions.Post("/:sessionId/complete", handlers.CompleteSession)
}
