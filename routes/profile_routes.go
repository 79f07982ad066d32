package routes

import (
	"github.com/anjiri1684/torah_tutor/handlers"
	"github.com/anjiri1684/torah_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile/me", middleware.Protected())
	profile.Get("", handlers.GetMyProfile)
	profile.Put("", handlers.UpdateMyProfile)

	search := api.Group("/search", middleware.Protected())
	search.Get("", handlers.Search)
	search.Get("/teachers", handlers.SearchTeachers)
	search.Get("/courses", handlers.SearchCourses)
	search.Get("/partners", handlers.SearchPartners)
}
