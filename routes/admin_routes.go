package routes

import (
	"github.com/anjiri1684/torah_tutor/handlers"
	"github.com/anjiri1684/torah_tutor/middleware"
	"github.com/gofiber/fiber/v2"
)

func AdminRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	admin := api.Group("/admin", middleware.Protected(), middleware.AdminRequired())

	applications := admin.Group("/applications")
	applications.Get("", handlers.ListApplications)
	applications.Put("/:teacherId", handlers.ManageApplication)
	applications.Get("/:teacherId/history", handlers.GetApplicationHistory)

	users := admin.Group("/users")
	users.Get("", handlers.GetAllUsers)
	users.Put("/:userId/role", handlers.ChangeUserRole)
	users.Delete("/:userId", handlers.AdminDeleteUser)

	sponsorships := admin.Group("/sponsorships")
	sponsorships.Get("", handlers.ListSponsorships)
	sponsorships.Post("", handlers.CreateSponsorship)

	salary := admin.Group("/salary-settings")
	salary.Get("", handlers.GetSalarySettings)
	salary.Post("", handlers.UpdateSalarySettings)
	salary.Get("/history", handlers.GetSalaryHistory)

	payments := admin.Group("/payments")
	payments.Get("", handlers.AdminGetPayments)
	payments.Post("/generate", handlers.GeneratePayments)
	payments.Post("/:paymentId/process", handlers.ProcessPayment)
}
