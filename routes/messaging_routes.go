package routes

import (
	"github.com/anjiri1684/torah_tutor/handlers"
	"github.com/anjiri1684/torah_tutor/middleware"
	"github.com/anjiri1684/torah_tutor/websocket"
	"github.com/gofiber/fiber/v2"
)

func MessagingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	conversations := api.Group("/conversations", middleware.Protected())
	conversations.Get("", handlers.GetUserConversations)
	conversations.Post("", handlers.CreateOrGetConversation)
	conversations.Get("/:conversationId/messages", handlers.GetConversationMessages)
	conversations.Post("/:conversationId/messages", handlers.SendMessage)
}

// RealtimeRoutes mounts the change-event stream.
func RealtimeRoutes(app *fiber.App, hub *websocket.Hub) {
	app.Get("/api/v1/ws", middleware.ProtectedWebsocket(), websocket.Upgrade, hub.Serve())
}
