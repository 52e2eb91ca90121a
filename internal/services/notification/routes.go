package notification

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/swapify-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API уведомлений
func (s *NotificationService) SetupRoutes(app *fiber.App) {
	// Группа для API уведомлений
	api := app.Group("/api/notifications")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания и отправки уведомления
	api.Post("/", s.CreateNotification)

	// Маршрут для получения уведомлений пользователя
	api.Get("/", s.GetNotifications)

	// Маршрут для пометки уведомления прочитанным
	api.Put("/:id", s.MarkAsRead)

	// Маршрут для удаления уведомления
	api.Delete("/:id", s.DeleteNotification)
}
