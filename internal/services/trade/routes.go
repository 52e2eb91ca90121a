package trade

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/swapify-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API обменов
func (s *TradeService) SetupRoutes(app *fiber.App) {
	// Группа для API обменов
	api := app.Group("/api/trades")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для создания предложения обмена
	api.Post("/", s.CreateTrade)

	// Маршрут для получения входящих предложений обмена
	api.Get("/received", s.GetReceivedTrades)

	// Маршрут для получения деталей предложения обмена
	api.Get("/:id", s.GetTrade)

	// Маршруты для принятия и отклонения предложения
	api.Post("/:id/accept", s.AcceptTrade)
	api.Post("/:id/reject", s.RejectTrade)
}
