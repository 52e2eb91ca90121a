package user

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/swapify-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API пользователей
func (s *UserService) SetupRoutes(app *fiber.App) {
	api := app.Group("/api/users")

	// Открытые маршруты
	api.Post("/register", s.Register)
	api.Post("/login", s.Login)
	api.Post("/refresh-token", s.RefreshToken)

	// Защищенные маршруты (требуют авторизации)
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(s.jwtService))
	protected.Get("/me", s.Me)
}
