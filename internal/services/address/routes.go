package address

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/swapify-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API адресов
func (s *AddressService) SetupRoutes(app *fiber.App) {
	// Группа для API адресов
	api := app.Group("/api/addresses")

	// Защищенные маршруты (требуют авторизации)
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Маршрут для добавления адреса
	api.Post("/add", s.AddAddress)

	// Маршрут для получения адресов пользователя
	api.Get("/", s.GetAddresses)

	// Маршрут для обновления адреса
	api.Put("/update/:id", s.UpdateAddress)

	// Маршрут для удаления адреса
	api.Delete("/delete/:id", s.DeleteAddress)

	// Маршрут для назначения основного адреса
	api.Post("/primary/:id", s.SetPrimaryAddress)
}
