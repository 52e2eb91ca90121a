package cloudinary

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/swapify-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API загрузки медиа
func (s *CloudinaryService) SetupRoutes(app *fiber.App) {
	// Группа для API медиа
	api := app.Group("/api/media")

	// Защищенные маршруты
	api.Use(middleware.AuthMiddleware(s.jwtService))

	// Параметры для прямой загрузки с клиента
	api.Get("/upload-params", s.GenerateUploadParams)

	// Загрузка файла через сервер
	api.Post("/upload", s.UploadImage)
}
