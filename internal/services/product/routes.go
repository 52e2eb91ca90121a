package product

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rajivgeraev/swapify-api/internal/middleware"
)

// SetupRoutes настраивает маршруты для API товаров
func (s *ProductService) SetupRoutes(app *fiber.App) {
	// Группа для API товаров
	api := app.Group("/api/products")

	// Справочники доступны без авторизации
	api.Get("/meta/categories", s.GetCategories)
	api.Get("/meta/conditions", s.GetConditions)
	api.Get("/meta/statuses", s.GetStatuses)

	// Лента товаров: авторизация опциональна, свои товары скрываются
	api.Get("/", s.GetProducts, middleware.OptionalAuthMiddleware(s.jwtService))

	// Защищенные маршруты (требуют авторизации)
	auth := middleware.AuthMiddleware(s.jwtService)

	api.Get("/my-products", s.GetMyProducts, auth)
	api.Get("/favorites", s.GetFavoriteProducts, auth)
	api.Post("/", s.CreateProduct, auth)

	// Проверка избранного живет в ветке meta, рядом со справочниками
	api.Get("/meta/:id/is-favorite", s.IsFavorite, auth)

	// Маршруты конкретного товара; сам товар доступен публично
	api.Get("/:id", s.GetProduct)
	api.Put("/:id", s.UpdateProduct, auth)
	api.Delete("/:id", s.DeleteProduct, auth)

	// Избранное
	api.Post("/:id/favorite", s.FavoriteProduct, auth)
	api.Delete("/:id/favorite", s.UnfavoriteProduct, auth)
}
