package product

import (
	"log"

	"github.com/gofiber/fiber/v3"

	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
)

// GetCategories возвращает список категорий товаров
func (s *ProductService) GetCategories(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM categories ORDER BY name`)
	if err != nil {
		log.Printf("Ошибка запроса категорий: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения категорий"})
	}
	defer rows.Close()

	categories := []models.Category{}
	for rows.Next() {
		var cat models.Category
		if err := rows.Scan(&cat.ID, &cat.Name); err != nil {
			log.Printf("Ошибка сканирования категории: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения категорий"})
		}
		categories = append(categories, cat)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"categories": categories,
	})
}

// GetConditions возвращает список состояний товаров
func (s *ProductService) GetConditions(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM conditions ORDER BY id`)
	if err != nil {
		log.Printf("Ошибка запроса состояний: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения состояний"})
	}
	defer rows.Close()

	conditions := []models.Condition{}
	for rows.Next() {
		var cond models.Condition
		if err := rows.Scan(&cond.ID, &cond.Name); err != nil {
			log.Printf("Ошибка сканирования состояния: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения состояний"})
		}
		conditions = append(conditions, cond)
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"conditions": conditions,
	})
}

// GetStatuses возвращает список статусов товаров
func (s *ProductService) GetStatuses(c fiber.Ctx) error {
	ctx, cancel := db.GetContext()
	defer cancel()

	rows, err := db.Pool.Query(ctx, `SELECT id, name FROM product_statuses ORDER BY id`)
	if err != nil {
		log.Printf("Ошибка запроса статусов: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения статусов"})
	}
	defer rows.Close()

	statuses := []models.ProductStatus{}
	for rows.Next() {
		var st models.ProductStatus
		if err := rows.Scan(&st.ID, &st.Name); err != nil {
			log.Printf("Ошибка сканирования статуса: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения статусов"})
		}
		statuses = append(statuses, st)
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"statuses": statuses,
	})
}
