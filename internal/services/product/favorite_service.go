package product

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
)

// FavoriteProduct добавляет товар в избранное
func (s *ProductService) FavoriteProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var ownerID uuid.UUID
	err = db.Pool.QueryRow(ctx, `SELECT user_id FROM products WHERE id = $1`, productID).Scan(&ownerID)
	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Товар не найден"})
		}
		log.Printf("Ошибка запроса товара: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка добавления в избранное"})
	}

	if ownerID == userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Нельзя добавить собственный товар в избранное"})
	}

	var exists bool
	err = db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)
    `, userUUID, productID).Scan(&exists)
	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка добавления в избранное"})
	}
	if exists {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Товар уже в избранном"})
	}

	favorite := models.Favorite{
		ID:        uuid.New(),
		UserID:    userUUID,
		ProductID: productID,
	}

	// Запись избранного и счетчик товара меняются в одной транзакции,
	// иначе счетчик разъедется с фактическим числом записей
	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка открытия транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка добавления в избранное"})
	}
	defer tx.Rollback(ctx)

	if err := addFavorite(ctx, tx, &favorite); err != nil {
		log.Printf("Ошибка добавления в избранное: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка добавления в избранное"})
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка добавления в избранное"})
	}

	// Уведомляем владельца товара; ошибка доставки не мешает основному ответу
	_, err = s.dispatcher.Notify(ctx, userUUID, ownerID, models.NotificationProductFavorited,
		"Your product was added to favorites.",
		models.NotificationMetadata{ProductID: &productID})
	if err != nil {
		log.Printf("⚠️ Не удалось отправить уведомление об избранном: %v", err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":  true,
		"message":  "Товар добавлен в избранное",
		"favorite": favorite,
	})
}

// UnfavoriteProduct удаляет товар из избранного
func (s *ProductService) UnfavoriteProduct(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	tx, err := db.Pool.Begin(ctx)
	if err != nil {
		log.Printf("Ошибка открытия транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка удаления из избранного"})
	}
	defer tx.Rollback(ctx)

	removed, err := removeFavorite(ctx, tx, userUUID, productID)
	if err != nil {
		log.Printf("Ошибка удаления из избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка удаления из избранного"})
	}
	if !removed {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Товар не находится в избранном"})
	}

	if err := tx.Commit(ctx); err != nil {
		log.Printf("Ошибка фиксации транзакции: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка удаления из избранного"})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Товар удален из избранного",
	})
}

// addFavorite вставляет запись избранного и увеличивает счетчик товара
// в рамках переданной транзакции
func addFavorite(ctx context.Context, tx pgx.Tx, favorite *models.Favorite) error {
	err := tx.QueryRow(ctx, `
        INSERT INTO favorites (id, user_id, product_id)
        VALUES ($1, $2, $3)
        RETURNING created_at
    `, favorite.ID, favorite.UserID, favorite.ProductID).Scan(&favorite.CreatedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(ctx, `UPDATE products SET favorite_count = favorite_count + 1 WHERE id = $1`, favorite.ProductID)
	return err
}

// removeFavorite удаляет запись избранного и уменьшает счетчик товара.
// Возвращает false, если записи не было; счетчик тогда не трогается.
func removeFavorite(ctx context.Context, tx pgx.Tx, userID, productID uuid.UUID) (bool, error) {
	tag, err := tx.Exec(ctx, `
        DELETE FROM favorites WHERE user_id = $1 AND product_id = $2
    `, userID, productID)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	_, err = tx.Exec(ctx, `
        UPDATE products SET favorite_count = GREATEST(favorite_count - 1, 0) WHERE id = $1
    `, productID)
	return err == nil, err
}

// IsFavorite проверяет, находится ли товар в избранном пользователя
func (s *ProductService) IsFavorite(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	productID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID товара"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var exists bool
	err = db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM favorites WHERE user_id = $1 AND product_id = $2)
    `, userUUID, productID).Scan(&exists)
	if err != nil {
		log.Printf("Ошибка проверки избранного: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка проверки избранного"})
	}

	return c.JSON(fiber.Map{
		"success":     true,
		"is_favorite": exists,
	})
}
