package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/swapify-api/internal/utils"
)

// AuthMiddleware создаёт middleware для проверки JWT
func AuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		userID, ok := extractBearerUserID(c, jwtService)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Недействительный или отсутствующий токен",
			})
		}

		// Добавляем userID в контекст
		c.Locals("userID", userID)

		return c.Next()
	}
}

// OptionalAuthMiddleware не требует токен: при его отсутствии или
// невалидности запрос продолжается как анонимный (userID пустой)
func OptionalAuthMiddleware(jwtService *utils.JWTService) fiber.Handler {
	return func(c fiber.Ctx) error {
		if userID, ok := extractBearerUserID(c, jwtService); ok {
			c.Locals("userID", userID)
		} else {
			c.Locals("userID", "")
		}
		return c.Next()
	}
}

// extractBearerUserID достаёт и валидирует Bearer токен из заголовка
func extractBearerUserID(c fiber.Ctx, jwtService *utils.JWTService) (string, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return "", false
	}

	userID, err := jwtService.ExtractUserID(parts[1])
	if err != nil {
		return "", false
	}

	// Проверяем, что userID является валидным UUID
	if _, err := uuid.Parse(userID); err != nil {
		return "", false
	}

	return userID, true
}
