package notification

import (
	"errors"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/utils"
)

// NotificationService представляет сервис для работы с уведомлениями
type NotificationService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	dispatcher *Dispatcher
	store      Store
}

// NewNotificationService создает новый экземпляр NotificationService
func NewNotificationService(cfg *config.Config, jwtService *utils.JWTService, dispatcher *Dispatcher, store Store) *NotificationService {
	return &NotificationService{
		cfg:        cfg,
		jwtService: jwtService,
		dispatcher: dispatcher,
		store:      store,
	}
}

// CreateNotification создает уведомление и отправляет его получателю
func (s *NotificationService) CreateNotification(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	senderID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	var requestData struct {
		ReceiverID string                      `json:"receiver_id"`
		Type       string                      `json:"type"`
		Message    string                      `json:"message"`
		Metadata   models.NotificationMetadata `json:"metadata"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if requestData.ReceiverID == "" || requestData.Type == "" || requestData.Message == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо указать receiver_id, type и message"})
	}

	receiverID, err := uuid.Parse(requestData.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID получателя"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	notification, err := s.dispatcher.Notify(ctx, senderID, receiverID, requestData.Type, requestData.Message, requestData.Metadata)
	if err != nil {
		log.Printf("Ошибка создания уведомления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка создания уведомления"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success":      true,
		"notification": notification,
		"message":      "Уведомление отправлено",
	})
}

// GetNotifications возвращает уведомления пользователя постранично,
// новые первыми
func (s *NotificationService) GetNotifications(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	_, limit, offset := parsePagination(c)

	ctx, cancel := db.GetContext()
	defer cancel()

	list, err := s.store.List(ctx, userUUID, limit, offset)
	if err != nil {
		log.Printf("Ошибка запроса уведомлений: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения уведомлений"})
	}

	return c.JSON(fiber.Map{
		"success":       true,
		"notifications": list.Notifications,
		"total":         list.Total,
	})
}

// MarkAsRead помечает уведомление прочитанным. Обновление ограничено
// получателем: чужой id выглядит как отсутствующий. Повторный вызов
// безвреден.
func (s *NotificationService) MarkAsRead(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID уведомления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	n, err := s.store.MarkRead(ctx, notificationID, userUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Уведомление не найдено"})
		}
		log.Printf("Ошибка обновления уведомления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка обновления уведомления"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"notification": n,
	})
}

// DeleteNotification удаляет уведомление получателя
func (s *NotificationService) DeleteNotification(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	notificationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID уведомления"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	n, err := s.store.Delete(ctx, notificationID, userUUID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Уведомление не найдено"})
		}
		log.Printf("Ошибка удаления уведомления: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка удаления уведомления"})
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"notification": n,
		"message":      "Уведомление удалено",
	})
}

// parsePagination разбирает параметры page/limit и вычисляет смещение.
// Страницы нумеруются с единицы.
func parsePagination(c fiber.Ctx) (page, limit, offset int) {
	page, _ = strconv.Atoi(c.Query("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.Query("limit", "10"))
	if limit < 1 {
		limit = 10
	}
	return page, limit, (page - 1) * limit
}
