package trade

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/services/notification"
	"github.com/rajivgeraev/swapify-api/internal/utils"
)

// TradeService представляет сервис для работы с предложениями обмена
type TradeService struct {
	cfg        *config.Config
	jwtService *utils.JWTService
	dispatcher *notification.Dispatcher
}

// NewTradeService создает новый экземпляр TradeService
func NewTradeService(cfg *config.Config, jwtService *utils.JWTService, dispatcher *notification.Dispatcher) *TradeService {
	return &TradeService{
		cfg:        cfg,
		jwtService: jwtService,
		dispatcher: dispatcher,
	}
}

// CreateTrade создает новое предложение обмена
func (s *TradeService) CreateTrade(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	senderID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	// Извлекаем данные из запроса
	var requestData struct {
		ReceiverID        string          `json:"receiver_id"`
		OfferedProducts   []string        `json:"offered_products"`
		RequestedProducts []string        `json:"requested_products"`
		OfferedCash       decimal.Decimal `json:"offered_cash"`
		RequestedCash     decimal.Decimal `json:"requested_cash"`
		Message           string          `json:"message"`
	}

	if err := c.Bind().Body(&requestData); err != nil {
		log.Printf("Ошибка декодирования тела запроса: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат данных"})
	}

	if requestData.ReceiverID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Необходимо указать ID получателя"})
	}

	receiverID, err := uuid.Parse(requestData.ReceiverID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID получателя"})
	}

	// Обмен с самим собой запрещен
	if receiverID == senderID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Вы не можете предложить обмен самому себе"})
	}

	// Денежные суммы не могут быть отрицательными
	if requestData.OfferedCash.IsNegative() || requestData.RequestedCash.IsNegative() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Сумма не может быть отрицательной"})
	}

	offeredProducts, err := parseProductIDs(requestData.OfferedProducts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID предлагаемого товара"})
	}

	requestedProducts, err := parseProductIDs(requestData.RequestedProducts)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID запрашиваемого товара"})
	}

	// Получаем контекст для работы с БД
	ctx, cancel := db.GetContext()
	defer cancel()

	// Проверяем, что получатель существует
	var receiverExists bool
	err = db.Pool.QueryRow(ctx, `
        SELECT EXISTS(SELECT 1 FROM users WHERE id = $1)
    `, receiverID).Scan(&receiverExists)
	if err != nil {
		log.Printf("Ошибка проверки получателя: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка проверки получателя"})
	}
	if !receiverExists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Получатель не найден"})
	}

	// Проверяем, что все предлагаемые товары принадлежат отправителю
	if len(offeredProducts) > 0 {
		var ownedCount int
		err = db.Pool.QueryRow(ctx, `
            SELECT COUNT(*) FROM products WHERE id = ANY($1) AND user_id = $2
        `, offeredProducts, senderID).Scan(&ownedCount)
		if err != nil {
			log.Printf("Ошибка проверки товаров отправителя: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка проверки товаров"})
		}
		if ownedCount != len(offeredProducts) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Вы не можете предложить чужой товар для обмена"})
		}
	}

	// Вставляем предложение обмена со статусом pending
	trade := models.Trade{
		ID:                uuid.New(),
		SenderID:          senderID,
		ReceiverID:        receiverID,
		OfferedProducts:   offeredProducts,
		RequestedProducts: requestedProducts,
		OfferedCash:       requestData.OfferedCash,
		RequestedCash:     requestData.RequestedCash,
		Status:            models.TradeStatusPending,
		Message:           requestData.Message,
	}

	err = db.Pool.QueryRow(ctx, `
        INSERT INTO trades (id, sender_id, receiver_id, offered_products, requested_products, offered_cash, requested_cash, status, message)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING created_at
    `, trade.ID, trade.SenderID, trade.ReceiverID, trade.OfferedProducts, trade.RequestedProducts,
		trade.OfferedCash, trade.RequestedCash, trade.Status, trade.Message).Scan(&trade.CreatedAt)

	if err != nil {
		log.Printf("Ошибка создания предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка сохранения предложения обмена"})
	}

	// Уведомляем получателя. Ошибка уведомления не отменяет созданный
	// обмен — получатель увидит его в списке входящих
	_, err = s.dispatcher.Notify(ctx, senderID, receiverID, models.NotificationTradeOffer,
		"You have received a new trade offer.", models.NotificationMetadata{TradeID: &trade.ID})
	if err != nil {
		log.Printf("Ошибка уведомления о новом обмене %s: %v", trade.ID, err)
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"trade":   trade,
		"message": "Предложение обмена успешно создано",
	})
}

// GetReceivedTrades возвращает входящие предложения обмена, новые первыми
func (s *TradeService) GetReceivedTrades(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	// Необязательный фильтр по статусу предложения
	statusFilter := c.Query("status")
	if statusFilter != "" && !models.IsValidTradeStatus(statusFilter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неизвестный статус предложения"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	query := `
        SELECT t.id, t.sender_id, t.receiver_id, t.offered_products, t.requested_products,
               t.offered_cash, t.requested_cash, t.status, t.message, t.created_at,
               u.username, COALESCE(u.avatar_url, '') AS avatar_url
        FROM trades t
        JOIN users u ON t.sender_id = u.id
        WHERE t.receiver_id = $1`
	args := []interface{}{userUUID}
	if statusFilter != "" {
		query += " AND t.status = $2"
		args = append(args, statusFilter)
	}
	query += " ORDER BY t.created_at DESC"

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Ошибка запроса предложений обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения предложений обмена"})
	}
	defer rows.Close()

	trades := []models.Trade{}
	for rows.Next() {
		var trade models.Trade
		var sender models.UserInfo
		if err := rows.Scan(
			&trade.ID,
			&trade.SenderID,
			&trade.ReceiverID,
			&trade.OfferedProducts,
			&trade.RequestedProducts,
			&trade.OfferedCash,
			&trade.RequestedCash,
			&trade.Status,
			&trade.Message,
			&trade.CreatedAt,
			&sender.Username,
			&sender.AvatarURL,
		); err != nil {
			log.Printf("Ошибка сканирования строки: %v", err)
			continue
		}
		sender.ID = trade.SenderID
		trade.Sender = &sender
		trades = append(trades, trade)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"count":   len(trades),
		"trades":  trades,
	})
}

// GetTrade возвращает предложение обмена с профилями обеих сторон.
// Доступно только участникам.
func (s *TradeService) GetTrade(c fiber.Ctx) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	var trade models.Trade
	err = db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, offered_products, requested_products,
               offered_cash, requested_cash, status, message, created_at
        FROM trades
        WHERE id = $1
    `, tradeID).Scan(
		&trade.ID,
		&trade.SenderID,
		&trade.ReceiverID,
		&trade.OfferedProducts,
		&trade.RequestedProducts,
		&trade.OfferedCash,
		&trade.RequestedCash,
		&trade.Status,
		&trade.Message,
		&trade.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения предложения обмена"})
	}

	// Детали видят только участники обмена
	if trade.SenderID != userUUID && trade.ReceiverID != userUUID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"success": false, "message": "Доступ запрещен"})
	}

	trade.Sender = s.getUserInfo(ctx, trade.SenderID)
	trade.Receiver = s.getUserInfo(ctx, trade.ReceiverID)

	return c.JSON(fiber.Map{
		"success": true,
		"trade":   trade,
	})
}

// AcceptTrade принимает предложение обмена
func (s *TradeService) AcceptTrade(c fiber.Ctx) error {
	return s.resolveTrade(c, models.TradeStatusAccepted,
		models.NotificationTradeAccepted, "Your trade offer has been accepted!",
		"Предложение обмена принято")
}

// RejectTrade отклоняет предложение обмена
func (s *TradeService) RejectTrade(c fiber.Ctx) error {
	return s.resolveTrade(c, models.TradeStatusRejected,
		models.NotificationTradeRejected, "Your trade offer was rejected.",
		"Предложение обмена отклонено")
}

// resolveTrade переводит предложение из pending в конечный статус.
// Переход выполняется одним условным UPDATE: ноль затронутых строк
// означает, что предложение уже разрешено, и два конкурирующих
// запроса не смогут оба выиграть.
func (s *TradeService) resolveTrade(c fiber.Ctx, newStatus, notificationType, notificationMessage, responseMessage string) error {
	userID := c.Locals("userID").(string)
	userUUID, err := uuid.Parse(userID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID пользователя"})
	}

	tradeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"success": false, "message": "Неверный формат ID предложения обмена"})
	}

	ctx, cancel := db.GetContext()
	defer cancel()

	// Загружаем участников для проверки прав
	var trade models.Trade
	err = db.Pool.QueryRow(ctx, `
        SELECT id, sender_id, receiver_id, status
        FROM trades
        WHERE id = $1
    `, tradeID).Scan(&trade.ID, &trade.SenderID, &trade.ReceiverID, &trade.Status)

	if err != nil {
		if err == pgx.ErrNoRows {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"success": false, "message": "Предложение обмена не найдено"})
		}
		log.Printf("Ошибка запроса предложения обмена: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка получения предложения обмена"})
	}

	if code, message := checkResolution(&trade, userUUID, newStatus); code != 0 {
		return c.Status(code).JSON(fiber.Map{"success": false, "message": message})
	}

	// Условное обновление: строка затрагивается только если статус
	// всё ещё pending. Проверка выше могла прочитать устаревший статус,
	// поэтому ноль затронутых строк тоже означает конфликт.
	tag, err := db.Pool.Exec(ctx, `
        UPDATE trades
        SET status = $1
        WHERE id = $2 AND status = $3
    `, newStatus, tradeID, models.TradeStatusPending)

	if err != nil {
		log.Printf("Ошибка обновления статуса предложения: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"success": false, "message": "Ошибка обновления статуса предложения"})
	}

	if tag.RowsAffected() == 0 {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"success": false, "message": "Предложение обмена уже разрешено"})
	}

	// Уведомляем отправителя исходного предложения
	_, err = s.dispatcher.Notify(ctx, userUUID, trade.SenderID, notificationType,
		notificationMessage, models.NotificationMetadata{TradeID: &trade.ID})
	if err != nil {
		log.Printf("Ошибка уведомления о разрешении обмена %s: %v", trade.ID, err)
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": responseMessage,
		"status":  newStatus,
	})
}

// checkResolution проверяет права и допустимость перехода статуса до
// записи. Нулевой код означает, что попытку можно выполнять.
func checkResolution(trade *models.Trade, actingUser uuid.UUID, newStatus string) (int, string) {
	// Только получатель может принять или отклонить предложение
	if trade.ReceiverID != actingUser {
		return fiber.StatusForbidden, "Только получатель предложения может его принять или отклонить"
	}

	// Разрешить предложение можно ровно один раз
	if !models.CanTransition(trade.Status, newStatus) {
		return fiber.StatusConflict, "Предложение обмена уже разрешено"
	}

	return 0, ""
}

// getUserInfo получает публичный профиль пользователя
func (s *TradeService) getUserInfo(ctx context.Context, userID uuid.UUID) *models.UserInfo {
	var user models.UserInfo
	err := db.Pool.QueryRow(ctx, `
        SELECT id, username, COALESCE(avatar_url, '') AS avatar_url
        FROM users
        WHERE id = $1
    `, userID).Scan(&user.ID, &user.Username, &user.AvatarURL)

	if err != nil {
		log.Printf("Ошибка получения пользователя %s: %v", userID, err)
		return nil
	}

	return &user
}

// parseProductIDs преобразует строковые ID в UUID, nil на входе дает
// пустой список
func parseProductIDs(ids []string) ([]uuid.UUID, error) {
	parsed := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		productID, err := uuid.Parse(id)
		if err != nil {
			return nil, err
		}
		parsed = append(parsed, productID)
	}
	return parsed, nil
}
