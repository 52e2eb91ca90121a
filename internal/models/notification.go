package models

import (
	"time"

	"github.com/google/uuid"
)

// Типы уведомлений
const (
	NotificationTradeOffer       = "trade_offer"
	NotificationTradeAccepted    = "trade_accepted"
	NotificationTradeRejected    = "trade_rejected"
	NotificationProductFavorited = "product_favorited"
)

// Notification представляет уведомление пользователя
type Notification struct {
	ID         uuid.UUID            `json:"id"`
	SenderID   uuid.UUID            `json:"sender_id"`
	ReceiverID uuid.UUID            `json:"receiver_id"`
	Type       string               `json:"type"`
	Message    string               `json:"message"`
	Metadata   NotificationMetadata `json:"metadata"`
	IsRead     bool                 `json:"is_read"`
	CreatedAt  time.Time            `json:"created_at"`
}

// NotificationMetadata содержит типизированную ссылку на объект,
// вызвавший уведомление. Заполняется одно из полей в зависимости от типа.
type NotificationMetadata struct {
	TradeID   *uuid.UUID `json:"trade_id,omitempty"`
	ProductID *uuid.UUID `json:"product_id,omitempty"`
}

// NotificationList представляет страницу уведомлений с общим количеством
type NotificationList struct {
	Notifications []Notification `json:"notifications"`
	Total         int            `json:"total"`
}
