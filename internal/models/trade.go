package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Статусы предложения обмена. Статус выставляется в pending при создании
// и меняется ровно один раз: получатель либо принимает, либо отклоняет.
const (
	TradeStatusPending  = "pending"
	TradeStatusAccepted = "accepted"
	TradeStatusRejected = "rejected"
)

// Trade представляет предложение об обмене
type Trade struct {
	ID                uuid.UUID       `json:"id"`
	SenderID          uuid.UUID       `json:"sender_id"`
	ReceiverID        uuid.UUID       `json:"receiver_id"`
	OfferedProducts   []uuid.UUID     `json:"offered_products"`
	RequestedProducts []uuid.UUID     `json:"requested_products"`
	OfferedCash       decimal.Decimal `json:"offered_cash"`
	RequestedCash     decimal.Decimal `json:"requested_cash"`
	Status            string          `json:"status"`
	Message           string          `json:"message,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`

	// Дополнительные поля для API
	Sender   *UserInfo `json:"sender,omitempty"`
	Receiver *UserInfo `json:"receiver,omitempty"`
}

// IsValidTradeStatus проверяет, что строка является известным статусом
func IsValidTradeStatus(status string) bool {
	switch status {
	case TradeStatusPending, TradeStatusAccepted, TradeStatusRejected:
		return true
	}
	return false
}

// CanTransition проверяет допустимость перехода статуса.
// Разрешены только pending -> accepted и pending -> rejected,
// оба конечные.
func CanTransition(current, next string) bool {
	if current != TradeStatusPending {
		return false
	}
	return next == TradeStatusAccepted || next == TradeStatusRejected
}
