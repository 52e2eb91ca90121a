package notification

import (
	"context"
	"log"

	"github.com/google/uuid"

	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/presence"
)

// Имя события push-канала
const PushEventName = "notification"

// Pusher доставляет событие в конкретное соединение
type Pusher interface {
	Send(handle string, eventType string, payload interface{}) error
}

// Dispatcher записывает уведомление и пытается немедленно доставить его
// получателю, если тот онлайн. Запись в хранилище — источник истины;
// push лишь сокращает задержку для подключенных пользователей и никогда
// не блокирует и не отменяет запись.
type Dispatcher struct {
	store    Store
	registry presence.Registry
	pusher   Pusher
}

// NewDispatcher создает новый экземпляр Dispatcher
func NewDispatcher(store Store, registry presence.Registry, pusher Pusher) *Dispatcher {
	return &Dispatcher{
		store:    store,
		registry: registry,
		pusher:   pusher,
	}
}

// Notify сохраняет уведомление и отправляет его в открытое соединение
// получателя, если оно есть. Возвращает сохраненную запись независимо
// от исхода доставки.
func (d *Dispatcher) Notify(ctx context.Context, senderID, receiverID uuid.UUID, notificationType, message string, metadata models.NotificationMetadata) (*models.Notification, error) {
	saved, err := d.store.Insert(ctx, &models.Notification{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Type:       notificationType,
		Message:    message,
		Metadata:   metadata,
	})
	if err != nil {
		return nil, err
	}

	// Получатель офлайн — узнает об уведомлении при следующем опросе списка
	handle, ok := d.registry.Lookup(ctx, receiverID.String())
	if !ok {
		return saved, nil
	}

	// Доставка без подтверждения: ошибка логируется и не всплывает,
	// запись уже сохранена
	if err := d.pusher.Send(handle, PushEventName, saved); err != nil {
		log.Printf("Ошибка push-доставки уведомления %s: %v", saved.ID, err)
	}

	return saved, nil
}
