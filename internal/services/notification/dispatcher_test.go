package notification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/presence"
)

type fakeStore struct {
	inserted []*models.Notification
	err      error

	// состояние для тестов HTTP-обработчиков
	records    map[uuid.UUID]*models.Notification
	total      int
	lastLimit  int
	lastOffset int
}

func (s *fakeStore) Insert(_ context.Context, n *models.Notification) (*models.Notification, error) {
	if s.err != nil {
		return nil, s.err
	}
	saved := *n
	saved.ID = uuid.New()
	saved.CreatedAt = time.Now()
	s.inserted = append(s.inserted, &saved)
	return &saved, nil
}

func (s *fakeStore) List(_ context.Context, receiverID uuid.UUID, limit, offset int) (*models.NotificationList, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.lastLimit, s.lastOffset = limit, offset
	notifications := []models.Notification{}
	for _, n := range s.records {
		if n.ReceiverID == receiverID {
			notifications = append(notifications, *n)
		}
	}
	return &models.NotificationList{Notifications: notifications, Total: s.total}, nil
}

func (s *fakeStore) MarkRead(_ context.Context, id, receiverID uuid.UUID) (*models.Notification, error) {
	n, ok := s.records[id]
	if !ok || n.ReceiverID != receiverID {
		return nil, ErrNotFound
	}
	n.IsRead = true
	saved := *n
	return &saved, nil
}

func (s *fakeStore) Delete(_ context.Context, id, receiverID uuid.UUID) (*models.Notification, error) {
	n, ok := s.records[id]
	if !ok || n.ReceiverID != receiverID {
		return nil, ErrNotFound
	}
	delete(s.records, id)
	saved := *n
	return &saved, nil
}

type fakePusher struct {
	sent []sentEvent
	err  error
}

type sentEvent struct {
	handle    string
	eventType string
	payload   interface{}
}

func (p *fakePusher) Send(handle, eventType string, payload interface{}) error {
	p.sent = append(p.sent, sentEvent{handle, eventType, payload})
	return p.err
}

func TestNotifyPushesToOnlineReceiver(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{}
	registry := presence.NewMemoryRegistry()
	d := NewDispatcher(store, registry, pusher)

	receiverID := uuid.New()
	registry.Register(context.Background(), receiverID.String(), "conn-1")

	tradeID := uuid.New()
	saved, err := d.Notify(context.Background(), uuid.New(), receiverID,
		models.NotificationTradeOffer, "You have received a new trade offer.",
		models.NotificationMetadata{TradeID: &tradeID})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if saved.IsRead {
		t.Fatal("новое уведомление должно быть непрочитанным")
	}
	if len(pusher.sent) != 1 {
		t.Fatalf("ожидалась ровно одна push-отправка, было %d", len(pusher.sent))
	}
	if pusher.sent[0].handle != "conn-1" {
		t.Fatalf("отправка в handle %q, ожидался conn-1", pusher.sent[0].handle)
	}
	if pusher.sent[0].eventType != PushEventName {
		t.Fatalf("имя события %q, ожидалось %q", pusher.sent[0].eventType, PushEventName)
	}
	// В канал уходит полная сохраненная запись
	if pushed, ok := pusher.sent[0].payload.(*models.Notification); !ok || pushed.ID != saved.ID {
		t.Fatalf("payload push-события должен быть сохраненной записью, получено %#v", pusher.sent[0].payload)
	}
}

func TestNotifyOfflineReceiverOnlyPersists(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{}
	d := NewDispatcher(store, presence.NewMemoryRegistry(), pusher)

	saved, err := d.Notify(context.Background(), uuid.New(), uuid.New(),
		models.NotificationTradeAccepted, "Your trade offer has been accepted!",
		models.NotificationMetadata{})
	if err != nil {
		t.Fatalf("Notify: %v", err)
	}

	if len(store.inserted) != 1 {
		t.Fatalf("запись должна сохраняться для офлайн-получателя, сохранено %d", len(store.inserted))
	}
	if len(pusher.sent) != 0 {
		t.Fatal("для офлайн-получателя push не должен отправляться")
	}
	if saved == nil {
		t.Fatal("Notify должен вернуть сохраненную запись")
	}
}

func TestNotifyPushFailureIsSwallowed(t *testing.T) {
	store := &fakeStore{}
	pusher := &fakePusher{err: errors.New("соединение переполнено")}
	registry := presence.NewMemoryRegistry()
	d := NewDispatcher(store, registry, pusher)

	receiverID := uuid.New()
	registry.Register(context.Background(), receiverID.String(), "conn-1")

	saved, err := d.Notify(context.Background(), uuid.New(), receiverID,
		models.NotificationTradeRejected, "Your trade offer was rejected.",
		models.NotificationMetadata{})
	if err != nil {
		t.Fatalf("ошибка доставки не должна всплывать: %v", err)
	}
	if saved == nil {
		t.Fatal("запись должна вернуться несмотря на ошибку доставки")
	}
}

func TestNotifyStoreErrorPropagates(t *testing.T) {
	store := &fakeStore{err: errors.New("база недоступна")}
	pusher := &fakePusher{}
	d := NewDispatcher(store, presence.NewMemoryRegistry(), pusher)

	if _, err := d.Notify(context.Background(), uuid.New(), uuid.New(),
		models.NotificationTradeOffer, "msg", models.NotificationMetadata{}); err == nil {
		t.Fatal("ошибка хранилища должна всплывать")
	}
	if len(pusher.sent) != 0 {
		t.Fatal("при ошибке записи push не должен отправляться")
	}
}
