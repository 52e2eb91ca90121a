package websocket

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/rajivgeraev/swapify-api/internal/presence"
)

func TestAddClientRegistersPresence(t *testing.T) {
	registry := presence.NewMemoryRegistry()
	m := NewManager(registry)

	client := NewClient("user-1", nil, m)
	m.AddClient(client)

	handle, ok := registry.Lookup(context.Background(), "user-1")
	if !ok || handle != client.Handle() {
		t.Fatalf("Lookup = (%q, %v), ожидался handle %q", handle, ok, client.Handle())
	}
}

func TestSecondConnectionDisplacesFirst(t *testing.T) {
	registry := presence.NewMemoryRegistry()
	m := NewManager(registry)
	ctx := context.Background()

	first := NewClient("user-1", nil, m)
	second := NewClient("user-1", nil, m)
	m.AddClient(first)
	m.AddClient(second)

	handle, ok := registry.Lookup(ctx, "user-1")
	if !ok || handle != second.Handle() {
		t.Fatalf("в реестре должен быть handle второго соединения, получено (%q, %v)", handle, ok)
	}

	// Отключение вытесненного соединения не трогает запись нового
	m.RemoveClient(first)
	handle, ok = registry.Lookup(ctx, "user-1")
	if !ok || handle != second.Handle() {
		t.Fatalf("после отключения первого: (%q, %v), ожидался handle второго", handle, ok)
	}

	m.RemoveClient(second)
	if _, ok := registry.Lookup(ctx, "user-1"); ok {
		t.Fatal("после отключения второго запись должна исчезнуть")
	}
}

func TestSendToRegisteredClient(t *testing.T) {
	registry := presence.NewMemoryRegistry()
	m := NewManager(registry)

	client := NewClient("user-1", nil, m)
	m.AddClient(client)

	payload := map[string]string{"message": "You have received a new trade offer."}
	if err := m.Send(client.Handle(), "notification", payload); err != nil {
		t.Fatalf("Send: %v", err)
	}

	select {
	case raw := <-client.send:
		var event Event
		if err := json.Unmarshal(raw, &event); err != nil {
			t.Fatalf("разбор события: %v", err)
		}
		if event.Type != "notification" {
			t.Fatalf("тип события %q, ожидался notification", event.Type)
		}
		var got map[string]string
		if err := json.Unmarshal(event.Payload, &got); err != nil {
			t.Fatalf("разбор payload: %v", err)
		}
		if got["message"] != payload["message"] {
			t.Fatalf("payload %v, ожидался %v", got, payload)
		}
	default:
		t.Fatal("событие не попало в канал отправки")
	}
}

func TestSendToUnknownHandle(t *testing.T) {
	m := NewManager(presence.NewMemoryRegistry())

	if err := m.Send("no-such-handle", "notification", "x"); err == nil {
		t.Fatal("отправка в несуществующее соединение должна вернуть ошибку")
	}
}
