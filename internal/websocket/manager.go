package websocket

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/rajivgeraev/swapify-api/internal/presence"
)

// Event представляет структуру сообщения для WebSocket
type Event struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// Manager представляет центральный менеджер для всех WebSocket соединений.
// Кто из пользователей сейчас онлайн, он узнаёт через реестр присутствия:
// при подключении handle соединения регистрируется в реестре, при
// отключении — снимается с учёта.
type Manager struct {
	clients  map[string]*Client // handle -> клиент
	mu       sync.RWMutex
	registry presence.Registry
}

// NewManager создает новый экземпляр Manager
func NewManager(registry presence.Registry) *Manager {
	return &Manager{
		clients:  make(map[string]*Client),
		registry: registry,
	}
}

// AddClient регистрирует нового клиента. Прежнее соединение того же
// пользователя вытесняется из реестра, но остается открытым: оно просто
// перестает получать уведомления и закроется своим чередом.
func (m *Manager) AddClient(client *Client) {
	m.mu.Lock()
	m.clients[client.Handle()] = client
	m.mu.Unlock()

	if err := m.registry.Register(context.Background(), client.UserID, client.Handle()); err != nil {
		log.Printf("Ошибка регистрации присутствия для %s: %v", client.UserID, err)
	}

	log.Printf("WebSocket клиент %s подключен для пользователя %s", client.ID, client.UserID)
}

// RemoveClient удаляет клиента и снимает его с учёта в реестре
func (m *Manager) RemoveClient(client *Client) {
	m.mu.Lock()
	delete(m.clients, client.Handle())
	m.mu.Unlock()

	if err := m.registry.Unregister(context.Background(), client.UserID, client.Handle()); err != nil {
		log.Printf("Ошибка снятия присутствия для %s: %v", client.UserID, err)
	}

	log.Printf("WebSocket клиент %s отключен для пользователя %s", client.ID, client.UserID)
}

// Send отправляет событие в конкретное соединение по его handle.
// Доставка не подтверждается: вызывающий узнаёт только о том, что
// соединение не найдено или переполнено.
func (m *Manager) Send(handle string, eventType string, payload interface{}) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("ошибка сериализации payload: %w", err)
	}

	eventJSON, err := json.Marshal(Event{
		Type:      eventType,
		Timestamp: time.Now(),
		Payload:   payloadJSON,
	})
	if err != nil {
		return fmt.Errorf("ошибка сериализации события: %w", err)
	}

	m.mu.RLock()
	client, exists := m.clients[handle]
	m.mu.RUnlock()

	if !exists {
		return fmt.Errorf("соединение %s не найдено", handle)
	}

	select {
	case client.send <- eventJSON:
		return nil
	default:
		// Канал заполнен, клиент слишком медленный - закрываем соединение
		log.Printf("Канал отправки переполнен для клиента %s, закрываем соединение", client.ID)
		client.conn.Close()
		m.RemoveClient(client)
		return fmt.Errorf("канал отправки переполнен для %s", handle)
	}
}

// Shutdown корректно завершает работу менеджера WebSocket
func (m *Manager) Shutdown() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, client := range m.clients {
		client.conn.Close()
	}
	m.clients = make(map[string]*Client)
}
