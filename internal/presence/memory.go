package presence

import (
	"context"
	"sync"
)

// MemoryRegistry хранит соответствие пользователь -> соединение в памяти
// процесса. Подходит для развертывания в один экземпляр: другой экземпляр
// не увидит подключений этого.
type MemoryRegistry struct {
	mu      sync.RWMutex
	handles map[string]string
}

// NewMemoryRegistry создает новый экземпляр MemoryRegistry
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		handles: make(map[string]string),
	}
}

// Register сохраняет handle пользователя, перезаписывая прежний
func (r *MemoryRegistry) Register(_ context.Context, userID, handle string) error {
	r.mu.Lock()
	r.handles[userID] = handle
	r.mu.Unlock()
	return nil
}

// Unregister удаляет запись, если в ней хранится именно этот handle
func (r *MemoryRegistry) Unregister(_ context.Context, userID, handle string) error {
	r.mu.Lock()
	if current, ok := r.handles[userID]; ok && current == handle {
		delete(r.handles, userID)
	}
	r.mu.Unlock()
	return nil
}

// Lookup возвращает текущий handle пользователя
func (r *MemoryRegistry) Lookup(_ context.Context, userID string) (string, bool) {
	r.mu.RLock()
	handle, ok := r.handles[userID]
	r.mu.RUnlock()
	return handle, ok
}
