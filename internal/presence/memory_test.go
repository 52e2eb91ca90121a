package presence

import (
	"context"
	"fmt"
	"sync"
	"testing"
)

func TestLookupAbsent(t *testing.T) {
	r := NewMemoryRegistry()

	// Отсутствие записи — обычное состояние, не ошибка
	if handle, ok := r.Lookup(context.Background(), "user-1"); ok {
		t.Fatalf("ожидалось отсутствие записи, получен handle %q", handle)
	}
}

func TestRegisterAndLookup(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	if err := r.Register(ctx, "user-1", "conn-a"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	handle, ok := r.Lookup(ctx, "user-1")
	if !ok || handle != "conn-a" {
		t.Fatalf("Lookup = (%q, %v), ожидалось (conn-a, true)", handle, ok)
	}
}

func TestRegisterOverwrites(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	// Второе устройство молча вытесняет первое
	r.Register(ctx, "user-1", "conn-a")
	r.Register(ctx, "user-1", "conn-b")

	handle, ok := r.Lookup(ctx, "user-1")
	if !ok || handle != "conn-b" {
		t.Fatalf("Lookup = (%q, %v), ожидалось (conn-b, true)", handle, ok)
	}
}

func TestUnregisterIsCompareAndDelete(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	r.Register(ctx, "user-1", "conn-a")
	r.Register(ctx, "user-1", "conn-b")

	// Закрытие вытесненного соединения не должно снимать с учёта замену
	r.Unregister(ctx, "user-1", "conn-a")
	if handle, ok := r.Lookup(ctx, "user-1"); !ok || handle != "conn-b" {
		t.Fatalf("после Unregister вытесненного: (%q, %v), ожидалось (conn-b, true)", handle, ok)
	}

	r.Unregister(ctx, "user-1", "conn-b")
	if _, ok := r.Lookup(ctx, "user-1"); ok {
		t.Fatal("запись должна быть удалена")
	}
}

func TestConcurrentAccess(t *testing.T) {
	r := NewMemoryRegistry()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			userID := fmt.Sprintf("user-%d", i%10)
			handle := fmt.Sprintf("conn-%d", i)
			r.Register(ctx, userID, handle)
			r.Lookup(ctx, userID)
			r.Unregister(ctx, userID, handle)
		}(i)
	}
	wg.Wait()
}
