// Package presence отслеживает, у каких пользователей сейчас есть живой
// push-канал. Реестр хранит не более одного идентификатора соединения на
// пользователя: повторное подключение вытесняет предыдущее.
package presence

import "context"

// Registry сопоставляет ID пользователя с идентификатором активного
// соединения. Отсутствие записи — не ошибка, это обычное состояние
// для офлайн-пользователей.
type Registry interface {
	// Register сохраняет handle для пользователя, перезаписывая прежний
	Register(ctx context.Context, userID, handle string) error

	// Unregister удаляет запись, только если в ней всё ещё хранится
	// именно этот handle. Так закрытие вытесненного соединения не
	// снимает с учёта его замену.
	Unregister(ctx context.Context, userID, handle string) error

	// Lookup возвращает текущий handle пользователя
	Lookup(ctx context.Context, userID string) (string, bool)
}
