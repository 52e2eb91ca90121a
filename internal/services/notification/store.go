package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/rajivgeraev/swapify-api/internal/db"
	"github.com/rajivgeraev/swapify-api/internal/models"
)

// ErrNotFound возвращается, когда уведомление отсутствует или
// принадлежит другому получателю
var ErrNotFound = errors.New("уведомление не найдено")

// Store отвечает за долговременное хранение уведомлений. Операции
// чтения и изменения ограничены получателем: чужой id неотличим от
// отсутствующего.
type Store interface {
	Insert(ctx context.Context, n *models.Notification) (*models.Notification, error)
	List(ctx context.Context, receiverID uuid.UUID, limit, offset int) (*models.NotificationList, error)
	MarkRead(ctx context.Context, id, receiverID uuid.UUID) (*models.Notification, error)
	Delete(ctx context.Context, id, receiverID uuid.UUID) (*models.Notification, error)
}

const notificationColumns = "id, sender_id, receiver_id, type, message, metadata, is_read, created_at"

// PGStore сохраняет уведомления в PostgreSQL
type PGStore struct{}

// NewPGStore создает новый экземпляр PGStore
func NewPGStore() *PGStore {
	return &PGStore{}
}

// Insert сохраняет уведомление и возвращает запись с выставленными
// id, is_read и created_at
func (s *PGStore) Insert(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	saved := *n
	saved.ID = uuid.New()

	err := db.Pool.QueryRow(ctx, `
        INSERT INTO notifications (id, sender_id, receiver_id, type, message, metadata)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING is_read, created_at
    `, saved.ID, n.SenderID, n.ReceiverID, n.Type, n.Message, n.Metadata).Scan(&saved.IsRead, &saved.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("ошибка сохранения уведомления: %w", err)
	}

	return &saved, nil
}

// List возвращает страницу уведомлений получателя, новые первыми,
// вместе с общим количеством по всем страницам
func (s *PGStore) List(ctx context.Context, receiverID uuid.UUID, limit, offset int) (*models.NotificationList, error) {
	rows, err := db.Pool.Query(ctx, `
        SELECT `+notificationColumns+`
        FROM notifications
        WHERE receiver_id = $1
        ORDER BY created_at DESC
        LIMIT $2 OFFSET $3
    `, receiverID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("ошибка запроса уведомлений: %w", err)
	}
	defer rows.Close()

	notifications := []models.Notification{}
	for rows.Next() {
		var n models.Notification
		if err := rows.Scan(
			&n.ID, &n.SenderID, &n.ReceiverID, &n.Type, &n.Message, &n.Metadata, &n.IsRead, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("ошибка сканирования уведомления: %w", err)
		}
		notifications = append(notifications, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("ошибка чтения уведомлений: %w", err)
	}

	var total int
	err = db.Pool.QueryRow(ctx, `
        SELECT COUNT(*) FROM notifications WHERE receiver_id = $1
    `, receiverID).Scan(&total)
	if err != nil {
		return nil, fmt.Errorf("ошибка подсчета уведомлений: %w", err)
	}

	return &models.NotificationList{Notifications: notifications, Total: total}, nil
}

// MarkRead помечает уведомление получателя прочитанным. Переход только
// false -> true, повторный вызов возвращает ту же запись.
func (s *PGStore) MarkRead(ctx context.Context, id, receiverID uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := db.Pool.QueryRow(ctx, `
        UPDATE notifications
        SET is_read = true
        WHERE id = $1 AND receiver_id = $2
        RETURNING `+notificationColumns+`
    `, id, receiverID).Scan(
		&n.ID, &n.SenderID, &n.ReceiverID, &n.Type, &n.Message, &n.Metadata, &n.IsRead, &n.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка обновления уведомления: %w", err)
	}

	return &n, nil
}

// Delete удаляет уведомление получателя и возвращает удаленную запись
func (s *PGStore) Delete(ctx context.Context, id, receiverID uuid.UUID) (*models.Notification, error) {
	var n models.Notification
	err := db.Pool.QueryRow(ctx, `
        DELETE FROM notifications
        WHERE id = $1 AND receiver_id = $2
        RETURNING `+notificationColumns+`
    `, id, receiverID).Scan(
		&n.ID, &n.SenderID, &n.ReceiverID, &n.Type, &n.Message, &n.Metadata, &n.IsRead, &n.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка удаления уведомления: %w", err)
	}

	return &n, nil
}
