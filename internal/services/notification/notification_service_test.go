package notification

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"github.com/rajivgeraev/swapify-api/internal/config"
	"github.com/rajivgeraev/swapify-api/internal/models"
	"github.com/rajivgeraev/swapify-api/internal/presence"
	"github.com/rajivgeraev/swapify-api/internal/utils"
)

// newTestApp поднимает fiber-приложение с маршрутами уведомлений поверх
// фиктивного хранилища и возвращает Bearer токен пользователя
func newTestApp(t *testing.T, store *fakeStore, userID uuid.UUID) (*fiber.App, string) {
	t.Helper()

	jwtService := utils.NewJWTService("test-secret", "test-refresh-secret")
	dispatcher := NewDispatcher(store, presence.NewMemoryRegistry(), &fakePusher{})
	service := NewNotificationService(&config.Config{}, jwtService, dispatcher, store)

	app := fiber.New()
	service.SetupRoutes(app)

	token, err := jwtService.GenerateAccessToken(userID.String())
	if err != nil {
		t.Fatalf("генерация токена: %v", err)
	}
	return app, token
}

func doRequest(t *testing.T, app *fiber.App, method, target, token string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	return resp
}

func TestMarkAsReadIdempotent(t *testing.T) {
	userID := uuid.New()
	notificationID := uuid.New()
	store := &fakeStore{records: map[uuid.UUID]*models.Notification{
		notificationID: {ID: notificationID, ReceiverID: userID, Type: models.NotificationTradeOffer},
	}}
	app, token := newTestApp(t, store, userID)

	// Первый вызов переводит is_read в true
	resp := doRequest(t, app, "PUT", "/api/notifications/"+notificationID.String(), token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("первый вызов: статус %d, ожидался 200", resp.StatusCode)
	}

	var body struct {
		Success      bool                 `json:"success"`
		Notification *models.Notification `json:"notification"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	if !body.Success || body.Notification == nil || !body.Notification.IsRead {
		t.Fatalf("после первого вызова уведомление должно быть прочитанным: %+v", body)
	}

	// Повторный вызов не ошибка: уведомление остается прочитанным
	resp = doRequest(t, app, "PUT", "/api/notifications/"+notificationID.String(), token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("повторный вызов: статус %d, ожидался 200", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("разбор повторного ответа: %v", err)
	}
	if body.Notification == nil || !body.Notification.IsRead {
		t.Fatal("после повторного вызова уведомление должно остаться прочитанным")
	}
}

func TestMarkAsReadForeignNotification(t *testing.T) {
	userID := uuid.New()
	foreignID := uuid.New()
	store := &fakeStore{records: map[uuid.UUID]*models.Notification{
		foreignID: {ID: foreignID, ReceiverID: uuid.New()},
	}}
	app, token := newTestApp(t, store, userID)

	// Чужое уведомление неотличимо от отсутствующего
	resp := doRequest(t, app, "PUT", "/api/notifications/"+foreignID.String(), token)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("статус %d, ожидался 404", resp.StatusCode)
	}
	if store.records[foreignID].IsRead {
		t.Fatal("чужое уведомление не должно быть помечено прочитанным")
	}
}

func TestDeleteForeignNotification(t *testing.T) {
	userID := uuid.New()
	foreignID := uuid.New()
	store := &fakeStore{records: map[uuid.UUID]*models.Notification{
		foreignID: {ID: foreignID, ReceiverID: uuid.New()},
	}}
	app, token := newTestApp(t, store, userID)

	resp := doRequest(t, app, "DELETE", "/api/notifications/"+foreignID.String(), token)
	if resp.StatusCode != fiber.StatusNotFound {
		t.Fatalf("статус %d, ожидался 404", resp.StatusCode)
	}
	if _, ok := store.records[foreignID]; !ok {
		t.Fatal("чужое уведомление не должно удаляться")
	}
}

func TestGetNotificationsPagination(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{records: map[uuid.UUID]*models.Notification{}, total: 42}
	app, token := newTestApp(t, store, userID)

	// page=2&limit=10 должен запросить строки со смещением 10
	resp := doRequest(t, app, "GET", "/api/notifications?page=2&limit=10", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("статус %d, ожидался 200", resp.StatusCode)
	}
	if store.lastLimit != 10 || store.lastOffset != 10 {
		t.Fatalf("limit/offset = %d/%d, ожидалось 10/10", store.lastLimit, store.lastOffset)
	}

	// total отражает все страницы, а не размер текущей
	var body struct {
		Success       bool                  `json:"success"`
		Notifications []models.Notification `json:"notifications"`
		Total         int                   `json:"total"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("разбор ответа: %v", err)
	}
	if !body.Success || body.Total != 42 {
		t.Fatalf("total = %d, ожидалось 42", body.Total)
	}
}

func TestGetNotificationsPaginationDefaults(t *testing.T) {
	userID := uuid.New()
	store := &fakeStore{records: map[uuid.UUID]*models.Notification{}}
	app, token := newTestApp(t, store, userID)

	resp := doRequest(t, app, "GET", "/api/notifications", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("статус %d, ожидался 200", resp.StatusCode)
	}
	if store.lastLimit != 10 || store.lastOffset != 0 {
		t.Fatalf("limit/offset = %d/%d, ожидалось 10/0", store.lastLimit, store.lastOffset)
	}

	// Отрицательные значения откатываются к значениям по умолчанию
	resp = doRequest(t, app, "GET", "/api/notifications?page=-3&limit=0", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("статус %d, ожидался 200", resp.StatusCode)
	}
	if store.lastLimit != 10 || store.lastOffset != 0 {
		t.Fatalf("limit/offset = %d/%d, ожидалось 10/0", store.lastLimit, store.lastOffset)
	}
}
