package product

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/rajivgeraev/swapify-api/internal/models"
)

// fakeTx перехватывает запросы; неиспользуемые методы pgx.Tx
// унаследованы от встроенного nil-интерфейса
type fakeTx struct {
	pgx.Tx
	queries []string
	rowErr  error
	tags    []string
}

func (t *fakeTx) QueryRow(_ context.Context, sql string, _ ...any) pgx.Row {
	t.queries = append(t.queries, sql)
	return fakeRow{err: t.rowErr}
}

func (t *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	t.queries = append(t.queries, sql)
	tag := "UPDATE 1"
	if len(t.tags) > 0 {
		tag = t.tags[0]
		t.tags = t.tags[1:]
	}
	return pgconn.NewCommandTag(tag), nil
}

type fakeRow struct {
	err error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for _, d := range dest {
		if ts, ok := d.(*time.Time); ok {
			*ts = time.Now()
		}
	}
	return nil
}

func TestAddFavoriteWritesThroughOneTransaction(t *testing.T) {
	tx := &fakeTx{}
	favorite := models.Favorite{ID: uuid.New(), UserID: uuid.New(), ProductID: uuid.New()}

	if err := addFavorite(context.Background(), tx, &favorite); err != nil {
		t.Fatalf("addFavorite: %v", err)
	}

	// Вставка и инкремент счетчика идут через одну и ту же транзакцию
	if len(tx.queries) != 2 {
		t.Fatalf("выполнено %d запросов, ожидалось 2", len(tx.queries))
	}
	if !strings.Contains(tx.queries[0], "INSERT INTO favorites") {
		t.Fatalf("первый запрос должен вставлять запись избранного: %q", tx.queries[0])
	}
	if !strings.Contains(tx.queries[1], "favorite_count + 1") {
		t.Fatalf("второй запрос должен увеличивать счетчик: %q", tx.queries[1])
	}
	if favorite.CreatedAt.IsZero() {
		t.Fatal("created_at должен заполняться из ответа вставки")
	}
}

func TestAddFavoriteStopsOnInsertError(t *testing.T) {
	tx := &fakeTx{rowErr: errors.New("duplicate key")}
	favorite := models.Favorite{ID: uuid.New(), UserID: uuid.New(), ProductID: uuid.New()}

	if err := addFavorite(context.Background(), tx, &favorite); err == nil {
		t.Fatal("ошибка вставки должна всплывать")
	}
	// Счетчик не трогается, если вставка не прошла
	if len(tx.queries) != 1 {
		t.Fatalf("выполнено %d запросов, ожидался только INSERT", len(tx.queries))
	}
}

func TestRemoveFavoriteDecrementsCounter(t *testing.T) {
	tx := &fakeTx{tags: []string{"DELETE 1", "UPDATE 1"}}

	removed, err := removeFavorite(context.Background(), tx, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("removeFavorite: %v", err)
	}
	if !removed {
		t.Fatal("удаление существующей записи должно вернуть true")
	}
	if len(tx.queries) != 2 || !strings.Contains(tx.queries[1], "favorite_count - 1") {
		t.Fatalf("после удаления должен уменьшаться счетчик, запросы: %v", tx.queries)
	}
}

func TestRemoveFavoriteAbsentRecord(t *testing.T) {
	tx := &fakeTx{tags: []string{"DELETE 0"}}

	removed, err := removeFavorite(context.Background(), tx, uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("removeFavorite: %v", err)
	}
	if removed {
		t.Fatal("отсутствующая запись должна вернуть false")
	}
	// Счетчик не трогается, когда удалять было нечего
	if len(tx.queries) != 1 {
		t.Fatalf("выполнено %d запросов, ожидался только DELETE", len(tx.queries))
	}
}
