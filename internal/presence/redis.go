package presence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TTL записи присутствия: запись в любом случае исчезнет, если экземпляр
// упал и не успел снять соединение с учёта
const presenceTTL = 24 * time.Hour

// Скрипт удаляет ключ, только если в нем всё ещё хранится ожидаемый handle
const unregisterScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`

// RedisRegistry хранит присутствие в Redis — общий реестр для
// развертывания в несколько экземпляров
type RedisRegistry struct {
	client     *redis.Client
	unregister *redis.Script
}

// NewRedisRegistry создает реестр поверх Redis и проверяет соединение
func NewRedisRegistry(ctx context.Context, addr string) (*RedisRegistry, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ошибка подключения к Redis: %w", err)
	}

	return &RedisRegistry{
		client:     client,
		unregister: redis.NewScript(unregisterScript),
	}, nil
}

// Register сохраняет handle пользователя, перезаписывая прежний
func (r *RedisRegistry) Register(ctx context.Context, userID, handle string) error {
	return r.client.Set(ctx, presenceKey(userID), handle, presenceTTL).Err()
}

// Unregister удаляет запись, если в ней хранится именно этот handle
func (r *RedisRegistry) Unregister(ctx context.Context, userID, handle string) error {
	return r.unregister.Run(ctx, r.client, []string{presenceKey(userID)}, handle).Err()
}

// Lookup возвращает текущий handle пользователя
func (r *RedisRegistry) Lookup(ctx context.Context, userID string) (string, bool) {
	handle, err := r.client.Get(ctx, presenceKey(userID)).Result()
	if err != nil {
		return "", false
	}
	return handle, true
}

// Close закрывает соединение с Redis
func (r *RedisRegistry) Close() error {
	return r.client.Close()
}

func presenceKey(userID string) string {
	return "presence:" + userID
}
