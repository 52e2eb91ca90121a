package models

import (
	"time"

	"github.com/google/uuid"
)

// User представляет пользователя в системе (без приватных полей)
type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstname"`
	LastName  string    `json:"lastname"`
	Email     string    `json:"email,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

// UserInfo представляет минимальную публичную информацию о пользователе для API
type UserInfo struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
}
