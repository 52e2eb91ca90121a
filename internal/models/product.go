package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product представляет товар в системе
type Product struct {
	ID            uuid.UUID       `json:"id"`
	UserID        uuid.UUID       `json:"user_id"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	CategoryID    int             `json:"category_id"`
	ConditionID   int             `json:"condition_id"`
	StatusID      int             `json:"status_id"`
	Images        []string        `json:"images"`
	FavoriteCount int             `json:"favorite_count"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// Category представляет категорию товара
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Condition представляет состояние товара (новый, б/у и т.д.)
type Condition struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// ProductStatus представляет статус товара (доступен, зарезервирован, обменян)
type ProductStatus struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
