package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product представляет товар в каталоге мини-маркета
type Product struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int64           `json:"stock_quantity"`
}

// CartLine позиция корзины: снимок товара на момент добавления.
// Не хранится сама по себе — только внутри завершённой продажи.
type CartLine struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LineTotal   decimal.Decimal `json:"line_total"`
}

// Sale завершённая продажа. После записи в журнал не изменяется.
type Sale struct {
	ID        string          `json:"id"`
	Timestamp time.Time       `json:"timestamp"`
	Lines     []CartLine      `json:"lines"`
	Total     decimal.Decimal `json:"total"`
}
