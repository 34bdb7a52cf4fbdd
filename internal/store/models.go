package store

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Order struct {
	ID         string          `json:"id"`
	OrderDate  time.Time       `json:"order_date"`
	Status     Status          `json:"status"` // lihat status.go
	TotalPrice decimal.Decimal `json:"total_price"`
	Lines      []OrderLine     `json:"lines"`
}

// OrderLine dimiliki oleh satu Order; replace line set = hapus line lama (cascade).
type OrderLine struct {
	ID        string `json:"id"`
	OrderID   string `json:"order_id"`
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// LineRequest: input create/update order dari boundary layer.
type LineRequest struct {
	ProductID string `json:"product_id"`
	Qty       int    `json:"qty"`
}

// CommittedQty: qty per product yang sudah ter-commit di order saat ini.
// Dipakai jalur update untuk hitung delta stok (nilai lama -> nilai baru).
func (o *Order) CommittedQty() map[string]int {
	m := make(map[string]int, len(o.Lines))
	for _, l := range o.Lines {
		m[l.ProductID] += l.Qty
	}
	return m
}
