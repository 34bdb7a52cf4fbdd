package store

import "context"

// Kontrak persistence. Implementasi produksi pakai pgx (repo.go);
// test pakai fake in-memory.
//
// FindByID wajib return ErrProductNotFound / ErrOrderNotFound saat absen,
// bukan (nil, nil).

type ProductStore interface {
	FindByID(ctx context.Context, id string) (*Product, error)
	Save(ctx context.Context, p *Product) (*Product, error)
	DeleteByID(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]Product, error)
}

type OrderStore interface {
	FindByID(ctx context.Context, id string) (*Order, error)
	Save(ctx context.Context, o *Order) (*Order, error)
	DeleteByID(ctx context.Context, id string) error
	FindAll(ctx context.Context) ([]Order, error)
}

type OrderLineStore interface {
	Save(ctx context.Context, l *OrderLine) (*OrderLine, error)
	DeleteByOrderID(ctx context.Context, orderID string) error
}

// Publisher: sink event lifecycle (kafka di produksi). Fire-and-forget.
type Publisher interface {
	Publish(topic string, key, value []byte)
}
