package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Implementasi pgx dari port persistence.
// Skema: products / store_orders / order_lines (FK order_id ON DELETE CASCADE).

type ProductRepo struct{ DB *pgxpool.Pool }

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*Product, error) {
	var p Product
	err := r.DB.QueryRow(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products WHERE id=$1`, id).
		Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Save: upsert. ID kosong = insert baru dengan uuid.
func (r *ProductRepo) Save(ctx context.Context, p *Product) (*Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	err := r.DB.QueryRow(ctx, `
		INSERT INTO products(id, name, description, price, stock)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name, description=EXCLUDED.description,
		    price=EXCLUDED.price, stock=EXCLUDED.stock, updated_at=now()
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Description, p.Price, p.Stock).
		Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *ProductRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM products WHERE id=$1`, id)
	return err
}

func (r *ProductRepo) FindAll(ctx context.Context) ([]Product, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, name, description, price, stock, created_at, updated_at
		FROM products ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Product
	for rows.Next() {
		var p Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type OrderRepo struct{ DB *pgxpool.Pool }

func (r *OrderRepo) FindByID(ctx context.Context, id string) (*Order, error) {
	var o Order
	var status string
	err := r.DB.QueryRow(ctx, `
		SELECT id, order_date, status, total_price
		FROM store_orders WHERE id=$1`, id).
		Scan(&o.ID, &o.OrderDate, &status, &o.TotalPrice)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrOrderNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	if o.Status, err = ParseStatus(status); err != nil {
		return nil, err
	}
	if o.Lines, err = r.linesFor(ctx, o.ID); err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepo) linesFor(ctx context.Context, orderID string) ([]OrderLine, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_id, product_id, qty
		FROM order_lines WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []OrderLine
	for rows.Next() {
		var l OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Qty); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *OrderRepo) Save(ctx context.Context, o *Order) (*Order, error) {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO store_orders(id, order_date, status, total_price)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE
		SET status=EXCLUDED.status, total_price=EXCLUDED.total_price`,
		o.ID, o.OrderDate, string(o.Status), o.TotalPrice)
	if err != nil {
		return nil, err
	}
	return o, nil
}

// DeleteByID: "ensure absent" — id tidak ada bukan error. Lines ikut
// terhapus lewat FK cascade.
func (r *OrderRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM store_orders WHERE id=$1`, id)
	return err
}

func (r *OrderRepo) FindAll(ctx context.Context) ([]Order, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT id, order_date, status, total_price
		FROM store_orders`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Order
	for rows.Next() {
		var o Order
		var status string
		if err := rows.Scan(&o.ID, &o.OrderDate, &status, &o.TotalPrice); err != nil {
			return nil, err
		}
		if o.Status, err = ParseStatus(status); err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// ambil semua lines sekali, group per order (hindari N+1)
	lrows, err := r.DB.Query(ctx, `SELECT id, order_id, product_id, qty FROM order_lines`)
	if err != nil {
		return nil, err
	}
	defer lrows.Close()

	byOrder := map[string][]OrderLine{}
	for lrows.Next() {
		var l OrderLine
		if err := lrows.Scan(&l.ID, &l.OrderID, &l.ProductID, &l.Qty); err != nil {
			return nil, err
		}
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}
	if err := lrows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Lines = byOrder[out[i].ID]
	}
	return out, nil
}

type LineRepo struct{ DB *pgxpool.Pool }

func (r *LineRepo) Save(ctx context.Context, l *OrderLine) (*OrderLine, error) {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	_, err := r.DB.Exec(ctx, `
		INSERT INTO order_lines(id, order_id, product_id, qty)
		VALUES ($1,$2,$3,$4)`,
		l.ID, l.OrderID, l.ProductID, l.Qty)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LineRepo) DeleteByOrderID(ctx context.Context, orderID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM order_lines WHERE order_id=$1`, orderID)
	return err
}
