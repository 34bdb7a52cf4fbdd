package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Reserver: mesin reservasi stok. Validasi full-pass dulu, mutasi belakangan,
// supaya kegagalan validasi tidak meninggalkan mutasi parsial.
type Reserver struct {
	Products ProductStore
	Logger   *zap.Logger
}

type AdmittedLine struct {
	Product *Product
	Qty     int
}

// Validate memutuskan line item mana yang diterima dan menghitung total.
// Tidak ada mutasi apapun di sini.
//   - product tidak ditemukan -> skip (kebijakan lenient jalur create)
//   - qty melebihi stok -> InsufficientStockError, seluruh operasi batal
//   - qty <= 0 -> skip
//   - nol item diterima -> ErrNoValidProductInOrder
func (r *Reserver) Validate(ctx context.Context, reqs []LineRequest) (decimal.Decimal, []AdmittedLine, error) {
	total := decimal.Zero
	var admitted []AdmittedLine

	for _, req := range aggregate(reqs, false) {
		p, err := r.Products.FindByID(ctx, req.ProductID)
		if errors.Is(err, ErrProductNotFound) {
			continue
		}
		if err != nil {
			return decimal.Zero, nil, fmt.Errorf("find product %s: %w", req.ProductID, err)
		}

		if req.Qty > p.Stock {
			return decimal.Zero, nil, &InsufficientStockError{
				ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: req.Qty,
			}
		}

		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(req.Qty))))
		admitted = append(admitted, AdmittedLine{Product: p, Qty: req.Qty})
	}

	if len(admitted) == 0 {
		return decimal.Zero, nil, ErrNoValidProductInOrder
	}
	return total, admitted, nil
}

// aggregate menjumlahkan qty per product id, urut kemunculan pertama.
// Pasangan duplikat harus jadi SATU kebutuhan total: validasi dan mutasi
// stok memakai satu instance product per id, kalau tidak Save kedua
// menimpa decrement pertama (lost update). Qty negatif dianggap 0;
// keepZero menentukan apakah pasangan qty 0 dipertahankan (jalur update
// butuh itu untuk mengembalikan stok komitmen lama).
func aggregate(reqs []LineRequest, keepZero bool) []LineRequest {
	idx := make(map[string]int, len(reqs))
	out := make([]LineRequest, 0, len(reqs))
	for _, req := range reqs {
		qty := req.Qty
		if qty < 0 {
			qty = 0
		}
		if qty == 0 && !keepZero {
			continue
		}
		if i, ok := idx[req.ProductID]; ok {
			out[i].Qty += qty
			continue
		}
		idx[req.ProductID] = len(out)
		out = append(out, LineRequest{ProductID: req.ProductID, Qty: qty})
	}
	return out
}

// Reserve mengurangi stok sebesar qty dan persist. Dipanggil per item yang
// diterima, setelah Validate sukses untuk seluruh set.
func (r *Reserver) Reserve(ctx context.Context, p *Product, qty int) error {
	p.Stock -= qty
	if _, err := r.Products.Save(ctx, p); err != nil {
		return fmt.Errorf("reserve stock product %s: %w", p.ID, err)
	}
	if r.Logger != nil {
		r.Logger.Debug("stock reserved",
			zap.String("productId", p.ID), zap.Int("qty", qty), zap.Int("stock", p.Stock))
	}
	return nil
}

// Adjust menerapkan delta bertanda (qty baru - qty lama yang sudah commit)
// ke stok; delta negatif mengembalikan stok, positif mengkonsumsi lebih.
func (r *Reserver) Adjust(ctx context.Context, p *Product, delta int) error {
	next := p.Stock - delta
	if next < 0 {
		return &InsufficientStockError{
			ProductID: p.ID, Name: p.Name, Available: p.Stock, Requested: delta,
		}
	}
	p.Stock = next
	if _, err := r.Products.Save(ctx, p); err != nil {
		return fmt.Errorf("adjust stock product %s: %w", p.ID, err)
	}
	return nil
}
