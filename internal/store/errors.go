package store

import (
	"errors"
	"fmt"
)

var (
	// ErrNoValidProductInOrder: tidak ada satupun line item yang lolos validasi.
	ErrNoValidProductInOrder = errors.New("no valid product in order")

	ErrOrderNotFound   = errors.New("order not found")
	ErrProductNotFound = errors.New("product not found")
)

// InsufficientStockError: qty diminta (atau delta netto saat update)
// melebihi stok tersedia untuk satu product.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("product %s does not have enough stock: available=%d requested=%d",
		e.Name, e.Available, e.Requested)
}

// IsInsufficientStock membantu boundary layer mapping ke status code.
func IsInsufficientStock(err error) bool {
	var ise *InsufficientStockError
	return errors.As(err, &ise)
}
