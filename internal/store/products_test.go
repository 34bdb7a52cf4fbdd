package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestProductService_CreateAssignsID(t *testing.T) {
	mem := newMemProducts()
	svc := &ProductService{Products: mem, Logger: zap.NewNop()}

	p, err := svc.CreateProduct(context.Background(), &Product{
		Name: "Kopi", Price: price("25.50"), Stock: 40,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, p.ID)

	got, err := svc.GetProduct(context.Background(), p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Kopi", got.Name)
	assert.True(t, got.Price.Equal(price("25.50")))
}

func TestProductService_UpdateOverwritesFields(t *testing.T) {
	mem := newMemProducts(Product{ID: "p1", Name: "Kopi", Price: price("100"), Stock: 10})
	svc := &ProductService{Products: mem, Logger: zap.NewNop()}

	got, err := svc.UpdateProduct(context.Background(), "p1", &Product{
		Name: "Kopi Susu", Description: "botol 250ml", Price: price("120"), Stock: 7,
	})
	require.NoError(t, err)

	assert.Equal(t, "p1", got.ID)
	assert.Equal(t, "Kopi Susu", got.Name)
	assert.Equal(t, 7, got.Stock)
	assert.True(t, got.Price.Equal(price("120")))
}

func TestProductService_UpdateMissingProduct(t *testing.T) {
	svc := &ProductService{Products: newMemProducts(), Logger: zap.NewNop()}

	_, err := svc.UpdateProduct(context.Background(), "nope", &Product{Name: "X"})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteAndList(t *testing.T) {
	mem := newMemProducts(
		Product{ID: "p1", Name: "Kopi", Price: price("100"), Stock: 10},
		Product{ID: "p2", Name: "Teh", Price: price("50"), Stock: 5},
	)
	svc := &ProductService{Products: mem, Logger: zap.NewNop()}

	require.NoError(t, svc.DeleteProduct(context.Background(), "p1"))

	out, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "p2", out[0].ID)
}
