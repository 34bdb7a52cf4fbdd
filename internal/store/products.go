package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// ProductService: CRUD product untuk boundary layer. Edit stok/harga lewat
// sini terpisah dari mesin reservasi.
type ProductService struct {
	Products ProductStore
	Logger   *zap.Logger
}

func (s *ProductService) CreateProduct(ctx context.Context, p *Product) (*Product, error) {
	saved, err := s.Products.Save(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("save product: %w", err)
	}
	s.Logger.Info("product created", zap.String("productId", saved.ID), zap.String("name", saved.Name))
	return saved, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, id string, in *Product) (*Product, error) {
	p, err := s.Products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Description = in.Description
	p.Price = in.Price
	p.Stock = in.Stock
	return s.Products.Save(ctx, p)
}

func (s *ProductService) GetProduct(ctx context.Context, id string) (*Product, error) {
	return s.Products.FindByID(ctx, id)
}

func (s *ProductService) DeleteProduct(ctx context.Context, id string) error {
	return s.Products.DeleteByID(ctx, id)
}

func (s *ProductService) ListProducts(ctx context.Context) ([]Product, error) {
	return s.Products.FindAll(ctx)
}
