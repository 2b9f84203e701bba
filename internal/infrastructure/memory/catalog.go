package memory

import (
	"context"
	"sync"

	"sokoclick/internal/domain"
)

type ProductCatalog struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
}

func NewProductCatalog() *ProductCatalog {
	return &ProductCatalog{products: make(map[string]*domain.Product)}
}

func (c *ProductCatalog) FindProduct(ctx context.Context, productID string) (*domain.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	product, ok := c.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := *product
	return &p, nil
}

func (c *ProductCatalog) AddProduct(ctx context.Context, product *domain.Product) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	p := *product
	c.products[p.ID] = &p
	return nil
}
