package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"prediction-dashboard/internal/models"

	"github.com/google/uuid"
)

const productColumns = `id, name, category, unit_price, quantity, description, image_url, is_active, created_at, updated_at`

// ListActiveProducts returns active products ordered by category
func (s *Store) ListActiveProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT "+productColumns+" FROM products WHERE is_active = true ORDER BY category")
	return products, err
}

// GetProduct retrieves a product by ID, active or not
func (s *Store) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := s.db.GetContext(ctx, &product,
		"SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// InsertProduct inserts a product, assigning an ID when it has none
func (s *Store) InsertProduct(ctx context.Context, p models.Product) (*models.Product, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	query := `
		INSERT INTO products (id, name, category, unit_price, quantity, description, image_url, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + productColumns

	var created models.Product
	err := s.db.GetContext(ctx, &created, query,
		p.ID, p.Name, p.Category, p.UnitPrice, p.Quantity, p.Description, p.ImageURL, p.IsActive)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct applies a partial update and refreshes updated_at
func (s *Store) UpdateProduct(ctx context.Context, id string, patch models.ProductPatch) error {
	var a assignments
	if patch.Name != nil {
		a.set("name", *patch.Name)
	}
	if patch.Category != nil {
		a.set("category", *patch.Category)
	}
	if patch.UnitPrice != nil {
		a.set("unit_price", *patch.UnitPrice)
	}
	if patch.Quantity != nil {
		a.set("quantity", *patch.Quantity)
	}
	if patch.Description != nil {
		a.set("description", *patch.Description)
	}
	if patch.ImageURL != nil {
		a.set("image_url", *patch.ImageURL)
	}
	if patch.IsActive != nil {
		a.set("is_active", *patch.IsActive)
	}
	return s.execUpdate(ctx, "products", "product", id, &a)
}

// SoftDeleteProduct marks a product inactive
func (s *Store) SoftDeleteProduct(ctx context.Context, id string) error {
	inactive := false
	return s.UpdateProduct(ctx, id, models.ProductPatch{IsActive: &inactive})
}
