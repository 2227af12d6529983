package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/shopcore/shopcore-backend/pkg/db/models"
	"github.com/shopcore/shopcore-backend/pkg/types"
)

// ProductDTO represents the product payload returned to clients.
type ProductDTO struct {
	ID          uuid.UUID   `json:"id"`
	ProductName string      `json:"product_name"`
	Description string      `json:"description"`
	Price       types.Money `json:"price"`
	CreatedAt   time.Time   `json:"created_at"`
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	ProductName string
	Description string
	Price       decimal.Decimal
}

// UpdateProductInput holds optional mutation values for a product. Nil
// fields are left untouched, which covers both full and partial updates.
type UpdateProductInput struct {
	ProductName *string
	Description *string
	Price       *decimal.Decimal
}

// NewProductDTO builds a DTO from the persisted model.
func NewProductDTO(product *models.Product) *ProductDTO {
	if product == nil {
		return nil
	}
	return &ProductDTO{
		ID:          product.ID,
		ProductName: product.ProductName,
		Description: product.Description,
		Price:       types.NewMoney(product.Price),
		CreatedAt:   product.CreatedAt,
	}
}

// NewProductDTOs maps a model slice into the transport shape.
func NewProductDTOs(products []models.Product) []ProductDTO {
	dtos := make([]ProductDTO, len(products))
	for i := range products {
		dtos[i] = *NewProductDTO(&products[i])
	}
	return dtos
}
