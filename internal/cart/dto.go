package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/shopcore/shopcore-backend/pkg/db/models"
	"github.com/shopcore/shopcore-backend/pkg/types"
)

// CartItemDTO is the wire shape of a single cart row. Product and User carry
// bare identifiers, and TotalPrice is derived from the stored snapshot.
type CartItemDTO struct {
	ID           uuid.UUID   `json:"id"`
	Product      uuid.UUID   `json:"product"`
	ProductPrice types.Money `json:"product_price"`
	Quantity     int         `json:"quantity"`
	TotalPrice   types.Money `json:"total_price"`
	AddedAt      time.Time   `json:"added_at"`
	User         uuid.UUID   `json:"user"`
}

// CartTotalDTO aggregates the whole cart. ItemCount counts rows, not units.
type CartTotalDTO struct {
	CartTotal types.Money `json:"cart_total"`
	ItemCount int         `json:"item_count"`
}

// ListResult carries one page of cart rows plus the total row count.
type ListResult struct {
	Items []CartItemDTO
	Count int64
}

// NewCartItemDTO builds a DTO from the persisted model.
func NewCartItemDTO(item *models.CartItem) *CartItemDTO {
	if item == nil {
		return nil
	}
	return &CartItemDTO{
		ID:           item.ID,
		Product:      item.ProductID,
		ProductPrice: types.NewMoney(item.ProductPrice),
		Quantity:     item.Quantity,
		TotalPrice:   types.NewMoney(item.TotalPrice()),
		AddedAt:      item.AddedAt,
		User:         item.UserID,
	}
}

// NewCartItemDTOs maps a model slice into the transport shape.
func NewCartItemDTOs(items []models.CartItem) []CartItemDTO {
	dtos := make([]CartItemDTO, len(items))
	for i := range items {
		dtos[i] = *NewCartItemDTO(&items[i])
	}
	return dtos
}
