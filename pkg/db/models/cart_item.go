package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CartItem pairs a user with a product and a price snapshot. One row per
// (user, product); duplicate adds increment quantity instead of inserting.
type CartItem struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product"`
	ProductID    uuid.UUID       `gorm:"column:product_id;type:uuid;not null;uniqueIndex:idx_cart_items_user_product"`
	ProductPrice decimal.Decimal `gorm:"column:product_price;type:numeric(10,2);not null"`
	Quantity     int             `gorm:"column:quantity;not null;default:1"`
	AddedAt      time.Time       `gorm:"column:added_at;autoCreateTime"`

	User    *User    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Product *Product `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}

// TotalPrice is the derived row total; it is computed, never stored.
func (c CartItem) TotalPrice() decimal.Decimal {
	return c.ProductPrice.Mul(decimal.NewFromInt(int64(c.Quantity)))
}
