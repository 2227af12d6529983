package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopcore/shopcore-backend/pkg/db/models"
)

// Totals carries the aggregate computed over a user's cart rows.
type Totals struct {
	CartTotal decimal.Decimal
	ItemCount int64
}

// Repository manages persistent cart items.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds the repository to the provided DB handle.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx scopes the repository to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	if tx == nil {
		return r
	}
	return &Repository{db: tx}
}

// AddOrIncrement inserts a cart row for (user, product) or, when the row
// already exists, bumps its quantity by one and refreshes the price snapshot.
// The upsert keeps concurrent duplicate adds from racing past the unique
// constraint. The resulting row is re-read so callers see the final quantity.
func (r *Repository) AddOrIncrement(ctx context.Context, userID, productID uuid.UUID, price decimal.Decimal) (*models.CartItem, error) {
	if userID == uuid.Nil || productID == uuid.Nil {
		return nil, gorm.ErrInvalidValue
	}

	err := r.db.WithContext(ctx).
		Exec(`INSERT INTO cart_items (id, user_id, product_id, product_price, quantity, added_at)
VALUES (?, ?, ?, ?, 1, ?)
ON CONFLICT (user_id, product_id)
DO UPDATE SET quantity = cart_items.quantity + 1, product_price = excluded.product_price`,
			uuid.New(), userID, productID, price, time.Now().UTC()).
		Error
	if err != nil {
		return nil, err
	}

	return r.findByUserAndProduct(ctx, userID, productID)
}

// ListByUser returns one window of the user's cart rows plus the total count.
func (r *Repository) ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.CartItem, int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return nil, 0, err
	}

	var items []models.CartItem
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("added_at ASC").Order("id ASC").
		Offset(offset).Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, count, nil
}

// FindByIDAndUser loads a cart row scoped to its owner. Rows belonging to
// other users surface as gorm.ErrRecordNotFound.
func (r *Repository) FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		First(&item, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// Save persists the full cart row.
func (r *Repository) Save(ctx context.Context, item *models.CartItem) (*models.CartItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteByIDAndUser removes a cart row scoped to its owner.
func (r *Repository) DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.CartItem{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ClearByUser removes every cart row owned by the user.
func (r *Repository) ClearByUser(ctx context.Context, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

// TotalsByUser computes the cart total and row count in a single query.
func (r *Repository) TotalsByUser(ctx context.Context, userID uuid.UUID) (Totals, error) {
	var row struct {
		CartTotal decimal.Decimal `gorm:"column:cart_total"`
		ItemCount int64           `gorm:"column:item_count"`
	}
	err := r.db.WithContext(ctx).
		Model(&models.CartItem{}).
		Select("COALESCE(SUM(product_price * quantity), 0) AS cart_total, COUNT(*) AS item_count").
		Where("user_id = ?", userID).
		Scan(&row).Error
	if err != nil {
		return Totals{}, err
	}
	return Totals{CartTotal: row.CartTotal, ItemCount: row.ItemCount}, nil
}

func (r *Repository) findByUserAndProduct(ctx context.Context, userID, productID uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.db.WithContext(ctx).
		First(&item, "user_id = ? AND product_id = ?", userID, productID).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
