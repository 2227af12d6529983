package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shopcore/shopcore-backend/pkg/db/models"
	pkgerrors "github.com/shopcore/shopcore-backend/pkg/errors"
	"github.com/shopcore/shopcore-backend/pkg/types"
)

// PageSize fixes the cart listing window.
const PageSize = 5

// Service exposes the shopping cart operations for an authenticated user.
type Service interface {
	AddToCart(ctx context.Context, userID, productID uuid.UUID) (*CartItemDTO, error)
	ListCart(ctx context.Context, userID uuid.UUID, page int) (*ListResult, error)
	UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartItemDTO, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error
	ClearCart(ctx context.Context, userID uuid.UUID) error
	CartTotal(ctx context.Context, userID uuid.UUID) (*CartTotalDTO, error)
}

type cartRepository interface {
	AddOrIncrement(ctx context.Context, userID, productID uuid.UUID, price decimal.Decimal) (*models.CartItem, error)
	ListByUser(ctx context.Context, userID uuid.UUID, offset, limit int) ([]models.CartItem, int64, error)
	FindByIDAndUser(ctx context.Context, id, userID uuid.UUID) (*models.CartItem, error)
	Save(ctx context.Context, item *models.CartItem) (*models.CartItem, error)
	DeleteByIDAndUser(ctx context.Context, id, userID uuid.UUID) (bool, error)
	ClearByUser(ctx context.Context, userID uuid.UUID) error
	TotalsByUser(ctx context.Context, userID uuid.UUID) (Totals, error)
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

type service struct {
	repo     cartRepository
	products productFinder
}

// NewService constructs a cart service instance.
func NewService(repo cartRepository, products productFinder) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	return &service{repo: repo, products: products}, nil
}

// AddToCart snapshots the product's current price onto the cart row. A
// duplicate add bumps the quantity and refreshes the snapshot instead of
// creating a second row.
func (s *service) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*CartItemDTO, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "Product does not exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product")
	}

	item, err := s.repo.AddOrIncrement(ctx, userID, productID, product.Price)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "add to cart")
	}
	return NewCartItemDTO(item), nil
}

func (s *service) ListCart(ctx context.Context, userID uuid.UUID, page int) (*ListResult, error) {
	if page < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Invalid page.")
	}

	offset := (page - 1) * PageSize
	items, count, err := s.repo.ListByUser(ctx, userID, offset, PageSize)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list cart items")
	}
	if page > 1 && int64(offset) >= count {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Invalid page.")
	}

	return &ListResult{Items: NewCartItemDTOs(items), Count: count}, nil
}

// UpdateQuantity replaces the quantity outright and re-snapshots the price
// from the catalog, so a price change lands on the next explicit update.
func (s *service) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*CartItemDTO, error) {
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	item, err := s.repo.FindByIDAndUser(ctx, itemID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load cart item")
	}

	product, err := s.products.FindByID(ctx, item.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load product for snapshot")
	}

	item.Quantity = quantity
	item.ProductPrice = product.Price
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "save cart item")
	}
	return NewCartItemDTO(saved), nil
}

func (s *service) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	deleted, err := s.repo.DeleteByIDAndUser(ctx, itemID, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "delete cart item")
	}
	if !deleted {
		return pkgerrors.New(pkgerrors.CodeNotFound, "Cart item not found")
	}
	return nil
}

func (s *service) ClearCart(ctx context.Context, userID uuid.UUID) error {
	if err := s.repo.ClearByUser(ctx, userID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clear cart")
	}
	return nil
}

func (s *service) CartTotal(ctx context.Context, userID uuid.UUID) (*CartTotalDTO, error) {
	totals, err := s.repo.TotalsByUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "total cart")
	}
	return &CartTotalDTO{
		CartTotal: types.NewMoney(totals.CartTotal),
		ItemCount: int(totals.ItemCount),
	}, nil
}
