package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	authsvc "github.com/shopcore/shopcore-backend/internal/auth"
	cartsvc "github.com/shopcore/shopcore-backend/internal/cart"
	"github.com/shopcore/shopcore-backend/internal/catalog"
	"github.com/shopcore/shopcore-backend/internal/users"
	pkgAuth "github.com/shopcore/shopcore-backend/pkg/auth"
	"github.com/shopcore/shopcore-backend/pkg/auth/session"
	"github.com/shopcore/shopcore-backend/pkg/config"
	"github.com/shopcore/shopcore-backend/pkg/enums"
	"github.com/shopcore/shopcore-backend/pkg/logger"
	"github.com/shopcore/shopcore-backend/pkg/redis"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Login(ctx context.Context, req authsvc.LoginRequest) (*authsvc.LoginResponse, error) {
	return &authsvc.LoginResponse{}, nil
}

func (stubAuthService) Refresh(ctx context.Context, accessToken, refreshToken string) (*authsvc.RefreshResponse, error) {
	return &authsvc.RefreshResponse{}, nil
}

func (stubAuthService) Logout(ctx context.Context, accessID string) error {
	return nil
}

type stubRegisterService struct{}

func (stubRegisterService) Register(ctx context.Context, req authsvc.RegisterRequest) (*users.UserDTO, error) {
	return &users.UserDTO{}, nil
}

type stubSessionManager struct{}

func (stubSessionManager) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Generate(ctx context.Context, accessID string) (string, error) {
	return "refresh", nil
}

func (stubSessionManager) Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error) {
	return session.NewAccessID(), "refresh", nil
}

func (stubSessionManager) Revoke(ctx context.Context, accessID string) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) ListProducts(ctx context.Context) ([]catalog.ProductDTO, error) {
	return []catalog.ProductDTO{}, nil
}

func (stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: uuid.New(), ProductName: input.ProductName}, nil
}

func (stubCatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, input catalog.UpdateProductInput) (*catalog.ProductDTO, error) {
	return &catalog.ProductDTO{ID: id}, nil
}

func (stubCatalogService) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return nil
}

type stubCartService struct {
	cleared   bool
	removedID uuid.UUID
}

func (s *stubCartService) AddToCart(ctx context.Context, userID, productID uuid.UUID) (*cartsvc.CartItemDTO, error) {
	return &cartsvc.CartItemDTO{ID: uuid.New(), Product: productID, User: userID, Quantity: 1}, nil
}

func (s *stubCartService) ListCart(ctx context.Context, userID uuid.UUID, page int) (*cartsvc.ListResult, error) {
	return &cartsvc.ListResult{Items: []cartsvc.CartItemDTO{}}, nil
}

func (s *stubCartService) UpdateQuantity(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*cartsvc.CartItemDTO, error) {
	return &cartsvc.CartItemDTO{ID: itemID, Quantity: quantity}, nil
}

func (s *stubCartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	s.removedID = itemID
	return nil
}

func (s *stubCartService) ClearCart(ctx context.Context, userID uuid.UUID) error {
	s.cleared = true
	return nil
}

func (s *stubCartService) CartTotal(ctx context.Context, userID uuid.UUID) (*cartsvc.CartTotalDTO, error) {
	return &cartsvc.CartTotalDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "shopcore",
			ExpirationMinutes: 60,
			SessionTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config, cart *stubCartService) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:          cfg,
		Logger:          logg,
		DB:              stubPinger{},
		Redis:           (*redis.Client)(nil),
		SessionManager:  stubSessionManager{},
		AuthService:     stubAuthService{},
		RegisterService: stubRegisterService{},
		CatalogService:  stubCatalogService{},
		CartService:     cart,
	})
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestProductListIsPublic(t *testing.T) {
	router := newTestRouter(testConfig(), &stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/products/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 without token, got %d", resp.Code)
	}
}

func TestCartRequiresJWT(t *testing.T) {
	router := newTestRouter(testConfig(), &stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}
}

func TestCartAcceptsCustomerJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubCartService{})

	req := httptest.NewRequest(http.MethodGet, "/cart/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer, got %d", resp.Code)
	}
}

func TestProductCreateRequiresAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg, &stubCartService{})
	payload := `{"product_name":"Gadget","price":"9.99"}`

	customer := httptest.NewRequest(http.MethodPost, "/products/create/", strings.NewReader(payload))
	customer.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, customer)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for customer, got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodPost, "/products/create/", strings.NewReader(payload))
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 for admin, got %d", resp.Code)
	}
}

func TestCartClearRouteWinsOverItemParam(t *testing.T) {
	cfg := testConfig()
	cart := &stubCartService{}
	router := newTestRouter(cfg, cart)

	req := httptest.NewRequest(http.MethodDelete, "/cart/clear/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNoContent {
		t.Fatalf("expected 204 from clear, got %d", resp.Code)
	}
	if !cart.cleared {
		t.Fatal("expected ClearCart to be invoked")
	}
	if cart.removedID != uuid.Nil {
		t.Fatalf("clear must not fall through to item delete, removed %s", cart.removedID)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router := newTestRouter(testConfig(), &stubCartService{})

	for _, path := range []string{"/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("expected 200 from %s, got %d", path, resp.Code)
		}
	}
}
