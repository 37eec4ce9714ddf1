package routes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/borealpetro/fueldesk-backend/internal/auth"
	"github.com/borealpetro/fueldesk-backend/internal/bookings"
	"github.com/borealpetro/fueldesk-backend/internal/deliverylogs"
	"github.com/borealpetro/fueldesk-backend/internal/equipment"
	"github.com/borealpetro/fueldesk-backend/internal/invoices"
	"github.com/borealpetro/fueldesk-backend/internal/pricing"
	"github.com/borealpetro/fueldesk-backend/internal/sites"
	"github.com/borealpetro/fueldesk-backend/internal/stats"
	"github.com/borealpetro/fueldesk-backend/internal/tanks"
	"github.com/borealpetro/fueldesk-backend/internal/users"
	pkgAuth "github.com/borealpetro/fueldesk-backend/pkg/auth"
	"github.com/borealpetro/fueldesk-backend/pkg/auth/session"
	"github.com/borealpetro/fueldesk-backend/pkg/config"
	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
)

type stubSessionChecker struct{}

func (stubSessionChecker) HasSession(ctx context.Context, accessID string) (bool, error) {
	return true, nil
}

type stubIdempotencyStore struct {
	data map[string]string
}

func newStubIdempotencyStore() *stubIdempotencyStore {
	return &stubIdempotencyStore{data: make(map[string]string)}
}

func (s *stubIdempotencyStore) Get(_ context.Context, key string) (string, error) {
	return s.data[key], nil
}

func (s *stubIdempotencyStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := s.data[key]; ok {
		return false, nil
	}
	str, _ := value.(string)
	s.data[key] = str
	return true, nil
}

func (s *stubIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("test:%s:%s", scope, id)
}

func (s *stubIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(s.data, key)
	}
	return nil
}

type stubPricingService struct{}

func (stubPricingService) GetConfig(ctx context.Context) (*models.PricingConfig, error) {
	return &models.PricingConfig{
		RackPrice:        decimal.RequireFromString("1.50"),
		FederalCarbonTax: decimal.RequireFromString("0.14"),
		QuebecCarbonTax:  decimal.RequireFromString("0.05"),
		GSTRate:          decimal.RequireFromString("0.05"),
		QSTRate:          decimal.RequireFromString("0.09975"),
		Version:          1,
	}, nil
}

func (stubPricingService) UpdateConfig(ctx context.Context, input pricing.UpdateConfigInput) (*models.PricingConfig, error) {
	return nil, fmt.Errorf("not implemented")
}

type stubStatsService struct{}

func (stubStatsService) Summary(ctx context.Context) (*stats.StatsDTO, error) {
	return &stats.StatsDTO{TotalBookings: 3}, nil
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.App.Env = "test"
	cfg.JWT = config.JWTConfig{Secret: "router-secret", Issuer: "fueldesk", ExpirationMinutes: 60}
	cfg.Invoices.MaxUploadMB = 25
	return cfg
}

func testRouter(t *testing.T) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:           testConfig(),
		SessionManager:   stubSessionChecker{},
		IdempotencyStore: newStubIdempotencyStore(),
		PricingService:   stubPricingService{},
		StatsService:     stubStatsService{},

		AuthService:      auth.Service(nil),
		BookingsService:  bookings.Service(nil),
		InvoicesService:  invoices.Service(nil),
		TanksService:     tanks.Service(nil),
		EquipmentService: equipment.Service(nil),
		SitesService:     sites.Service(nil),
		LogsService:      deliverylogs.Service(nil),
		UsersService:     users.Service(nil),
	})
}

func mintToken(t *testing.T, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(testConfig().JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID: uuid.New(),
		Role:   role,
		JTI:    session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestPublicPingNeedsNoAuth(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/public/ping", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestPrivateRoutesRejectMissingToken(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/bookings", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestPricingReadableByCustomer(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/pricing", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}

	body, _ := io.ReadAll(resp.Body)
	var payload struct {
		Data pricing.ConfigDTO `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if !payload.Data.RackPrice.Equal(decimal.RequireFromString("1.50")) {
		t.Fatalf("unexpected rack price %s", payload.Data.RackPrice)
	}
}

func TestAdminRoutesRejectCustomerRole(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleCustomer))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestAdminStatsAllowsAdmin(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/stats", nil)
	req.Header.Set("Authorization", "Bearer "+mintToken(t, enums.UserRoleAdmin))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	router := testRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
}
