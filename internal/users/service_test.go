package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

type stubCustomerRepo struct {
	byID        map[uuid.UUID]*models.User
	byRole      []models.User
	setModifier *decimal.Decimal
	setActive   *bool
}

func (s *stubCustomerRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := s.byID[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCustomerRepo) ListByRole(ctx context.Context, role enums.UserRole) ([]models.User, error) {
	return s.byRole, nil
}

func (s *stubCustomerRepo) UpdatePriceModifier(ctx context.Context, id uuid.UUID, modifier decimal.Decimal) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.setModifier = &modifier
	return nil
}

func (s *stubCustomerRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	if _, ok := s.byID[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	s.setActive = &active
	return nil
}

func customerModel(id uuid.UUID) *models.User {
	return &models.User{
		ID:            id,
		Email:         "fleet@nordair.ca",
		Name:          "Nordair Fleet",
		Role:          enums.UserRoleCustomer,
		PriceModifier: decimal.Zero,
		IsActive:      true,
		CreatedAt:     time.Now().UTC(),
		UpdatedAt:     time.Now().UTC(),
	}
}

func TestSetPriceModifierPersistsAdjustment(t *testing.T) {
	id := uuid.New()
	repo := &stubCustomerRepo{byID: map[uuid.UUID]*models.User{id: customerModel(id)}}
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	modifier := decimal.RequireFromString("-0.05")
	dto, err := svc.SetPriceModifier(context.Background(), id, modifier)
	if err != nil {
		t.Fatalf("set price modifier: %v", err)
	}
	if repo.setModifier == nil || !repo.setModifier.Equal(modifier) {
		t.Fatalf("expected modifier persisted, got %v", repo.setModifier)
	}
	if !dto.PriceModifier.Equal(modifier) {
		t.Fatalf("expected dto modifier %s got %s", modifier, dto.PriceModifier)
	}
}

func TestSetPriceModifierUnknownCustomer(t *testing.T) {
	repo := &stubCustomerRepo{byID: map[uuid.UUID]*models.User{}}
	svc, _ := NewService(repo)

	_, err := svc.SetPriceModifier(context.Background(), uuid.New(), decimal.Zero)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestSetPriceModifierRejectsAdminTarget(t *testing.T) {
	id := uuid.New()
	admin := customerModel(id)
	admin.Role = enums.UserRoleAdmin
	repo := &stubCustomerRepo{byID: map[uuid.UUID]*models.User{id: admin}}
	svc, _ := NewService(repo)

	_, err := svc.SetPriceModifier(context.Background(), id, decimal.Zero)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for non-customer target, got %v", err)
	}
}

func TestSetActiveIsIdempotent(t *testing.T) {
	id := uuid.New()
	repo := &stubCustomerRepo{byID: map[uuid.UUID]*models.User{id: customerModel(id)}}
	svc, _ := NewService(repo)

	dto, err := svc.SetActive(context.Background(), id, true)
	if err != nil {
		t.Fatalf("set active: %v", err)
	}
	if repo.setActive != nil {
		t.Fatal("expected no write when status is unchanged")
	}
	if !dto.IsActive {
		t.Fatal("expected account to remain active")
	}

	dto, err = svc.SetActive(context.Background(), id, false)
	if err != nil {
		t.Fatalf("deactivate: %v", err)
	}
	if repo.setActive == nil || *repo.setActive {
		t.Fatal("expected deactivation persisted")
	}
	if dto.IsActive {
		t.Fatal("expected dto to reflect deactivation")
	}
}

func TestListCustomersMapsRows(t *testing.T) {
	id := uuid.New()
	repo := &stubCustomerRepo{byRole: []models.User{*customerModel(id)}}
	svc, _ := NewService(repo)

	list, err := svc.ListCustomers(context.Background())
	if err != nil {
		t.Fatalf("list customers: %v", err)
	}
	if len(list) != 1 || list[0].ID != id {
		t.Fatalf("expected one customer %s, got %+v", id, list)
	}
	if list[0].Email != "fleet@nordair.ca" {
		t.Fatalf("unexpected email %s", list[0].Email)
	}
}
