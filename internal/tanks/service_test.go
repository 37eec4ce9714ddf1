package tanks

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/borealpetro/fueldesk-backend/pkg/db/models"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

type stubTankRepo struct {
	byID    map[uuid.UUID]*models.FuelTank
	deleted []uuid.UUID
}

func newStubTankRepo() *stubTankRepo {
	return &stubTankRepo{byID: make(map[uuid.UUID]*models.FuelTank)}
}

func (s *stubTankRepo) Create(ctx context.Context, tank *models.FuelTank) (*models.FuelTank, error) {
	tank.ID = uuid.New()
	s.byID[tank.ID] = tank
	return tank, nil
}

func (s *stubTankRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.FuelTank, error) {
	if t, ok := s.byID[id]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubTankRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.FuelTank, error) {
	var list []models.FuelTank
	for _, t := range s.byID {
		if t.UserID == userID {
			list = append(list, *t)
		}
	}
	return list, nil
}

func (s *stubTankRepo) ListByIDsForUser(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) ([]models.FuelTank, error) {
	var list []models.FuelTank
	for _, id := range ids {
		if t, ok := s.byID[id]; ok && t.UserID == userID {
			list = append(list, *t)
		}
	}
	return list, nil
}

func (s *stubTankRepo) Update(ctx context.Context, tank *models.FuelTank) error {
	s.byID[tank.ID] = tank
	return nil
}

func (s *stubTankRepo) Delete(ctx context.Context, id uuid.UUID) error {
	delete(s.byID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func newTankService(t *testing.T, repo Repository) Service {
	t.Helper()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateRejectsNegativeCapacity(t *testing.T) {
	svc := newTankService(t, newStubTankRepo())

	capacity := decimal.NewFromInt(-10)
	_, err := svc.Create(context.Background(), uuid.New(), &CreateTankDTO{Name: "North Yard", Capacity: &capacity})
	if err == nil {
		t.Fatalf("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestCreateAndGetRoundTrip(t *testing.T) {
	repo := newStubTankRepo()
	svc := newTankService(t, repo)
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, &CreateTankDTO{Name: "North Yard", Identifier: "TK-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.Get(context.Background(), ownerID, false, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "North Yard" || got.Identifier != "TK-01" || got.UserID != ownerID {
		t.Fatalf("unexpected tank %+v", got)
	}
}

func TestGetForeignTankForbidden(t *testing.T) {
	repo := newStubTankRepo()
	svc := newTankService(t, repo)

	created, err := svc.Create(context.Background(), uuid.New(), &CreateTankDTO{Name: "North Yard"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = svc.Get(context.Background(), uuid.New(), false, created.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign tank, got %v", err)
	}

	// Admins read across owners.
	if _, err := svc.Get(context.Background(), uuid.New(), true, created.ID); err != nil {
		t.Fatalf("admin get: %v", err)
	}
}

func TestUpdateAppliesPartialFields(t *testing.T) {
	repo := newStubTankRepo()
	svc := newTankService(t, repo)
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, &CreateTankDTO{Name: "North Yard", Identifier: "TK-01"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	name := "South Yard"
	updated, err := svc.Update(context.Background(), ownerID, false, created.ID, &UpdateTankDTO{Name: &name})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Name != "South Yard" {
		t.Fatalf("expected renamed tank, got %q", updated.Name)
	}
	if updated.Identifier != "TK-01" {
		t.Fatalf("identifier should be untouched, got %q", updated.Identifier)
	}
}

func TestDeleteUnknownTankNotFound(t *testing.T) {
	svc := newTankService(t, newStubTankRepo())

	err := svc.Delete(context.Background(), uuid.New(), false, uuid.New())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteRemovesOwnedTank(t *testing.T) {
	repo := newStubTankRepo()
	svc := newTankService(t, repo)
	ownerID := uuid.New()

	created, err := svc.Create(context.Background(), ownerID, &CreateTankDTO{Name: "North Yard"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(context.Background(), ownerID, false, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.deleted) != 1 || repo.deleted[0] != created.ID {
		t.Fatalf("expected delete call for %s, got %v", created.ID, repo.deleted)
	}
}
