package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/borealpetro/fueldesk-backend/api/middleware"
	"github.com/borealpetro/fueldesk-backend/pkg/enums"
	pkgerrors "github.com/borealpetro/fueldesk-backend/pkg/errors"
)

// requester extracts the authenticated user id and admin flag from the
// request context seeded by the auth middleware.
func requester(r *http.Request) (uuid.UUID, bool, error) {
	raw := middleware.UserIDFromContext(r.Context())
	if raw == "" {
		return uuid.Nil, false, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing credentials")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, false, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "invalid user id")
	}
	isAdmin := enums.UserRole(middleware.RoleFromContext(r.Context())) == enums.UserRoleAdmin
	return id, isAdmin, nil
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	raw := strings.TrimSpace(chi.URLParam(r, name))
	if raw == "" {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, name+" is required")
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid "+name)
	}
	return id, nil
}
