package queries

import (
	"errors"
	"strings"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrGetVendorByTokenQueryIsNotConstructed = errors.New(
	"GetVendorByTokenQuery must be created via NewGetVendorByTokenQuery constructor",
)

// GetVendorByTokenQuery authenticates a bearer token.
type GetVendorByTokenQuery struct {
	token        string
	requireAdmin bool

	guard guard.ConstructorGuard
}

func NewGetVendorByTokenQuery(token string, requireAdmin bool) (GetVendorByTokenQuery, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return GetVendorByTokenQuery{}, errs.ErrUnauthorized
	}
	return GetVendorByTokenQuery{token: token, requireAdmin: requireAdmin, guard: guard.NewConstructorGuard()}, nil
}

func (q GetVendorByTokenQuery) Token() string {
	return q.token
}

func (q GetVendorByTokenQuery) RequireAdmin() bool {
	return q.requireAdmin
}

func (q GetVendorByTokenQuery) Validate() error {
	return q.guard.Validate(ErrGetVendorByTokenQueryIsNotConstructed)
}
