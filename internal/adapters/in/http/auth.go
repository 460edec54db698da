package http

import (
	"context"
	"strings"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const vendorKey = "vendor"

// VendorResolver looks up the vendor owning a session token.
type VendorResolver interface {
	Handle(ctx context.Context, query queries.GetVendorByTokenQuery) (*vendor.Vendor, error)
}

// Authenticate resolves the bearer token to an active vendor. With
// requireAdmin the vendor must also be an admin.
func Authenticate(resolver VendorResolver, requireAdmin bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			query, err := queries.NewGetVendorByTokenQuery(bearerToken(c.Request().Header.Get(echo.HeaderAuthorization)), requireAdmin)
			if err != nil {
				return fail(c, err)
			}
			v, err := resolver.Handle(c.Request().Context(), query)
			if err != nil {
				return fail(c, err)
			}
			c.Set(vendorKey, v)
			return next(c)
		}
	}
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// currentVendor returns the vendor set by Authenticate.
func currentVendor(c echo.Context) (*vendor.Vendor, error) {
	v, ok := c.Get(vendorKey).(*vendor.Vendor)
	if !ok || v == nil {
		return nil, errs.ErrUnauthorized
	}
	return v, nil
}
