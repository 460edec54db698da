package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// GetVendorByTokenQueryHandler maps a token to an authorized vendor. Unknown
// tokens and inactive sessions are both ErrUnauthorized.
type GetVendorByTokenQueryHandler struct {
	vendors ports.VendorRepository
}

func NewGetVendorByTokenQueryHandler(vendors ports.VendorRepository) GetVendorByTokenQueryHandler {
	return GetVendorByTokenQueryHandler{vendors: vendors}
}

func (h GetVendorByTokenQueryHandler) Handle(ctx context.Context, query GetVendorByTokenQuery) (*vendor.Vendor, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	v, err := h.vendors.GetByToken(ctx, query.Token())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return nil, errs.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if query.RequireAdmin() {
		err = v.AuthorizeAdmin()
	} else {
		err = v.Authorize()
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}
