package queries_test

import (
	"context"
	"errors"
	"testing"

	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockVendorRepository struct{ mock.Mock }

func (m *MockVendorRepository) GetByToken(ctx context.Context, token string) (*vendor.Vendor, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vendor.Vendor), args.Error(1)
}

func mustVendor(t *testing.T, id string, active, admin bool) *vendor.Vendor {
	t.Helper()
	v, err := vendor.NewVendor(id, id, active, admin)
	require.NoError(t, err)
	return v
}

func TestGetVendorByTokenQueryHandler_Handle(t *testing.T) {
	ctx := t.Context()
	repo := new(MockVendorRepository)
	repo.On("GetByToken", ctx, "vendor-token").Return(mustVendor(t, "WH-1", true, false), nil)
	repo.On("GetByToken", ctx, "admin-token").Return(mustVendor(t, "HQ", true, true), nil)
	repo.On("GetByToken", ctx, "stale-token").Return(mustVendor(t, "WH-2", false, false), nil)
	repo.On("GetByToken", ctx, "unknown").Return(nil, errs.NewObjectNotFoundError("session_token", "<redacted>"))
	repo.On("GetByToken", ctx, "broken").Return(nil, errors.New("connection reset"))
	handler := queries.NewGetVendorByTokenQueryHandler(repo)

	tests := []struct {
		name     string
		token    string
		admin    bool
		wantID   string
		wantErr  error
		wantText string
	}{
		{name: "active vendor", token: "vendor-token", wantID: "WH-1"},
		{name: "admin on admin route", token: "admin-token", admin: true, wantID: "HQ"},
		{name: "vendor on admin route", token: "vendor-token", admin: true, wantErr: errs.ErrUnauthorized},
		{name: "inactive session", token: "stale-token", wantErr: errs.ErrUnauthorized},
		{name: "unknown token", token: "unknown", wantErr: errs.ErrUnauthorized},
		{name: "store failure", token: "broken", wantText: "connection reset"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, err := queries.NewGetVendorByTokenQuery(tt.token, tt.admin)
			require.NoError(t, err)

			v, err := handler.Handle(ctx, q)

			switch {
			case tt.wantErr != nil:
				require.ErrorIs(t, err, tt.wantErr)
			case tt.wantText != "":
				require.EqualError(t, err, tt.wantText)
			default:
				require.NoError(t, err)
				assert.Equal(t, tt.wantID, v.WarehouseID())
			}
		})
	}
}

func TestNewGetVendorByTokenQuery_EmptyToken(t *testing.T) {
	_, err := queries.NewGetVendorByTokenQuery("  ", false)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}
