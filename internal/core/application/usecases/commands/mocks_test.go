package commands_test

import (
	"context"
	"time"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderLineRepository struct{ mock.Mock }

func (m *MockOrderLineRepository) Add(ctx context.Context, line *orderline.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderLineRepository) Update(ctx context.Context, line *orderline.OrderLine) error {
	args := m.Called(ctx, line)
	return args.Error(0)
}

func (m *MockOrderLineRepository) UpdateIfStatus(
	ctx context.Context,
	line *orderline.OrderLine,
	expected orderline.ClaimStatus,
) error {
	args := m.Called(ctx, line, expected)
	return args.Error(0)
}

func (m *MockOrderLineRepository) Get(ctx context.Context, uniqueID string) (*orderline.OrderLine, error) {
	args := m.Called(ctx, uniqueID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*orderline.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) ListByUniqueIDs(ctx context.Context, ids []string) ([]*orderline.OrderLine, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orderline.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) ListByOrderID(ctx context.Context, orderID string) ([]*orderline.OrderLine, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orderline.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) ListByStatus(
	ctx context.Context,
	status orderline.ClaimStatus,
	vendorID string,
) ([]*orderline.OrderLine, error) {
	args := m.Called(ctx, status, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*orderline.OrderLine), args.Error(1)
}

func (m *MockOrderLineRepository) OrderIDExists(ctx context.Context, orderID string) (bool, error) {
	args := m.Called(ctx, orderID)
	return args.Bool(0), args.Error(1)
}

func (m *MockOrderLineRepository) ReleaseExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type MockLabelRepository struct{ mock.Mock }

func (m *MockLabelRepository) Get(ctx context.Context, orderID string) (*label.Label, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*label.Label), args.Error(1)
}

func (m *MockLabelRepository) Save(ctx context.Context, l *label.Label) error {
	args := m.Called(ctx, l)
	return args.Error(0)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderLineRepository() ports.OrderLineRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderLineRepository)
}

func (m *MockUoW) LabelRepository() ports.LabelRepository {
	args := m.Called()
	return args.Get(0).(ports.LabelRepository)
}

type MockUoWFactory struct{ mock.Mock }

func (m *MockUoWFactory) Create() commands.UoW {
	args := m.Called()
	return args.Get(0).(commands.UoW)
}

type MockClaimUoWFactory struct{ mock.Mock }

func (m *MockClaimUoWFactory) Create() commands.ClaimUoW {
	args := m.Called()
	return args.Get(0).(commands.ClaimUoW)
}

type MockGateway struct{ mock.Mock }

func (m *MockGateway) PushOrder(ctx context.Context, req ports.PushOrderRequest) (ports.PushOrderResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(ports.PushOrderResult), args.Error(1)
}

func (m *MockGateway) ListOrders(ctx context.Context, orderIDs []string) ([]ports.RemoteOrder, error) {
	args := m.Called(ctx, orderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ports.RemoteOrder), args.Error(1)
}

func (m *MockGateway) CreateManifest(ctx context.Context, orderID string, awbs []string) (string, error) {
	args := m.Called(ctx, orderID, awbs)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) CancelShipment(ctx context.Context, awb string) error {
	args := m.Called(ctx, awb)
	return args.Error(0)
}

type MockNotifier struct{ mock.Mock }

func (m *MockNotifier) Notify(ctx context.Context, n ports.Notification) {
	m.Called(ctx, n)
}

type MockLabelProducer struct{ mock.Mock }

func (m *MockLabelProducer) Generate(
	ctx context.Context,
	req labeling.LabelRequest,
	batch *labeling.CarrierBatch,
) (ports.PushOrderResult, error) {
	args := m.Called(ctx, req, batch)
	return args.Get(0).(ports.PushOrderResult), args.Error(1)
}

func (m *MockLabelProducer) Commit(
	ctx context.Context,
	orderID, vendorID string,
	uniqueIDs []string,
	res ports.PushOrderResult,
) (bool, error) {
	args := m.Called(ctx, orderID, vendorID, uniqueIDs, res)
	return args.Bool(0), args.Error(1)
}

type MockSplitSaga struct{ mock.Mock }

func (m *MockSplitSaga) Pending(ctx context.Context, orderID, vendorID string) (ports.CloneRun, bool, error) {
	args := m.Called(ctx, orderID, vendorID)
	return args.Get(0).(ports.CloneRun), args.Bool(1), args.Error(2)
}

func (m *MockSplitSaga) Start(ctx context.Context, p services.Partition, v *vendor.Vendor) (labeling.Result, error) {
	args := m.Called(ctx, p, v)
	return args.Get(0).(labeling.Result), args.Error(1)
}

func (m *MockSplitSaga) Resume(ctx context.Context, run ports.CloneRun) (labeling.Result, error) {
	args := m.Called(ctx, run)
	return args.Get(0).(labeling.Result), args.Error(1)
}
