package labeling_test

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory datastore shared by every unit of work.
type memStore struct {
	mu       sync.Mutex
	lines    map[string]orderline.Snapshot
	labels   map[string]label.Snapshot
	carriers []*carrier.Carrier
}

func newMemStore(carriers ...*carrier.Carrier) *memStore {
	return &memStore{
		lines:    make(map[string]orderline.Snapshot),
		labels:   make(map[string]label.Snapshot),
		carriers: carriers,
	}
}

func (s *memStore) Create() labeling.UoW { return memUoW{s} }

func (s *memStore) line(t *testing.T, uniqueID string) *orderline.OrderLine {
	t.Helper()
	line, err := s.OrderLineRepository().Get(context.Background(), uniqueID)
	require.NoError(t, err)
	return line
}

func (s *memStore) put(t *testing.T, line *orderline.OrderLine) {
	t.Helper()
	require.NoError(t, s.OrderLineRepository().Add(context.Background(), line))
}

func (s *memStore) OrderLineRepository() ports.OrderLineRepository { return memLines{s} }

type memUoW struct{ s *memStore }

func (u memUoW) Begin(context.Context) error                    { return nil }
func (u memUoW) Commit(context.Context) error                   { return nil }
func (u memUoW) Rollback(context.Context) error                 { return nil }
func (u memUoW) OrderLineRepository() ports.OrderLineRepository { return memLines{u.s} }
func (u memUoW) LabelRepository() ports.LabelRepository         { return memLabels{u.s} }
func (u memUoW) CarrierRepository() ports.CarrierRepository     { return memCarriers{u.s} }

type memLines struct{ s *memStore }

func (r memLines) Add(_ context.Context, line *orderline.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.lines[line.UniqueID()] = line.Snapshot()
	return nil
}

func (r memLines) Update(_ context.Context, line *orderline.OrderLine) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lines[line.UniqueID()]; !ok {
		return errs.NewObjectNotFoundError("unique_id", line.UniqueID())
	}
	r.s.lines[line.UniqueID()] = line.Snapshot()
	return nil
}

func (r memLines) UpdateIfStatus(_ context.Context, line *orderline.OrderLine, expected orderline.ClaimStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.lines[line.UniqueID()]
	if !ok {
		return errs.NewObjectNotFoundError("unique_id", line.UniqueID())
	}
	if stored.Status != expected {
		return errs.NewInvalidStateError(line.UniqueID(), stored.Status.String(), "update")
	}
	r.s.lines[line.UniqueID()] = line.Snapshot()
	return nil
}

func (r memLines) Get(_ context.Context, uniqueID string) (*orderline.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap, ok := r.s.lines[uniqueID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("unique_id", uniqueID)
	}
	return orderline.RestoreOrderLine(snap)
}

func (r memLines) ListByUniqueIDs(_ context.Context, ids []string) ([]*orderline.OrderLine, error) {
	return r.filter(func(s orderline.Snapshot) bool { return slices.Contains(ids, s.UniqueID) })
}

func (r memLines) ListByOrderID(_ context.Context, orderID string) ([]*orderline.OrderLine, error) {
	return r.filter(func(s orderline.Snapshot) bool { return s.OrderID == orderID })
}

func (r memLines) ListByStatus(_ context.Context, status orderline.ClaimStatus, vendorID string) ([]*orderline.OrderLine, error) {
	return r.filter(func(s orderline.Snapshot) bool {
		return s.Status == status && (vendorID == "" || (s.ClaimedBy != nil && *s.ClaimedBy == vendorID))
	})
}

func (r memLines) OrderIDExists(_ context.Context, orderID string) (bool, error) {
	lines, _ := r.filter(func(s orderline.Snapshot) bool {
		return s.OrderID == orderID || (s.ClonedOrderID != nil && *s.ClonedOrderID == orderID)
	})
	return len(lines) > 0, nil
}

func (r memLines) ReleaseExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func (r memLines) filter(keep func(orderline.Snapshot) bool) ([]*orderline.OrderLine, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*orderline.OrderLine
	for _, snap := range r.s.lines {
		if !keep(snap) {
			continue
		}
		line, err := orderline.RestoreOrderLine(snap)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	slices.SortFunc(out, func(a, b *orderline.OrderLine) int {
		if a.UniqueID() < b.UniqueID() {
			return -1
		}
		return 1
	})
	return out, nil
}

type memLabels struct{ s *memStore }

func (r memLabels) Get(_ context.Context, orderID string) (*label.Label, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	snap, ok := r.s.labels[orderID]
	if !ok {
		return nil, errs.NewObjectNotFoundError("order_id", orderID)
	}
	return label.RestoreLabel(snap)
}

func (r memLabels) Save(_ context.Context, l *label.Label) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.labels[l.OrderID()] = l.Snapshot()
	return nil
}

type memCarriers struct{ s *memStore }

func (r memCarriers) ListActive(context.Context) ([]*carrier.Carrier, error) {
	var out []*carrier.Carrier
	for _, c := range r.s.carriers {
		if c.IsActive() {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r memCarriers) Upsert(_ context.Context, c *carrier.Carrier) error {
	r.s.carriers = append(r.s.carriers, c)
	return nil
}

// fakeOMS keeps remote orders by id and can fail chosen operations.
type fakeOMS struct {
	mu        sync.Mutex
	orders    map[string][]string
	pushes    []ports.PushOrderRequest
	failures  map[string]int
	labelURL  string
	hideClone bool
}

func newFakeOMS() *fakeOMS {
	return &fakeOMS{orders: make(map[string][]string), failures: make(map[string]int), labelURL: "https://labels.example/"}
}

func (f *fakeOMS) failNext(op string, times int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failures[op] = times
}

func (f *fakeOMS) fail(op string) error {
	if f.failures[op] > 0 {
		f.failures[op]--
		return errs.NewRemoteError(op, 502, "", "bad gateway")
	}
	return nil
}

func (f *fakeOMS) PushOrder(_ context.Context, req ports.PushOrderRequest) (ports.PushOrderResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	op := "push_" + req.Mode.String()
	if req.GenerateLabel {
		op = "push_label"
	}
	if err := f.fail(op); err != nil {
		return ports.PushOrderResult{}, err
	}
	f.pushes = append(f.pushes, req)

	ids := make([]string, 0, len(req.Lines))
	for _, l := range req.Lines {
		ids = append(ids, l.UniqueID)
	}
	f.orders[req.OrderID] = ids

	if !req.GenerateLabel {
		return ports.PushOrderResult{}, nil
	}
	url := ""
	if f.labelURL != "" {
		url = f.labelURL + req.OrderID + ".pdf"
	}
	return ports.PushOrderResult{LabelURL: url, AWB: "AWB-" + req.OrderID, CarrierID: req.CarrierID}, nil
}

func (f *fakeOMS) ListOrders(_ context.Context, orderIDs []string) ([]ports.RemoteOrder, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail("list"); err != nil {
		return nil, err
	}
	var out []ports.RemoteOrder
	for _, id := range orderIDs {
		if ids, ok := f.orders[id]; ok {
			if f.hideClone && id != "O1" {
				continue
			}
			out = append(out, ports.RemoteOrder{OrderID: id, UniqueIDs: slices.Clone(ids)})
		}
	}
	return out, nil
}

func (f *fakeOMS) CreateManifest(context.Context, string, []string) (string, error) {
	return "M-1", nil
}

func (f *fakeOMS) CancelShipment(context.Context, string) error {
	return nil
}

func (f *fakeOMS) pushesWith(mode ports.PushMode, withLabel bool) []ports.PushOrderRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.PushOrderRequest
	for _, p := range f.pushes {
		if p.Mode == mode && p.GenerateLabel == withLabel {
			out = append(out, p)
		}
	}
	return out
}

type MockServiceability struct{ mock.Mock }

func (m *MockServiceability) CheckPincode(ctx context.Context, pincode kernel.Pincode) ([]carrier.Offer, error) {
	args := m.Called(ctx, pincode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]carrier.Offer), args.Error(1)
}

// memJournal is a SagaJournal over a map.
type memJournal struct {
	mu    sync.Mutex
	runs  map[string]ports.CloneRun
	saves int
}

func newMemJournal() *memJournal {
	return &memJournal{runs: make(map[string]ports.CloneRun)}
}

func (j *memJournal) Load(_ context.Context, orderID, vendorID string) (ports.CloneRun, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	run, ok := j.runs[orderID+"/"+vendorID]
	if !ok {
		return ports.CloneRun{}, errs.NewObjectNotFoundError("clone_run", orderID)
	}
	return run, nil
}

func (j *memJournal) Save(_ context.Context, run ports.CloneRun) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saves++
	j.runs[run.OrderID+"/"+run.VendorID] = run
	return nil
}

func (j *memJournal) Delete(_ context.Context, orderID, vendorID string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	delete(j.runs, orderID+"/"+vendorID)
	return nil
}

func (j *memJournal) len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.runs)
}

func newLine(t *testing.T, uniqueID, orderID string, pt kernel.PaymentType, price int64) *orderline.OrderLine {
	t.Helper()
	line, err := orderline.NewOrderLine(
		uniqueID,
		orderID,
		orderline.Product{
			SKU:               "SKU-" + uniqueID,
			Name:              "Kettle",
			Quantity:          1,
			SellingPrice:      decimal.NewFromInt(price),
			CollectableAmount: decimal.NewFromInt(price),
		},
		orderline.Shipping{CustomerName: "Meera", City: "Pune", Pincode: kernel.MustPincode("411001")},
		pt,
		time.Date(2026, 4, 1, 8, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return line
}

func mustCarrier(t *testing.T, id string, priority int) *carrier.Carrier {
	t.Helper()
	c, err := carrier.NewCarrier(id, id+" Express", priority, carrier.Active)
	require.NoError(t, err)
	return c
}
