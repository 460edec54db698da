package labeling

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/domain/model/vendor"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/metrics"
	"fulfillment/internal/pkg/retry"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Clone saga steps. CloneRun.CompletedStep holds the highest finished one.
const (
	StepPrepare = iota
	StepCreateClone
	StepVerifyClone
	StepUpdateOriginal
	StepVerifyOriginal
	StepUpdateLocal
	StepGenerateLabel
	StepCommitLabel
)

var stepNames = [...]string{
	StepPrepare:        "prepare",
	StepCreateClone:    "create_clone",
	StepVerifyClone:    "verify_clone",
	StepUpdateOriginal: "update_original",
	StepVerifyOriginal: "verify_original",
	StepUpdateLocal:    "update_local",
	StepGenerateLabel:  "generate_label",
	StepCommitLabel:    "commit_label",
}

// StepName returns the metric and log name of a step.
func StepName(step int) string {
	if step < 0 || step >= len(stepNames) {
		return "unknown"
	}
	return stepNames[step]
}

// Result is the outcome of a label request.
type Result struct {
	OrderID     string
	Mode        services.LabelMode
	LabelURL    string
	AWB         string
	CarrierID   string
	CarrierName string
	Cached      bool
	// Downloaded is false when the carrier answered without a label URL.
	Downloaded bool
}

// CloneSaga splits an order so that a vendor's claimed lines ship under a
// new order id, then labels the clone.
//
// There is no compensation. A clone confirmed remotely stays there if a
// later step fails; the journal lets the next request continue it instead of
// creating another one.
type CloneSaga struct {
	gateway    ports.OrderManagementGateway
	uowFactory UoWFactory
	generator  *LabelGenerator
	journal    ports.SagaJournal
	splitter   services.OrderSplitter
	policy     retry.Policy
	tracer     trace.Tracer
	logger     *slog.Logger
	now        func() time.Time
}

func NewCloneSaga(
	gateway ports.OrderManagementGateway,
	uowFactory UoWFactory,
	generator *LabelGenerator,
	journal ports.SagaJournal,
	policy retry.Policy,
	tracer trace.Tracer,
	logger *slog.Logger,
) *CloneSaga {
	return &CloneSaga{
		gateway:    gateway,
		uowFactory: uowFactory,
		generator:  generator,
		journal:    journal,
		splitter:   services.NewOrderSplitter(),
		policy:     policy,
		tracer:     tracer,
		logger:     logger.With("component", "clone_saga"),
		now:        time.Now,
	}
}

// Pending returns the open run of vendorID for orderID, if any.
func (s *CloneSaga) Pending(ctx context.Context, orderID, vendorID string) (ports.CloneRun, bool, error) {
	run, err := s.journal.Load(ctx, orderID, vendorID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return ports.CloneRun{}, false, nil
	}
	if err != nil {
		return ports.CloneRun{}, false, err
	}
	return run, true, nil
}

// Start freezes the partition into a new run and executes it.
func (s *CloneSaga) Start(ctx context.Context, p services.Partition, v *vendor.Vendor) (Result, error) {
	if p.Mode != services.Clone {
		return Result{}, errs.NewValueIsInvalidErrorWithCause("mode", fmt.Errorf("%s order %s needs no split", p.Mode, p.OrderID))
	}

	run, err := s.prepare(ctx, p, v)
	if err != nil {
		return Result{}, err
	}
	return s.Resume(ctx, run)
}

// Resume executes every step after run.CompletedStep.
func (s *CloneSaga) Resume(ctx context.Context, run ports.CloneRun) (Result, error) {
	ctx, span := s.tracer.Start(ctx, "clone_saga",
		trace.WithAttributes(
			attribute.String("order.id", run.OrderID),
			attribute.String("clone.id", run.CloneOrderID),
			attribute.String("saga.run_id", run.RunID),
			attribute.Int("saga.resume_after", run.CompletedStep),
		))
	defer span.End()

	log := s.logger.With("order_id", run.OrderID, "clone_id", run.CloneOrderID, "run_id", run.RunID)
	if run.CompletedStep > StepPrepare {
		log.InfoContext(ctx, "resuming clone saga", "completed_step", StepName(run.CompletedStep))
	}

	steps := []struct {
		step int
		fn   func(context.Context, ports.CloneRun) error
	}{
		{StepCreateClone, s.createClone},
		{StepVerifyClone, s.verifyClone},
		{StepUpdateOriginal, s.updateOriginal},
		{StepVerifyOriginal, s.verifyOriginal},
		{StepUpdateLocal, s.updateLocal},
		{StepGenerateLabel, func(ctx context.Context, in ports.CloneRun) error {
			res, err := s.generateLabel(ctx, in)
			if err == nil {
				run.Label = &res
			}
			return err
		}},
	}

	for _, st := range steps {
		if run.CompletedStep >= st.step {
			continue
		}
		if err := s.runStep(ctx, &run, st.step, st.fn); err != nil {
			s.abort(ctx, log, run, st.step, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, StepName(st.step))
			return Result{}, err
		}
	}

	downloaded := false
	commit := func(ctx context.Context, in ports.CloneRun) error {
		if in.Label == nil {
			return retry.Permanent(errs.NewValueIsRequiredError("label"))
		}
		ok, err := s.generator.Commit(ctx, in.CloneOrderID, in.VendorID, claimedIDs(in), *in.Label)
		downloaded = ok
		return err
	}
	if err := s.runStep(ctx, &run, StepCommitLabel, commit); err != nil {
		s.abort(ctx, log, run, StepCommitLabel, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, StepName(StepCommitLabel))
		return Result{}, err
	}

	if err := s.journal.Delete(ctx, run.OrderID, run.VendorID); err != nil {
		log.WarnContext(ctx, "failed to drop finished clone run", "error", err)
	}
	if !downloaded {
		log.WarnContext(ctx, "clone labeled without url, label left pending")
	} else {
		log.InfoContext(ctx, "clone saga finished", "awb", run.Label.AWB)
	}

	return Result{
		OrderID:     run.CloneOrderID,
		Mode:        services.Clone,
		LabelURL:    run.Label.LabelURL,
		AWB:         run.Label.AWB,
		CarrierID:   run.Label.CarrierID,
		CarrierName: run.Label.CarrierName,
		Downloaded:  downloaded,
	}, nil
}

func (s *CloneSaga) prepare(ctx context.Context, p services.Partition, v *vendor.Vendor) (ports.CloneRun, error) {
	frozen := ports.CloneRun{
		RunID:       uuid.NewString(),
		OrderID:     p.OrderID,
		VendorID:    v.WarehouseID(),
		WarehouseID: v.WarehouseID(),
		Claimed:     snapshots(p.Claimed),
		Remaining:   snapshots(p.Remaining),
		FrozenAt:    s.now().UTC(),
	}

	var cloneID string
	err := s.runStep(ctx, &frozen, StepPrepare, func(ctx context.Context, in ports.CloneRun) error {
		id, err := s.splitter.NextCloneID(in.OrderID, func(candidate string) (bool, error) {
			return s.cloneIDTaken(ctx, candidate)
		})
		cloneID = id
		return err
	})
	if err != nil {
		return ports.CloneRun{}, err
	}

	frozen.CloneOrderID = cloneID
	if err = s.journal.Save(ctx, frozen); err != nil {
		return ports.CloneRun{}, err
	}
	return frozen, nil
}

func (s *CloneSaga) cloneIDTaken(ctx context.Context, candidate string) (bool, error) {
	local, err := s.uowFactory.Create().OrderLineRepository().OrderIDExists(ctx, candidate)
	if err != nil || local {
		return local, err
	}
	remote, err := s.gateway.ListOrders(ctx, []string{candidate})
	if err != nil {
		return false, err
	}
	return len(remote) > 0, nil
}

// createClone pushes the clone without a label. A clone already present
// remotely means an earlier attempt landed, so the push is skipped.
func (s *CloneSaga) createClone(ctx context.Context, in ports.CloneRun) error {
	existing, err := s.gateway.ListOrders(ctx, []string{in.CloneOrderID})
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	_, err = s.gateway.PushOrder(ctx, pushRequest(ports.CreateOrder, in.CloneOrderID, in.Claimed, in.WarehouseID))
	return err
}

func (s *CloneSaga) verifyClone(ctx context.Context, in ports.CloneRun) error {
	return s.verifyRemote(ctx, in.CloneOrderID, claimedIDs(in), "clone not listed with claimed lines")
}

func (s *CloneSaga) updateOriginal(ctx context.Context, in ports.CloneRun) error {
	if len(in.Remaining) == 0 {
		return nil
	}
	_, err := s.gateway.PushOrder(ctx, pushRequest(ports.UpdateOrder, in.OrderID, in.Remaining, in.WarehouseID))
	return err
}

func (s *CloneSaga) verifyOriginal(ctx context.Context, in ports.CloneRun) error {
	if len(in.Remaining) == 0 {
		return nil
	}
	return s.verifyRemote(ctx, in.OrderID, remainingIDs(in), "original still lists claimed lines")
}

func (s *CloneSaga) verifyRemote(ctx context.Context, orderID string, want []string, check string) error {
	orders, err := s.gateway.ListOrders(ctx, []string{orderID})
	if err != nil {
		return err
	}
	for _, o := range orders {
		if o.OrderID == orderID && sameIDs(o.UniqueIDs, want) {
			return nil
		}
	}
	return errs.NewRemoteUnconfirmedError(orderID, check)
}

// updateLocal re-homes the claimed lines. Lines already moved by an earlier
// attempt are left alone.
func (s *CloneSaga) updateLocal(ctx context.Context, in ports.CloneRun) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderLineRepository()
	ids := claimedIDs(in)
	lines, err := repo.ListByUniqueIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(lines) != len(ids) {
		return retry.Permanent(errs.NewObjectNotFoundErrorWithCause("unique_id", ids,
			fmt.Errorf("found %d of %d claimed lines", len(lines), len(ids))))
	}

	for _, line := range lines {
		if line.OrderID() == in.CloneOrderID {
			continue
		}
		if line.OrderID() != in.OrderID {
			return retry.Permanent(errs.NewValueIsInvalidErrorWithCause("order_id",
				fmt.Errorf("line %s moved to %s", line.UniqueID(), line.OrderID())))
		}
		if err = line.EnsureOwnedBy(in.VendorID); err != nil {
			return retry.Permanent(err)
		}
		if err = line.MoveToClone(in.CloneOrderID); err != nil {
			return retry.Permanent(err)
		}
		if err = repo.Update(ctx, line); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}

func (s *CloneSaga) generateLabel(ctx context.Context, in ports.CloneRun) (ports.PushOrderResult, error) {
	lines := make([]orderline.Snapshot, 0, len(in.Claimed))
	for _, l := range in.Claimed {
		l.OrderID = in.CloneOrderID
		lines = append(lines, l)
	}
	res, err := s.generator.Generate(ctx, LabelRequest{
		OrderID:     in.CloneOrderID,
		WarehouseID: in.WarehouseID,
		Lines:       lines,
	}, nil)
	if errors.Is(err, errs.ErrNoServiceableCarrier) || errors.Is(err, errs.ErrMalformedCarrierResponse) {
		return res, retry.Permanent(err)
	}
	return res, err
}

// runStep executes fn under the retry policy with a copy of run as the
// frozen input, then journals the step as complete.
func (s *CloneSaga) runStep(ctx context.Context, run *ports.CloneRun, step int, fn func(context.Context, ports.CloneRun) error) error {
	name := StepName(step)
	ctx, span := s.tracer.Start(ctx, "clone_saga."+name)
	defer span.End()

	started := time.Now()
	_, err := retry.Do(ctx, s.policy, name, *run,
		func(ctx context.Context, in ports.CloneRun) (struct{}, error) {
			return struct{}{}, fn(ctx, in)
		},
		func(step string, attempt int, err error, wait time.Duration) {
			metrics.SagaStepAttemptsTotal.WithLabelValues(step).Inc()
			s.logger.WarnContext(ctx, "clone saga step failed, retrying",
				"step", step, "attempt", attempt, "wait", wait, "order_id", run.OrderID, "error", err)
		})
	metrics.SagaStepDuration.WithLabelValues(name).Observe(time.Since(started).Seconds())
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	run.CompletedStep = step
	run.UpdatedAt = s.now().UTC()
	if step > StepPrepare && step < StepCommitLabel {
		if saveErr := s.journal.Save(context.WithoutCancel(ctx), *run); saveErr != nil {
			s.logger.ErrorContext(ctx, "failed to journal clone step", "step", name, "order_id", run.OrderID, "error", saveErr)
		}
	}
	return nil
}

// abort keeps the run for a later resume whenever the clone may already exist
// remotely and the lines have not moved yet. Dropping it there would let the
// next request claim a fresh clone id for the same lines. Before the create
// step only an exhausted or interrupted push can have landed. Once the lines
// live under the clone id, finishing is ordinary direct labeling of the clone.
func (s *CloneSaga) abort(ctx context.Context, log *slog.Logger, run ports.CloneRun, step int, err error) {
	var resumable bool
	switch {
	case run.CompletedStep >= StepUpdateLocal:
		resumable = false
	case run.CompletedStep >= StepCreateClone:
		resumable = true
	default:
		resumable = errors.Is(err, errs.ErrSagaStepExhausted) ||
			errors.Is(err, context.Canceled) ||
			errors.Is(err, context.DeadlineExceeded)
	}
	log.ErrorContext(ctx, "clone saga aborted", "step", StepName(step), "resumable", resumable, "error", err)
	if resumable {
		return
	}
	if delErr := s.journal.Delete(context.WithoutCancel(ctx), run.OrderID, run.VendorID); delErr != nil {
		log.WarnContext(ctx, "failed to drop aborted clone run", "error", delErr)
	}
}

func pushRequest(mode ports.PushMode, orderID string, lines []orderline.Snapshot, warehouseID string) ports.PushOrderRequest {
	head := lines[0]
	return ports.PushOrderRequest{
		Mode:        mode,
		OrderID:     orderID,
		OrderDate:   head.OrderDate,
		PaymentType: head.PaymentType,
		Shipping:    head.Shipping,
		Lines:       RemoteLines(lines),
		WarehouseID: warehouseID,
		Total:       OrderTotal(lines),
		WeightKg:    PerLineWeightKg.Mul(decimalCount(len(lines))),
	}
}

func snapshots(lines []*orderline.OrderLine) []orderline.Snapshot {
	out := make([]orderline.Snapshot, 0, len(lines))
	for _, line := range lines {
		out = append(out, line.Snapshot())
	}
	return out
}

func claimedIDs(run ports.CloneRun) []string {
	return snapshotIDs(run.Claimed)
}

func remainingIDs(run ports.CloneRun) []string {
	return snapshotIDs(run.Remaining)
}

func snapshotIDs(lines []orderline.Snapshot) []string {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.UniqueID)
	}
	return ids
}

func sameIDs(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	a := slices.Clone(got)
	b := slices.Clone(want)
	slices.Sort(a)
	slices.Sort(b)
	return slices.Equal(a, b)
}
