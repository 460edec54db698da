package commands

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"fulfillment/internal/pkg/metrics"
)

// DefaultClaimTTL is how long a claim may stay without a downloaded label.
const DefaultClaimTTL = 24 * time.Hour

// AutoReverseResult reports one sweep. Skipped is set when another sweep was
// still running and this one did nothing.
type AutoReverseResult struct {
	Released int64
	Skipped  bool
}

// AutoReverseExpiredCommandHandler sweeps stale claims with a single
// statement. It never calls remote systems: without a label there is no
// shipment to cancel. Overlapping invocations are skipped, not queued.
type AutoReverseExpiredCommandHandler struct {
	uowFactory ClaimUoWFactory
	ttl        time.Duration
	running    *atomic.Bool
	logger     *slog.Logger
	now        func() time.Time
}

func NewAutoReverseExpiredCommandHandler(uowFactory ClaimUoWFactory, ttl time.Duration, logger *slog.Logger) AutoReverseExpiredCommandHandler {
	if ttl <= 0 {
		ttl = DefaultClaimTTL
	}
	return AutoReverseExpiredCommandHandler{
		uowFactory: uowFactory,
		ttl:        ttl,
		running:    new(atomic.Bool),
		logger:     logger.With("component", "auto_reverse"),
		now:        time.Now,
	}
}

func (h AutoReverseExpiredCommandHandler) Handle(ctx context.Context, command AutoReverseExpiredCommand) (AutoReverseResult, error) {
	if err := command.Validate(); err != nil {
		return AutoReverseResult{}, err
	}
	if !h.running.CompareAndSwap(false, true) {
		h.logger.InfoContext(ctx, "sweep already running, skipped")
		return AutoReverseResult{Skipped: true}, nil
	}
	defer h.running.Store(false)

	cutoff := h.now().UTC().Add(-h.ttl)
	released, err := h.uowFactory.Create().OrderLineRepository().ReleaseExpired(ctx, cutoff)
	if err != nil {
		return AutoReverseResult{}, err
	}

	metrics.SweptClaimsTotal.Add(float64(released))
	h.logger.InfoContext(ctx, "stale claims released", "released", released, "cutoff", cutoff)
	return AutoReverseResult{Released: released}, nil
}
