// Package notifier turns label failures into stored and published vendor alerts.
package notifier

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/alert"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/metrics"
)

var _ ports.Notifier = (*Emitter)(nil)

// Publisher forwards an alert to vendor facing channels.
type Publisher interface {
	Publish(ctx context.Context, a *alert.Alert) error
}

// Emitter classifies, stores and publishes alerts. Its own failures are
// logged and never returned.
type Emitter struct {
	classifier services.AlertClassifier
	alerts     ports.AlertRepository
	publisher  Publisher
	timeout    time.Duration
	logger     *slog.Logger
	now        func() time.Time
}

// NewEmitter bounds each notification by timeout. publisher may be nil.
func NewEmitter(alerts ports.AlertRepository, publisher Publisher, timeout time.Duration, logger *slog.Logger) *Emitter {
	return &Emitter{
		classifier: services.NewAlertClassifier(),
		alerts:     alerts,
		publisher:  publisher,
		timeout:    timeout,
		logger:     logger.With("component", "Emitter"),
		now:        time.Now,
	}
}

func (e *Emitter) Notify(ctx context.Context, n ports.Notification) {
	if n.Err == nil || n.VendorID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.timeout)
	defer cancel()

	category, message := e.Classify(n.Err)
	a, err := alert.NewAlert(n.VendorID, n.OrderID, category, message, e.now())
	if err != nil {
		e.logger.WarnContext(ctx, "alert not built", "order_id", n.OrderID, "error", err)
		return
	}
	metrics.AlertsTotal.WithLabelValues(string(category)).Inc()

	if e.alerts != nil {
		if err = e.alerts.Add(ctx, a); err != nil {
			e.logger.WarnContext(ctx, "alert not stored", "alert_id", a.ID(), "order_id", n.OrderID, "error", err)
		}
	}
	if e.publisher != nil {
		if err = e.publisher.Publish(ctx, a); err != nil {
			e.logger.WarnContext(ctx, "alert not published", "alert_id", a.ID(), "order_id", n.OrderID, "error", err)
		}
	}

	e.logger.InfoContext(ctx, "vendor alert raised",
		"alert_id", a.ID(), "vendor", n.VendorID, "order_id", n.OrderID, "category", category)
}

// Classify prefers the structured code of a remote rejection and falls back
// to matching the error text.
func (e *Emitter) Classify(err error) (alert.Category, string) {
	return e.classifier.ClassifyError(err)
}
