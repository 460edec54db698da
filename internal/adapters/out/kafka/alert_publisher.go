package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/alert"
)

// AlertMessage is the wire form of an alert.
type AlertMessage struct {
	ID        string    `json:"id"`
	VendorID  string    `json:"vendor_id"`
	OrderID   string    `json:"order_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

// AlertPublisher encodes alerts as JSON keyed by vendor id so one vendor's
// alerts keep their order within a partition.
type AlertPublisher struct {
	producer Producer
	topic    string
}

func NewAlertPublisher(producer Producer, topic string) *AlertPublisher {
	return &AlertPublisher{producer: producer, topic: topic}
}

func (p *AlertPublisher) Publish(ctx context.Context, a *alert.Alert) error {
	value, err := json.Marshal(AlertMessage{
		ID:        a.ID().String(),
		VendorID:  a.VendorID(),
		OrderID:   a.OrderID(),
		Category:  string(a.Category()),
		Title:     a.Category().Title(),
		Message:   a.Message(),
		CreatedAt: a.CreatedAt(),
	})
	if err != nil {
		return fmt.Errorf("encode alert %s: %w", a.ID(), err)
	}
	if err := p.producer.SendMessage(ctx, p.topic, []byte(a.VendorID()), value); err != nil {
		return fmt.Errorf("publish alert %s: %w", a.ID(), err)
	}
	return nil
}

func (p *AlertPublisher) Close() error {
	return p.producer.Close()
}
