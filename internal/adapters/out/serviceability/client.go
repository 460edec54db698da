// Package serviceability asks the carrier network which carriers deliver to a
// pincode.
package serviceability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/carrier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.ServiceabilityClient = (*Client)(nil)

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	tracer  trace.Tracer
}

func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errs.NewValueIsRequiredError("serviceability base url")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("serviceability base url", err)
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
		tracer:  tracing.Tracer(),
	}, nil
}

type offerBody struct {
	CarrierID   string `json:"carrier_id"`
	Name        string `json:"name"`
	PaymentType string `json:"payment_type"`
}

type checkResponse struct {
	Pincode  string      `json:"pincode"`
	Carriers []offerBody `json:"carriers"`
}

// CheckPincode lists the offers for pincode. Offers with an unknown payment
// type or no carrier id are dropped.
func (c *Client) CheckPincode(ctx context.Context, pincode kernel.Pincode) ([]carrier.Offer, error) {
	if err := pincode.Validate(); err != nil {
		return nil, err
	}

	ctx, span := c.tracer.Start(ctx, "serviceability.check_pincode",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("pincode", pincode.String())))
	defer span.End()

	offers, err := c.check(ctx, pincode)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("offers", len(offers)))
	return offers, nil
}

func (c *Client) check(ctx context.Context, pincode kernel.Pincode) ([]carrier.Offer, error) {
	q := url.Values{}
	q.Set("pincode", pincode.String())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/serviceability?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build serviceability request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("serviceability request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, errs.NewRemoteError("check_pincode", resp.StatusCode, "", strings.TrimSpace(string(msg)))
	}

	var body checkResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: decode serviceability response: %v", errs.ErrMalformedCarrierResponse, err)
	}

	offers := make([]carrier.Offer, 0, len(body.Carriers))
	for _, o := range body.Carriers {
		pt, err := kernel.ParsePaymentType(o.PaymentType)
		if err != nil || strings.TrimSpace(o.CarrierID) == "" {
			continue
		}
		offers = append(offers, carrier.Offer{CarrierID: o.CarrierID, Name: o.Name, PaymentType: pt})
	}
	return offers, nil
}
