// Package oms is the HTTP client of the external order management system.
package oms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/tracing"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

var _ ports.OrderManagementGateway = (*Client)(nil)

const maxBodyBytes = 1 << 20

type Client struct {
	baseURL string
	token   string
	http    *http.Client
	tracer  trace.Tracer
}

// NewClient talks to baseURL with a bearer token. Every call is bounded by
// timeout on top of the caller's context.
func NewClient(baseURL, token string, timeout time.Duration, httpClient *http.Client) (*Client, error) {
	if strings.TrimSpace(baseURL) == "" {
		return nil, errs.NewValueIsRequiredError("oms base url")
	}
	if _, err := url.ParseRequestURI(baseURL); err != nil {
		return nil, errs.NewValueIsInvalidErrorWithCause("oms base url", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    httpClient,
		tracer:  tracing.Tracer(),
	}, nil
}

type customerBody struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
}

type productBody struct {
	UniqueID     string          `json:"unique_id"`
	SKU          string          `json:"sku"`
	Name         string          `json:"name"`
	Quantity     int             `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type orderBody struct {
	OrderID       string          `json:"order_id"`
	OrderDate     string          `json:"order_date"`
	PaymentType   string          `json:"payment_type"`
	Customer      customerBody    `json:"customer"`
	Products      []productBody   `json:"products"`
	OrderTotal    decimal.Decimal `json:"order_total"`
	WeightKg      decimal.Decimal `json:"weight"`
	WarehouseID   string          `json:"warehouse_id,omitempty"`
	GenerateLabel bool            `json:"generate_label"`
	CarrierID     string          `json:"carrier_id,omitempty"`
}

func toOrderBody(req ports.PushOrderRequest) orderBody {
	products := make([]productBody, 0, len(req.Lines))
	for _, l := range req.Lines {
		products = append(products, productBody{
			UniqueID:     l.UniqueID,
			SKU:          l.SKU,
			Name:         l.Name,
			Quantity:     l.Quantity,
			SellingPrice: l.SellingPrice,
		})
	}
	return orderBody{
		OrderID:     req.OrderID,
		OrderDate:   req.OrderDate.UTC().Format(time.DateOnly),
		PaymentType: req.PaymentType.String(),
		Customer: customerBody{
			Name:    req.Shipping.CustomerName,
			Phone:   req.Shipping.Phone,
			Address: req.Shipping.Address,
			City:    req.Shipping.City,
			State:   req.Shipping.State,
			Pincode: req.Shipping.Pincode.String(),
		},
		Products:      products,
		OrderTotal:    req.Total,
		WeightKg:      req.WeightKg,
		WarehouseID:   req.WarehouseID,
		GenerateLabel: req.GenerateLabel,
		CarrierID:     req.CarrierID,
	}
}

// PushOrder creates or replaces a remote order. With GenerateLabel the answer
// must carry a label in one of the known shapes.
func (c *Client) PushOrder(ctx context.Context, req ports.PushOrderRequest) (ports.PushOrderResult, error) {
	if strings.TrimSpace(req.OrderID) == "" {
		return ports.PushOrderResult{}, errs.NewValueIsRequiredError("order_id")
	}
	if len(req.Lines) == 0 {
		return ports.PushOrderResult{}, errs.NewValueIsRequiredError("lines")
	}

	method, path := http.MethodPost, "/orders"
	if req.Mode == ports.UpdateOrder {
		method, path = http.MethodPut, "/orders/"+url.PathEscape(req.OrderID)
	}

	body, err := c.do(ctx, "push_order."+req.Mode.String(), method, path, toOrderBody(req))
	if err != nil {
		return ports.PushOrderResult{}, err
	}
	if !req.GenerateLabel {
		return ports.PushOrderResult{}, nil
	}
	return ParseLabel(body)
}

func (c *Client) ListOrders(ctx context.Context, orderIDs []string) ([]ports.RemoteOrder, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	q := url.Values{}
	q.Set("order_ids", strings.Join(orderIDs, ","))

	body, err := c.do(ctx, "list_orders", http.MethodGet, "/orders?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	orders, err := ParseOrders(body)
	if err != nil {
		return nil, err
	}

	wanted := make(map[string]struct{}, len(orderIDs))
	for _, id := range orderIDs {
		wanted[id] = struct{}{}
	}
	out := orders[:0]
	for _, o := range orders {
		if _, ok := wanted[o.OrderID]; ok {
			out = append(out, o)
		}
	}
	return out, nil
}

// CreateManifest returns the remote manifest id.
func (c *Client) CreateManifest(ctx context.Context, orderID string, awbs []string) (string, error) {
	if len(awbs) == 0 {
		return "", errs.NewValueIsRequiredError("awbs")
	}
	body, err := c.do(ctx, "create_manifest", http.MethodPost, "/manifests", map[string]any{
		"order_id": orderID,
		"awbs":     awbs,
	})
	if err != nil {
		return "", err
	}
	var res struct {
		ManifestID string `json:"manifest_id"`
	}
	if err = json.Unmarshal(body, &res); err != nil || res.ManifestID == "" {
		return "", fmt.Errorf("%w: manifest answer has no manifest_id", errs.ErrMalformedCarrierResponse)
	}
	return res.ManifestID, nil
}

func (c *Client) CancelShipment(ctx context.Context, awb string) error {
	if strings.TrimSpace(awb) == "" {
		return errs.NewValueIsRequiredError("awb")
	}
	_, err := c.do(ctx, "cancel_shipment", http.MethodPost, "/shipments/cancel", map[string]any{"awbs": []string{awb}})
	return err
}

// do sends one request and returns the body of a successful answer. Non-2xx
// answers and 2xx answers reporting failure become *errs.RemoteError.
func (c *Client) do(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	ctx, span := c.tracer.Start(ctx, "oms."+op, trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("http.method", method)))
	defer span.End()

	body, err := c.roundTrip(ctx, op, method, path, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return body, err
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s request: %w", op, err)
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s request: %w", op, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		code, message, _ := ParseRemoteFailure(body)
		if message == "" {
			message = resp.Status
		}
		return nil, errs.NewRemoteError(op, resp.StatusCode, code, message)
	}
	if gjson.ValidBytes(body) {
		// A readable label is a success whatever else the body says.
		if _, err := ParseLabel(body); err == nil {
			return body, nil
		}
		if code, message, failed := ParseRemoteFailure(body); failed {
			return nil, errs.NewRemoteError(op, resp.StatusCode, code, message)
		}
	}
	return body, nil
}
