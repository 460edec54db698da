package oms

import (
	"fmt"
	"strings"

	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/tidwall/gjson"
)

// labelShape is one known layout of a push-order answer.
type labelShape struct {
	url, awb, carrierID, carrierName string
}

// labelShapes are tried in order; the first one with both a url and an awb wins.
var labelShapes = []labelShape{
	{url: "label_url", awb: "awb", carrierID: "carrier_id", carrierName: "carrier_name"},
	{url: "response.label_url", awb: "response.awb_number", carrierID: "response.courier_id", carrierName: "response.courier_name"},
	{url: "data.shipping_label.url", awb: "data.awb", carrierID: "data.carrier.id", carrierName: "data.carrier.name"},
	{url: "shipments.0.label", awb: "shipments.0.awb", carrierID: "shipments.0.courier_id", carrierName: "shipments.0.courier"},
	{url: "payload.label", awb: "payload.awb_code", carrierID: "payload.courier_company_id", carrierName: "payload.courier_name"},
}

// ParseLabel extracts the canonical label answer from body. It fails with
// errs.ErrMalformedCarrierResponse when no known shape carries both fields.
func ParseLabel(body []byte) (ports.PushOrderResult, error) {
	if !gjson.ValidBytes(body) {
		return ports.PushOrderResult{}, fmt.Errorf("%w: body is not json", errs.ErrMalformedCarrierResponse)
	}
	doc := gjson.ParseBytes(body)
	for _, s := range labelShapes {
		url := strings.TrimSpace(doc.Get(s.url).String())
		awb := strings.TrimSpace(doc.Get(s.awb).String())
		if url == "" || awb == "" {
			continue
		}
		return ports.PushOrderResult{
			LabelURL:    url,
			AWB:         awb,
			CarrierID:   doc.Get(s.carrierID).String(),
			CarrierName: doc.Get(s.carrierName).String(),
		}, nil
	}
	return ports.PushOrderResult{}, fmt.Errorf("%w: no label url and awb in %d bytes", errs.ErrMalformedCarrierResponse, len(body))
}

// ParseRemoteFailure reads a structured failure from an answer that is not a
// success. ok is false when body reports success.
func ParseRemoteFailure(body []byte) (code, message string, ok bool) {
	if !gjson.ValidBytes(body) {
		return "", strings.TrimSpace(string(body)), true
	}
	doc := gjson.ParseBytes(body)
	if s := doc.Get("success"); s.Exists() && s.Bool() {
		return "", "", false
	}
	if s := doc.Get("status"); s.Exists() && s.Type == gjson.String && strings.EqualFold(s.String(), "success") {
		return "", "", false
	}

	code = failureCode(doc, "error.code", "error_code", "code")
	message = firstString(doc, "error.message", "message", "error", "errors.0.message")
	errField := doc.Get("error")
	hasError := errField.Type != gjson.Null && errField.Type != gjson.False && errField.String() != ""
	failed := doc.Get("success").Exists() || code != "" || hasError
	return code, message, failed
}

// failureCode is the first non-empty code among paths. Numeric codes in the
// 2xx range are success markers and do not count.
func failureCode(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		v := doc.Get(p)
		if v.Type == gjson.Number {
			if n := v.Int(); n >= 200 && n <= 299 {
				continue
			}
		}
		if s := strings.TrimSpace(v.String()); s != "" && v.Type != gjson.JSON {
			return s
		}
	}
	return ""
}

// ParseOrders reads the list-orders answer, accepting either an "orders" or a
// "data" array.
func ParseOrders(body []byte) ([]ports.RemoteOrder, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: list orders body is not json", errs.ErrMalformedCarrierResponse)
	}
	doc := gjson.ParseBytes(body)
	list := doc.Get("orders")
	if !list.Exists() {
		list = doc.Get("data")
	}
	if !list.IsArray() {
		return nil, fmt.Errorf("%w: list orders has no order array", errs.ErrMalformedCarrierResponse)
	}

	var orders []ports.RemoteOrder
	for _, o := range list.Array() {
		id := firstString(o, "order_id", "channel_order_id", "id")
		if id == "" {
			continue
		}
		order := ports.RemoteOrder{OrderID: id}
		products := o.Get("products")
		if !products.Exists() {
			products = o.Get("order_items")
		}
		for _, p := range products.Array() {
			if uid := firstString(p, "unique_id", "sku_id", "channel_order_product_id"); uid != "" {
				order.UniqueIDs = append(order.UniqueIDs, uid)
			}
		}
		orders = append(orders, order)
	}
	return orders, nil
}

func firstString(doc gjson.Result, paths ...string) string {
	for _, p := range paths {
		if v := doc.Get(p); v.Exists() && v.Type != gjson.JSON && v.String() != "" {
			return v.String()
		}
	}
	return ""
}
