package commands_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/label"
	"fulfillment/internal/core/domain/model/orderline"
	"fulfillment/internal/core/domain/model/vendor"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLine(t *testing.T, uniqueID, orderID string) *orderline.OrderLine {
	t.Helper()
	line, err := orderline.NewOrderLine(
		uniqueID,
		orderID,
		orderline.Product{SKU: "SKU-" + uniqueID, Name: "Chair", Quantity: 1, SellingPrice: decimal.NewFromInt(999)},
		orderline.Shipping{CustomerName: "Kiran", Pincode: kernel.MustPincode("700001")},
		kernel.Prepaid,
		time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	return line
}

func claimedLine(t *testing.T, uniqueID, orderID, vendorID string) *orderline.OrderLine {
	t.Helper()
	line := newLine(t, uniqueID, orderID)
	require.NoError(t, line.Claim(vendorID, time.Now()))
	return line
}

func labeledLine(t *testing.T, uniqueID, orderID, vendorID string) *orderline.OrderLine {
	t.Helper()
	line := claimedLine(t, uniqueID, orderID, vendorID)
	require.NoError(t, line.MarkLabelDownloaded())
	return line
}

func storedLabel(t *testing.T, orderID, awb string) *label.Label {
	t.Helper()
	l, err := label.NewLabel(orderID)
	require.NoError(t, err)
	require.NoError(t, l.Attach("https://labels/"+orderID+".pdf", awb, "delhivery", "Delhivery"))
	return l
}

func activeVendor(t *testing.T, id string) *vendor.Vendor {
	t.Helper()
	v, err := vendor.NewVendor(id, id, true, false)
	require.NoError(t, err)
	return v
}
