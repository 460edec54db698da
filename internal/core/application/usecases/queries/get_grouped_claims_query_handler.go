package queries

import (
	"context"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type GetGroupedClaimsQueryHandler struct {
	db *gorm.DB
}

func NewGetGroupedClaimsQueryHandler(db *gorm.DB) GetGroupedClaimsQueryHandler {
	return GetGroupedClaimsQueryHandler{db: db}
}

// Handle pages over orders, oldest claim first, then loads the vendor's
// lines of the page in a second statement.
func (h GetGroupedClaimsQueryHandler) Handle(ctx context.Context, query GetGroupedClaimsQuery) ([]GroupedOrder, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	statuses := pq.Array(query.statusStrings())
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			o.order_id,
			COUNT(*) FILTER (WHERE o.claimed_by = ? AND o.status = ANY(?)) AS claimed_count,
			COUNT(*) AS total_count
		FROM order_lines o
		WHERE o.order_id IN (
			SELECT order_id FROM order_lines WHERE claimed_by = ? AND status = ANY(?)
		)
		GROUP BY o.order_id
		ORDER BY MIN(o.claimed_at) FILTER (WHERE o.claimed_by = ?), o.order_id
		LIMIT ? OFFSET ?
	`, query.VendorID(), statuses, query.VendorID(), statuses, query.VendorID(), query.Limit(), query.Offset()).Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := make([]GroupedOrder, 0)
	index := make(map[string]int)
	for rows.Next() {
		var o GroupedOrder
		if err = rows.Scan(&o.OrderID, &o.ClaimedCount, &o.TotalCount); err != nil {
			return nil, err
		}
		o.Lines = make([]GroupedLine, 0, o.ClaimedCount)
		index[o.OrderID] = len(orders)
		orders = append(orders, o)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	orderIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		orderIDs = append(orderIDs, o.OrderID)
	}

	lineRows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			order_id,
			unique_id,
			sku,
			product_name,
			quantity,
			status,
			label_downloaded,
			priority_carrier
		FROM order_lines
		WHERE order_id = ANY(?) AND claimed_by = ? AND status = ANY(?)
		ORDER BY order_id, unique_id
	`, pq.Array(orderIDs), query.VendorID(), statuses).Rows()
	if err != nil {
		return nil, err
	}
	defer lineRows.Close()

	for lineRows.Next() {
		var orderID string
		var line GroupedLine
		err = lineRows.Scan(
			&orderID,
			&line.UniqueID,
			&line.SKU,
			&line.ProductName,
			&line.Quantity,
			&line.Status,
			&line.LabelDownloaded,
			&line.PriorityCarrier,
		)
		if err != nil {
			return nil, err
		}
		i := index[orderID]
		orders[i].Lines = append(orders[i].Lines, line)
	}
	if err = lineRows.Err(); err != nil {
		return nil, err
	}

	for i := range orders {
		downloaded := len(orders[i].Lines) > 0
		for _, line := range orders[i].Lines {
			downloaded = downloaded && line.LabelDownloaded
		}
		orders[i].LabelDownloaded = downloaded
	}

	return orders, nil
}
