package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/services"

	"github.com/labstack/echo/v4"
)

type orderIDRequest struct {
	OrderID string `json:"order_id"`
}

type orderIDsRequest struct {
	OrderIDs []string `json:"order_ids"`
}

// LabelResponse is a label served to the vendor.
type LabelResponse struct {
	OrderID     string `json:"order_id"`
	Mode        string `json:"mode"`
	LabelURL    string `json:"label_url"`
	AWB         string `json:"awb"`
	CarrierID   string `json:"carrier_id"`
	CarrierName string `json:"carrier_name"`
	Cached      bool   `json:"cached"`
	Downloaded  bool   `json:"downloaded"`
}

// BulkLabelResponse is one order of a bulk label answer.
type BulkLabelResponse struct {
	OrderID string         `json:"order_id"`
	Status  int            `json:"status"`
	Label   *LabelResponse `json:"label,omitempty"`
	Warning bool           `json:"warning,omitempty"`
	Message string         `json:"message,omitempty"`
}

func toLabelResponse(r labeling.Result) LabelResponse {
	return LabelResponse{
		OrderID:     r.OrderID,
		Mode:        r.Mode.String(),
		LabelURL:    r.LabelURL,
		AWB:         r.AWB,
		CarrierID:   r.CarrierID,
		CarrierName: r.CarrierName,
		Cached:      r.Cached,
		Downloaded:  r.Downloaded,
	}
}

// labelWarning turns a remote label failure into the vendor facing notice.
func labelWarning(err error) Warning {
	category, _ := services.NewAlertClassifier().ClassifyError(err)
	return Warning{
		Warning:  true,
		Message:  category.Title() + ", contact admin",
		Category: string(category),
	}
}

// DownloadLabel handles POST /download-label. The split runs on a context
// that outlives the request so a client disconnect cannot stop it halfway.
func (s *Server) DownloadLabel(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req orderIDRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewDownloadLabelCommand(req.OrderID, v)
	if err != nil {
		return fail(c, err)
	}
	res, err := s.labelHandler.Handle(context.WithoutCancel(c.Request().Context()), cmd)
	if err != nil {
		if commands.IsRemoteLabelFailure(err) {
			return c.JSON(http.StatusOK, labelWarning(err))
		}
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toLabelResponse(res))
}

// BulkDownloadLabels handles POST /bulk-download-labels.
func (s *Server) BulkDownloadLabels(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req orderIDsRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewBulkDownloadLabelsCommand(req.OrderIDs, v)
	if err != nil {
		return fail(c, err)
	}
	outcomes, err := s.labelHandler.HandleBulk(context.WithoutCancel(c.Request().Context()), cmd)
	if err != nil {
		return fail(c, err)
	}

	results := make([]BulkLabelResponse, 0, len(outcomes))
	for _, o := range outcomes {
		item := BulkLabelResponse{OrderID: o.OrderID, Status: StatusOf(o.Err)}
		switch {
		case o.Err == nil:
			label := toLabelResponse(o.Result)
			item.Label = &label
		case commands.IsRemoteLabelFailure(o.Err):
			w := labelWarning(o.Err)
			item.Status = http.StatusOK
			item.Warning = true
			item.Message = w.Message
		default:
			item.Message = o.Err.Error()
		}
		results = append(results, item)
	}
	return c.JSON(http.StatusOK, map[string]any{"results": results})
}
