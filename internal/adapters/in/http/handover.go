package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

type manifestResponse struct {
	OrderID    string `json:"order_id"`
	ManifestID string `json:"manifest_id"`
}

type reverseGroupedRequest struct {
	OrderID   string   `json:"order_id"`
	UniqueIDs []string `json:"unique_ids"`
}

type reverseResponse struct {
	Released      []string `json:"released"`
	CancelledAWBs []string `json:"cancelled_awbs"`
}

func toReverseResponse(r commands.ReverseResult) reverseResponse {
	resp := reverseResponse{Released: r.Released, CancelledAWBs: r.CancelledAWBs}
	if resp.Released == nil {
		resp.Released = []string{}
	}
	if resp.CancelledAWBs == nil {
		resp.CancelledAWBs = []string{}
	}
	return resp
}

// MarkReady handles POST /mark-ready.
func (s *Server) MarkReady(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req orderIDRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewMarkReadyCommand(req.OrderID, v.WarehouseID())
	if err != nil {
		return fail(c, err)
	}
	manifestID, err := s.markReadyHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, manifestResponse{OrderID: cmd.OrderID(), ManifestID: manifestID})
}

// BulkMarkReady handles POST /bulk-mark-ready.
func (s *Server) BulkMarkReady(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req orderIDsRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewBulkMarkReadyCommand(req.OrderIDs, v.WarehouseID())
	if err != nil {
		return fail(c, err)
	}
	res, err := s.markReadyHandler.HandleBulk(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBulkResponse(res))
}

// Reverse handles POST /reverse.
func (s *Server) Reverse(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req uniqueIDRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewReverseCommand(req.UniqueID, v.WarehouseID())
	if err != nil {
		return fail(c, err)
	}
	return s.reverse(c, cmd)
}

// ReverseGrouped handles POST /reverse-grouped.
func (s *Server) ReverseGrouped(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req reverseGroupedRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewReverseGroupedCommand(req.OrderID, req.UniqueIDs, v.WarehouseID())
	if err != nil {
		return fail(c, err)
	}
	return s.reverse(c, cmd)
}

func (s *Server) reverse(c echo.Context, cmd commands.ReverseCommand) error {
	res, err := s.reverseHandler.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toReverseResponse(res))
}

// AutoReverseExpired handles POST /auto-reverse-expired.
func (s *Server) AutoReverseExpired(c echo.Context) error {
	res, err := s.autoReverseHandler.Handle(c.Request().Context(), commands.NewAutoReverseExpiredCommand())
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"released": res.Released, "skipped": res.Skipped})
}
