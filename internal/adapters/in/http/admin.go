package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"

	"github.com/labstack/echo/v4"
)

type assignRequest struct {
	UniqueID string `json:"unique_id"`
	VendorID string `json:"vendor_id"`
}

type bulkAssignRequest struct {
	UniqueIDs []string `json:"unique_ids"`
	VendorID  string   `json:"vendor_id"`
}

// AdminAssign handles POST /admin/assign: a claim made for another vendor.
func (s *Server) AdminAssign(c echo.Context) error {
	var req assignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewClaimCommand(req.UniqueID, req.VendorID)
	if err != nil {
		return fail(c, err)
	}
	if err = s.claimHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "assigned"})
}

// AdminBulkAssign handles POST /admin/bulk-assign.
func (s *Server) AdminBulkAssign(c echo.Context) error {
	var req bulkAssignRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewBulkClaimCommand(req.UniqueIDs, req.VendorID)
	if err != nil {
		return fail(c, err)
	}
	res, err := s.claimHandler.HandleBulk(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBulkResponse(res))
}

// AdminUnassign handles POST /admin/unassign. Ownership is not checked.
func (s *Server) AdminUnassign(c echo.Context) error {
	var req uniqueIDRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewUnassignCommand(req.UniqueID)
	if err != nil {
		return fail(c, err)
	}
	return s.reverse(c, cmd)
}
