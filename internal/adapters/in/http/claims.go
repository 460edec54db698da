package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

type uniqueIDRequest struct {
	UniqueID string `json:"unique_id"`
}

type uniqueIDsRequest struct {
	UniqueIDs []string `json:"unique_ids"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// Claim handles POST /claim.
func (s *Server) Claim(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req uniqueIDRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewClaimCommand(req.UniqueID, v.WarehouseID())
	if err != nil {
		return fail(c, err)
	}
	if err = s.claimHandler.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, statusResponse{Status: "claimed"})
}

// BulkClaim handles POST /bulk-claim.
func (s *Server) BulkClaim(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	var req uniqueIDsRequest
	if err = c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewBulkClaimCommand(req.UniqueIDs, v.WarehouseID())
	if err != nil {
		return fail(c, err)
	}
	res, err := s.claimHandler.HandleBulk(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBulkResponse(res))
}

// GroupedParams are the query parameters of GET /grouped.
type GroupedParams struct {
	Status *string `form:"status,omitempty" json:"status,omitempty"`
	Limit  *int    `form:"limit,omitempty" json:"limit,omitempty"`
	Offset *int    `form:"offset,omitempty" json:"offset,omitempty"`
}

// GetGrouped handles GET /grouped.
func (s *Server) GetGrouped(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}

	var params GroupedParams
	if err = runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &params.Status); err != nil {
		return badRequest(c, "Invalid format for parameter status: "+err.Error())
	}
	if err = runtime.BindQueryParameter("form", true, false, "limit", c.QueryParams(), &params.Limit); err != nil {
		return badRequest(c, "Invalid format for parameter limit: "+err.Error())
	}
	if err = runtime.BindQueryParameter("form", true, false, "offset", c.QueryParams(), &params.Offset); err != nil {
		return badRequest(c, "Invalid format for parameter offset: "+err.Error())
	}

	status, limit, offset := "", queries.DefaultGroupedLimit, 0
	if params.Status != nil {
		status = *params.Status
	}
	if params.Limit != nil {
		limit = *params.Limit
	}
	if params.Offset != nil {
		offset = *params.Offset
	}

	query, err := queries.NewGetGroupedClaimsQuery(v.WarehouseID(), status, limit, offset)
	if err != nil {
		return fail(c, err)
	}
	orders, err := s.groupedClaimsHandler.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}
	if orders == nil {
		orders = []queries.GroupedOrder{}
	}
	return c.JSON(http.StatusOK, orders)
}

// AssignPriorityCarriers handles POST /assign-priority-carriers.
func (s *Server) AssignPriorityCarriers(c echo.Context) error {
	v, err := currentVendor(c)
	if err != nil {
		return fail(c, err)
	}
	res, err := s.priorityCarriersHandler.Handle(c.Request().Context(), commands.NewAssignPriorityCarriersCommand(v.WarehouseID()))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, toBulkResponse(res))
}
