// Package http is the vendor and admin REST API of the fulfillment service.
package http

import (
	"context"
	"net/http"

	"fulfillment/internal/core/application/labeling"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	echoSwagger "github.com/swaggo/echo-swagger"
)

type (
	ClaimHandler interface {
		Handle(ctx context.Context, command commands.ClaimCommand) error
		HandleBulk(ctx context.Context, command commands.BulkClaimCommand) (commands.BulkResult, error)
	}

	LabelHandler interface {
		Handle(ctx context.Context, command commands.DownloadLabelCommand) (labeling.Result, error)
		HandleBulk(ctx context.Context, command commands.BulkDownloadLabelsCommand) ([]commands.LabelOutcome, error)
	}

	MarkReadyHandler interface {
		Handle(ctx context.Context, command commands.MarkReadyCommand) (string, error)
		HandleBulk(ctx context.Context, command commands.BulkMarkReadyCommand) (commands.BulkResult, error)
	}

	ReverseHandler interface {
		Handle(ctx context.Context, command commands.ReverseCommand) (commands.ReverseResult, error)
	}

	AutoReverseHandler interface {
		Handle(ctx context.Context, command commands.AutoReverseExpiredCommand) (commands.AutoReverseResult, error)
	}

	PriorityCarriersHandler interface {
		Handle(ctx context.Context, command commands.AssignPriorityCarriersCommand) (commands.BulkResult, error)
	}

	GroupedClaimsHandler interface {
		Handle(ctx context.Context, query queries.GetGroupedClaimsQuery) ([]queries.GroupedOrder, error)
	}
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	claimHandler            ClaimHandler
	labelHandler            LabelHandler
	markReadyHandler        MarkReadyHandler
	reverseHandler          ReverseHandler
	autoReverseHandler      AutoReverseHandler
	priorityCarriersHandler PriorityCarriersHandler

	// Query handlers
	groupedClaimsHandler GroupedClaimsHandler
	vendorResolver       VendorResolver
}

func NewServer(
	claimHandler ClaimHandler,
	labelHandler LabelHandler,
	markReadyHandler MarkReadyHandler,
	reverseHandler ReverseHandler,
	autoReverseHandler AutoReverseHandler,
	priorityCarriersHandler PriorityCarriersHandler,
	groupedClaimsHandler GroupedClaimsHandler,
	vendorResolver VendorResolver,
) *Server {
	return &Server{
		claimHandler:            claimHandler,
		labelHandler:            labelHandler,
		markReadyHandler:        markReadyHandler,
		reverseHandler:          reverseHandler,
		autoReverseHandler:      autoReverseHandler,
		priorityCarriersHandler: priorityCarriersHandler,
		groupedClaimsHandler:    groupedClaimsHandler,
		vendorResolver:          vendorResolver,
	}
}

// Register mounts every route on e. The API document must already be loaded
// with LoadOpenAPI.
func (s *Server) Register(e *echo.Echo, doc *OpenAPIDoc) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	if doc != nil {
		e.GET("/openapi.json", doc.Serve)
		e.GET("/swagger/*", echoSwagger.WrapHandler)
	}

	v := e.Group("", Authenticate(s.vendorResolver, false))
	v.POST("/claim", s.Claim)
	v.POST("/bulk-claim", s.BulkClaim)
	v.GET("/grouped", s.GetGrouped)
	v.POST("/download-label", s.DownloadLabel)
	v.POST("/bulk-download-labels", s.BulkDownloadLabels)
	v.POST("/mark-ready", s.MarkReady)
	v.POST("/bulk-mark-ready", s.BulkMarkReady)
	v.POST("/reverse", s.Reverse)
	v.POST("/reverse-grouped", s.ReverseGrouped)
	v.POST("/auto-reverse-expired", s.AutoReverseExpired)
	v.POST("/assign-priority-carriers", s.AssignPriorityCarriers)

	a := e.Group("/admin", Authenticate(s.vendorResolver, true))
	a.POST("/assign", s.AdminAssign)
	a.POST("/bulk-assign", s.AdminBulkAssign)
	a.POST("/unassign", s.AdminUnassign)
}

// BulkFailure is one rejected item of a bulk answer.
type BulkFailure struct {
	ID     string `json:"id"`
	Status int    `json:"status"`
	Reason string `json:"reason"`
}

// BulkResponse partitions a bulk request.
type BulkResponse struct {
	Succeeded []string      `json:"succeeded"`
	Failed    []BulkFailure `json:"failed"`
}

func toBulkResponse(r commands.BulkResult) BulkResponse {
	resp := BulkResponse{Succeeded: r.Succeeded, Failed: make([]BulkFailure, 0, len(r.Failed))}
	if resp.Succeeded == nil {
		resp.Succeeded = []string{}
	}
	for _, f := range r.Failed {
		resp.Failed = append(resp.Failed, BulkFailure{ID: f.ID, Status: StatusOf(f.Err), Reason: f.Reason()})
	}
	return resp
}
