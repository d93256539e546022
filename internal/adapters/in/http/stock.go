package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// OpenStockRequest handles POST /api/v1/stock-requests for replenishment
// that is not tied to an order.
func (s *Server) OpenStockRequest(ctx echo.Context) error {
	var req OpenStockRequestRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	cmd, err := commands.NewOpenStockRequestCommand(principalFrom(ctx), req.Product, req.Quantity, req.Message)
	if err != nil {
		return s.fail(ctx, err)
	}
	res, err := s.workflow.OpenStockRequest(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, newTransitionResponse(res))
}

// ListPendingStockRequests handles GET /api/v1/stock-requests/pending.
func (s *Server) ListPendingStockRequests(ctx echo.Context) error {
	views, err := s.queries.PendingStockRequests.Handle(ctx.Request().Context(), queries.NewListPendingStockRequestsQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, views)
}

// ApproveStock handles POST /api/v1/stock-requests/:id/approve.
func (s *Server) ApproveStock(ctx echo.Context) error {
	return s.transition(ctx, &struct{}{}, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewApproveStockCommand(principalFrom(ctx), id)
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.ApproveStock(ctx.Request().Context(), cmd)
	})
}

// RejectStock handles POST /api/v1/stock-requests/:id/reject.
func (s *Server) RejectStock(ctx echo.Context) error {
	var req ReasonRequest
	return s.transition(ctx, &req, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewRejectStockCommand(principalFrom(ctx), id, req.Reason)
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.RejectStock(ctx.Request().Context(), cmd)
	})
}
