package http

import (
	"net/http"
	"strconv"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// IdempotencyKeyHeader makes order submission safe to retry.
const IdempotencyKeyHeader = "Idempotency-Key"

// SubmitOrder handles POST /api/v1/orders. A replayed submission answers
// 200 with the original order instead of 201.
func (s *Server) SubmitOrder(ctx echo.Context) error {
	var req SubmitOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	details, err := req.details()
	if err != nil {
		return s.fail(ctx, err)
	}

	cmd, err := commands.NewSubmitOrderCommand(principalFrom(ctx), details, ctx.Request().Header.Get(IdempotencyKeyHeader))
	if err != nil {
		return s.fail(ctx, err)
	}
	res, err := s.workflow.SubmitOrder(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}

	status := http.StatusCreated
	if res.Replayed {
		status = http.StatusOK
	}
	return ctx.JSON(status, newTransitionResponse(res))
}

// ListOrders handles GET /api/v1/orders?status=&from=&to=&limit=.
func (s *Server) ListOrders(ctx echo.Context) error {
	from, err := optionalDate(ctx.QueryParam("from"))
	if err != nil {
		return s.fail(ctx, err)
	}
	to, err := optionalDate(ctx.QueryParam("to"))
	if err != nil {
		return s.fail(ctx, err)
	}
	limit := 0
	if raw := ctx.QueryParam("limit"); raw != "" {
		if limit, err = strconv.Atoi(raw); err != nil {
			return badRequest(ctx, "limit must be an integer")
		}
	}

	query, err := queries.NewListOrdersQuery(ctx.QueryParam("status"), from, to, limit)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.queries.ListOrders.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, views)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.queries.GetOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// TrackOrder handles GET /api/v1/orders/code/:code for customers.
func (s *Server) TrackOrder(ctx echo.Context) error {
	query, err := queries.NewTrackOrderQuery(ctx.Param("code"))
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.queries.TrackOrder.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// VerifyStock handles POST /api/v1/orders/:id/verify.
func (s *Server) VerifyStock(ctx echo.Context) error {
	var req VerifyStockRequest
	return s.transition(ctx, &req, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewVerifyStockCommand(principalFrom(ctx), id, req.Note)
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.VerifyStock(ctx.Request().Context(), cmd)
	})
}

// EscalateStock handles POST /api/v1/orders/:id/escalate.
func (s *Server) EscalateStock(ctx echo.Context) error {
	var req EscalateStockRequest
	return s.transition(ctx, &req, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewEscalateStockCommand(principalFrom(ctx), id, req.Product, req.Quantity, req.Message)
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.EscalateStock(ctx.Request().Context(), cmd)
	})
}

// RejectOrder handles POST /api/v1/orders/:id/reject.
func (s *Server) RejectOrder(ctx echo.Context) error {
	var req ReasonRequest
	return s.transition(ctx, &req, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewRejectOrderCommand(principalFrom(ctx), id, req.Reason)
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.RejectOrder(ctx.Request().Context(), cmd)
	})
}

// DispatchOrder handles POST /api/v1/orders/:id/dispatch.
func (s *Server) DispatchOrder(ctx echo.Context) error {
	var req DispatchOrderRequest
	return s.transition(ctx, &req, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewDispatchOrderCommand(
			principalFrom(ctx), id, req.InstallerID, req.ScheduledDate.Time, req.Notes,
		)
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.DispatchOrder(ctx.Request().Context(), cmd)
	})
}

// CompleteInstallation handles POST /api/v1/orders/:id/complete.
func (s *Server) CompleteInstallation(ctx echo.Context) error {
	var req CompleteInstallationRequest
	return s.transition(ctx, &req, func(id kernel.UUID) (commands.TransitionResult, error) {
		cmd, err := commands.NewCompleteInstallationCommand(principalFrom(ctx), id, req.draft())
		if err != nil {
			return commands.TransitionResult{}, err
		}
		return s.workflow.CompleteInstallation(ctx.Request().Context(), cmd)
	})
}

// ListOrderNotifications handles GET /api/v1/orders/:id/notifications.
func (s *Server) ListOrderNotifications(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	query, err := queries.NewListOrderNotificationsQuery(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	views, err := s.queries.OrderNotifications.Handle(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, views)
}

// transition binds the body into req, parses the :id path parameter and
// runs apply. An empty body leaves req zero.
func (s *Server) transition(ctx echo.Context, req any, apply func(id kernel.UUID) (commands.TransitionResult, error)) error {
	if err := ctx.Bind(req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return s.fail(ctx, err)
	}
	res, err := apply(id)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, newTransitionResponse(res))
}

func optionalDate(raw string) (*time.Time, error) {
	if raw == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
