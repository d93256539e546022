package http

import (
	"context"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// Workflow is the command side the server drives.
type Workflow interface {
	SubmitOrder(ctx context.Context, cmd commands.SubmitOrderCommand) (commands.TransitionResult, error)
	VerifyStock(ctx context.Context, cmd commands.VerifyStockCommand) (commands.TransitionResult, error)
	EscalateStock(ctx context.Context, cmd commands.EscalateStockCommand) (commands.TransitionResult, error)
	ApproveStock(ctx context.Context, cmd commands.ApproveStockCommand) (commands.TransitionResult, error)
	RejectStock(ctx context.Context, cmd commands.RejectStockCommand) (commands.TransitionResult, error)
	RejectOrder(ctx context.Context, cmd commands.RejectOrderCommand) (commands.TransitionResult, error)
	DispatchOrder(ctx context.Context, cmd commands.DispatchOrderCommand) (commands.TransitionResult, error)
	CompleteInstallation(ctx context.Context, cmd commands.CompleteInstallationCommand) (commands.TransitionResult, error)
	OpenStockRequest(ctx context.Context, cmd commands.OpenStockRequestCommand) (commands.TransitionResult, error)
	RegisterInstaller(ctx context.Context, cmd commands.RegisterInstallerCommand) (commands.TransitionResult, error)
}

// OpenRecorder counts opens reported by the tracking pixel.
type OpenRecorder interface {
	Handle(ctx context.Context, cmd commands.RecordNotificationOpenedCommand) error
}

// QueryHandlers groups the read side. Reads are not role-gated beyond
// having a resolved principal; tracking by code is public.
type QueryHandlers struct {
	GetOrder             queries.GetOrderQueryHandler
	TrackOrder           queries.TrackOrderQueryHandler
	ListOrders           queries.ListOrdersQueryHandler
	Inventory            queries.InventoryQueryHandler
	ListInstallers       queries.ListInstallersQueryHandler
	OrderNotifications   queries.ListOrderNotificationsQueryHandler
	PendingStockRequests queries.ListPendingStockRequestsQueryHandler
}

// NewQueryHandlers builds every read handler over one repositories factory.
func NewQueryHandlers(factory queries.ReadRepositoriesFactory) QueryHandlers {
	return QueryHandlers{
		GetOrder:             queries.NewGetOrderQueryHandler(factory),
		TrackOrder:           queries.NewTrackOrderQueryHandler(factory),
		ListOrders:           queries.NewListOrdersQueryHandler(factory),
		Inventory:            queries.NewInventoryQueryHandler(factory),
		ListInstallers:       queries.NewListInstallersQueryHandler(factory),
		OrderNotifications:   queries.NewListOrderNotificationsQueryHandler(factory),
		PendingStockRequests: queries.NewListPendingStockRequestsQueryHandler(factory),
	}
}

// Server translates HTTP requests into commands and queries. Handlers never
// touch repositories directly.
type Server struct {
	workflow Workflow
	resolver PrincipalResolver
	queries  QueryHandlers
	opens    OpenRecorder
	logger   *slog.Logger
}

func NewServer(
	workflow Workflow,
	resolver PrincipalResolver,
	queryHandlers QueryHandlers,
	opens OpenRecorder,
	logger *slog.Logger,
) *Server {
	return &Server{
		workflow: workflow,
		resolver: resolver,
		queries:  queryHandlers,
		opens:    opens,
		logger:   logger.With("component", "HTTPServer"),
	}
}

// Register mounts every route on e. The health check, order tracking and
// the open pixel are reachable without a principal.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.GET("/orders/code/:code", s.TrackOrder)
	api.GET("/notifications/:id/open", s.RecordOpen)

	auth := RequirePrincipal(s.resolver)

	api.POST("/orders", s.SubmitOrder, auth)
	api.GET("/orders", s.ListOrders, auth)
	api.GET("/orders/:id", s.GetOrder, auth)
	api.POST("/orders/:id/verify", s.VerifyStock, auth)
	api.POST("/orders/:id/escalate", s.EscalateStock, auth)
	api.POST("/orders/:id/reject", s.RejectOrder, auth)
	api.POST("/orders/:id/dispatch", s.DispatchOrder, auth)
	api.POST("/orders/:id/complete", s.CompleteInstallation, auth)
	api.GET("/orders/:id/notifications", s.ListOrderNotifications, auth)

	api.POST("/stock-requests", s.OpenStockRequest, auth)
	api.GET("/stock-requests/pending", s.ListPendingStockRequests, auth)
	api.POST("/stock-requests/:id/approve", s.ApproveStock, auth)
	api.POST("/stock-requests/:id/reject", s.RejectStock, auth)

	api.GET("/inventory", s.ListInventory, auth)
	api.GET("/inventory/:product", s.GetInventory, auth)

	api.POST("/installers", s.RegisterInstaller, auth)
	api.GET("/installers", s.ListInstallers, auth)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}
