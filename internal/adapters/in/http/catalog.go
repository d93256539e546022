package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
)

// ListInventory handles GET /api/v1/inventory.
func (s *Server) ListInventory(ctx echo.Context) error {
	views, err := s.queries.Inventory.List(ctx.Request().Context(), queries.NewListInventoryQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, views)
}

// GetInventory handles GET /api/v1/inventory/:product. Unknown products
// answer with quantity 0.
func (s *Server) GetInventory(ctx echo.Context) error {
	query, err := queries.NewGetInventoryQuery(ctx.Param("product"))
	if err != nil {
		return s.fail(ctx, err)
	}
	view, err := s.queries.Inventory.Get(ctx.Request().Context(), query)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, view)
}

// RegisterInstaller handles POST /api/v1/installers.
func (s *Server) RegisterInstaller(ctx echo.Context) error {
	var req RegisterInstallerRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, "invalid request body")
	}
	cmd, err := commands.NewRegisterInstallerCommand(principalFrom(ctx), req.ID, req.Name, req.Phone, req.Email)
	if err != nil {
		return s.fail(ctx, err)
	}
	res, err := s.workflow.RegisterInstaller(ctx.Request().Context(), cmd)
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusCreated, newTransitionResponse(res))
}

// ListInstallers handles GET /api/v1/installers.
func (s *Server) ListInstallers(ctx echo.Context) error {
	views, err := s.queries.ListInstallers.Handle(ctx.Request().Context(), queries.NewListInstallersQuery())
	if err != nil {
		return s.fail(ctx, err)
	}
	return ctx.JSON(http.StatusOK, views)
}
