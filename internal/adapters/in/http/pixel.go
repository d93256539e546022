package http

import (
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// transparentGIF is a 1x1 transparent GIF89a.
var transparentGIF = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00, 0x80, 0x00, 0x00, 0x00, 0x00, 0x00,
	0xff, 0xff, 0xff, 0x21, 0xf9, 0x04, 0x01, 0x00, 0x00, 0x00, 0x00, 0x2c, 0x00, 0x00, 0x00, 0x00,
	0x01, 0x00, 0x01, 0x00, 0x00, 0x02, 0x02, 0x44, 0x01, 0x00, 0x3b,
}

// RecordOpen handles GET /api/v1/notifications/:id/open. Mail clients get
// the pixel whatever happens; failures are only logged.
func (s *Server) RecordOpen(ctx echo.Context) error {
	if err := s.recordOpen(ctx); err != nil {
		s.logger.WarnContext(ctx.Request().Context(), "open not recorded", "intent_id", ctx.Param("id"), "error", err)
	}
	ctx.Response().Header().Set("Cache-Control", "no-store, max-age=0")
	return ctx.Blob(http.StatusOK, "image/gif", transparentGIF)
}

func (s *Server) recordOpen(ctx echo.Context) error {
	id, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return err
	}
	cmd, err := commands.NewRecordNotificationOpenedCommand(id)
	if err != nil {
		return err
	}
	return s.opens.Handle(ctx.Request().Context(), cmd)
}
