package http

import (
	"net/http"
	"strings"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// PrincipalHeader carries the email the identity gateway authenticated.
const PrincipalHeader = "X-Principal-Email"

const principalKey = "principal"

// PrincipalResolver maps an authenticated email to its principal.
type PrincipalResolver interface {
	Resolve(email string) (kernel.Principal, error)
}

// RequirePrincipal resolves the caller once per request and stores the
// principal on the echo context. Requests without the header are rejected.
func RequirePrincipal(resolver PrincipalResolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			email := strings.TrimSpace(ctx.Request().Header.Get(PrincipalHeader))
			if email == "" {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{
					Error: "missing " + PrincipalHeader + " header",
					Code:  CodeUnauthenticated,
				})
			}

			p, err := resolver.Resolve(email)
			if err != nil {
				return ctx.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error(), Code: CodeUnauthenticated})
			}
			ctx.Set(principalKey, p)
			return next(ctx)
		}
	}
}

func principalFrom(ctx echo.Context) kernel.Principal {
	p, _ := ctx.Get(principalKey).(kernel.Principal)
	return p
}
