package api

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Bushaija/studious-potato-sub008/internal/pkg/logger"
)

// RequestIDMiddleware tags every request with an id so the engine's log
// lines can be correlated per generation call.
func RequestIDMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		reqID := ctx.Request().Header.Get(echo.HeaderXRequestID)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		ctx.Response().Header().Set(echo.HeaderXRequestID, reqID)

		reqCtx := logger.WithRequestID(ctx.Request().Context(), reqID)
		ctx.SetRequest(ctx.Request().WithContext(reqCtx))

		return next(ctx)
	}
}
