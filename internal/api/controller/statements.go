package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/viper"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

// GenerateStatement runs the full computation pipeline for one request,
// bounded by the configured deadline. The deadline matters only during the
// collection phase; once aggregation starts the remaining work is
// in-memory and fast.
func (c *Controller) GenerateStatement(ctx echo.Context) error {
	var req domain.StatementGenerationRequest
	if err := ctx.Bind(&req); err != nil {
		return err
	}
	if err := ctx.Validate(&req); err != nil {
		return err
	}

	timeout := viper.GetDuration(constants.ViperGenerateTimeout)
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	reqCtx, cancel := context.WithTimeout(ctx.Request().Context(), timeout)
	defer cancel()

	resp, err := c.service.Generate(reqCtx, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, resp)
}

// InvalidateCache drops memoized statements, and the named template's
// compiled form when a statement_code query parameter is supplied. Called
// when underlying activity data or configuration changed.
func (c *Controller) InvalidateCache(ctx echo.Context) error {
	statementCode := ctx.QueryParams().Get("statement_code")
	c.service.Invalidate(statementCode)

	return ctx.NoContent(http.StatusNoContent)
}
