package controller

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

// GetTemplate returns the validated statement template. Loading it runs the
// same compile-time checks generation uses, so a broken template surfaces
// here as a configuration error without touching any activity data.
func (c *Controller) GetTemplate(ctx echo.Context) error {
	code := ctx.Param("code")
	if code == "" {
		return constants.NewCodedError("empty statement code", http.StatusBadRequest)
	}

	template, err := c.service.Template(ctx.Request().Context(), code)
	if err != nil {
		return err
	}

	return ctx.JSON(http.StatusOK, template)
}
