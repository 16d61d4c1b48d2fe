package api

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Bushaija/studious-potato-sub008/internal/domain"
	"github.com/Bushaija/studious-potato-sub008/internal/pkg/constants"
)

func httpErrorHandler(err error, c echo.Context) {
	msg := err.Error()
	code := http.StatusInternalServerError

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
	}

	for unwrapped := err; unwrapped != nil; unwrapped = errors.Unwrap(unwrapped) {
		if ce, ok := unwrapped.(*constants.CodedError); ok {
			code = ce.Code()
			break
		}
	}

	_ = c.JSON(code, domain.ErrorResponse{
		Message: msg,
		Code:    code,
	})
}
