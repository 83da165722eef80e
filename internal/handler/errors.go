package handler

import (
	"errors"
	"fmt"
	"net/http"
	"sweepstakes-payments/internal/dto"
	"sweepstakes-payments/internal/service"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// toHTTPError maps service sentinels onto response codes. Internal details
// of upstream failures are not echoed back.
func toHTTPError(err error) error {
	switch {
	case errors.Is(err, service.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized").SetInternal(err)
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error()).SetInternal(err)
	case errors.Is(err, service.ErrInvalidRequest):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	case errors.Is(err, service.ErrInvalidSignature):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid signature").SetInternal(err)
	case errors.Is(err, service.ErrParse):
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload").SetInternal(err)
	}
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error").SetInternal(err)
}

// ErrorHandler renders every error as {"error": message}.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		message := "internal error"
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			message = fmt.Sprint(httpErr.Message)
			if httpErr.Internal != nil {
				err = httpErr.Internal
			}
		}
		if code >= http.StatusInternalServerError {
			logger.Error("request failed", zap.String("path", c.Path()), zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(code)
		} else {
			err = c.JSON(code, &dto.ErrorResponse{Error: message})
		}
		if err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}
