package handler

import (
	"net/http"
	"sweepstakes-payments/internal/service"

	"github.com/labstack/echo/v4"
)

type GeolocationHandler struct {
	geolocationService service.GeolocationService
}

func NewGeolocationHandler(geolocationService service.GeolocationService) *GeolocationHandler {
	return &GeolocationHandler{
		geolocationService: geolocationService,
	}
}

// GetCountry never fails; unknown callers resolve to the US defaults.
func (h *GeolocationHandler) GetCountry(c echo.Context) error {
	ctx := c.Request().Context()

	return c.JSON(http.StatusOK, h.geolocationService.ResolveCountry(ctx, c.Request().Header))
}
