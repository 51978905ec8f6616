package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/nimbusfeed/backend/internal/apperrors"
)

// httpError maps an application error to the HTTP error the handler returns.
func httpError(err error) *echo.HTTPError {
	switch apperrors.KindOf(err) {
	case apperrors.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case apperrors.KindAuth:
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	case apperrors.KindNotFound:
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case apperrors.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
