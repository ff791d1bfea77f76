package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/hiphil2000/IB.React/internal/models"
	"github.com/hiphil2000/IB.React/internal/util"
)

// ErrorHandler flattens every uncaught error into the common envelope.
func ErrorHandler(log *zap.SugaredLogger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var responseErr util.ResponseError
		if errors.As(err, &responseErr) {
			writeFailure(c, log, responseErr.Status, responseErr.Msg)
			return
		}

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			if httpErr.Code == http.StatusInternalServerError {
				log.Errorw("HTTP error", "error", err, "uri", c.Request().RequestURI)
			}
			writeFailure(c, log, httpErr.Code, fmt.Sprintf("%v", httpErr.Message))
			return
		}

		log.Errorw("unhandled error", "error", err, "uri", c.Request().RequestURI)
		writeFailure(c, log, http.StatusInternalServerError, "internal server error")
	}
}

func writeFailure(c echo.Context, log *zap.SugaredLogger, status int, message string) {
	err := c.JSON(status, models.CommonResponse{
		Success: false,
		Data:    nil,
		Message: message,
	})
	if err != nil {
		log.Errorw("failed to write json response", "error", err)
	}
}
