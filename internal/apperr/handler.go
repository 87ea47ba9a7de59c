package apperr

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var ve *ValidationError
		if errors.As(err, &ve) {
			_ = c.JSON(http.StatusBadRequest, map[string]string{"error": ve.Error(), "title": "validation error"})
			return
		}

		if status, title, ok := evaluationStatus(err); ok {
			_ = c.JSON(status, map[string]string{"error": err.Error(), "title": title})
			return
		}

		var he *echo.HTTPError
		if errors.As(err, &he) {
			msg := fmt.Sprintf("%v", he.Message)
			_ = c.JSON(he.Code, map[string]string{"error": msg})
			return
		}

		slog.Error("Unhandled error", "error", err)
		_ = c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}

func evaluationStatus(err error) (int, string, bool) {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound, "not found", true
	case errors.Is(err, fs.ErrNotExist):
		return http.StatusNotFound, "source not found", true
	case errors.Is(err, ErrUnknownTask), errors.Is(err, ErrUnknownRound):
		return http.StatusBadRequest, KindOf(err).Error(), true
	case errors.Is(err, ErrMalformedGroundTruth),
		errors.Is(err, ErrMalformedSubmission),
		errors.Is(err, ErrDuplicateSubmissionEntry):
		return http.StatusUnprocessableEntity, KindOf(err).Error(), true
	}
	return 0, "", false
}
