package api

import (
	"countrystore/internal/engine"
	"errors"
	"io/fs"
	"net/http"

	"github.com/labstack/echo/v4"
)

// toHTTPError maps store errors onto HTTP statuses. None of them is fatal to
// the server.
func toHTTPError(err error) error {
	var rowErr *engine.RowError
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, engine.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrEmptyProjection):
		status = http.StatusNotFound
	case errors.Is(err, engine.ErrDuplicate):
		status = http.StatusConflict
	case errors.Is(err, engine.ErrCapacityExhausted):
		status = http.StatusInsufficientStorage
	case errors.Is(err, engine.ErrInvalidCode),
		errors.Is(err, engine.ErrUnknownRelation),
		errors.Is(err, engine.ErrUnknownExtreme),
		errors.Is(err, fs.ErrNotExist):
		status = http.StatusBadRequest
	case errors.As(err, &rowErr):
		status = http.StatusUnprocessableEntity
	}

	return echo.NewHTTPError(status, err.Error()).SetInternal(err)
}
