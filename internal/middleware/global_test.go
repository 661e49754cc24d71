package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/people/internal/config"
	"github.com/deppfellow/people/internal/errs"
	"github.com/deppfellow/people/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGlobal() *GlobalMiddlewares {
	log := zerolog.Nop()
	return NewGlobalMiddlewares(&server.Server{Config: config.Default(), Logger: &log})
}

func handle(t *testing.T, err error) (*httptest.ResponseRecorder, errs.HTTPError) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

	newGlobal().GlobalErrorHandler(err, c)

	var body errs.HTTPError
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestGlobalErrorHandlerPlainText(t *testing.T) {
	rec, _ := handle(t, errs.NewNotFoundError("Not found", false, nil).AsPlainText())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found", rec.Body.String())
}

func TestGlobalErrorHandlerHTTPError(t *testing.T) {
	code := "PERSON_INVALID"
	rec, body := handle(t, errs.NewBadRequestError("Validation failed", true, &code, []errs.FieldError{{Field: "age", Error: "is required"}}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PERSON_INVALID", body.Code)
	assert.Equal(t, "Validation failed", body.Message)
	assert.True(t, body.Override)
	assert.Equal(t, []errs.FieldError{{Field: "age", Error: "is required"}}, body.Errors)
}

func TestGlobalErrorHandlerNoRows(t *testing.T) {
	rec, body := handle(t, fmt.Errorf("entity:person: id 5: %w", sql.ErrNoRows))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Person not found", body.Message)
}

func TestGlobalErrorHandlerUnknownError(t *testing.T) {
	rec, body := handle(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "INTERNAL_SERVER_ERROR", body.Code)
	assert.Equal(t, "Internal Server Error", body.Message)
}

func TestGlobalErrorHandlerEchoErrors(t *testing.T) {
	rec, body := handle(t, echo.ErrNotFound)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Route not found", body.Message)

	rec, body = handle(t, echo.ErrMethodNotAllowed)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, "METHOD_NOT_ALLOWED", body.Code)
}

func TestStatusFromError(t *testing.T) {
	assert.Equal(t, http.StatusUnprocessableEntity, StatusFromError(errs.NewUnprocessableEntityError("Bad parameters", false, nil)))
	assert.Equal(t, http.StatusMethodNotAllowed, StatusFromError(echo.ErrMethodNotAllowed))
	assert.Equal(t, http.StatusNotFound, StatusFromError(sql.ErrNoRows))
	assert.Equal(t, http.StatusInternalServerError, StatusFromError(errors.New("boom")))
}

func TestRequestID(t *testing.T) {
	e := echo.New()
	var seen string
	h := RequestID()(func(c echo.Context) error {
		seen = GetRequestID(c)
		return nil
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(req, rec)))
	assert.Equal(t, "abc-123", seen)
	assert.Equal(t, "abc-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	require.NoError(t, h(e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)))
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestGetLoggerWithoutEnhancer(t *testing.T) {
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.NotNil(t, GetLogger(c))
	assert.Empty(t, GetRequestID(c))
}
