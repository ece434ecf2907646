package httpx

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"supermercado-backend/internal/database"
	"supermercado-backend/internal/logger"
	"supermercado-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{models.NewError(models.ErrUnauthenticated, "x"), fiber.StatusUnauthorized},
		{models.NewError(models.ErrInvalidToken, "x"), fiber.StatusUnauthorized},
		{models.NewError(models.ErrTokenExpired, "x"), fiber.StatusUnauthorized},
		{models.NewError(models.ErrForbidden, "x"), fiber.StatusForbidden},
		{models.NewError(models.ErrNotFound, "x"), fiber.StatusNotFound},
		{models.NewError(models.ErrProductNotFound, "x"), fiber.StatusNotFound},
		{models.NewError(models.ErrConflict, "x"), fiber.StatusConflict},
		{models.NewError(models.ErrInsufficientStock, "x"), fiber.StatusBadRequest},
		{models.NewError(models.ErrValidation, "x"), fiber.StatusBadRequest},
		{&FieldError{Fields: []string{"nombre (required)"}}, fiber.StatusUnprocessableEntity},
		{fmt.Errorf("wrapped: %w", models.ErrConflict), fiber.StatusConflict},
		{errors.New("boom"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.status, StatusFor(tt.err), tt.err.Error())
	}
}

type pageBody struct {
	Name  string `json:"nombre" validate:"required"`
	Price int    `json:"precio" validate:"gt=0"`
}

func newTestApp() *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler(logger.NewNop())})
	app.Get("/page", func(c *fiber.Ctx) error {
		p, err := PageFromQuery(c)
		if err != nil {
			return err
		}
		return c.SendString(fmt.Sprintf("%d/%d", p.Skip, p.Limit))
	})
	app.Get("/items/:id", func(c *fiber.Ctx) error {
		id, err := ParamID(c, "id")
		if err != nil {
			return err
		}
		return c.SendString(fmt.Sprint(id))
	})
	app.Post("/bind", func(c *fiber.Ctx) error {
		var body pageBody
		if err := BindJSON(c, &body); err != nil {
			return err
		}
		return c.SendString(body.Name)
	})
	app.Get("/boom", func(c *fiber.Ctx) error {
		return errors.New("database exploded")
	})
	app.Post("/check", func(c *fiber.Ctx) error {
		return database.Classify(&pgconn.PgError{
			Code:           "23514",
			Message:        `new row for relation "productos" violates check constraint "productos_precio_check"`,
			ConstraintName: "productos_precio_check",
		})
	})
	app.Post("/dup", func(c *fiber.Ctx) error {
		return fmt.Errorf("insert productos: duplicate key idx_productos_nombre: %w", models.ErrConflict)
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string) (int, string) {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(b)
}

func TestPageFromQuery(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		query  string
		status int
		body   string
	}{
		{"", 200, "0/100"},
		{"?skip=5&limit=20", 200, "5/20"},
		{"?limit=1000", 200, "0/1000"},
		{"?skip=-1", 400, ""},
		{"?limit=0", 400, ""},
		{"?limit=1001", 400, ""},
		{"?limit=abc", 400, ""},
	}
	for _, tt := range tests {
		status, body := call(t, app, fiber.MethodGet, "/page"+tt.query, "")
		assert.Equal(t, tt.status, status, tt.query)
		if tt.body != "" {
			assert.Equal(t, tt.body, body)
		}
	}
}

func TestParamID(t *testing.T) {
	app := newTestApp()

	status, body := call(t, app, fiber.MethodGet, "/items/42", "")
	assert.Equal(t, 200, status)
	assert.Equal(t, "42", body)

	status, _ = call(t, app, fiber.MethodGet, "/items/abc", "")
	assert.Equal(t, 400, status)
	status, _ = call(t, app, fiber.MethodGet, "/items/0", "")
	assert.Equal(t, 400, status)
}

func TestBindJSON(t *testing.T) {
	app := newTestApp()

	status, body := call(t, app, fiber.MethodPost, "/bind", `{"nombre":"Leche","precio":3}`)
	assert.Equal(t, 200, status)
	assert.Equal(t, "Leche", body)

	status, body = call(t, app, fiber.MethodPost, "/bind", `{"precio":0}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
	assert.Contains(t, body, "nombre (required)")
	assert.Contains(t, body, "precio (gt)")

	status, body = call(t, app, fiber.MethodPost, "/bind", `{"nombre":`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, `"detail"`)
}

func TestErrorHandler_HidesInternalErrors(t *testing.T) {
	app := newTestApp()

	status, body := call(t, app, fiber.MethodGet, "/boom", "")
	assert.Equal(t, fiber.StatusInternalServerError, status)
	assert.NotContains(t, body, "exploded")
	assert.Contains(t, body, "Error interno del servidor")
}

func TestErrorHandler_HidesDriverDetail(t *testing.T) {
	app := newTestApp()

	status, body := call(t, app, fiber.MethodPost, "/check", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.JSONEq(t, `{"detail":"Datos inválidos"}`, body)
	assert.NotContains(t, body, "productos_precio_check")
	assert.NotContains(t, body, "SQLSTATE")

	status, body = call(t, app, fiber.MethodPost, "/dup", "")
	assert.Equal(t, fiber.StatusConflict, status)
	assert.NotContains(t, body, "idx_productos_nombre")
	assert.Contains(t, body, "Conflicto con el estado actual del recurso")
}
