package httpx

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"supermercado-backend/internal/models"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError reports request body fields that failed validation.
type FieldError struct {
	Fields []string
}

func (e *FieldError) Error() string {
	return "Datos inválidos: " + strings.Join(e.Fields, ", ")
}

func (e *FieldError) Unwrap() error { return models.ErrValidation }

// BindJSON decodes the request body into dst and validates its struct tags.
func BindJSON(c *fiber.Ctx, dst any) error {
	if err := c.BodyParser(dst); err != nil {
		var me *models.Error
		if errors.As(err, &me) {
			return me
		}
		return models.NewError(models.ErrValidation, "Cuerpo de la solicitud inválido")
	}
	return Validate(dst)
}

func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return models.NewError(models.ErrValidation, "Datos inválidos")
	}
	fields := make([]string, 0, len(ves))
	for _, fe := range ves {
		fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return &FieldError{Fields: fields}
}

// PageFromQuery reads skip/limit query parameters.
func PageFromQuery(c *fiber.Ctx) (models.Page, error) {
	page := models.Page{Skip: 0, Limit: DefaultLimit}

	if s := c.Query("skip"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			return page, models.NewError(models.ErrValidation, "skip debe ser un entero mayor o igual a 0")
		}
		page.Skip = n
	}
	if s := c.Query("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 || n > MaxLimit {
			return page, models.NewError(models.ErrValidation, "limit debe ser un entero entre 1 y %d", MaxLimit)
		}
		page.Limit = n
	}
	return page, nil
}

// ParamID reads a positive numeric route parameter.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		return 0, models.NewError(models.ErrValidation, "%s inválido", name)
	}
	return uint(n), nil
}
