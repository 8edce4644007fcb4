package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/adminpanel/identity-api/internal/core/domain"
)

// echoValidator wraps go-playground/validator so Echo can call c.Validate(req).
type echoValidator struct {
	v *validator.Validate
}

// NewValidator returns an echoValidator ready to be assigned to echo.Echo.Validator.
// Field errors are keyed by the json or query tag of the offending field.
func NewValidator() echo.Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "param"} {
			name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
			if name != "" && name != "-" {
				return name
			}
		}
		return f.Name
	})
	return &echoValidator{v: v}
}

// Validate satisfies the echo.Validator interface.
func (ev *echoValidator) Validate(i any) error {
	err := ev.v.Struct(i)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}
	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		if _, ok := fields[fe.Field()]; !ok {
			fields[fe.Field()] = fieldError(fe)
		}
	}
	return domain.NewError(domain.ErrBadRequest, "Invalid request parameters").WithFields(fields)
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, fe.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}

// bindJSON decodes the request body. An empty or malformed body is a 400
// with a fixed message.
func bindJSON(c echo.Context, v interface{}) error {
	invalid := domain.NewError(domain.ErrBadRequest, "Invalid JSON data")
	if c.Request().ContentLength == 0 {
		return invalid
	}
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return invalid
	}
	return nil
}

// bindPath binds and validates path parameters only, leaving the body unread.
func bindPath(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindPathParams(c, v); err != nil {
		return badParams(err)
	}
	return c.Validate(v)
}

// bindQuery binds and validates query parameters.
func bindQuery(c echo.Context, v interface{}) error {
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, v); err != nil {
		return badParams(err)
	}
	return c.Validate(v)
}

func badParams(err error) error {
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code == http.StatusBadRequest {
		return domain.NewError(domain.ErrBadRequest, "Invalid request parameters")
	}
	return err
}
