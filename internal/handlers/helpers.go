package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/hr_backend/internal/apperr"
	"github.com/Skotchmaster/hr_backend/internal/logging"
)

// Validator adapts go-playground/validator to echo's Validator interface.
type Validator struct {
	V *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{V: validator.New()}
}

func (v *Validator) Validate(i interface{}) error {
	if err := v.V.Struct(i); err != nil {
		return apperr.Wrap(apperr.KindValidation, "request validation failed", err)
	}
	return nil
}

type errBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// errorResponse maps apperr kinds to their HTTP status. Anything else is a
// 500 with a generic body; the cause goes to the log, not the client.
func errorResponse(c echo.Context, err error) error {
	if kind, ok := apperr.KindOf(err); ok {
		return c.JSON(kind.Status, errBody{Error: kind.Code, Message: err.Error()})
	}
	logging.FromContext(c.Request().Context()).Error("request failed", "error", err)
	return c.JSON(http.StatusInternalServerError, errBody{Error: "internal_error", Message: "internal server error"})
}

func bindAndValidate(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return apperr.Wrap(apperr.KindValidation, "cannot parse request body", err)
	}
	return c.Validate(req)
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, apperr.New(apperr.KindValidation, "invalid id parameter")
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
