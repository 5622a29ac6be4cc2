package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core"
	"github.com/trezcool/masomo-portal/core/identifier"
)

type identifierApi struct {
	validate *validator.Validate
}

func registerIdentifierAPI(g *echo.Group, validate *validator.Validate) {
	api := identifierApi{validate: validate}

	ig := g.Group("/identifiers")
	ig.POST("/validate", api.validateCPF)
}

// validateCPF answers whether a CPF is valid. An invalid CPF is not an error:
// forms call this on every keystroke.
func (api *identifierApi) validateCPF(ctx echo.Context) error {
	var data ValidateCPFRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to ValidateCPFRequest")
	}
	if err := data.Validate(api.validate); err != nil {
		return err
	}

	formatted, ok := identifier.Format(data.CPF)
	return ctx.JSON(http.StatusOK, ValidateCPFResponse{Valid: ok, Formatted: formatted})
}

type (
	ValidateCPFRequest struct {
		CPF string `json:"cpf" validate:"required"`
	}

	ValidateCPFResponse struct {
		Valid     bool   `json:"valid"`
		Formatted string `json:"formatted,omitempty"`
	}
)

func (r *ValidateCPFRequest) Validate(validate *validator.Validate) error {
	r.CPF = core.CleanString(r.CPF)
	return validate.Struct(r)
}
