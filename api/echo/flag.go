package echoapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/catalog"
	"github.com/trezcool/masomo-portal/core/langflag"
)

type flagApi struct {
	validate *validator.Validate
}

func registerFlagAPI(g *echo.Group, validate *validator.Validate) {
	api := flagApi{validate: validate}

	g.POST("/flags/resolve", api.resolve)
	g.POST("/modules/cards", api.moduleCards)
}

func (api *flagApi) resolve(ctx echo.Context) error {
	var data langflag.Carrier
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to langflag.Carrier")
	}
	return ctx.JSON(http.StatusOK, FlagResponse{Flag: langflag.Resolve(&data)})
}

func (api *flagApi) moduleCards(ctx echo.Context) error {
	var modules []catalog.Module
	// echo's binder only binds params into structs
	if err := json.NewDecoder(ctx.Request().Body).Decode(&modules); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid JSON list of modules").SetInternal(err)
	}
	for _, m := range modules {
		if err := api.validate.Struct(m); err != nil {
			return err
		}
	}
	return ctx.JSON(http.StatusOK, catalog.Decorate(modules))
}

type FlagResponse struct {
	Flag string `json:"flag"`
}
