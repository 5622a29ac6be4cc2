package echoapi

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/masomo-portal/core/profile"
)

var (
	contextObjectKey = "object"

	errProfileNotFoundInCtx = errors.New("profile object not found in echo.Context")
)

type profileApi struct {
	svc      *profile.Service
	validate *validator.Validate
}

func registerProfileAPI(g *echo.Group, svc *profile.Service, validate *validator.Validate) {
	api := profileApi{
		svc:      svc,
		validate: validate,
	}

	pg := g.Group("/profiles")
	pg.POST("", api.create)
	pg.GET("", api.query)

	// detail endpoints
	dg := pg.Group("/:id", profileObjectMiddleware(api.svc))
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
}

// Handlers

func (api *profileApi) create(ctx echo.Context) error {
	var data profile.NewProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewProfile")
	}
	if err := data.Validate(ctx.Request().Context(), api.validate, api.svc); err != nil {
		return err
	}

	p, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating profile")
	}
	return ctx.JSON(http.StatusCreated, p)
}

func (api *profileApi) query(ctx echo.Context) error {
	filter := new(profile.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []profile.Profile{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	profiles, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying profiles")
	}
	masked := make([]profile.Profile, 0, len(profiles))
	for _, p := range profiles {
		masked = append(masked, p.Masked())
	}
	return ctx.JSON(http.StatusOK, masked)
}

func (api *profileApi) retrieve(ctx echo.Context) error {
	p, ok := ctx.Get(contextObjectKey).(profile.Profile)
	if !ok {
		return errors.Wrap(errProfileNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, p)
}

func (api *profileApi) update(ctx echo.Context) error {
	p, ok := ctx.Get(contextObjectKey).(profile.Profile)
	if !ok {
		return errors.Wrap(errProfileNotFoundInCtx, "retrieving object from context")
	}

	var data profile.UpdateProfile
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateProfile")
	}
	if err := data.Validate(ctx.Request().Context(), p, api.validate, api.svc); err != nil {
		return err
	}

	p, err := api.svc.Update(ctx.Request().Context(), p, data)
	if err != nil {
		return errors.Wrap(err, "updating profile")
	}
	return ctx.JSON(http.StatusOK, p)
}

func profileObjectMiddleware(svc *profile.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			p, err := svc.Get(ctx.Request().Context(), ctx.Param("id"))
			if err != nil {
				if errors.Cause(err) == profile.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding profile by ID")
			}
			ctx.Set(contextObjectKey, p)
			return next(ctx)
		}
	}
}
