package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/user"
)

var errOrgNotFoundInCtx = errors.New("organization object not found in echo.Context")

type orgApi struct {
	svc    org.Service
	usrSvc user.Service
}

func registerOrgAPI(g *echo.Group, jwt echo.MiddlewareFunc, svc org.Service, usrSvc user.Service) {
	api := orgApi{svc: svc, usrSvc: usrSvc}

	og := g.Group("/orgs", jwt, adminMiddleware())
	og.GET("", api.query)
	og.POST("", api.create)

	dg := og.Group("/:slug", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

// objectMiddleware resolves the addressed organization and stores it in the
// context. Org admins can only address their own organization.
func (api *orgApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		o, err := api.svc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
		if err != nil {
			if errors.Cause(err) == org.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding organization by slug")
		}

		ctxUsr, err := getContextUser(ctx, api.usrSvc)
		if err != nil {
			return errors.Wrap(err, "getting context user")
		}
		if ctxUsr.OrgID != "" && ctxUsr.OrgID != o.ID {
			return errHttpNotFound
		}

		ctx.Set("object", o)
		return next(ctx)
	}
}

func (api *orgApi) isPlatformAdmin(ctx echo.Context) (bool, error) {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return false, errors.Wrap(err, "getting context user")
	}
	return ctxUsr.OrgID == "" && ctxUsr.IsAdmin(), nil
}

func (api *orgApi) create(ctx echo.Context) error {
	ok, err := api.isPlatformAdmin(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errHttpForbidden
	}

	var data org.NewOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewOrganization")
	}
	if err := data.Validate(api.svc); err != nil {
		return err
	}

	o, err := api.svc.Create(ctx.Request().Context(), data)
	if err != nil {
		return errors.Wrap(err, "creating organization")
	}
	return ctx.JSON(http.StatusCreated, o)
}

func (api *orgApi) query(ctx echo.Context) error {
	ctxUsr, err := getContextUser(ctx, api.usrSvc)
	if err != nil {
		return errors.Wrap(err, "getting context user")
	}
	// org admins only see their own org
	if ctxUsr.OrgID != "" {
		o, err := api.svc.GetByID(ctx.Request().Context(), ctxUsr.OrgID)
		if err != nil {
			return errors.Wrap(err, "finding organization by ID")
		}
		return ctx.JSON(http.StatusOK, []org.Organization{o})
	}

	filter := new(org.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []org.Organization{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	orgs, err := api.svc.Query(ctx.Request().Context(), *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying organizations")
	}
	if orgs == nil {
		orgs = []org.Organization{}
	}
	return ctx.JSON(http.StatusOK, orgs)
}

func (api *orgApi) retrieve(ctx echo.Context) error {
	o, ok := ctx.Get("object").(org.Organization)
	if !ok {
		return errors.Wrap(errOrgNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *orgApi) update(ctx echo.Context) error {
	o, ok := ctx.Get("object").(org.Organization)
	if !ok {
		return errors.Wrap(errOrgNotFoundInCtx, "retrieving object from context")
	}

	var data org.UpdateOrganization
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateOrganization")
	}
	if err := data.Validate(o); err != nil {
		return err
	}

	o, err := api.svc.Update(ctx.Request().Context(), o.ID, data)
	if err != nil {
		return errors.Wrap(err, "updating organization")
	}
	return ctx.JSON(http.StatusOK, o)
}

func (api *orgApi) destroy(ctx echo.Context) error {
	ok, err := api.isPlatformAdmin(ctx)
	if err != nil {
		return err
	}
	if !ok {
		return errHttpForbidden
	}

	o, okObj := ctx.Get("object").(org.Organization)
	if !okObj {
		return errors.Wrap(errOrgNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), o.ID); err != nil {
		return errors.Wrap(err, "deleting organization")
	}
	return ctx.NoContent(http.StatusNoContent)
}
