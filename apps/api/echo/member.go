package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core/member"
)

var errMbrNotFoundInCtx = errors.New("member object not found in echo.Context")

type memberApi struct {
	svc member.Service
}

func registerMemberAPI(g *echo.Group, svc member.Service) {
	api := memberApi{svc: svc}

	mg := g.Group("/members")
	mg.GET("", api.query)
	mg.POST("", api.create)

	dg := mg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *memberApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		o, err := getContextOrg(ctx)
		if err != nil {
			return err
		}
		mbr, err := api.svc.GetByID(ctx.Request().Context(), o.ID, ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == member.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding member by ID")
		}
		ctx.Set("object", mbr)
		return next(ctx)
	}
}

func (api *memberApi) create(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	var data member.NewMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewMember")
	}
	if err := data.Validate(o.ID, api.svc); err != nil {
		return err
	}

	mbr, err := api.svc.Create(ctx.Request().Context(), o.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating member")
	}
	return ctx.JSON(http.StatusCreated, mbr)
}

func (api *memberApi) query(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	filter := new(member.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []member.SportsMember{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	members, err := api.svc.Query(ctx.Request().Context(), o.ID, *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying members")
	}
	if members == nil {
		members = []member.SportsMember{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *memberApi) retrieve(ctx echo.Context) error {
	mbr, ok := ctx.Get("object").(member.SportsMember)
	if !ok {
		return errors.Wrap(errMbrNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) update(ctx echo.Context) error {
	mbr, ok := ctx.Get("object").(member.SportsMember)
	if !ok {
		return errors.Wrap(errMbrNotFoundInCtx, "retrieving object from context")
	}

	var data member.UpdateMember
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateMember")
	}
	if err := data.Validate(mbr, api.svc); err != nil {
		return err
	}

	mbr, err := api.svc.Update(ctx.Request().Context(), mbr, data)
	if err != nil {
		return errors.Wrap(err, "updating member")
	}
	return ctx.JSON(http.StatusOK, mbr)
}

func (api *memberApi) destroy(ctx echo.Context) error {
	mbr, ok := ctx.Get("object").(member.SportsMember)
	if !ok {
		return errors.Wrap(errMbrNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), mbr.OrgID, mbr.ID); err != nil {
		return errors.Wrap(err, "deleting member")
	}
	return ctx.NoContent(http.StatusNoContent)
}
