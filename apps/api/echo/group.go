package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
)

var errGrpNotFoundInCtx = errors.New("group object not found in echo.Context")

type groupApi struct {
	svc    group.Service
	mbrSvc member.Service
}

func registerGroupAPI(g *echo.Group, svc group.Service, mbrSvc member.Service) {
	api := groupApi{svc: svc, mbrSvc: mbrSvc}

	gg := g.Group("/groups")
	gg.GET("", api.query)
	gg.POST("", api.create)

	dg := gg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)

	dg.GET("/members", api.queryMembers)
	dg.POST("/members", api.addMember)
	dg.DELETE("/members/:member_id", api.removeMember)
}

func (api *groupApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		o, err := getContextOrg(ctx)
		if err != nil {
			return err
		}
		grp, err := api.svc.GetByID(ctx.Request().Context(), o.ID, ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == group.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding group by ID")
		}
		ctx.Set("object", grp)
		return next(ctx)
	}
}

func (api *groupApi) create(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	var data group.NewGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewGroup")
	}
	if err := data.Validate(o.ID, api.svc); err != nil {
		return err
	}

	grp, err := api.svc.Create(ctx.Request().Context(), o.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating group")
	}
	return ctx.JSON(http.StatusCreated, grp)
}

func (api *groupApi) query(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	filter := new(group.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []group.Group{})
	}
	filter.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	groups, err := api.svc.Query(ctx.Request().Context(), o.ID, *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying groups")
	}
	if groups == nil {
		groups = []group.Group{}
	}
	return ctx.JSON(http.StatusOK, groups)
}

func (api *groupApi) retrieve(ctx echo.Context) error {
	grp, ok := ctx.Get("object").(group.Group)
	if !ok {
		return errors.Wrap(errGrpNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) update(ctx echo.Context) error {
	grp, ok := ctx.Get("object").(group.Group)
	if !ok {
		return errors.Wrap(errGrpNotFoundInCtx, "retrieving object from context")
	}

	var data group.UpdateGroup
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateGroup")
	}
	if err := data.Validate(grp, api.svc); err != nil {
		return err
	}

	grp, err := api.svc.Update(ctx.Request().Context(), grp, data)
	if err != nil {
		return errors.Wrap(err, "updating group")
	}
	return ctx.JSON(http.StatusOK, grp)
}

func (api *groupApi) destroy(ctx echo.Context) error {
	grp, ok := ctx.Get("object").(group.Group)
	if !ok {
		return errors.Wrap(errGrpNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), grp.OrgID, grp.ID); err != nil {
		return errors.Wrap(err, "deleting group")
	}
	return ctx.NoContent(http.StatusNoContent)
}

func (api *groupApi) queryMembers(ctx echo.Context) error {
	grp, ok := ctx.Get("object").(group.Group)
	if !ok {
		return errors.Wrap(errGrpNotFoundInCtx, "retrieving object from context")
	}

	members, err := api.svc.Members(ctx.Request().Context(), grp.ID)
	if err != nil {
		return errors.Wrap(err, "querying group members")
	}
	if members == nil {
		members = []group.GroupMember{}
	}
	return ctx.JSON(http.StatusOK, members)
}

func (api *groupApi) addMember(ctx echo.Context) error {
	grp, ok := ctx.Get("object").(group.Group)
	if !ok {
		return errors.Wrap(errGrpNotFoundInCtx, "retrieving object from context")
	}

	var data AddGroupMemberRequest
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to AddGroupMemberRequest")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	// the member must belong to the same organization as the group
	if _, err := api.mbrSvc.GetByID(ctx.Request().Context(), grp.OrgID, data.MemberID); err != nil {
		if errors.Cause(err) == member.ErrNotFound {
			return core.NewValidationError(err, core.FieldError{Field: "member_id", Error: member.ErrNotFound.Error()})
		}
		return errors.Wrap(err, "finding member by ID")
	}

	if err := api.svc.AddMember(ctx.Request().Context(), grp.ID, data.MemberID); err != nil {
		return errors.Wrap(err, "adding group member")
	}
	return ctx.NoContent(http.StatusCreated)
}

func (api *groupApi) removeMember(ctx echo.Context) error {
	grp, ok := ctx.Get("object").(group.Group)
	if !ok {
		return errors.Wrap(errGrpNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.RemoveMember(ctx.Request().Context(), grp.ID, ctx.Param("member_id")); err != nil {
		return errors.Wrap(err, "removing group member")
	}
	return ctx.NoContent(http.StatusNoContent)
}

type AddGroupMemberRequest struct {
	MemberID string `json:"member_id" validate:"required,uuid4"`
}

func (r *AddGroupMemberRequest) Validate() error { return core.Validate.Struct(r) }
