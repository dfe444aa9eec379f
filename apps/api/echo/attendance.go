package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core/attendance"
)

var errAttNotFoundInCtx = errors.New("attendance object not found in echo.Context")

type attendanceApi struct {
	svc attendance.Service
}

func registerAttendanceAPI(g *echo.Group, svc attendance.Service) {
	api := attendanceApi{svc: svc}

	ag := g.Group("/attendance")
	ag.GET("", api.query)
	ag.POST("", api.checkIn)
	ag.GET("/stats", api.stats)

	dg := ag.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *attendanceApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		o, err := getContextOrg(ctx)
		if err != nil {
			return err
		}
		att, err := api.svc.GetByID(ctx.Request().Context(), o.ID, ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == attendance.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding attendance by ID")
		}
		ctx.Set("object", att)
		return next(ctx)
	}
}

// checkIn records a whole session's attendance sheet in one request.
func (api *attendanceApi) checkIn(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	var data attendance.SessionCheckIn
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to SessionCheckIn")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	atts, err := api.svc.CheckIn(ctx.Request().Context(), o.ID, data)
	if err != nil {
		return errors.Wrap(err, "checking in session attendances")
	}
	return ctx.JSON(http.StatusCreated, atts)
}

func (api *attendanceApi) query(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	filter := new(attendance.QueryFilter)
	if err := ctx.Bind(filter); err != nil {
		return ctx.JSON(http.StatusOK, []attendance.Attendance{})
	}
	ordering := new(Ordering)
	ordering.Bind(ctx)

	atts, err := api.svc.Query(ctx.Request().Context(), o.ID, *filter, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying attendances")
	}
	if atts == nil {
		atts = []attendance.Attendance{}
	}
	return ctx.JSON(http.StatusOK, atts)
}

func (api *attendanceApi) stats(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	stats, err := api.svc.Stats(ctx.Request().Context(), o.ID)
	if err != nil {
		return errors.Wrap(err, "querying attendance stats")
	}
	return ctx.JSON(http.StatusOK, stats)
}

func (api *attendanceApi) retrieve(ctx echo.Context) error {
	att, ok := ctx.Get("object").(attendance.Attendance)
	if !ok {
		return errors.Wrap(errAttNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) update(ctx echo.Context) error {
	att, ok := ctx.Get("object").(attendance.Attendance)
	if !ok {
		return errors.Wrap(errAttNotFoundInCtx, "retrieving object from context")
	}

	var data attendance.UpdateAttendance
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateAttendance")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	att, err := api.svc.Update(ctx.Request().Context(), att, data)
	if err != nil {
		return errors.Wrap(err, "updating attendance")
	}
	return ctx.JSON(http.StatusOK, att)
}

func (api *attendanceApi) destroy(ctx echo.Context) error {
	att, ok := ctx.Get("object").(attendance.Attendance)
	if !ok {
		return errors.Wrap(errAttNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), att.OrgID, att.ID); err != nil {
		return errors.Wrap(err, "deleting attendance")
	}
	return ctx.NoContent(http.StatusNoContent)
}
