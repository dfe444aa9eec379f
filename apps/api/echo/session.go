package echoapi

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core/session"
)

var errSessNotFoundInCtx = errors.New("session object not found in echo.Context")

type sessionApi struct {
	svc session.Service
}

func registerSessionAPI(g *echo.Group, svc session.Service) {
	api := sessionApi{svc: svc}

	sg := g.Group("/sessions")
	sg.GET("", api.query)
	sg.POST("", api.create)
	sg.GET("/schedule", api.schedule)

	dg := sg.Group("/:id", api.objectMiddleware)
	dg.GET("", api.retrieve)
	dg.PUT("", api.update)
	dg.DELETE("", api.destroy)
}

func (api *sessionApi) objectMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		o, err := getContextOrg(ctx)
		if err != nil {
			return err
		}
		sess, err := api.svc.GetByID(ctx.Request().Context(), o.ID, ctx.Param("id"))
		if err != nil {
			if errors.Cause(err) == session.ErrNotFound {
				return errHttpNotFound
			}
			return errors.Wrap(err, "finding session by ID")
		}
		ctx.Set("object", sess)
		return next(ctx)
	}
}

func (api *sessionApi) create(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	var data session.NewSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to NewSession")
	}
	if err := data.Validate(); err != nil {
		return err
	}

	sess, err := api.svc.Create(ctx.Request().Context(), o.ID, data)
	if err != nil {
		return errors.Wrap(err, "creating session")
	}
	return ctx.JSON(http.StatusCreated, sess)
}

// query lists the sessions in the calendar window addressed by
// `?view=&date=&week=&month=` (current period when absent).
func (api *sessionApi) query(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	q := new(session.ScheduleQuery)
	if err := ctx.Bind(q); err != nil {
		return ctx.JSON(http.StatusOK, []session.TrainingSession{})
	}
	q.Clean()
	ordering := new(Ordering)
	ordering.Bind(ctx)

	sessions, err := api.svc.Query(ctx.Request().Context(), o.ID, *q, ordering.Orderings...)
	if err != nil {
		return errors.Wrap(err, "querying sessions")
	}
	if sessions == nil {
		sessions = []session.TrainingSession{}
	}
	return ctx.JSON(http.StatusOK, sessions)
}

func (api *sessionApi) schedule(ctx echo.Context) error {
	o, err := getContextOrg(ctx)
	if err != nil {
		return err
	}

	q := new(session.ScheduleQuery)
	if err := ctx.Bind(q); err != nil {
		q = new(session.ScheduleQuery)
	}
	q.Clean()

	sched, err := api.svc.BuildSchedule(ctx.Request().Context(), o.ID, *q)
	if err != nil {
		return errors.Wrap(err, "building schedule")
	}
	return ctx.JSON(http.StatusOK, sched)
}

func (api *sessionApi) retrieve(ctx echo.Context) error {
	sess, ok := ctx.Get("object").(session.TrainingSession)
	if !ok {
		return errors.Wrap(errSessNotFoundInCtx, "retrieving object from context")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) update(ctx echo.Context) error {
	sess, ok := ctx.Get("object").(session.TrainingSession)
	if !ok {
		return errors.Wrap(errSessNotFoundInCtx, "retrieving object from context")
	}

	var data session.UpdateSession
	if err := ctx.Bind(&data); err != nil {
		return errors.Wrap(err, "binding to UpdateSession")
	}
	if err := data.Validate(sess); err != nil {
		return err
	}

	sess, err := api.svc.Update(ctx.Request().Context(), sess, data)
	if err != nil {
		return errors.Wrap(err, "updating session")
	}
	return ctx.JSON(http.StatusOK, sess)
}

func (api *sessionApi) destroy(ctx echo.Context) error {
	sess, ok := ctx.Get("object").(session.TrainingSession)
	if !ok {
		return errors.Wrap(errSessNotFoundInCtx, "retrieving object from context")
	}

	if err := api.svc.Delete(ctx.Request().Context(), sess.OrgID, sess.ID); err != nil {
		return errors.Wrap(err, "deleting session")
	}
	return ctx.NoContent(http.StatusNoContent)
}
