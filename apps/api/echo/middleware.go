package echoapi

import (
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/user"
)

var contextOrgKey = "org"

func adminMiddleware(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			claims, err := getContextClaims(ctx)
			if err != nil {
				return errors.Wrap(err, "getting context claims")
			}
			if claims.IsAdmin && contextHasAnyRole(ctx, roles) {
				return next(ctx)
			}
			return errHttpForbidden
		}
	}
}

// orgCtxMiddleware resolves the organization addressed by the `:slug` URL param
// and guards tenant access: a user may only reach their own organization;
// platform admins (no OrgID) may reach any.
func orgCtxMiddleware(orgSvc org.Service, usrSvc user.Service) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			o, err := orgSvc.GetBySlug(ctx.Request().Context(), ctx.Param("slug"))
			if err != nil {
				if errors.Cause(err) == org.ErrNotFound {
					return errHttpNotFound
				}
				return errors.Wrap(err, "finding organization by slug")
			}

			usr, err := getContextUser(ctx, usrSvc)
			if err != nil {
				return errors.Wrap(err, "getting context user")
			}
			isPlatformAdmin := usr.OrgID == "" && usr.IsAdmin()
			if !(isPlatformAdmin || usr.OrgID == o.ID) {
				return errHttpForbidden
			}

			ctx.Set(contextOrgKey, o)
			return next(ctx)
		}
	}
}

func getContextOrg(ctx echo.Context) (org.Organization, error) {
	if o, ok := ctx.Get(contextOrgKey).(org.Organization); ok {
		return o, nil
	}
	return org.Organization{}, errHttpNotFound
}
