package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/user"
)

// addUser updates or creates a user.User
func (cli *commandLine) addUser(uname, email, pwd, orgSlug string, isAdmin bool) error {
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	var orgID string
	if orgSlug != "" {
		o, err := cli.orgRepo.GetOrganizationBySlug(ctx, core.CleanString(orgSlug, true /* lower */))
		if err != nil {
			return errors.Wrap(err, "finding organization by slug")
		}
		orgID = o.ID
	}

	usr, err := cli.getUser(ctx, uname, email)
	if err != nil {
		if errors.Cause(err) != user.ErrNotFound {
			return err
		}
		now := time.Now().UTC()
		usr = user.User{
			ID:        uuid.NewString(),
			OrgID:     orgID,
			Name:      uname,
			Username:  uname,
			Email:     email,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if isAdmin {
			usr.Roles = user.AdminRoles
		}
		if err := usr.SetPassword(pwd); err != nil {
			return err
		}
		_, err = cli.usrRepo.CreateUser(ctx, usr)
		return err
	}

	if isAdmin {
		usr.Roles = user.AdminRoles
	}
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	usr.UpdatedAt = time.Now().UTC()
	isActive := true
	_, err = cli.usrRepo.UpdateUser(ctx, usr, &isActive)
	return err
}

func (cli *commandLine) getUser(ctx context.Context, uname, email string) (user.User, error) {
	if uname != "" {
		if usr, err := cli.usrRepo.GetUserByUsernameOrEmail(ctx, uname); err == nil {
			return usr, nil
		} else if errors.Cause(err) != user.ErrNotFound {
			return user.User{}, err
		}
	}
	if email != "" {
		return cli.usrRepo.GetUserByUsernameOrEmail(ctx, email)
	}
	return user.User{}, user.ErrNotFound
}
