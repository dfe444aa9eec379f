package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/calendar"
	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/session"
	"github.com/trezcool/michezo/core/user"
)

// LoadTestConf initializes core.Conf with test values. Safe to call repeatedly.
func LoadTestConf() *core.Config {
	if core.Conf == nil {
		core.Conf = &core.Config{
			Debug:                     false,
			TestMode:                  true,
			Env:                       "TEST",
			AppName:                   "Michezo",
			WorkDir:                   core.Getwd(),
			SecretKey:                 "secret",
			PasswordResetTimeoutDelta: 3 * 24 * time.Hour,
			FrontendBaseURL:           "http://localhost:3000",
			Server: core.ServerConfig{
				Host:                      "localhost",
				JWTExpirationDelta:        7 * 24 * time.Hour,
				JWTRefreshExpirationDelta: 4 * time.Hour,
			},
		}
	}
	return core.Conf
}

func CreateUser(
	t *testing.T,
	repo user.Repository,
	orgID, name, uname, email, pwd string,
	roles []string,
	isActive bool,
	createdAt ...time.Time,
) user.User {
	t.Helper()

	tstamp := time.Now().UTC()
	if len(createdAt) > 0 {
		tstamp = createdAt[0].UTC()
	}
	usr := user.User{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Name:      name,
		Username:  uname,
		Email:     email,
		Roles:     roles,
		IsActive:  isActive,
		CreatedAt: tstamp,
		UpdatedAt: tstamp,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("CreateUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}
	return usr
}

func CreateOrg(t *testing.T, repo org.Repository, name, slug string) org.Organization {
	t.Helper()

	now := time.Now().UTC()
	o, err := repo.CreateOrganization(context.Background(), org.Organization{
		ID:        uuid.NewString(),
		Name:      name,
		Slug:      slug,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateOrg() failed: %v", err)
	}
	return o
}

func CreateMember(t *testing.T, repo member.Repository, orgID, first, last, role, category string) member.SportsMember {
	t.Helper()

	now := time.Now().UTC()
	mbr, err := repo.CreateMember(context.Background(), member.SportsMember{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		FirstName: first,
		LastName:  last,
		Role:      role,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateMember() failed: %v", err)
	}
	return mbr
}

func CreateGroup(t *testing.T, repo group.Repository, orgID, name, category string) group.Group {
	t.Helper()

	now := time.Now().UTC()
	grp, err := repo.CreateGroup(context.Background(), group.Group{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Name:      name,
		Category:  category,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("CreateGroup() failed: %v", err)
	}
	return grp
}

func CreateSession(
	t *testing.T,
	repo session.Repository,
	orgID string,
	date time.Time,
	start, end, desc string,
	color ...calendar.Color,
) session.TrainingSession {
	t.Helper()

	now := time.Now().UTC()
	s := session.TrainingSession{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Date:        time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:   start,
		EndTime:     end,
		Description: desc,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if len(color) > 0 {
		s.Color = color[0]
	}
	s, err := repo.CreateSession(context.Background(), s)
	if err != nil {
		t.Fatalf("CreateSession() failed: %v", err)
	}
	return s
}
