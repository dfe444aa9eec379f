package attendance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
)

var (
	// errors
	ErrNotFound = errors.New("attendance record not found")
)

type (
	Repository interface {
		// UpsertAttendances inserts records, overwriting any existing record
		// for the same (session, member) pair.
		UpsertAttendances(ctx context.Context, atts ...Attendance) error
		GetAttendanceByID(ctx context.Context, orgID, id string) (Attendance, error)
		// FilterAttendances applies AND operation on available QueryFilter fields.
		FilterAttendances(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]Attendance, error)
		UpdateAttendance(ctx context.Context, att Attendance) (Attendance, error)
		DeleteAttendancesByID(ctx context.Context, orgID string, ids ...string) error
		GetAttendanceStats(ctx context.Context, orgID string) (Stats, error)
	}

	Service interface {
		// CheckIn records a whole session's attendance sheet.
		CheckIn(ctx context.Context, orgID string, sc SessionCheckIn) ([]Attendance, error)
		GetByID(ctx context.Context, orgID, id string) (Attendance, error)
		Query(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]Attendance, error)
		Update(ctx context.Context, orig Attendance, ua UpdateAttendance) (Attendance, error)
		Delete(ctx context.Context, orgID string, ids ...string) error
		Stats(ctx context.Context, orgID string) (Stats, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckIn(ctx context.Context, orgID string, sc SessionCheckIn) ([]Attendance, error) {
	now := time.Now().UTC()
	atts := make([]Attendance, len(sc.Entries))
	for i, entry := range sc.Entries {
		atts[i] = Attendance{
			ID:        uuid.NewString(),
			OrgID:     orgID,
			SessionID: sc.SessionID,
			MemberID:  entry.MemberID,
			Status:    entry.Status,
			Notes:     entry.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}
	if err := svc.repo.UpsertAttendances(ctx, atts...); err != nil {
		return nil, err
	}
	return atts, nil
}

func (svc *service) GetByID(ctx context.Context, orgID, id string) (Attendance, error) {
	return svc.repo.GetAttendanceByID(ctx, orgID, id)
}

func (svc *service) Query(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]Attendance, error) {
	return svc.repo.FilterAttendances(ctx, orgID, filter, ordering...)
}

func (svc *service) Update(ctx context.Context, orig Attendance, ua UpdateAttendance) (Attendance, error) {
	att := orig
	att.Status = ua.Status
	att.Notes = ua.Notes
	att.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateAttendance(ctx, att)
}

func (svc *service) Delete(ctx context.Context, orgID string, ids ...string) error {
	return svc.repo.DeleteAttendancesByID(ctx, orgID, ids...)
}

func (svc *service) Stats(ctx context.Context, orgID string) (Stats, error) {
	return svc.repo.GetAttendanceStats(ctx, orgID)
}
