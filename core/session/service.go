package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/calendar"
)

var (
	// errors
	ErrNotFound = errors.New("session not found")
)

type (
	Repository interface {
		CreateSession(ctx context.Context, s TrainingSession) (TrainingSession, error)
		QueryAllSessions(ctx context.Context, orgID string) ([]TrainingSession, error)
		GetSessionByID(ctx context.Context, orgID, id string) (TrainingSession, error)
		// FilterSessions returns sessions whose date falls in rng, narrowed by
		// a case-insensitive match of search on Description or Location.
		FilterSessions(ctx context.Context, orgID string, rng calendar.DateRange, search string, ordering ...core.DBOrdering) ([]TrainingSession, error)
		UpdateSession(ctx context.Context, s TrainingSession) (TrainingSession, error)
		DeleteSessionsByID(ctx context.Context, orgID string, ids ...string) error
		CountSessions(ctx context.Context, orgID string, from, to time.Time) (int, error)
		CountSessionAttendances(ctx context.Context, orgID string) (int, error)
	}

	Service interface {
		Create(ctx context.Context, orgID string, ns NewSession) (TrainingSession, error)
		QueryAll(ctx context.Context, orgID string) ([]TrainingSession, error)
		GetByID(ctx context.Context, orgID, id string) (TrainingSession, error)
		Update(ctx context.Context, orig TrainingSession, us UpdateSession) (TrainingSession, error)
		Delete(ctx context.Context, orgID string, ids ...string) error
		// Query resolves the calendar window and returns the sessions in it.
		Query(ctx context.Context, orgID string, q ScheduleQuery, ordering ...core.DBOrdering) ([]TrainingSession, error)
		// BuildSchedule assembles the schedule page payload for the window.
		BuildSchedule(ctx context.Context, orgID string, q ScheduleQuery) (Schedule, error)
		Stats(ctx context.Context, orgID string) (Stats, error)
	}

	service struct {
		repo    Repository
		nowFunc func() time.Time // mockable
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo, nowFunc: time.Now}
}

func (svc *service) Create(ctx context.Context, orgID string, ns NewSession) (TrainingSession, error) {
	now := svc.nowFunc().UTC()
	s := TrainingSession{
		ID:          uuid.NewString(),
		OrgID:       orgID,
		Date:        dateOnly(ns.Date),
		StartTime:   ns.StartTime,
		EndTime:     ns.EndTime,
		Description: ns.Description,
		Location:    ns.Location,
		Color:       ns.Color,
		GroupIDs:    ns.GroupIDs,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return svc.repo.CreateSession(ctx, s)
}

func (svc *service) QueryAll(ctx context.Context, orgID string) ([]TrainingSession, error) {
	return svc.repo.QueryAllSessions(ctx, orgID)
}

func (svc *service) GetByID(ctx context.Context, orgID, id string) (TrainingSession, error) {
	return svc.repo.GetSessionByID(ctx, orgID, id)
}

func (svc *service) Update(ctx context.Context, orig TrainingSession, us UpdateSession) (TrainingSession, error) {
	s := orig
	s.Date = dateOnly(us.Date)
	s.StartTime = us.StartTime
	s.EndTime = us.EndTime
	s.Description = us.Description
	s.Location = us.Location
	if us.Color != "" {
		s.Color = us.Color
	}
	if us.GroupIDs != nil {
		s.GroupIDs = us.GroupIDs
	}
	s.UpdatedAt = svc.nowFunc().UTC()
	return svc.repo.UpdateSession(ctx, s)
}

func (svc *service) Delete(ctx context.Context, orgID string, ids ...string) error {
	return svc.repo.DeleteSessionsByID(ctx, orgID, ids...)
}

func (svc *service) Query(ctx context.Context, orgID string, q ScheduleQuery, ordering ...core.DBOrdering) ([]TrainingSession, error) {
	q.Clean()
	rng := q.Range(svc.nowFunc().UTC())
	if len(ordering) == 0 {
		ordering = []core.DBOrdering{{Field: "date", Ascending: true}, {Field: "start_time", Ascending: true}}
	}
	return svc.repo.FilterSessions(ctx, orgID, rng, q.Search, ordering...)
}

func (svc *service) BuildSchedule(ctx context.Context, orgID string, q ScheduleQuery) (Schedule, error) {
	q.Clean()
	rng := q.Range(svc.nowFunc().UTC())

	sessions, err := svc.repo.FilterSessions(ctx, orgID, rng, q.Search,
		core.DBOrdering{Field: "date", Ascending: true},
		core.DBOrdering{Field: "start_time", Ascending: true},
	)
	if err != nil {
		return Schedule{}, err
	}

	events := make([]calendar.Event, len(sessions))
	for i := range sessions {
		events[i] = sessions[i].Event()
	}

	stats, err := svc.Stats(ctx, orgID)
	if err != nil {
		return Schedule{}, err
	}

	return Schedule{
		Range:    rng,
		View:     q.View,
		Events:   events,
		Sessions: sessions,
		Stats:    stats,
	}, nil
}

func (svc *service) Stats(ctx context.Context, orgID string) (Stats, error) {
	var (
		zero = time.Time{}
		now  = svc.nowFunc().UTC()
	)

	total, err := svc.repo.CountSessions(ctx, orgID, zero, zero)
	if err != nil {
		return Stats{}, err
	}
	upcoming, err := svc.repo.CountSessions(ctx, orgID, now, zero)
	if err != nil {
		return Stats{}, err
	}
	attendances, err := svc.repo.CountSessionAttendances(ctx, orgID)
	if err != nil {
		return Stats{}, err
	}

	return Stats{
		Total:       total,
		Upcoming:    upcoming,
		Past:        total - upcoming,
		Attendances: attendances,
	}, nil
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
