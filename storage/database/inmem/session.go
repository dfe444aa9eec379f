package inmemdb

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/calendar"
	"github.com/trezcool/michezo/core/session"
)

type sessionRepository struct {
	db          *sessionTable
	attendances *attendanceTable
}

var _ session.Repository = (*sessionRepository)(nil) // interface compliance check

func NewSessionRepository(db *DB) session.Repository {
	return &sessionRepository{db: db.session, attendances: db.attendance}
}

func (repo *sessionRepository) query(orgID string) []session.TrainingSession {
	sessions := make([]session.TrainingSession, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		if s.OrgID == orgID {
			sessions = append(sessions, *s)
		}
	}
	sort.Slice(sessions, func(i, j int) bool {
		if !sessions[i].Date.Equal(sessions[j].Date) {
			return sessions[i].Date.Before(sessions[j].Date)
		}
		return sessions[i].StartTime < sessions[j].StartTime
	})
	return sessions
}

func (repo *sessionRepository) CreateSession(_ context.Context, s session.TrainingSession) (session.TrainingSession, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) QueryAllSessions(_ context.Context, orgID string) ([]session.TrainingSession, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(orgID), nil
}

func (repo *sessionRepository) GetSessionByID(_ context.Context, orgID, id string) (session.TrainingSession, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.table[id]; ok && s.OrgID == orgID {
		return *s, nil
	}
	return session.TrainingSession{}, session.ErrNotFound
}

func (repo *sessionRepository) FilterSessions(_ context.Context, orgID string, rng calendar.DateRange, search string, ordering ...core.DBOrdering) ([]session.TrainingSession, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var sessions []session.TrainingSession
	for _, s := range repo.query(orgID) {
		if !rng.Contains(s.Date) {
			continue
		}
		if search != "" {
			needle := strings.ToLower(search)
			if !(strings.Contains(strings.ToLower(s.Description), needle) ||
				strings.Contains(strings.ToLower(s.Location), needle)) {
				continue
			}
		}
		sessions = append(sessions, s)
	}
	return sessions, nil
}

func (repo *sessionRepository) UpdateSession(_ context.Context, s session.TrainingSession) (session.TrainingSession, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[s.ID]
	if !ok || orig.OrgID != s.OrgID {
		return session.TrainingSession{}, session.ErrNotFound
	}
	s.CreatedAt = orig.CreatedAt
	repo.db.table[s.ID] = &s
	return s, nil
}

func (repo *sessionRepository) DeleteSessionsByID(_ context.Context, orgID string, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if s, ok := repo.db.table[id]; ok && s.OrgID == orgID {
			delete(repo.db.table, id)
		}
	}
	return nil
}

func (repo *sessionRepository) CountSessions(_ context.Context, orgID string, from, to time.Time) (int, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var count int
	for _, s := range repo.db.table {
		if s.OrgID != orgID {
			continue
		}
		if !from.IsZero() && s.Date.Before(from) {
			continue
		}
		if !to.IsZero() && s.Date.After(to) {
			continue
		}
		count++
	}
	return count, nil
}

func (repo *sessionRepository) CountSessionAttendances(_ context.Context, orgID string) (int, error) {
	repo.attendances.RLock()
	defer repo.attendances.RUnlock()

	var count int
	for _, att := range repo.attendances.table {
		if att.OrgID == orgID {
			count++
		}
	}
	return count, nil
}
