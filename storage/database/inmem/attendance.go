package inmemdb

import (
	"context"
	"sort"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil) // interface compliance check

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) query(orgID string) []attendance.Attendance {
	atts := make([]attendance.Attendance, 0, len(repo.db.table))
	for _, att := range repo.db.table {
		if att.OrgID == orgID {
			atts = append(atts, *att)
		}
	}
	sort.Slice(atts, func(i, j int) bool { return atts[i].CreatedAt.Before(atts[j].CreatedAt) })
	return atts
}

func (repo *attendanceRepository) UpsertAttendances(_ context.Context, atts ...attendance.Attendance) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for i := range atts {
		att := atts[i]
		// overwrite existing record for the same (session, member) pair
		for id, existing := range repo.db.table {
			if existing.SessionID == att.SessionID && existing.MemberID == att.MemberID {
				att.ID = existing.ID
				att.CreatedAt = existing.CreatedAt
				delete(repo.db.table, id)
				break
			}
		}
		repo.db.table[att.ID] = &att
	}
	return nil
}

func (repo *attendanceRepository) GetAttendanceByID(_ context.Context, orgID, id string) (attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if att, ok := repo.db.table[id]; ok && att.OrgID == orgID {
		return *att, nil
	}
	return attendance.Attendance{}, attendance.ErrNotFound
}

func (repo *attendanceRepository) FilterAttendances(_ context.Context, orgID string, filter attendance.QueryFilter, ordering ...core.DBOrdering) ([]attendance.Attendance, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var atts []attendance.Attendance
	for _, att := range repo.query(orgID) {
		if filter.SessionID != "" && att.SessionID != filter.SessionID {
			continue
		}
		if filter.MemberID != "" && att.MemberID != filter.MemberID {
			continue
		}
		if filter.Status != "" && att.Status != filter.Status {
			continue
		}
		atts = append(atts, att)
	}
	return atts, nil
}

func (repo *attendanceRepository) UpdateAttendance(_ context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[att.ID]
	if !ok || orig.OrgID != att.OrgID {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	att.CreatedAt = orig.CreatedAt
	repo.db.table[att.ID] = &att
	return att, nil
}

func (repo *attendanceRepository) DeleteAttendancesByID(_ context.Context, orgID string, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if att, ok := repo.db.table[id]; ok && att.OrgID == orgID {
			delete(repo.db.table, id)
		}
	}
	return nil
}

func (repo *attendanceRepository) GetAttendanceStats(_ context.Context, orgID string) (attendance.Stats, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var stats attendance.Stats
	sessions := make(map[string]struct{})
	for _, att := range repo.db.table {
		if att.OrgID != orgID {
			continue
		}
		stats.Total++
		sessions[att.SessionID] = struct{}{}
		switch att.Status {
		case attendance.StatusPresent:
			stats.Present++
		case attendance.StatusAbsent:
			stats.Absent++
		case attendance.StatusLate:
			stats.Late++
		}
	}
	stats.Sessions = len(sessions)
	if stats.Total > 0 {
		stats.Rate = float64(stats.Present+stats.Late) / float64(stats.Total) * 100
	}
	return stats, nil
}
