package sqlxrepos

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/attendance"
)

type attendanceRow struct {
	ID        string    `db:"id"`
	OrgID     string    `db:"org_id"`
	SessionID string    `db:"session_id"`
	MemberID  string    `db:"member_id"`
	Status    string    `db:"status"`
	Notes     string    `db:"notes"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r attendanceRow) toAttendance() attendance.Attendance {
	return attendance.Attendance{
		ID:        r.ID,
		OrgID:     r.OrgID,
		SessionID: r.SessionID,
		MemberID:  r.MemberID,
		Status:    r.Status,
		Notes:     r.Notes,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type attendanceRepository struct {
	db *sqlx.DB
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *sqlx.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

func (repo *attendanceRepository) UpsertAttendances(ctx context.Context, atts ...attendance.Attendance) error {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "beginning transaction")
	}

	for _, att := range atts {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO attendance (id, org_id, session_id, member_id, status, notes, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			 ON CONFLICT (session_id, member_id)
			 DO UPDATE SET status = EXCLUDED.status, notes = EXCLUDED.notes, updated_at = EXCLUDED.updated_at`,
			att.ID, att.OrgID, att.SessionID, att.MemberID, att.Status, att.Notes, att.CreatedAt, att.UpdatedAt)
		if err != nil {
			_ = tx.Rollback()
			return errors.Wrap(err, "upserting attendance")
		}
	}
	return errors.Wrap(tx.Commit(), "committing attendances")
}

func (repo *attendanceRepository) GetAttendanceByID(ctx context.Context, orgID, id string) (attendance.Attendance, error) {
	var row attendanceRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM attendance WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrNotFound
		}
		return attendance.Attendance{}, errors.Wrap(err, "getting attendance")
	}
	return row.toAttendance(), nil
}

func (repo *attendanceRepository) FilterAttendances(ctx context.Context, orgID string, filter attendance.QueryFilter, ordering ...core.DBOrdering) ([]attendance.Attendance, error) {
	where := []string{"org_id = $1"}
	args := []interface{}{orgID}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.SessionID != "" {
		where = append(where, "session_id = "+arg(filter.SessionID))
	}
	if filter.MemberID != "" {
		where = append(where, "member_id = "+arg(filter.MemberID))
	}
	if filter.Status != "" {
		where = append(where, "status = "+arg(filter.Status))
	}

	query := `SELECT * FROM attendance WHERE ` + strings.Join(where, " AND ") + orderBy(ordering, "created_at")

	var rows []attendanceRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering attendances")
	}
	atts := make([]attendance.Attendance, len(rows))
	for i, r := range rows {
		atts[i] = r.toAttendance()
	}
	return atts, nil
}

func (repo *attendanceRepository) UpdateAttendance(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE attendance SET status = $3, notes = $4, updated_at = $5
		 WHERE org_id = $1 AND id = $2`,
		att.OrgID, att.ID, att.Status, att.Notes, att.UpdatedAt)
	if err != nil {
		return attendance.Attendance{}, errors.Wrap(err, "updating attendance")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.Attendance{}, attendance.ErrNotFound
	}
	return repo.GetAttendanceByID(ctx, att.OrgID, att.ID)
}

func (repo *attendanceRepository) DeleteAttendancesByID(ctx context.Context, orgID string, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM attendance WHERE org_id = $1 AND id = ANY($2)`, orgID, pq.Array(ids))
	return errors.Wrap(err, "deleting attendances")
}

func (repo *attendanceRepository) GetAttendanceStats(ctx context.Context, orgID string) (attendance.Stats, error) {
	var row struct {
		Total    int `db:"total"`
		Present  int `db:"present"`
		Absent   int `db:"absent"`
		Late     int `db:"late"`
		Sessions int `db:"sessions"`
	}
	err := repo.db.GetContext(ctx, &row,
		`SELECT COUNT(*)                                    AS total,
		        COUNT(*) FILTER (WHERE status = 'present')  AS present,
		        COUNT(*) FILTER (WHERE status = 'absent')   AS absent,
		        COUNT(*) FILTER (WHERE status = 'late')     AS late,
		        COUNT(DISTINCT session_id)                  AS sessions
		 FROM attendance WHERE org_id = $1`, orgID)
	if err != nil {
		return attendance.Stats{}, errors.Wrap(err, "getting attendance stats")
	}

	stats := attendance.Stats{
		Total:    row.Total,
		Present:  row.Present,
		Absent:   row.Absent,
		Late:     row.Late,
		Sessions: row.Sessions,
	}
	if stats.Total > 0 {
		stats.Rate = float64(stats.Present+stats.Late) / float64(stats.Total) * 100
	}
	return stats, nil
}
