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
	"github.com/trezcool/michezo/core/calendar"
	"github.com/trezcool/michezo/core/session"
)

type sessionRow struct {
	ID          string         `db:"id"`
	OrgID       string         `db:"org_id"`
	Date        time.Time      `db:"date"`
	StartTime   string         `db:"start_time"`
	EndTime     string         `db:"end_time"`
	Description string         `db:"description"`
	Location    string         `db:"location"`
	Color       string         `db:"color"`
	GroupIDs    pq.StringArray `db:"group_ids"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
}

func (r sessionRow) toSession() session.TrainingSession {
	return session.TrainingSession{
		ID:          r.ID,
		OrgID:       r.OrgID,
		Date:        r.Date.UTC(),
		StartTime:   r.StartTime,
		EndTime:     r.EndTime,
		Description: r.Description,
		Location:    r.Location,
		Color:       calendar.Color(r.Color),
		GroupIDs:    r.GroupIDs,
		CreatedAt:   r.CreatedAt.UTC(),
		UpdatedAt:   r.UpdatedAt.UTC(),
	}
}

func toSessions(rows []sessionRow) []session.TrainingSession {
	sessions := make([]session.TrainingSession, len(rows))
	for i, r := range rows {
		sessions[i] = r.toSession()
	}
	return sessions
}

type sessionRepository struct {
	db *sqlx.DB
}

var _ session.Repository = (*sessionRepository)(nil)

func NewSessionRepository(db *sqlx.DB) session.Repository {
	return &sessionRepository{db: db}
}

func (repo *sessionRepository) CreateSession(ctx context.Context, s session.TrainingSession) (session.TrainingSession, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO session (id, org_id, date, start_time, end_time, description, location, color, group_ids, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		s.ID, s.OrgID, s.Date, s.StartTime, s.EndTime, s.Description, s.Location, string(s.Color),
		pq.Array(s.GroupIDs), s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return session.TrainingSession{}, errors.Wrap(err, "creating session")
	}
	return s, nil
}

func (repo *sessionRepository) QueryAllSessions(ctx context.Context, orgID string) ([]session.TrainingSession, error) {
	var rows []sessionRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM session WHERE org_id = $1 ORDER BY date, start_time`, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "querying sessions")
	}
	return toSessions(rows), nil
}

func (repo *sessionRepository) GetSessionByID(ctx context.Context, orgID, id string) (session.TrainingSession, error) {
	var row sessionRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM session WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return session.TrainingSession{}, session.ErrNotFound
		}
		return session.TrainingSession{}, errors.Wrap(err, "getting session")
	}
	return row.toSession(), nil
}

func (repo *sessionRepository) FilterSessions(ctx context.Context, orgID string, rng calendar.DateRange, search string, ordering ...core.DBOrdering) ([]session.TrainingSession, error) {
	where := []string{"org_id = $1", "date >= $2", "date <= $3"}
	args := []interface{}{orgID, rng.Start, rng.End}

	if search != "" {
		args = append(args, "%"+search+"%")
		where = append(where, fmt.Sprintf("(description ILIKE $%[1]d OR location ILIKE $%[1]d)", len(args)))
	}

	query := `SELECT * FROM session WHERE ` + strings.Join(where, " AND ") + orderBy(ordering, "date, start_time")

	var rows []sessionRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering sessions")
	}
	return toSessions(rows), nil
}

func (repo *sessionRepository) UpdateSession(ctx context.Context, s session.TrainingSession) (session.TrainingSession, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE session SET
			date        = $3,
			start_time  = $4,
			end_time    = $5,
			description = $6,
			location    = $7,
			color       = $8,
			group_ids   = $9,
			updated_at  = $10
		 WHERE org_id = $1 AND id = $2`,
		s.OrgID, s.ID, s.Date, s.StartTime, s.EndTime, s.Description, s.Location, string(s.Color),
		pq.Array(s.GroupIDs), s.UpdatedAt)
	if err != nil {
		return session.TrainingSession{}, errors.Wrap(err, "updating session")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return session.TrainingSession{}, session.ErrNotFound
	}
	return repo.GetSessionByID(ctx, s.OrgID, s.ID)
}

func (repo *sessionRepository) DeleteSessionsByID(ctx context.Context, orgID string, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM session WHERE org_id = $1 AND id = ANY($2)`, orgID, pq.Array(ids))
	return errors.Wrap(err, "deleting sessions")
}

func (repo *sessionRepository) CountSessions(ctx context.Context, orgID string, from, to time.Time) (int, error) {
	where := []string{"org_id = $1"}
	args := []interface{}{orgID}
	if !from.IsZero() {
		args = append(args, from)
		where = append(where, fmt.Sprintf("date >= $%d", len(args)))
	}
	if !to.IsZero() {
		args = append(args, to)
		where = append(where, fmt.Sprintf("date <= $%d", len(args)))
	}

	var count int
	query := `SELECT COUNT(*) FROM session WHERE ` + strings.Join(where, " AND ")
	if err := repo.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, errors.Wrap(err, "counting sessions")
	}
	return count, nil
}

func (repo *sessionRepository) CountSessionAttendances(ctx context.Context, orgID string) (int, error) {
	var count int
	err := repo.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM attendance WHERE org_id = $1`, orgID)
	if err != nil {
		return 0, errors.Wrap(err, "counting attendances")
	}
	return count, nil
}
