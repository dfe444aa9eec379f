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
	"github.com/trezcool/michezo/core/group"
)

type groupRow struct {
	ID        string         `db:"id"`
	OrgID     string         `db:"org_id"`
	Name      string         `db:"name"`
	Category  string         `db:"category"`
	CoachID   sql.NullString `db:"coach_id"`
	CreatedAt time.Time      `db:"created_at"`
	UpdatedAt time.Time      `db:"updated_at"`
}

func (r groupRow) toGroup() group.Group {
	return group.Group{
		ID:        r.ID,
		OrgID:     r.OrgID,
		Name:      r.Name,
		Category:  r.Category,
		CoachID:   r.CoachID.String,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

func toGroups(rows []groupRow) []group.Group {
	groups := make([]group.Group, len(rows))
	for i, r := range rows {
		groups[i] = r.toGroup()
	}
	return groups
}

type groupRepository struct {
	db *sqlx.DB
}

var _ group.Repository = (*groupRepository)(nil)

func NewGroupRepository(db *sqlx.DB) group.Repository {
	return &groupRepository{db: db}
}

func (repo *groupRepository) CheckGroupNameUniqueness(ctx context.Context, orgID, name string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists,
		`SELECT true FROM "group" WHERE org_id = $1 AND lower(name) = lower($2) LIMIT 1`, orgID, name)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrap(err, "checking group name uniqueness")
	}
	return group.ErrNameExists
}

func (repo *groupRepository) CreateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO "group" (id, org_id, name, category, coach_id, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7)`,
		g.ID, g.OrgID, g.Name, g.Category, g.CoachID, g.CreatedAt, g.UpdatedAt)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "creating group")
	}
	return g, nil
}

func (repo *groupRepository) QueryAllGroups(ctx context.Context, orgID string) ([]group.Group, error) {
	var rows []groupRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM "group" WHERE org_id = $1 ORDER BY name`, orgID)
	if err != nil {
		return nil, errors.Wrap(err, "querying groups")
	}
	return toGroups(rows), nil
}

func (repo *groupRepository) GetGroupByID(ctx context.Context, orgID, id string) (group.Group, error) {
	var row groupRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM "group" WHERE org_id = $1 AND id = $2`, orgID, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return group.Group{}, group.ErrNotFound
		}
		return group.Group{}, errors.Wrap(err, "getting group")
	}
	return row.toGroup(), nil
}

func (repo *groupRepository) FilterGroups(ctx context.Context, orgID string, filter group.QueryFilter, ordering ...core.DBOrdering) ([]group.Group, error) {
	where := []string{"org_id = $1"}
	args := []interface{}{orgID}
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		where = append(where, "name ILIKE "+arg("%"+filter.Search+"%"))
	}
	if filter.Category != "" {
		where = append(where, "category = "+arg(filter.Category))
	}
	if filter.CoachID != "" {
		where = append(where, "coach_id = "+arg(filter.CoachID))
	}

	query := `SELECT * FROM "group" WHERE ` + strings.Join(where, " AND ") + orderBy(ordering, "name")

	var rows []groupRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering groups")
	}
	return toGroups(rows), nil
}

func (repo *groupRepository) UpdateGroup(ctx context.Context, g group.Group) (group.Group, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE "group" SET
			name       = COALESCE(NULLIF($3, ''), name),
			category   = $4,
			coach_id   = NULLIF($5, ''),
			updated_at = $6
		 WHERE org_id = $1 AND id = $2`,
		g.OrgID, g.ID, g.Name, g.Category, g.CoachID, g.UpdatedAt)
	if err != nil {
		return group.Group{}, errors.Wrap(err, "updating group")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return group.Group{}, group.ErrNotFound
	}
	return repo.GetGroupByID(ctx, g.OrgID, g.ID)
}

func (repo *groupRepository) DeleteGroupsByID(ctx context.Context, orgID string, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM "group" WHERE org_id = $1 AND id = ANY($2)`, orgID, pq.Array(ids))
	return errors.Wrap(err, "deleting groups")
}

func (repo *groupRepository) AddGroupMember(ctx context.Context, gm group.GroupMember) error {
	res, err := repo.db.ExecContext(ctx,
		`INSERT INTO group_member (group_id, member_id, added_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (group_id, member_id) DO NOTHING`,
		gm.GroupID, gm.MemberID, gm.AddedAt)
	if err != nil {
		return errors.Wrap(err, "adding group member")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return group.ErrMemberInGroup
	}
	return nil
}

func (repo *groupRepository) RemoveGroupMember(ctx context.Context, groupID, memberID string) error {
	_, err := repo.db.ExecContext(ctx,
		`DELETE FROM group_member WHERE group_id = $1 AND member_id = $2`, groupID, memberID)
	return errors.Wrap(err, "removing group member")
}

func (repo *groupRepository) QueryGroupMembers(ctx context.Context, groupID string) ([]group.GroupMember, error) {
	var rows []struct {
		GroupID  string    `db:"group_id"`
		MemberID string    `db:"member_id"`
		AddedAt  time.Time `db:"added_at"`
	}
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM group_member WHERE group_id = $1 ORDER BY added_at`, groupID)
	if err != nil {
		return nil, errors.Wrap(err, "querying group members")
	}
	gms := make([]group.GroupMember, len(rows))
	for i, r := range rows {
		gms[i] = group.GroupMember{GroupID: r.GroupID, MemberID: r.MemberID, AddedAt: r.AddedAt.UTC()}
	}
	return gms, nil
}

func (repo *groupRepository) QueryMemberGroupIDs(ctx context.Context, memberID string) ([]string, error) {
	var ids []string
	err := repo.db.SelectContext(ctx, &ids,
		`SELECT group_id FROM group_member WHERE member_id = $1`, memberID)
	if err != nil {
		return nil, errors.Wrap(err, "querying member groups")
	}
	return ids, nil
}
