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
	"github.com/trezcool/michezo/core/org"
)

type orgRow struct {
	ID        string    `db:"id"`
	Name      string    `db:"name"`
	Slug      string    `db:"slug"`
	Logo      string    `db:"logo"`
	Metadata  string    `db:"metadata"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (r orgRow) toOrg() org.Organization {
	return org.Organization{
		ID:        r.ID,
		Name:      r.Name,
		Slug:      r.Slug,
		Logo:      r.Logo,
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt.UTC(),
		UpdatedAt: r.UpdatedAt.UTC(),
	}
}

type orgRepository struct {
	db *sqlx.DB
}

var _ org.Repository = (*orgRepository)(nil)

func NewOrgRepository(db *sqlx.DB) org.Repository {
	return &orgRepository{db: db}
}

func (repo *orgRepository) CheckSlugUniqueness(ctx context.Context, slug string) error {
	var exists bool
	err := repo.db.GetContext(ctx, &exists, `SELECT true FROM organization WHERE slug = $1 LIMIT 1`, slug)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil
		}
		return errors.Wrap(err, "checking slug uniqueness")
	}
	return org.ErrSlugExists
}

func (repo *orgRepository) CreateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	_, err := repo.db.ExecContext(ctx,
		`INSERT INTO organization (id, name, slug, logo, metadata, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		o.ID, o.Name, o.Slug, o.Logo, o.Metadata, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "creating organization")
	}
	return o, nil
}

func (repo *orgRepository) QueryAllOrganizations(ctx context.Context) ([]org.Organization, error) {
	var rows []orgRow
	if err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM organization ORDER BY name`); err != nil {
		return nil, errors.Wrap(err, "querying organizations")
	}
	orgs := make([]org.Organization, len(rows))
	for i, r := range rows {
		orgs[i] = r.toOrg()
	}
	return orgs, nil
}

func (repo *orgRepository) getOrgBy(ctx context.Context, where string, args ...interface{}) (org.Organization, error) {
	var row orgRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM organization WHERE `+where, args...)
	if err != nil {
		if err == sql.ErrNoRows {
			return org.Organization{}, org.ErrNotFound
		}
		return org.Organization{}, errors.Wrap(err, "getting organization")
	}
	return row.toOrg(), nil
}

func (repo *orgRepository) GetOrganizationByID(ctx context.Context, id string) (org.Organization, error) {
	return repo.getOrgBy(ctx, `id = $1`, id)
}

func (repo *orgRepository) GetOrganizationBySlug(ctx context.Context, slug string) (org.Organization, error) {
	return repo.getOrgBy(ctx, `slug = $1`, slug)
}

func (repo *orgRepository) FilterOrganizations(ctx context.Context, filter org.QueryFilter, ordering ...core.DBOrdering) ([]org.Organization, error) {
	var (
		where []string
		args  []interface{}
	)
	arg := func(val interface{}) string {
		args = append(args, val)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Search != "" {
		p := arg("%" + filter.Search + "%")
		where = append(where, fmt.Sprintf("(name ILIKE %[1]s OR slug ILIKE %[1]s)", p))
	}
	if !filter.CreatedFrom.IsZero() {
		where = append(where, "created_at >= "+arg(filter.CreatedFrom))
	}
	if !filter.CreatedTo.IsZero() {
		where = append(where, "created_at <= "+arg(filter.CreatedTo))
	}

	query := `SELECT * FROM organization`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += orderBy(ordering, "name")

	var rows []orgRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "filtering organizations")
	}
	orgs := make([]org.Organization, len(rows))
	for i, r := range rows {
		orgs[i] = r.toOrg()
	}
	return orgs, nil
}

func (repo *orgRepository) UpdateOrganization(ctx context.Context, o org.Organization) (org.Organization, error) {
	res, err := repo.db.ExecContext(ctx,
		`UPDATE organization SET
			name       = COALESCE(NULLIF($2, ''), name),
			logo       = $3,
			metadata   = $4,
			updated_at = $5
		 WHERE id = $1`,
		o.ID, o.Name, o.Logo, o.Metadata, o.UpdatedAt)
	if err != nil {
		return org.Organization{}, errors.Wrap(err, "updating organization")
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return org.Organization{}, org.ErrNotFound
	}
	return repo.GetOrganizationByID(ctx, o.ID)
}

func (repo *orgRepository) DeleteOrganizationsByID(ctx context.Context, ids ...string) error {
	_, err := repo.db.ExecContext(ctx, `DELETE FROM organization WHERE id = ANY($1)`, pq.Array(ids))
	return errors.Wrap(err, "deleting organizations")
}
