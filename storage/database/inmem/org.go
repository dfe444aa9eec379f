package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/org"
)

type orgRepository struct {
	db *orgTable
}

var _ org.Repository = (*orgRepository)(nil) // interface compliance check

func NewOrgRepository(db *DB) org.Repository {
	return &orgRepository{db: db.org}
}

func (repo *orgRepository) query() []org.Organization {
	orgs := make([]org.Organization, 0, len(repo.db.table))
	for _, o := range repo.db.table {
		orgs = append(orgs, *o)
	}
	sort.Slice(orgs, func(i, j int) bool { return orgs[i].Name < orgs[j].Name })
	return orgs
}

func (repo *orgRepository) CheckSlugUniqueness(_ context.Context, slug string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, o := range repo.db.table {
		if o.Slug == slug {
			return org.ErrSlugExists
		}
	}
	return nil
}

func (repo *orgRepository) CreateOrganization(_ context.Context, o org.Organization) (org.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[o.ID] = &o
	return o, nil
}

func (repo *orgRepository) QueryAllOrganizations(context.Context) ([]org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *orgRepository) GetOrganizationByID(_ context.Context, id string) (org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if o, ok := repo.db.table[id]; ok {
		return *o, nil
	}
	return org.Organization{}, org.ErrNotFound
}

func (repo *orgRepository) GetOrganizationBySlug(_ context.Context, slug string) (org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, o := range repo.db.table {
		if o.Slug == slug {
			return *o, nil
		}
	}
	return org.Organization{}, org.ErrNotFound
}

func (repo *orgRepository) FilterOrganizations(_ context.Context, filter org.QueryFilter, ordering ...core.DBOrdering) ([]org.Organization, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var orgs []org.Organization
	for _, o := range repo.query() {
		if matchOrg(o, filter) {
			orgs = append(orgs, o)
		}
	}
	return orgs, nil
}

func matchOrg(o org.Organization, filter org.QueryFilter) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !(strings.Contains(strings.ToLower(o.Name), search) ||
			strings.Contains(o.Slug, search)) {
			return false
		}
	}
	if !filter.CreatedFrom.IsZero() && o.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && o.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func (repo *orgRepository) UpdateOrganization(_ context.Context, o org.Organization) (org.Organization, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	origOrg, ok := repo.db.table[o.ID]
	if !ok {
		return org.Organization{}, org.ErrNotFound
	}
	if o.Name != "" {
		origOrg.Name = o.Name
	}
	origOrg.Logo = o.Logo
	origOrg.Metadata = o.Metadata
	origOrg.UpdatedAt = o.UpdatedAt

	repo.db.table[o.ID] = origOrg
	return *origOrg, nil
}

func (repo *orgRepository) DeleteOrganizationsByID(_ context.Context, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		delete(repo.db.table, id)
	}
	return nil
}
