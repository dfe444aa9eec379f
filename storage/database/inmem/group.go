package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/group"
)

type groupRepository struct {
	db *groupTable
}

var _ group.Repository = (*groupRepository)(nil) // interface compliance check

func NewGroupRepository(db *DB) group.Repository {
	return &groupRepository{db: db.group}
}

func (repo *groupRepository) query(orgID string) []group.Group {
	groups := make([]group.Group, 0, len(repo.db.table))
	for _, g := range repo.db.table {
		if g.OrgID == orgID {
			groups = append(groups, *g)
		}
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Name < groups[j].Name })
	return groups
}

func (repo *groupRepository) CheckGroupNameUniqueness(_ context.Context, orgID, name string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, g := range repo.db.table {
		if g.OrgID == orgID && strings.EqualFold(g.Name, name) {
			return group.ErrNameExists
		}
	}
	return nil
}

func (repo *groupRepository) CreateGroup(_ context.Context, g group.Group) (group.Group, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *groupRepository) QueryAllGroups(_ context.Context, orgID string) ([]group.Group, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(orgID), nil
}

func (repo *groupRepository) GetGroupByID(_ context.Context, orgID, id string) (group.Group, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if g, ok := repo.db.table[id]; ok && g.OrgID == orgID {
		return *g, nil
	}
	return group.Group{}, group.ErrNotFound
}

func (repo *groupRepository) FilterGroups(_ context.Context, orgID string, filter group.QueryFilter, ordering ...core.DBOrdering) ([]group.Group, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var groups []group.Group
	for _, g := range repo.query(orgID) {
		if matchGroup(g, filter) {
			groups = append(groups, g)
		}
	}
	return groups, nil
}

func matchGroup(g group.Group, filter group.QueryFilter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(g.Name), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.Category != "" && g.Category != filter.Category {
		return false
	}
	if filter.CoachID != "" && g.CoachID != filter.CoachID {
		return false
	}
	return true
}

func (repo *groupRepository) UpdateGroup(_ context.Context, g group.Group) (group.Group, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[g.ID]
	if !ok || orig.OrgID != g.OrgID {
		return group.Group{}, group.ErrNotFound
	}
	g.CreatedAt = orig.CreatedAt
	repo.db.table[g.ID] = &g
	return g, nil
}

func (repo *groupRepository) DeleteGroupsByID(_ context.Context, orgID string, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if g, ok := repo.db.table[id]; ok && g.OrgID == orgID {
			delete(repo.db.table, id)
			delete(repo.db.members, id)
		}
	}
	return nil
}

func (repo *groupRepository) AddGroupMember(_ context.Context, gm group.GroupMember) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	for _, existing := range repo.db.members[gm.GroupID] {
		if existing.MemberID == gm.MemberID {
			return group.ErrMemberInGroup
		}
	}
	repo.db.members[gm.GroupID] = append(repo.db.members[gm.GroupID], gm)
	return nil
}

func (repo *groupRepository) RemoveGroupMember(_ context.Context, groupID, memberID string) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	gms := repo.db.members[groupID]
	for i, gm := range gms {
		if gm.MemberID == memberID {
			repo.db.members[groupID] = append(gms[:i], gms[i+1:]...)
			return nil
		}
	}
	return nil
}

func (repo *groupRepository) QueryGroupMembers(_ context.Context, groupID string) ([]group.GroupMember, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]group.GroupMember(nil), repo.db.members[groupID]...), nil
}

func (repo *groupRepository) QueryMemberGroupIDs(_ context.Context, memberID string) ([]string, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var ids []string
	for groupID, gms := range repo.db.members {
		for _, gm := range gms {
			if gm.MemberID == memberID {
				ids = append(ids, groupID)
				break
			}
		}
	}
	sort.Strings(ids)
	return ids, nil
}
