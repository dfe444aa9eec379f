package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/member"
)

type memberRepository struct {
	db *memberTable
}

var _ member.Repository = (*memberRepository)(nil) // interface compliance check

func NewMemberRepository(db *DB) member.Repository {
	return &memberRepository{db: db.member}
}

func (repo *memberRepository) query(orgID string) []member.SportsMember {
	members := make([]member.SportsMember, 0, len(repo.db.table))
	for _, m := range repo.db.table {
		if m.OrgID == orgID {
			members = append(members, *m)
		}
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].LastName != members[j].LastName {
			return members[i].LastName < members[j].LastName
		}
		return members[i].FirstName < members[j].FirstName
	})
	return members
}

func (repo *memberRepository) CheckNationalIDUniqueness(_ context.Context, orgID, nationalID string) error {
	repo.db.RLock()
	defer repo.db.RUnlock()

	for _, m := range repo.db.table {
		if m.OrgID == orgID && m.NationalID == nationalID {
			return member.ErrNationalIDExists
		}
	}
	return nil
}

func (repo *memberRepository) CreateMember(_ context.Context, m member.SportsMember) (member.SportsMember, error) {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *memberRepository) QueryAllMembers(_ context.Context, orgID string) ([]member.SportsMember, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(orgID), nil
}

func (repo *memberRepository) GetMemberByID(_ context.Context, orgID, id string) (member.SportsMember, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if m, ok := repo.db.table[id]; ok && m.OrgID == orgID {
		return *m, nil
	}
	return member.SportsMember{}, member.ErrNotFound
}

func (repo *memberRepository) FilterMembers(_ context.Context, orgID string, filter member.QueryFilter, ordering ...core.DBOrdering) ([]member.SportsMember, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var members []member.SportsMember
	for _, m := range repo.query(orgID) {
		if matchMember(m, filter) {
			members = append(members, m)
		}
	}
	return members, nil
}

func matchMember(m member.SportsMember, filter member.QueryFilter) bool {
	if filter.Search != "" {
		search := strings.ToLower(filter.Search)
		if !(strings.Contains(strings.ToLower(m.FirstName), search) ||
			strings.Contains(strings.ToLower(m.LastName), search) ||
			strings.Contains(strings.ToLower(m.NationalID), search)) {
			return false
		}
	}
	if filter.Role != "" && m.Role != filter.Role {
		return false
	}
	if filter.Category != "" && m.Category != filter.Category {
		return false
	}
	if !filter.CreatedFrom.IsZero() && m.CreatedAt.Before(filter.CreatedFrom) {
		return false
	}
	if !filter.CreatedTo.IsZero() && m.CreatedAt.After(filter.CreatedTo) {
		return false
	}
	return true
}

func (repo *memberRepository) UpdateMember(_ context.Context, m member.SportsMember) (member.SportsMember, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	orig, ok := repo.db.table[m.ID]
	if !ok || orig.OrgID != m.OrgID {
		return member.SportsMember{}, member.ErrNotFound
	}
	m.CreatedAt = orig.CreatedAt
	repo.db.table[m.ID] = &m
	return m, nil
}

func (repo *memberRepository) DeleteMembersByID(_ context.Context, orgID string, ids ...string) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	for _, id := range ids {
		if m, ok := repo.db.table[id]; ok && m.OrgID == orgID {
			delete(repo.db.table, id)
		}
	}
	return nil
}
