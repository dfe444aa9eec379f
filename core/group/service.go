package group

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
)

var (
	// errors
	ErrNotFound      = errors.New("group not found")
	ErrNameExists    = errors.New("a group with this name already exists")
	ErrMemberInGroup = errors.New("member is already in this group")
)

type (
	Repository interface {
		CheckGroupNameUniqueness(ctx context.Context, orgID, name string) error
		CreateGroup(ctx context.Context, g Group) (Group, error)
		QueryAllGroups(ctx context.Context, orgID string) ([]Group, error)
		GetGroupByID(ctx context.Context, orgID, id string) (Group, error)
		// FilterGroups applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Group.Name.
		FilterGroups(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]Group, error)
		UpdateGroup(ctx context.Context, g Group) (Group, error)
		DeleteGroupsByID(ctx context.Context, orgID string, ids ...string) error

		AddGroupMember(ctx context.Context, gm GroupMember) error
		RemoveGroupMember(ctx context.Context, groupID, memberID string) error
		QueryGroupMembers(ctx context.Context, groupID string) ([]GroupMember, error)
		QueryMemberGroupIDs(ctx context.Context, memberID string) ([]string, error)
	}

	Service interface {
		CheckNameUniqueness(orgID, name string) error
		Create(ctx context.Context, orgID string, ng NewGroup) (Group, error)
		QueryAll(ctx context.Context, orgID string) ([]Group, error)
		Query(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]Group, error)
		GetByID(ctx context.Context, orgID, id string) (Group, error)
		Update(ctx context.Context, orig Group, ug UpdateGroup) (Group, error)
		Delete(ctx context.Context, orgID string, ids ...string) error

		AddMember(ctx context.Context, groupID, memberID string) error
		RemoveMember(ctx context.Context, groupID, memberID string) error
		Members(ctx context.Context, groupID string) ([]GroupMember, error)
		MemberGroupIDs(ctx context.Context, memberID string) ([]string, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckNameUniqueness(orgID, name string) error {
	if err := svc.repo.CheckGroupNameUniqueness(context.Background(), orgID, name); err != nil {
		if errors.Cause(err) == ErrNameExists {
			return core.NewValidationError(err, core.FieldError{Field: "name", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, orgID string, ng NewGroup) (Group, error) {
	now := time.Now().UTC()
	g := Group{
		ID:        uuid.NewString(),
		OrgID:     orgID,
		Name:      ng.Name,
		Category:  ng.Category,
		CoachID:   ng.CoachID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateGroup(ctx, g)
}

func (svc *service) QueryAll(ctx context.Context, orgID string) ([]Group, error) {
	return svc.repo.QueryAllGroups(ctx, orgID)
}

func (svc *service) Query(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]Group, error) {
	return svc.repo.FilterGroups(ctx, orgID, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, orgID, id string) (Group, error) {
	return svc.repo.GetGroupByID(ctx, orgID, id)
}

func (svc *service) Update(ctx context.Context, orig Group, ug UpdateGroup) (Group, error) {
	g := orig
	g.Name = ug.Name
	g.Category = ug.Category
	g.CoachID = ug.CoachID
	g.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateGroup(ctx, g)
}

func (svc *service) Delete(ctx context.Context, orgID string, ids ...string) error {
	return svc.repo.DeleteGroupsByID(ctx, orgID, ids...)
}

func (svc *service) AddMember(ctx context.Context, groupID, memberID string) error {
	gm := GroupMember{
		GroupID:  groupID,
		MemberID: memberID,
		AddedAt:  time.Now().UTC(),
	}
	if err := svc.repo.AddGroupMember(ctx, gm); err != nil {
		if errors.Cause(err) == ErrMemberInGroup {
			return core.NewValidationError(err, core.FieldError{Field: "member_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) RemoveMember(ctx context.Context, groupID, memberID string) error {
	return svc.repo.RemoveGroupMember(ctx, groupID, memberID)
}

func (svc *service) Members(ctx context.Context, groupID string) ([]GroupMember, error) {
	return svc.repo.QueryGroupMembers(ctx, groupID)
}

func (svc *service) MemberGroupIDs(ctx context.Context, memberID string) ([]string, error) {
	return svc.repo.QueryMemberGroupIDs(ctx, memberID)
}
