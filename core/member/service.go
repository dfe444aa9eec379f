package member

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
)

var (
	// errors
	ErrNotFound         = errors.New("member not found")
	ErrNationalIDExists = errors.New("a member with this national ID is already registered")
)

type (
	Repository interface {
		CheckNationalIDUniqueness(ctx context.Context, orgID, nationalID string) error
		CreateMember(ctx context.Context, m SportsMember) (SportsMember, error)
		QueryAllMembers(ctx context.Context, orgID string) ([]SportsMember, error)
		GetMemberByID(ctx context.Context, orgID, id string) (SportsMember, error)
		// FilterMembers applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on one of
		// SportsMember.FirstName, SportsMember.LastName or SportsMember.NationalID.
		FilterMembers(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]SportsMember, error)
		UpdateMember(ctx context.Context, m SportsMember) (SportsMember, error)
		DeleteMembersByID(ctx context.Context, orgID string, ids ...string) error
	}

	Service interface {
		CheckNationalIDUniqueness(orgID, nationalID string) error
		Create(ctx context.Context, orgID string, nm NewMember) (SportsMember, error)
		QueryAll(ctx context.Context, orgID string) ([]SportsMember, error)
		Query(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]SportsMember, error)
		GetByID(ctx context.Context, orgID, id string) (SportsMember, error)
		Update(ctx context.Context, orig SportsMember, um UpdateMember) (SportsMember, error)
		Delete(ctx context.Context, orgID string, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckNationalIDUniqueness(orgID, nationalID string) error {
	if err := svc.repo.CheckNationalIDUniqueness(context.Background(), orgID, nationalID); err != nil {
		if errors.Cause(err) == ErrNationalIDExists {
			return core.NewValidationError(err, core.FieldError{Field: "national_id", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, orgID string, nm NewMember) (SportsMember, error) {
	now := time.Now().UTC()
	m := SportsMember{
		ID:             uuid.NewString(),
		OrgID:          orgID,
		FirstName:      nm.FirstName,
		LastName:       nm.LastName,
		FatherName:     nm.FatherName,
		MotherFullName: nm.MotherFullName,
		BloodType:      nm.BloodType,
		EducationLevel: nm.EducationLevel,
		SchoolName:     nm.SchoolName,
		FatherPhone:    nm.FatherPhone,
		Category:       nm.Category,
		NationalID:     nm.NationalID,
		IDCardNumber:   nm.IDCardNumber,
		Address:        nm.Address,
		PhotoURL:       nm.PhotoURL,
		Role:           nm.Role,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	return svc.repo.CreateMember(ctx, m)
}

func (svc *service) QueryAll(ctx context.Context, orgID string) ([]SportsMember, error) {
	return svc.repo.QueryAllMembers(ctx, orgID)
}

func (svc *service) Query(ctx context.Context, orgID string, filter QueryFilter, ordering ...core.DBOrdering) ([]SportsMember, error) {
	return svc.repo.FilterMembers(ctx, orgID, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, orgID, id string) (SportsMember, error) {
	return svc.repo.GetMemberByID(ctx, orgID, id)
}

func (svc *service) Update(ctx context.Context, orig SportsMember, um UpdateMember) (SportsMember, error) {
	m := orig
	m.FirstName = um.FirstName
	m.LastName = um.LastName
	m.FatherName = um.FatherName
	m.MotherFullName = um.MotherFullName
	m.BloodType = um.BloodType
	m.EducationLevel = um.EducationLevel
	m.SchoolName = um.SchoolName
	m.FatherPhone = um.FatherPhone
	m.Category = um.Category
	m.NationalID = um.NationalID
	m.IDCardNumber = um.IDCardNumber
	m.Address = um.Address
	m.PhotoURL = um.PhotoURL
	m.Role = um.Role
	m.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateMember(ctx, m)
}

func (svc *service) Delete(ctx context.Context, orgID string, ids ...string) error {
	return svc.repo.DeleteMembersByID(ctx, orgID, ids...)
}
