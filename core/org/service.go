package org

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/trezcool/michezo/core"
)

var (
	// errors
	ErrNotFound   = errors.New("organization not found")
	ErrSlugExists = errors.New("an organization with this slug already exists")
)

type (
	Repository interface {
		CheckSlugUniqueness(ctx context.Context, slug string) error
		CreateOrganization(ctx context.Context, o Organization) (Organization, error)
		QueryAllOrganizations(ctx context.Context) ([]Organization, error)
		GetOrganizationByID(ctx context.Context, id string) (Organization, error)
		GetOrganizationBySlug(ctx context.Context, slug string) (Organization, error)
		// FilterOrganizations applies AND operation on available QueryFilter fields.
		// QueryFilter.Search does a case-insensitive match on Organization.Name or Organization.Slug.
		FilterOrganizations(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Organization, error)
		UpdateOrganization(ctx context.Context, o Organization) (Organization, error)
		DeleteOrganizationsByID(ctx context.Context, ids ...string) error
	}

	Service interface {
		CheckSlugUniqueness(slug string) error
		Create(ctx context.Context, no NewOrganization) (Organization, error)
		QueryAll(ctx context.Context) ([]Organization, error)
		Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Organization, error)
		GetByID(ctx context.Context, id string) (Organization, error)
		GetBySlug(ctx context.Context, slug string) (Organization, error)
		Update(ctx context.Context, id string, uo UpdateOrganization) (Organization, error)
		Delete(ctx context.Context, ids ...string) error
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) CheckSlugUniqueness(slug string) error {
	if err := svc.repo.CheckSlugUniqueness(context.Background(), slug); err != nil {
		if errors.Cause(err) == ErrSlugExists {
			return core.NewValidationError(err, core.FieldError{Field: "slug", Error: err.Error()})
		}
		return err
	}
	return nil
}

func (svc *service) Create(ctx context.Context, no NewOrganization) (Organization, error) {
	now := time.Now().UTC()
	o := Organization{
		ID:        uuid.NewString(),
		Name:      no.Name,
		Slug:      no.Slug,
		Logo:      no.Logo,
		Metadata:  no.Metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}
	return svc.repo.CreateOrganization(ctx, o)
}

func (svc *service) QueryAll(ctx context.Context) ([]Organization, error) {
	return svc.repo.QueryAllOrganizations(ctx)
}

func (svc *service) Query(ctx context.Context, filter QueryFilter, ordering ...core.DBOrdering) ([]Organization, error) {
	return svc.repo.FilterOrganizations(ctx, filter, ordering...)
}

func (svc *service) GetByID(ctx context.Context, id string) (Organization, error) {
	return svc.repo.GetOrganizationByID(ctx, id)
}

func (svc *service) GetBySlug(ctx context.Context, slug string) (Organization, error) {
	return svc.repo.GetOrganizationBySlug(ctx, core.CleanString(slug, true /* lower */))
}

func (svc *service) Update(ctx context.Context, id string, uo UpdateOrganization) (Organization, error) {
	o := Organization{
		ID:        id,
		Name:      uo.Name,
		Logo:      uo.Logo,
		Metadata:  uo.Metadata,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpdateOrganization(ctx, o)
}

func (svc *service) Delete(ctx context.Context, ids ...string) error {
	return svc.repo.DeleteOrganizationsByID(ctx, ids...)
}
