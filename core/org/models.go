// Package org defines the organizations (sports clubs) every other
// domain object belongs to. All member, group and session data is
// scoped to one organization.
package org

import (
	"time"

	"github.com/trezcool/michezo/core"
)

type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Logo      string    `json:"logo,omitempty"`
	Metadata  string    `json:"metadata,omitempty"` // free-form JSON blob
	CreatedAt time.Time `json:"created_at"`         // UTC
	UpdatedAt time.Time `json:"updated_at"`         // UTC
}

// NewOrganization contains information needed to create a new Organization.
type NewOrganization struct {
	Name     string `json:"name" validate:"required"`
	Slug     string `json:"slug" validate:"required,slug"`
	Logo     string `json:"logo" validate:"omitempty,url"`
	Metadata string `json:"metadata" validate:"omitempty,json"`
}

func (no *NewOrganization) Validate(svc Service) error {
	no.Name = core.CleanString(no.Name)
	no.Slug = core.CleanString(no.Slug, true /* lower */)

	if err := core.Validate.Struct(no); err != nil {
		return err
	}
	return svc.CheckSlugUniqueness(no.Slug)
}

// UpdateOrganization defines what information may be provided to modify an
// existing Organization. The slug is immutable once created.
type UpdateOrganization struct {
	Name     string `json:"name"`
	Logo     string `json:"logo" validate:"omitempty,url"`
	Metadata string `json:"metadata" validate:"omitempty,json"`
}

func (uo *UpdateOrganization) Validate(origOrg Organization) error {
	name := core.CleanString(uo.Name)
	if name != "" {
		uo.Name = name
	} else {
		uo.Name = origOrg.Name
	}
	return core.Validate.Struct(uo)
}

type QueryFilter struct {
	Search      string    `query:"search"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
}
