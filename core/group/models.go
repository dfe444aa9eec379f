// Package group manages an organization's training groups and their
// member rosters.
package group

import (
	"time"

	"github.com/trezcool/michezo/core"
)

type Group struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	Name      string    `json:"name"`
	Category  string    `json:"category,omitempty"` // age/skill bracket, e.g. "U15"
	CoachID   string    `json:"coach_id,omitempty"` // SportsMember with the coach role
	CreatedAt time.Time `json:"created_at"`         // UTC
	UpdatedAt time.Time `json:"updated_at"`         // UTC
}

// GroupMember links a SportsMember to a Group roster.
type GroupMember struct {
	GroupID  string    `json:"group_id"`
	MemberID string    `json:"member_id"`
	AddedAt  time.Time `json:"added_at"` // UTC
}

// NewGroup contains information needed to create a new Group.
type NewGroup struct {
	Name     string `json:"name" validate:"required"`
	Category string `json:"category"`
	CoachID  string `json:"coach_id" validate:"omitempty,uuid4"`
}

func (ng *NewGroup) Validate(orgID string, svc Service) error {
	ng.Name = core.CleanString(ng.Name)
	ng.Category = core.CleanString(ng.Category)

	if err := core.Validate.Struct(ng); err != nil {
		return err
	}
	return svc.CheckNameUniqueness(orgID, ng.Name)
}

// UpdateGroup defines what information may be provided to modify an
// existing Group.
type UpdateGroup struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	CoachID  string `json:"coach_id" validate:"omitempty,uuid4"`
}

func (ug *UpdateGroup) Validate(origGrp Group, svc Service) error {
	name := core.CleanString(ug.Name)
	if name != "" {
		ug.Name = name
	} else {
		ug.Name = origGrp.Name
	}
	ug.Category = core.CleanString(ug.Category)

	if err := core.Validate.Struct(ug); err != nil {
		return err
	}
	if ug.Name != origGrp.Name {
		return svc.CheckNameUniqueness(origGrp.OrgID, ug.Name)
	}
	return nil
}

type QueryFilter struct {
	Search   string `query:"search"`
	Category string `query:"category"`
	CoachID  string `query:"coach_id"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Category == "" && qf.CoachID == ""
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category)
}
