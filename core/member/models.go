// Package member manages an organization's registered people: players,
// coaches and support staff, with the registration details clubs keep
// on file for minors (guardian names, school, blood type).
package member

import (
	"time"

	"github.com/trezcool/michezo/core"
)

// Member roles
const (
	RolePlayer = "player"
	RoleCoach  = "coach"
	RoleStaff  = "staff"
)

var MemberRoles = []string{RolePlayer, RoleCoach, RoleStaff}

// Blood types
var BloodTypes = []string{"A+", "A-", "B+", "B-", "AB+", "AB-", "O+", "O-"}

type SportsMember struct {
	ID             string    `json:"id"`
	OrgID          string    `json:"org_id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	FatherName     string    `json:"father_name,omitempty"`
	MotherFullName string    `json:"mother_full_name,omitempty"`
	BloodType      string    `json:"blood_type,omitempty"`
	EducationLevel string    `json:"education_level,omitempty"`
	SchoolName     string    `json:"school_name,omitempty"`
	FatherPhone    string    `json:"father_phone,omitempty"`
	Category       string    `json:"category,omitempty"` // age/skill bracket, e.g. "U15"
	NationalID     string    `json:"national_id,omitempty"`
	IDCardNumber   string    `json:"id_card_number,omitempty"`
	Address        string    `json:"address,omitempty"`
	PhotoURL       string    `json:"photo_url,omitempty"`
	Role           string    `json:"role"`
	CreatedAt      time.Time `json:"created_at"` // UTC
	UpdatedAt      time.Time `json:"updated_at"` // UTC
}

func (m *SportsMember) FullName() string {
	return m.FirstName + " " + m.LastName
}

// NewMember contains information needed to register a new SportsMember.
type NewMember struct {
	FirstName      string `json:"first_name" validate:"required"`
	LastName       string `json:"last_name" validate:"required"`
	FatherName     string `json:"father_name"`
	MotherFullName string `json:"mother_full_name"`
	BloodType      string `json:"blood_type" validate:"omitempty,bloodtype"`
	EducationLevel string `json:"education_level"`
	SchoolName     string `json:"school_name"`
	FatherPhone    string `json:"father_phone"`
	Category       string `json:"category"`
	NationalID     string `json:"national_id"`
	IDCardNumber   string `json:"id_card_number"`
	Address        string `json:"address"`
	PhotoURL       string `json:"photo_url" validate:"omitempty,url"`
	Role           string `json:"role" validate:"required,memberrole"`
}

func (nm *NewMember) Validate(orgID string, svc Service) error {
	nm.FirstName = core.CleanString(nm.FirstName)
	nm.LastName = core.CleanString(nm.LastName)
	nm.NationalID = core.CleanString(nm.NationalID)

	if err := core.Validate.Struct(nm); err != nil {
		return err
	}
	if nm.NationalID != "" {
		return svc.CheckNationalIDUniqueness(orgID, nm.NationalID)
	}
	return nil
}

// UpdateMember defines what information may be provided to modify an
// existing SportsMember. Empty fields keep their current value.
type UpdateMember struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	FatherName     string `json:"father_name"`
	MotherFullName string `json:"mother_full_name"`
	BloodType      string `json:"blood_type" validate:"omitempty,bloodtype"`
	EducationLevel string `json:"education_level"`
	SchoolName     string `json:"school_name"`
	FatherPhone    string `json:"father_phone"`
	Category       string `json:"category"`
	NationalID     string `json:"national_id"`
	IDCardNumber   string `json:"id_card_number"`
	Address        string `json:"address"`
	PhotoURL       string `json:"photo_url" validate:"omitempty,url"`
	Role           string `json:"role" validate:"omitempty,memberrole"`
}

func (um *UpdateMember) Validate(origMbr SportsMember, svc Service) error {
	if first := core.CleanString(um.FirstName); first != "" {
		um.FirstName = first
	} else {
		um.FirstName = origMbr.FirstName
	}
	if last := core.CleanString(um.LastName); last != "" {
		um.LastName = last
	} else {
		um.LastName = origMbr.LastName
	}
	if um.Role == "" {
		um.Role = origMbr.Role
	}

	if err := core.Validate.Struct(um); err != nil {
		return err
	}
	natID := core.CleanString(um.NationalID)
	if natID != "" && natID != origMbr.NationalID {
		um.NationalID = natID
		return svc.CheckNationalIDUniqueness(origMbr.OrgID, natID)
	}
	um.NationalID = origMbr.NationalID
	return nil
}

type QueryFilter struct {
	Search      string    `query:"search"` // name or national ID
	Role        string    `query:"role"`
	Category    string    `query:"category"`
	CreatedFrom time.Time `query:"created_from"`
	CreatedTo   time.Time `query:"created_to"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.Search == "" && qf.Role == "" && qf.Category == "" &&
		qf.CreatedFrom.IsZero() && qf.CreatedTo.IsZero()
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search)
	qf.Category = core.CleanString(qf.Category)
}
