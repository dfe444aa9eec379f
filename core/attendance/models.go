// Package attendance records who showed up to which training session
// and computes attendance statistics.
package attendance

import (
	"time"

	"github.com/trezcool/michezo/core"
)

// Statuses
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
	StatusLate    = "late"
)

var Statuses = []string{StatusPresent, StatusAbsent, StatusLate}

type Attendance struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"org_id"`
	SessionID string    `json:"session_id"`
	MemberID  string    `json:"member_id"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"` // UTC
	UpdatedAt time.Time `json:"updated_at"` // UTC
}

// CheckIn records one member's attendance for a session.
type CheckIn struct {
	MemberID string `json:"member_id" validate:"required,uuid4"`
	Status   string `json:"status" validate:"required,attstatus"`
	Notes    string `json:"notes"`
}

// SessionCheckIn records a whole session's attendance sheet in one call.
// Existing entries for the same (session, member) pair are overwritten.
type SessionCheckIn struct {
	SessionID string    `json:"session_id" validate:"required,uuid4"`
	Entries   []CheckIn `json:"entries" validate:"required,min=1,dive"`
}

func (sc *SessionCheckIn) Validate() error {
	for i := range sc.Entries {
		sc.Entries[i].Notes = core.CleanString(sc.Entries[i].Notes)
	}
	return core.Validate.Struct(sc)
}

// UpdateAttendance defines what may change on an existing record.
type UpdateAttendance struct {
	Status string `json:"status" validate:"required,attstatus"`
	Notes  string `json:"notes"`
}

func (ua *UpdateAttendance) Validate() error {
	ua.Notes = core.CleanString(ua.Notes)
	return core.Validate.Struct(ua)
}

type QueryFilter struct {
	SessionID string `query:"session_id"`
	MemberID  string `query:"member_id"`
	Status    string `query:"status"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.SessionID == "" && qf.MemberID == "" && qf.Status == ""
}

// Stats summarize an organization's attendance records.
type Stats struct {
	Total    int     `json:"total"`
	Present  int     `json:"present"`
	Absent   int     `json:"absent"`
	Late     int     `json:"late"`
	Sessions int     `json:"sessions"` // distinct sessions with records
	Rate     float64 `json:"rate"`     // percentage of present + late
}
