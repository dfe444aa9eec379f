// Package inmemdb implements the domain repositories on in-memory maps.
// It backs unit and API tests, and local development without PostgreSQL.
package inmemdb

import (
	"sync"

	"github.com/trezcool/michezo/core/attendance"
	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/session"
	"github.com/trezcool/michezo/core/user"
)

type (
	DB struct {
		user       *userTable
		org        *orgTable
		member     *memberTable
		group      *groupTable
		session    *sessionTable
		attendance *attendanceTable
	}

	userTable struct {
		sync.RWMutex
		table map[string]*user.User
	}

	orgTable struct {
		sync.RWMutex
		table map[string]*org.Organization
	}

	memberTable struct {
		sync.RWMutex
		table map[string]*member.SportsMember
	}

	groupTable struct {
		sync.RWMutex
		table   map[string]*group.Group
		members map[string][]group.GroupMember // keyed by group ID
	}

	sessionTable struct {
		sync.RWMutex
		table map[string]*session.TrainingSession
	}

	attendanceTable struct {
		sync.RWMutex
		table map[string]*attendance.Attendance
	}
)

// Reset empties all tables. Tests use it to start from a clean state.
func (db *DB) Reset() {
	db.user.Lock()
	db.user.table = make(map[string]*user.User)
	db.user.Unlock()

	db.org.Lock()
	db.org.table = make(map[string]*org.Organization)
	db.org.Unlock()

	db.member.Lock()
	db.member.table = make(map[string]*member.SportsMember)
	db.member.Unlock()

	db.group.Lock()
	db.group.table = make(map[string]*group.Group)
	db.group.members = make(map[string][]group.GroupMember)
	db.group.Unlock()

	db.session.Lock()
	db.session.table = make(map[string]*session.TrainingSession)
	db.session.Unlock()

	db.attendance.Lock()
	db.attendance.table = make(map[string]*attendance.Attendance)
	db.attendance.Unlock()
}

func Open() (*DB, error) {
	db := &DB{
		user:       &userTable{table: make(map[string]*user.User)},
		org:        &orgTable{table: make(map[string]*org.Organization)},
		member:     &memberTable{table: make(map[string]*member.SportsMember)},
		group:      &groupTable{table: make(map[string]*group.Group), members: make(map[string][]group.GroupMember)},
		session:    &sessionTable{table: make(map[string]*session.TrainingSession)},
		attendance: &attendanceTable{table: make(map[string]*attendance.Attendance)},
	}
	return db, nil
}
