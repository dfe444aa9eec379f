package tests

import (
	"log"
	"os"
	"testing"

	echoapi "github.com/trezcool/michezo/apps/api/echo"
	"github.com/trezcool/michezo/core/attendance"
	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/session"
	"github.com/trezcool/michezo/core/user"
	emailsvc "github.com/trezcool/michezo/services/email"
	inmemdb "github.com/trezcool/michezo/storage/database/inmem"
	testutil "github.com/trezcool/michezo/tests"
)

var (
	db  *inmemdb.DB
	app echoapi.Server

	usrRepo  user.Repository
	orgRepo  org.Repository
	mbrRepo  member.Repository
	grpRepo  group.Repository
	sessRepo session.Repository
	attRepo  attendance.Repository

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
	errForbidden    = httpErr{Error: "permission denied"}
	errNotFound     = httpErr{Error: "not found"}
)

func TestMain(m *testing.M) {
	testutil.LoadTestConf()

	// set up DB & repos
	var err error
	if db, err = inmemdb.Open(); err != nil {
		log.Fatalf("inmemdb.Open(): %v", err)
	}
	usrRepo = inmemdb.NewUserRepository(db)
	orgRepo = inmemdb.NewOrgRepository(db)
	mbrRepo = inmemdb.NewMemberRepository(db)
	grpRepo = inmemdb.NewGroupRepository(db)
	sessRepo = inmemdb.NewSessionRepository(db)
	attRepo = inmemdb.NewAttendanceRepository(db)

	// set up services
	mailSvc := emailsvc.NewConsoleServiceMock()
	usrSvc := user.NewServiceMock(usrRepo, mailSvc)

	// set up server
	app = echoapi.NewServer(
		&echoapi.Options{
			DisableReqLogs: true,
			Logger:         testLogger{},
			UserSvc:        usrSvc,
			OrgSvc:         org.NewService(orgRepo),
			MemberSvc:      member.NewService(mbrRepo),
			GroupSvc:       group.NewService(grpRepo),
			SessionSvc:     session.NewService(sessRepo),
			AttendanceSvc:  attendance.NewService(attRepo),
		},
	)

	os.Exit(m.Run())
}

type testLogger struct{}

func (testLogger) Enable(bool)                       {}
func (testLogger) Debug(string, ...interface{})      {}
func (testLogger) Info(string, ...interface{})       {}
func (testLogger) Warn(string, ...interface{})       {}
func (testLogger) Error(msg string, _ ...interface{}) { log.Println("ERROR :", msg) }
func (testLogger) Fatal(msg string, _ ...interface{}) { log.Fatalln("FATAL :", msg) }
