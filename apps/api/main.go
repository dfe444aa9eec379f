package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/jmoiron/sqlx"

	echoapi "github.com/trezcool/michezo/apps/api/echo"
	"github.com/trezcool/michezo/core"
	"github.com/trezcool/michezo/core/attendance"
	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/session"
	"github.com/trezcool/michezo/core/user"
	emailsvc "github.com/trezcool/michezo/services/email"
	logsvc "github.com/trezcool/michezo/services/logger"
	"github.com/trezcool/michezo/storage/database"
	sqlxrepos "github.com/trezcool/michezo/storage/database/sqlx"
)

const shutdownTimeout = 20 * time.Second

func main() {
	conf := core.LoadConf()

	// set up loggers
	logger := logsvc.NewRollbarLogger(
		log.New(os.Stdout, "API : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		conf,
	)
	logger.Enable(!conf.Debug)

	// set up DB
	db, err := setUpDB(conf)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	defer db.Close()
	dbx := sqlx.NewDb(db, conf.Database.Engine)

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}
	usrSvc := user.NewService(sqlxrepos.NewUserRepository(dbx), mailSvc)
	orgSvc := org.NewService(sqlxrepos.NewOrgRepository(dbx))
	mbrSvc := member.NewService(sqlxrepos.NewMemberRepository(dbx))
	grpSvc := group.NewService(sqlxrepos.NewGroupRepository(dbx))
	sessSvc := session.NewService(sqlxrepos.NewSessionRepository(dbx))
	attSvc := attendance.NewService(sqlxrepos.NewAttendanceRepository(dbx))

	logger.Info(fmt.Sprintf("Application initializing : version %q", conf.Build))
	defer logger.Info("Application stopped")

	// start API server
	server := echoapi.NewServer(
		&echoapi.Options{
			Address:       conf.Server.Addr,
			Logger:        logger,
			UserSvc:       usrSvc,
			OrgSvc:        orgSvc,
			MemberSvc:     mbrSvc,
			GroupSvc:      grpSvc,
			SessionSvc:    sessSvc,
			AttendanceSvc: attSvc,
		},
	)

	go server.Start()

	// block until shutdown is signaled; give outstanding requests a
	// deadline for completion
	sig := <-server.ShutdownSignal()
	logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Stop(ctx); err != nil {
		logger.Error(fmt.Sprintf("could not stop server gracefully: %v", err), err)
	}
}

func setUpDB(conf *core.Config) (*sql.DB, error) {
	if err := database.CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := database.Open(conf)
	if err != nil {
		return nil, err
	}

	if err = database.Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
