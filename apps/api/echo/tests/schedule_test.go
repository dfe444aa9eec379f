package tests

import (
	"encoding/json"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/trezcool/michezo/core/attendance"
	"github.com/trezcool/michezo/core/calendar"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/session"
	"github.com/trezcool/michezo/core/user"
	testutil "github.com/trezcool/michezo/tests"
)

func Test_sessionApi_schedule(t *testing.T) {
	db.Reset()

	rhinos := testutil.CreateOrg(t, orgRepo, "Rhinos FC", "rhinos")
	lions := testutil.CreateOrg(t, orgRepo, "Lions FC", "lions")
	coach := testutil.CreateUser(t, usrRepo, rhinos.ID, "Coach Carter", "carter", "carter@rhinos.cd", "", []string{user.RoleCoach}, true)
	rival := testutil.CreateUser(t, usrRepo, lions.ID, "Rival Coach", "rival1", "rival@lions.cd", "", []string{user.RoleCoach}, true)

	coachToken := getToken(t, coach)
	rivalToken := getToken(t, rival)

	// a July week plus strays either side
	inWeek1 := testutil.CreateSession(t, sessRepo, rhinos.ID, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), "17:00", "18:30", "U15 drills")
	inWeek2 := testutil.CreateSession(t, sessRepo, rhinos.ID, time.Date(2024, 7, 21, 0, 0, 0, 0, time.UTC), "09:00", "", "U17 scrimmage")
	testutil.CreateSession(t, sessRepo, rhinos.ID, time.Date(2024, 7, 22, 0, 0, 0, 0, time.UTC), "17:00", "18:00", "next week")
	testutil.CreateSession(t, sessRepo, lions.ID, time.Date(2024, 7, 16, 0, 0, 0, 0, time.UTC), "17:00", "18:00", "rival practice")

	schedulePath := func(params url.Values) string {
		return "/v1/orgs/rhinos/sessions/schedule?" + params.Encode()
	}

	t.Run("tenant isolation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/orgs/rhinos/sessions", rivalToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("week window", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, schedulePath(url.Values{"view": {"week"}, "week": {"2024-W29"}}), coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var sched session.Schedule
		if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
			t.Fatalf("unmarshalling Schedule: %v", err)
		}
		if want := time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC); !sched.Range.Start.Equal(want) {
			t.Errorf("Range.Start = %v; want %v", sched.Range.Start, want)
		}
		if len(sched.Sessions) != 2 {
			t.Fatalf("len(Sessions) = %d; want 2; body %s", len(sched.Sessions), rec.Body.String())
		}
		if sched.Sessions[0].ID != inWeek1.ID || sched.Sessions[1].ID != inWeek2.ID {
			t.Errorf("unexpected sessions: %v, %v", sched.Sessions[0].ID, sched.Sessions[1].ID)
		}
		if len(sched.Events) != 2 {
			t.Fatalf("len(Events) = %d; want 2", len(sched.Events))
		}
		// default 1h duration when no end time
		ev := sched.Events[1]
		if got, want := ev.End.Sub(ev.Start), time.Hour; got != want {
			t.Errorf("event duration = %v; want %v", got, want)
		}
		if ev.Type != calendar.TypeTraining {
			t.Errorf("event type = %q", ev.Type)
		}
		if sched.Stats.Total != 3 {
			t.Errorf("Stats.Total = %d; want 3", sched.Stats.Total)
		}
	})

	t.Run("month window with search", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, schedulePath(url.Values{"view": {"month"}, "month": {"2024-07"}, "search": {"drills"}}), coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var sched session.Schedule
		if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
			t.Fatalf("unmarshalling Schedule: %v", err)
		}
		if len(sched.Sessions) != 1 || sched.Sessions[0].ID != inWeek1.ID {
			t.Errorf("unexpected sessions in %s", rec.Body.String())
		}
	})

	t.Run("malformed token falls back to current period", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, schedulePath(url.Values{"view": {"week"}, "week": {"lol"}}), coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}

		var sched session.Schedule
		if err := json.Unmarshal(rec.Body.Bytes(), &sched); err != nil {
			t.Fatalf("unmarshalling Schedule: %v", err)
		}
		if !sched.Range.Contains(time.Now().UTC()) {
			t.Errorf("fallback range %v does not contain now", sched.Range)
		}
	})
}

func Test_attendanceApi_checkIn(t *testing.T) {
	db.Reset()

	rhinos := testutil.CreateOrg(t, orgRepo, "Rhinos FC", "rhinos")
	coach := testutil.CreateUser(t, usrRepo, rhinos.ID, "Coach Carter", "carter", "carter@rhinos.cd", "", []string{user.RoleCoach}, true)
	coachToken := getToken(t, coach)

	m1 := testutil.CreateMember(t, mbrRepo, rhinos.ID, "Junior", "Kabila", member.RolePlayer, "U15")
	m2 := testutil.CreateMember(t, mbrRepo, rhinos.ID, "Trez", "Musoni", member.RolePlayer, "U15")
	sess := testutil.CreateSession(t, sessRepo, rhinos.ID, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), "17:00", "18:30", "U15 drills")

	checkIn := func(t *testing.T, entries ...attendance.CheckIn) []attendance.Attendance {
		t.Helper()
		body := marchallObj(t, attendance.SessionCheckIn{SessionID: sess.ID, Entries: entries})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/attendance", coachToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var atts []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &atts); err != nil {
			t.Fatalf("unmarshalling attendances: %v", err)
		}
		return atts
	}

	atts := checkIn(t,
		attendance.CheckIn{MemberID: m1.ID, Status: attendance.StatusPresent},
		attendance.CheckIn{MemberID: m2.ID, Status: attendance.StatusAbsent, Notes: "sick"},
	)
	if len(atts) != 2 {
		t.Fatalf("len(atts) = %d; want 2", len(atts))
	}

	t.Run("check-in is an upsert per (session, member)", func(t *testing.T) {
		checkIn(t, attendance.CheckIn{MemberID: m2.ID, Status: attendance.StatusLate})

		req, rec := newAuthRequest(http.MethodGet, "/v1/orgs/rhinos/attendance?session_id="+sess.ID, coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got []attendance.Attendance
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling attendances: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("len(got) = %d; want 2; body %s", len(got), rec.Body.String())
		}
		statuses := map[string]string{}
		for _, a := range got {
			statuses[a.MemberID] = a.Status
		}
		if statuses[m1.ID] != attendance.StatusPresent || statuses[m2.ID] != attendance.StatusLate {
			t.Errorf("statuses = %v", statuses)
		}
	})

	t.Run("stats", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/orgs/rhinos/attendance/stats", coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var stats attendance.Stats
		if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
			t.Fatalf("unmarshalling stats: %v", err)
		}
		if stats.Total != 2 || stats.Present != 1 || stats.Late != 1 || stats.Sessions != 1 {
			t.Errorf("stats = %+v", stats)
		}
		if want := 100.0; stats.Rate != want {
			t.Errorf("Rate = %v; want %v", stats.Rate, want)
		}
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		body := marchallObj(t, attendance.SessionCheckIn{
			SessionID: sess.ID,
			Entries:   []attendance.CheckIn{{MemberID: m1.ID, Status: "awol"}},
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/attendance", coachToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}
