package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/michezo/core/group"
	"github.com/trezcool/michezo/core/member"
	"github.com/trezcool/michezo/core/user"
	testutil "github.com/trezcool/michezo/tests"
)

func Test_memberApi_crud(t *testing.T) {
	db.Reset()

	rhinos := testutil.CreateOrg(t, orgRepo, "Rhinos FC", "rhinos")
	lions := testutil.CreateOrg(t, orgRepo, "Lions FC", "lions")
	staff := testutil.CreateUser(t, usrRepo, rhinos.ID, "Rhinos Staff", "rhstaff", "staff@rhinos.cd", "", []string{user.RoleStaff}, true)
	rival := testutil.CreateUser(t, usrRepo, lions.ID, "Lions Staff", "listaff", "staff@lions.cd", "", []string{user.RoleStaff}, true)

	staffToken := getToken(t, staff)
	rivalToken := getToken(t, rival)

	junior := testutil.CreateMember(t, mbrRepo, rhinos.ID, "Junior", "Kabila", member.RolePlayer, "U15")
	trez := testutil.CreateMember(t, mbrRepo, rhinos.ID, "Trez", "Musoni", member.RoleCoach, "")
	testutil.CreateMember(t, mbrRepo, lions.ID, "Simba", "Kimbangu", member.RolePlayer, "U17")

	tests := []httpTest{
		{
			name: "Auth required", method: http.MethodGet, path: "/v1/orgs/rhinos/members",
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, errMissingToken),
		},
		{
			name: "Other org's members are off limits", method: http.MethodGet, path: "/v1/orgs/lions/members", token: staffToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "Get all", method: http.MethodGet, path: "/v1/orgs/rhinos/members", token: staffToken,
			wantCode: http.StatusOK, wantData: marchallList(t, junior, trez),
		},
		{
			name: "Search by name", method: http.MethodGet, path: "/v1/orgs/rhinos/members?search=kabila", token: staffToken,
			wantCode: http.StatusOK, wantData: marchallList(t, junior),
		},
		{
			name: "Filter by role", method: http.MethodGet, path: "/v1/orgs/rhinos/members?role=coach", token: staffToken,
			wantCode: http.StatusOK, wantData: marchallList(t, trez),
		},
		{
			name: "Filter by category", method: http.MethodGet, path: "/v1/orgs/rhinos/members?category=U15", token: staffToken,
			wantCode: http.StatusOK, wantData: marchallList(t, junior),
		},
		{
			name: "Retrieve", method: http.MethodGet, path: "/v1/orgs/rhinos/members/" + junior.ID, token: staffToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, junior),
		},
		{
			name: "Retrieve from the wrong org 404s", method: http.MethodGet, path: "/v1/orgs/lions/members/" + junior.ID, token: rivalToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "Create requires a role", method: http.MethodPost, path: "/v1/orgs/rhinos/members", token: staffToken,
			body:     marchallObj(t, member.NewMember{FirstName: "No", LastName: "Role"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, map[string]string{"role": "this field is required"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("Create, update and delete", func(t *testing.T) {
		body := marchallObj(t, member.NewMember{
			FirstName: "Patrice", LastName: "Lumu", Role: member.RolePlayer, Category: "U17", BloodType: "O+",
		})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/members", staffToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var mbr member.SportsMember
		if err := json.Unmarshal(rec.Body.Bytes(), &mbr); err != nil {
			t.Fatalf("unmarshalling member: %v", err)
		}
		if mbr.OrgID != rhinos.ID || mbr.FullName() != "Patrice Lumu" {
			t.Errorf("member = %+v", mbr)
		}

		body = marchallObj(t, member.UpdateMember{LastName: "Lumumba"})
		req, rec = newAuthRequest(http.MethodPut, "/v1/orgs/rhinos/members/"+mbr.ID, staffToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &mbr); err != nil {
			t.Fatalf("unmarshalling member: %v", err)
		}
		if mbr.LastName != "Lumumba" || mbr.FirstName != "Patrice" {
			t.Errorf("member = %+v", mbr)
		}

		req, rec = newAuthRequest(http.MethodDelete, "/v1/orgs/rhinos/members/"+mbr.ID, staffToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		req, rec = newAuthRequest(http.MethodGet, "/v1/orgs/rhinos/members/"+mbr.ID, staffToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound)}, rec)
	})
}

func Test_groupApi_roster(t *testing.T) {
	db.Reset()

	rhinos := testutil.CreateOrg(t, orgRepo, "Rhinos FC", "rhinos")
	coach := testutil.CreateUser(t, usrRepo, rhinos.ID, "Coach Carter", "carter", "carter@rhinos.cd", "", []string{user.RoleCoach}, true)
	coachToken := getToken(t, coach)

	junior := testutil.CreateMember(t, mbrRepo, rhinos.ID, "Junior", "Kabila", member.RolePlayer, "U15")
	trez := testutil.CreateMember(t, mbrRepo, rhinos.ID, "Trez", "Musoni", member.RolePlayer, "U15")
	u15 := testutil.CreateGroup(t, grpRepo, rhinos.ID, "U15 Eagles", "U15")

	t.Run("duplicate group names are rejected", func(t *testing.T) {
		body := marchallObj(t, group.NewGroup{Name: "U15 Eagles"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/groups", coachToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"name": "a group with this name already exists"}),
		}, rec)
	})

	addMember := func(t *testing.T, memberID string) {
		t.Helper()
		body := marchallObj(t, map[string]string{"member_id": memberID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/groups/"+u15.ID+"/members", coachToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	}
	rosterIDs := func(t *testing.T) []string {
		t.Helper()
		req, rec := newAuthRequest(http.MethodGet, "/v1/orgs/rhinos/groups/"+u15.ID+"/members", coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var gms []group.GroupMember
		if err := json.Unmarshal(rec.Body.Bytes(), &gms); err != nil {
			t.Fatalf("unmarshalling roster: %v", err)
		}
		ids := make([]string, len(gms))
		for i, gm := range gms {
			if gm.GroupID != u15.ID {
				t.Errorf("GroupID = %v; want %v", gm.GroupID, u15.ID)
			}
			ids[i] = gm.MemberID
		}
		return ids
	}

	t.Run("roster add, list and remove", func(t *testing.T) {
		addMember(t, junior.ID)
		addMember(t, trez.ID)
		assert.ElementsMatch(t, []string{junior.ID, trez.ID}, rosterIDs(t))

		// re-adding an existing roster member is rejected
		body := marchallObj(t, map[string]string{"member_id": trez.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/groups/"+u15.ID+"/members", coachToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"member_id": "member is already in this group"}),
		}, rec)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/orgs/rhinos/groups/"+u15.ID+"/members/"+junior.ID, coachToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		assert.ElementsMatch(t, []string{trez.ID}, rosterIDs(t))
	})

	t.Run("members from another org cannot join", func(t *testing.T) {
		lions := testutil.CreateOrg(t, orgRepo, "Lions FC", "lions")
		simba := testutil.CreateMember(t, mbrRepo, lions.ID, "Simba", "Kimbangu", member.RolePlayer, "U17")

		body := marchallObj(t, map[string]string{"member_id": simba.ID})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs/rhinos/groups/"+u15.ID+"/members", coachToken, body)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{
			wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, map[string]string{"member_id": "member not found"}),
		}, rec)
	})
}
