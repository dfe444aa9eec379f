package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/trezcool/michezo/core/org"
	"github.com/trezcool/michezo/core/user"
	testutil "github.com/trezcool/michezo/tests"
)

func Test_orgApi_crud(t *testing.T) {
	db.Reset()

	platformAdmin := testutil.CreateUser(t, usrRepo, "", "Root", "rooter", "root@test.cd", "", []string{user.RoleAdminOwner}, true)
	rhinos := testutil.CreateOrg(t, orgRepo, "Rhinos FC", "rhinos")
	lions := testutil.CreateOrg(t, orgRepo, "Lions FC", "lions")
	rhinosAdmin := testutil.CreateUser(t, usrRepo, rhinos.ID, "Rhino Boss", "rhinoboss", "boss@rhinos.cd", "", []string{user.RoleAdmin}, true)
	rhinosStaff := testutil.CreateUser(t, usrRepo, rhinos.ID, "Rhino Clerk", "rhinoclerk", "clerk@rhinos.cd", "", []string{user.RoleStaff}, true)

	rootToken := getToken(t, platformAdmin)
	bossToken := getToken(t, rhinosAdmin)
	clerkToken := getToken(t, rhinosStaff)

	tests := []httpTest{
		{name: "Auth required", method: http.MethodGet, path: "/v1/orgs", wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", method: http.MethodGet, path: "/v1/orgs", token: clerkToken,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "platform admin sees all orgs", method: http.MethodGet, path: "/v1/orgs", token: rootToken,
			wantCode: http.StatusOK, wantData: marchallList(t, rhinos, lions),
		},
		{
			name: "org admin only sees their org", method: http.MethodGet, path: "/v1/orgs", token: bossToken,
			wantCode: http.StatusOK, wantData: marchallList(t, rhinos),
		},
		{
			name: "org admin cannot reach other orgs", method: http.MethodGet, path: "/v1/orgs/lions", token: bossToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
		{
			name: "org admin cannot create orgs", method: http.MethodPost, path: "/v1/orgs", token: bossToken,
			body:     marchallObj(t, org.NewOrganization{Name: "Sharks FC", Slug: "sharks"}),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden),
		},
		{
			name: "retrieve by slug", method: http.MethodGet, path: "/v1/orgs/rhinos", token: rootToken,
			wantCode: http.StatusOK, wantData: marchallObj(t, rhinos),
		},
		{
			name: "unknown slug", method: http.MethodGet, path: "/v1/orgs/unicorns", token: rootToken,
			wantCode: http.StatusNotFound, wantData: marchallObj(t, errNotFound),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}

	t.Run("platform admin creates an org", func(t *testing.T) {
		body := marchallObj(t, org.NewOrganization{Name: "Sharks FC", Slug: "sharks"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs", rootToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusCreated {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got org.Organization
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling Organization: %v", err)
		}
		if got.ID == "" || got.Slug != "sharks" {
			t.Errorf("got %+v", got)
		}
	})

	t.Run("duplicate slug is rejected", func(t *testing.T) {
		body := marchallObj(t, org.NewOrganization{Name: "Rhinos Copy", Slug: "rhinos"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/orgs", rootToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("org admin updates their org", func(t *testing.T) {
		body := marchallObj(t, map[string]string{"name": "Mighty Rhinos FC"})
		req, rec := newAuthRequest(http.MethodPut, "/v1/orgs/rhinos", bossToken, body)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
		var got org.Organization
		if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
			t.Fatalf("unmarshalling Organization: %v", err)
		}
		if got.Name != "Mighty Rhinos FC" {
			t.Errorf("Name = %q", got.Name)
		}
	})

	t.Run("org admin cannot delete their org", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/orgs/rhinos", bossToken)
		app.ServeHTTP(rec, req)
		checkCodeAndData(t, httpTest{wantCode: http.StatusForbidden, wantData: marchallObj(t, errForbidden)}, rec)
	})

	t.Run("platform admin deletes an org", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/orgs/lions", rootToken)
		app.ServeHTTP(rec, req)
		if rec.Code != http.StatusNoContent {
			t.Fatalf("code = %v; body %s", rec.Code, rec.Body.String())
		}
	})
}
