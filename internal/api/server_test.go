package api

import (
	"net/http"
	"testing"
)

var protectedRoutes = []struct{ method, path string }{
	{http.MethodPost, "/api/v1/assets"},
	{http.MethodPut, "/api/v1/assets/a1"},
	{http.MethodDelete, "/api/v1/assets/a1"},
	{http.MethodPost, "/api/v1/expenses"},
	{http.MethodDelete, "/api/v1/expenses/e1"},
	{http.MethodPost, "/api/v1/import"},
	{http.MethodPost, "/api/v1/password/restore"},
}

func TestReadRoutesStayOpenWithAPIKey(t *testing.T) {
	srv, _ := newTestServer(t, seeded(), "secret")

	paths := []string{
		"/api/v1/assets",
		"/api/v1/assets/a1",
		"/api/v1/expenses",
		"/api/v1/allocation",
		"/api/v1/months",
		"/api/v1/taxonomy",
	}
	for _, path := range paths {
		if resp := do(t, http.MethodGet, srv.URL+path, ""); resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200 without a token", path, resp.StatusCode)
		}
	}
}

func TestMutationsRejectMissingToken(t *testing.T) {
	srv, svc := newTestServer(t, seeded(), "secret")

	for _, rt := range protectedRoutes {
		resp := do(t, rt.method, srv.URL+rt.path, "{}")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("%s %s status = %d, want 401", rt.method, rt.path, resp.StatusCode)
		}
		if got := resp.Header.Get("WWW-Authenticate"); got == "" {
			t.Errorf("%s %s has no WWW-Authenticate header", rt.method, rt.path)
		}
	}
	if len(svc.Assets()) != 3 || len(svc.Expenses()) != 1 {
		t.Errorf("records changed without a token: %d assets, %d expenses", len(svc.Assets()), len(svc.Expenses()))
	}
}

func TestMutationsRejectBadAuthorization(t *testing.T) {
	srv, svc := newTestServer(t, seeded(), "secret")

	tests := []struct {
		name   string
		header string
	}{
		{"wrong token", "Bearer wrong"},
		{"missing scheme", "secret"},
		{"basic scheme", "Basic secret"},
		{"lowercase scheme", "bearer secret"},
		{"empty token", "Bearer "},
		{"token with suffix", "Bearer secret2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, http.MethodDelete, srv.URL+"/api/v1/assets/a1", "", "Authorization", tt.header)
			if resp.StatusCode != http.StatusUnauthorized {
				t.Errorf("status = %d, want 401", resp.StatusCode)
			}
		})
	}
	if _, err := svc.Get("a1"); err != nil {
		t.Errorf("a1 was deleted with a bad token: %v", err)
	}
}

func TestMutationsAcceptBearerToken(t *testing.T) {
	srv, svc := newTestServer(t, seeded(), "secret")
	auth := []string{"Authorization", "Bearer secret"}

	body := `{"date":"2024-05-10","category":"cash","subcategory":"bank_ordinary","amount":1000}`
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/assets", body, auth...); resp.StatusCode != http.StatusCreated {
		t.Errorf("create status = %d, want 201", resp.StatusCode)
	}
	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/assets/a1", "", auth...); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete status = %d, want 204", resp.StatusCode)
	}
	if n := len(svc.Assets()); n != 3 {
		t.Errorf("got %d assets, want 3", n)
	}
}

func TestNoAPIKeyLeavesMutationsOpen(t *testing.T) {
	srv, svc := newTestServer(t, seeded(), "")

	body := `{"date":"2024-05-10","category":"cash","subcategory":"bank_ordinary","amount":1000}`
	if resp := do(t, http.MethodPost, srv.URL+"/api/v1/assets", body); resp.StatusCode != http.StatusCreated {
		t.Errorf("create status = %d, want 201", resp.StatusCode)
	}
	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/expenses/e1", ""); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete expense status = %d, want 204", resp.StatusCode)
	}
	if resp := do(t, http.MethodDelete, srv.URL+"/api/v1/assets/a1", "", "Authorization", "Bearer anything"); resp.StatusCode != http.StatusNoContent {
		t.Errorf("delete with a stray token status = %d, want 204", resp.StatusCode)
	}
	if len(svc.Assets()) != 3 || len(svc.Expenses()) != 0 {
		t.Errorf("got %d assets, %d expenses", len(svc.Assets()), len(svc.Expenses()))
	}
}
