package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"

	"ward/cmd/identity"
	"ward/cmd/internal/auth/session"
	"ward/cmd/security/password"
)

func newTestServer(t *testing.T) (*httptest.Server, *identity.MemoryStore) {
	t.Helper()

	identities := identity.NewMemoryStore()
	bindings := session.NewMemoryStore()

	h, err := NewHandler(nil, LoadConfigFromEnv(), password.DefaultConfig(),
		session.DefaultConfig(), identities, bindings)
	if err != nil {
		t.Fatalf("NewHandler error: %v", err)
	}

	mux := http.NewServeMux()
	h.Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, identities
}

func postJSON(t *testing.T, client *http.Client, url, body string) *http.Response {
	t.Helper()

	resp, err := client.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s error: %v", url, err)
	}
	return resp
}

func newCookieClient(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookie jar error: %v", err)
	}
	return &http.Client{Jar: jar}
}

func TestRegisterLoginMeLogout(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newCookieClient(t)

	// Register.
	resp := postJSON(t, client, srv.URL+"/register", `{"username":"alice","password":"correct-horse"}`)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register status = %d, want 201", resp.StatusCode)
	}
	var created struct {
		ID       string `json:"id"`
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		t.Fatalf("decode register response: %v", err)
	}
	resp.Body.Close()
	if created.Username != "alice" || created.ID == "" {
		t.Fatalf("unexpected register response: %+v", created)
	}

	// Login sets a session cookie.
	resp = postJSON(t, client, srv.URL+"/login", `{"username":"alice","password":"correct-horse"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("login status = %d, want 204", resp.StatusCode)
	}
	var sessionCookie *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == "ward_session" {
			sessionCookie = c
		}
	}
	if sessionCookie == nil || sessionCookie.Value == "" {
		t.Fatalf("login did not set a session cookie")
	}
	if !sessionCookie.HttpOnly {
		t.Fatalf("session cookie must be HttpOnly")
	}

	// Whoami resolves the principal.
	resp, err := client.Get(srv.URL + "/me")
	if err != nil {
		t.Fatalf("GET /me error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me status = %d, want 200", resp.StatusCode)
	}
	var me struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me response: %v", err)
	}
	resp.Body.Close()
	if me.Username != "alice" {
		t.Fatalf("me.username = %q, want alice", me.Username)
	}

	// Logout, then the session no longer resolves.
	resp = postJSON(t, client, srv.URL+"/logout", ``)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("logout status = %d, want 204", resp.StatusCode)
	}

	resp, err = client.Get(srv.URL + "/me")
	if err != nil {
		t.Fatalf("GET /me error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me-after-logout status = %d, want 401", resp.StatusCode)
	}

	// Logging out again is still a 204 (unbind is idempotent).
	resp = postJSON(t, client, srv.URL+"/logout", ``)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("second logout status = %d, want 204", resp.StatusCode)
	}
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newCookieClient(t)

	resp := postJSON(t, client, srv.URL+"/register", `{"username":"alice","password":"correct-horse"}`)
	resp.Body.Close()

	readFailure := func(body string) (int, string, []*http.Cookie) {
		resp := postJSON(t, client, srv.URL+"/login", body)
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		return resp.StatusCode, string(b), resp.Cookies()
	}

	wrongPwStatus, wrongPwBody, wrongPwCookies := readFailure(`{"username":"alice","password":"wrong"}`)
	noUserStatus, noUserBody, noUserCookies := readFailure(`{"username":"nonexistent_user","password":"anything"}`)

	if wrongPwStatus != http.StatusUnauthorized || noUserStatus != http.StatusUnauthorized {
		t.Fatalf("statuses = %d/%d, want 401/401", wrongPwStatus, noUserStatus)
	}
	// Byte-identical failure payloads: no username enumeration oracle.
	if wrongPwBody != noUserBody {
		t.Fatalf("failure bodies differ:\n%q\n%q", wrongPwBody, noUserBody)
	}
	if len(wrongPwCookies) != 0 || len(noUserCookies) != 0 {
		t.Fatalf("failed login must not set cookies")
	}

	// And no session was created: /me stays unauthenticated.
	resp, err := client.Get(srv.URL + "/me")
	if err != nil {
		t.Fatalf("GET /me error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me status = %d, want 401", resp.StatusCode)
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	srv, identities := newTestServer(t)
	client := newCookieClient(t)

	resp := postJSON(t, client, srv.URL+"/register", `{"username":"alice","password":"correct-horse"}`)
	resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("first register status = %d, want 201", resp.StatusCode)
	}

	rec, err := identities.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}

	resp = postJSON(t, client, srv.URL+"/register", `{"username":"alice","password":"other-pass"}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("second register status = %d, want 409", resp.StatusCode)
	}
	var errResp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "duplicate_username" {
		t.Fatalf("error code = %q, want duplicate_username", errResp.Error.Code)
	}

	// The first record is unaffected.
	again, err := identities.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if again.Hash != rec.Hash || again.Salt != rec.Salt {
		t.Fatalf("stored record changed after failed duplicate registration")
	}
}

func TestMe_AfterAccountDeletion(t *testing.T) {
	srv, identities := newTestServer(t)
	client := newCookieClient(t)

	resp := postJSON(t, client, srv.URL+"/register", `{"username":"alice","password":"correct-horse"}`)
	resp.Body.Close()
	resp = postJSON(t, client, srv.URL+"/login", `{"username":"alice","password":"correct-horse"}`)
	resp.Body.Close()

	rec, err := identities.FindByUsername(context.Background(), "alice")
	if err != nil {
		t.Fatalf("FindByUsername error: %v", err)
	}
	if err := identities.DeleteByID(context.Background(), rec.ID); err != nil {
		t.Fatalf("DeleteByID error: %v", err)
	}

	// The still-valid cookie now resolves to nothing: account deletion is
	// effective on the next request without a session sweep.
	resp, err = client.Get(srv.URL + "/me")
	if err != nil {
		t.Fatalf("GET /me error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("me status = %d, want 401 after deletion", resp.StatusCode)
	}
}

func TestRegister_BadInput(t *testing.T) {
	srv, _ := newTestServer(t)
	client := newCookieClient(t)

	cases := []struct {
		name string
		body string
	}{
		{"empty username", `{"username":"  ","password":"correct-horse"}`},
		{"short password", `{"username":"alice","password":"x"}`},
		{"unknown field", `{"username":"alice","password":"correct-horse","admin":true}`},
		{"not json", `not json`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := postJSON(t, client, srv.URL+"/register", tc.body)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", resp.StatusCode)
			}
		})
	}
}
