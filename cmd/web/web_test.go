package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

// fakeAPI stands in for cmd/api. Tokens "user-token" and "admin-token" are valid.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		switch r.URL.Path {
		case "/api/auth/user":
			switch token {
			case "user-token":
				_, _ = w.Write([]byte(`{"id":2,"username":"alice","email":"a@x.com","firstName":"Alice","lastName":null}`))
			case "admin-token":
				_, _ = w.Write([]byte(`{"id":1,"username":"Admin","email":"admin@pcbuilderguide.com"}`))
			default:
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"token is invalid or expired"}`))
			}
		case "/api/login":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["username"] == "alice" && in["password"] == "password1" {
				_, _ = w.Write([]byte(`{"message":"Login successful","token":"user-token","expiresAt":"2099-01-01T00:00:00Z","user":{"id":2,"username":"alice"}}`))
				return
			}
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid username or password"}`))
		case "/api/signup":
			var in map[string]string
			_ = json.NewDecoder(r.Body).Decode(&in)
			if in["password"] != in["confirmPassword"] {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"validation failed","fields":{"confirmPassword":"must match password"}}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"User created successfully","user":{"id":3,"username":"bob"}}`))
		case "/api/contact":
			var in struct {
				BuildPurpose []string `json:"buildPurpose"`
			}
			_ = json.NewDecoder(r.Body).Decode(&in)
			if len(in.BuildPurpose) == 0 {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"validation failed","fields":{"buildPurpose":"select at least 1"}}`))
				return
			}
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"message":"Contact message received successfully","id":9}`))
		case "/api/contact-messages":
			if token != "admin-token" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = w.Write([]byte(`{"message":"access denied. admin privileges required"}`))
				return
			}
			_, _ = w.Write([]byte(`[{"id":1,"name":"Sam","email":"s@x.com","subject":"build-review","message":"Check my <b>build</b>","buildPurpose":["gaming","streaming"],"createdAt":"2026-03-01T12:00:00Z"}]`))
		default:
			t.Errorf("unexpected API call %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestApp(t *testing.T) http.Handler {
	t.Helper()
	a, err := newApp(fakeAPI(t).URL, false)
	if err != nil {
		t.Fatalf("newApp: %v", err)
	}
	return a.routes()
}

func serve(h http.Handler, method, target, token string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.AddCookie(&http.Cookie{Name: cookieName, Value: token})
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHome_ListsBuildPath(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "GET", "/", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("GET /: got %d", rr.Code)
	}
	body := rr.Body.String()
	for _, c := range components {
		if !strings.Contains(body, `href="/`+c.Slug+`"`) {
			t.Errorf("home page missing link to %s", c.Slug)
		}
	}
	if !strings.Contains(body, "Log in") {
		t.Error("anonymous visitor should see the login link")
	}
}

func TestComponentPages(t *testing.T) {
	h := newTestApp(t)
	for _, c := range components {
		rr := serve(h, "GET", "/"+c.Slug, "", nil)
		if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), c.Title) {
			t.Errorf("GET /%s: got %d", c.Slug, rr.Code)
		}
	}

	rr := serve(h, "GET", "/cpu", "", nil)
	if !strings.Contains(rr.Body.String(), `href="/cpu-cooler"`) || !strings.Contains(rr.Body.String(), `href="/motherboard"`) {
		t.Errorf("CPU page should link its neighbours and connections")
	}

	rr = serve(h, "GET", "/flux-capacitor", "", nil)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown page: got %d, want 404", rr.Code)
	}
}

func TestLogin_SetsHttpOnlyCookie(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "POST", "/login", "", url.Values{"username": {"alice"}, "password": {"password1"}})

	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/profile" {
		t.Fatalf("login: got %d -> %q", rr.Code, rr.Header().Get("Location"))
	}
	var found *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookieName {
			found = c
		}
	}
	if found == nil || found.Value != "user-token" || !found.HttpOnly {
		t.Fatalf("unexpected cookie: %+v", found)
	}
}

func TestLogin_Failure(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "POST", "/login?next=/admin", "", url.Values{"username": {"alice"}, "password": {"wrong"}})

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("login: got %d, want 401", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "invalid username or password") {
		t.Errorf("expected error message in page")
	}
	if !strings.Contains(body, `action="/login?next=%2fadmin"`) {
		t.Errorf("next should survive a failed attempt:\n%s", body)
	}
}

func TestLogin_RejectsOffsiteNext(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "POST", "/login?next=//evil.example.com", "", url.Values{"username": {"alice"}, "password": {"password1"}})
	if loc := rr.Header().Get("Location"); loc != "/profile" {
		t.Errorf("redirect = %q, want /profile", loc)
	}
}

func TestSignup(t *testing.T) {
	h := newTestApp(t)

	rr := serve(h, "POST", "/signup", "", url.Values{
		"username": {"bob"}, "email": {"b@x.com"}, "password": {"password1"}, "confirmPassword": {"password2"},
	})
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("mismatched signup: got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "must match password") || strings.Contains(body, "password1") {
		t.Errorf("expected field error without echoed password:\n%s", body)
	}

	rr = serve(h, "POST", "/signup", "", url.Values{
		"username": {"bob"}, "email": {"b@x.com"}, "password": {"password1"}, "confirmPassword": {"password1"},
	})
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/login?registered=1" {
		t.Errorf("signup: got %d -> %q", rr.Code, rr.Header().Get("Location"))
	}
}

func TestContact(t *testing.T) {
	h := newTestApp(t)
	form := url.Values{
		"name": {"Sam"}, "email": {"s@x.com"}, "subject": {"compatibility"},
		"message": {"Does this cooler fit?"},
	}

	rr := serve(h, "POST", "/contact", "", form)
	if rr.Code != http.StatusBadRequest || !strings.Contains(rr.Body.String(), "select at least 1") {
		t.Fatalf("missing purpose: got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "Does this cooler fit?") {
		t.Error("form values should be kept after a validation error")
	}

	form["buildPurpose"] = []string{"gaming", "work"}
	rr = serve(h, "POST", "/contact", "", form)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "Your message has been sent") {
		t.Errorf("contact: got %d", rr.Code)
	}
}

func TestProfile(t *testing.T) {
	h := newTestApp(t)

	rr := serve(h, "GET", "/profile", "", nil)
	if rr.Code != http.StatusFound || !strings.HasPrefix(rr.Header().Get("Location"), "/login?next=") {
		t.Fatalf("anonymous profile: got %d -> %q", rr.Code, rr.Header().Get("Location"))
	}

	rr = serve(h, "GET", "/profile", "user-token", nil)
	if rr.Code != http.StatusOK || !strings.Contains(rr.Body.String(), "a@x.com") {
		t.Errorf("profile: got %d", rr.Code)
	}
}

func TestExpiredCookieIsCleared(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "GET", "/", "stale-token", nil)

	if rr.Code != http.StatusOK {
		t.Fatalf("GET /: got %d", rr.Code)
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("rejected token cookie should be cleared")
	}
}

func TestAdmin(t *testing.T) {
	h := newTestApp(t)

	rr := serve(h, "GET", "/admin", "user-token", nil)
	if rr.Code != http.StatusForbidden {
		t.Errorf("non-admin: got %d, want 403", rr.Code)
	}

	rr = serve(h, "GET", "/admin", "admin-token", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin: got %d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "gaming, streaming") || !strings.Contains(body, "Check my &lt;b&gt;build&lt;/b&gt;") {
		t.Errorf("admin table missing or unescaped:\n%s", body)
	}
}

func TestLogout_ClearsCookie(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "POST", "/logout", "user-token", url.Values{})
	if rr.Code != http.StatusFound || rr.Header().Get("Location") != "/" {
		t.Fatalf("logout: got %d -> %q", rr.Code, rr.Header().Get("Location"))
	}
	cleared := false
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("logout should clear the token cookie")
	}
}

func TestLogout_RequiresPost(t *testing.T) {
	h := newTestApp(t)
	rr := serve(h, "GET", "/logout", "user-token", nil)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("GET /logout: got %d, want 405", rr.Code)
	}
	for _, c := range rr.Result().Cookies() {
		if c.Name == cookieName && c.MaxAge < 0 {
			t.Errorf("GET /logout must not clear the cookie")
		}
	}

	rr = serve(h, "GET", "/", "user-token", nil)
	if !strings.Contains(rr.Body.String(), `<form method="post" action="/logout"`) {
		t.Error("layout should log out through a POST form")
	}
}

func TestLogout_RejectsCrossSiteOrigin(t *testing.T) {
	h := newTestApp(t)
	req := httptest.NewRequest("POST", "/logout", strings.NewReader(""))
	req.Header.Set("Origin", "https://evil.example.com")
	req.AddCookie(&http.Cookie{Name: cookieName, Value: "user-token"})
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("cross-site logout: got %d, want 403", rr.Code)
	}
}
