package main

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/pcbuilderguide/pcbg/internal/models"
)

//go:embed templates
var templatesFS embed.FS

type app struct {
	api           *apiClient
	pages         map[string]*template.Template
	secureCookies bool
}

type sessionUser struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (u *sessionUser) IsAdmin() bool {
	return u != nil && models.IsAdmin(u.Username)
}

type session struct {
	Token string
	User  *sessionUser
}

type sessionKey struct{}

// pageData is what every template receives. Data carries the page-specific part.
type pageData struct {
	Title  string
	User   *sessionUser
	Error  string
	Notice string
	Fields map[string]string
	Form   url.Values
	Data   interface{}
}

func newApp(apiBase string, secureCookies bool) (*app, error) {
	funcs := template.FuncMap{
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
		"join":     strings.Join,
		"contains": slices.Contains[[]string],
		"date":     func(t time.Time) string { return t.Local().Format("02 Jan 2006 15:04") },
		"componentTitle": func(slug string) string {
			c, _ := componentBySlug(slug)
			return c.Title
		},
	}

	names, err := fs.Glob(templatesFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	pages := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := path.Base(name)
		if base == "layout.html" {
			continue
		}
		t, err := template.New(base).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", name)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", base, err)
		}
		pages[base] = t
	}

	return &app{api: newAPIClient(apiBase), pages: pages, secureCookies: secureCookies}, nil
}

func (a *app) render(w http.ResponseWriter, r *http.Request, status int, name string, data pageData) {
	t, ok := a.pages[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return
	}
	if s := currentSession(r); s != nil {
		data.User = s.User
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		slog.ErrorContext(r.Context(), "template execute", "template", name, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// ==========================
// Session
// ==========================

// loadUser resolves the token cookie to a user once per request. Tokens the API
// rejects are dropped so the visitor is simply logged out.
func (a *app) loadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c, err := r.Cookie(cookieName)
		if err != nil || c.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		data, status, err := a.api.do("GET", "/api/auth/user", c.Value, nil)
		switch {
		case err != nil:
			slog.WarnContext(r.Context(), "resolve session", "error", err)
		case status == http.StatusOK:
			var u sessionUser
			if err := json.Unmarshal(data, &u); err == nil {
				r = r.WithContext(context.WithValue(r.Context(), sessionKey{}, &session{Token: c.Value, User: &u}))
			}
		case status == http.StatusUnauthorized || status == http.StatusForbidden || status == http.StatusNotFound:
			a.clearCookie(w)
		}
		next.ServeHTTP(w, r)
	})
}

func currentSession(r *http.Request) *session {
	s, _ := r.Context().Value(sessionKey{}).(*session)
	return s
}

func (a *app) setCookie(w http.ResponseWriter, token string, expires time.Time) {
	maxAge := int(time.Until(expires).Seconds())
	if maxAge <= 0 {
		maxAge = 24 * 3600
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   a.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *app) clearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: cookieName, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
}

func redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login?next="+url.QueryEscape(r.URL.Path), http.StatusFound)
}

// safeNext only allows local paths so the login form cannot be used as an open redirect.
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, "/\\") {
		return ""
	}
	return next
}

// sameOrigin accepts requests whose Origin header, when sent, names this host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	return err == nil && u.Host == r.Host
}

// ==========================
// Guide pages
// ==========================

func (a *app) home(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusOK, "home.html", pageData{Title: "Build your PC", Data: components})
}

func (a *app) componentPage(c component) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		prev, next := neighbours(c.Slug)
		a.render(w, r, http.StatusOK, "component.html", pageData{
			Title: c.Title,
			Data: struct {
				Component  component
				Prev, Next *component
			}{c, prev, next},
		})
	}
}

func (a *app) notFound(w http.ResponseWriter, r *http.Request) {
	a.render(w, r, http.StatusNotFound, "notfound.html", pageData{Title: "Page not found"})
}

// ==========================
// Contact
// ==========================

type contactOptions struct {
	Subjects []string
	Purposes []string
}

func (a *app) contactForm(w http.ResponseWriter, r *http.Request) {
	form := url.Values{}
	if s := currentSession(r); s != nil {
		form.Set("email", s.User.Email)
	}
	a.render(w, r, http.StatusOK, "contact.html", pageData{
		Title: "Contact us",
		Form:  form,
		Data:  contactOptions{models.ContactSubjects, models.BuildPurposes},
	})
}

func (a *app) contactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	page := pageData{
		Title: "Contact us",
		Form:  r.PostForm,
		Data:  contactOptions{models.ContactSubjects, models.BuildPurposes},
	}

	purposes := r.PostForm["buildPurpose"]
	if purposes == nil {
		purposes = []string{}
	}
	data, status, err := a.api.do("POST", "/api/contact", "", map[string]interface{}{
		"name":         strings.TrimSpace(r.PostFormValue("name")),
		"email":        strings.TrimSpace(r.PostFormValue("email")),
		"subject":      r.PostFormValue("subject"),
		"message":      strings.TrimSpace(r.PostFormValue("message")),
		"buildPurpose": purposes,
	})
	if err != nil {
		page.Error = "Cannot reach API: " + err.Error()
		a.render(w, r, http.StatusBadGateway, "contact.html", page)
		return
	}
	if status != http.StatusCreated {
		page.Error, page.Fields = apiError(data)
		a.render(w, r, status, "contact.html", page)
		return
	}

	page.Form = url.Values{}
	page.Notice = "Thanks! Your message has been sent. We will get back to you by email."
	a.render(w, r, http.StatusOK, "contact.html", page)
}

// ==========================
// Accounts
// ==========================

func (a *app) signupForm(w http.ResponseWriter, r *http.Request) {
	if currentSession(r) != nil {
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}
	a.render(w, r, http.StatusOK, "signup.html", pageData{Title: "Create an account"})
}

func (a *app) signupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	payload := map[string]string{}
	for _, k := range []string{"username", "email", "firstName", "lastName", "password", "confirmPassword"} {
		payload[k] = r.PostFormValue(k)
	}
	payload["username"] = strings.TrimSpace(payload["username"])
	payload["email"] = strings.TrimSpace(payload["email"])

	data, status, err := a.api.do("POST", "/api/signup", "", payload)
	if err != nil || status != http.StatusCreated {
		// Never echo passwords back into the form.
		form := url.Values{}
		for _, k := range []string{"username", "email", "firstName", "lastName"} {
			form.Set(k, payload[k])
		}
		page := pageData{Title: "Create an account", Form: form}
		if err != nil {
			page.Error = "Cannot reach API: " + err.Error()
			status = http.StatusBadGateway
		} else {
			page.Error, page.Fields = apiError(data)
		}
		a.render(w, r, status, "signup.html", page)
		return
	}

	http.Redirect(w, r, "/login?registered=1", http.StatusFound)
}

func (a *app) loginForm(w http.ResponseWriter, r *http.Request) {
	if currentSession(r) != nil {
		http.Redirect(w, r, "/profile", http.StatusFound)
		return
	}
	page := pageData{Title: "Log in", Data: safeNext(r.URL.Query().Get("next"))}
	if r.URL.Query().Get("registered") != "" {
		page.Notice = "Account created. You can log in now."
	}
	a.render(w, r, http.StatusOK, "login.html", page)
}

func (a *app) loginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	next := safeNext(r.URL.Query().Get("next"))
	page := pageData{Title: "Log in", Form: url.Values{"username": {username}}, Data: next}

	data, status, err := a.api.do("POST", "/api/login", "", map[string]string{
		"username": username,
		"password": r.PostFormValue("password"),
	})
	if err != nil {
		page.Error = "Cannot reach API: " + err.Error()
		a.render(w, r, http.StatusBadGateway, "login.html", page)
		return
	}
	if status != http.StatusOK {
		page.Error, page.Fields = apiError(data)
		a.render(w, r, status, "login.html", page)
		return
	}

	var out struct {
		Token     string      `json:"token"`
		ExpiresAt time.Time   `json:"expiresAt"`
		User      sessionUser `json:"user"`
	}
	if err := json.Unmarshal(data, &out); err != nil || out.Token == "" {
		page.Error = "Invalid login response"
		a.render(w, r, http.StatusBadGateway, "login.html", page)
		return
	}

	a.setCookie(w, out.Token, out.ExpiresAt)
	if next == "" {
		next = "/profile"
		if out.User.IsAdmin() {
			next = "/admin"
		}
	}
	http.Redirect(w, r, next, http.StatusFound)
}

// logout is POST only, and refuses cross-site form posts.
func (a *app) logout(w http.ResponseWriter, r *http.Request) {
	if !sameOrigin(r) {
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	a.clearCookie(w)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (a *app) profile(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	if s == nil {
		redirectToLogin(w, r)
		return
	}
	a.render(w, r, http.StatusOK, "profile.html", pageData{Title: "Your profile"})
}

// ==========================
// Admin
// ==========================

func (a *app) admin(w http.ResponseWriter, r *http.Request) {
	s := currentSession(r)
	if s == nil {
		redirectToLogin(w, r)
		return
	}
	page := pageData{Title: "Admin dashboard"}
	if !s.User.IsAdmin() {
		page.Error = "Admin access required."
		a.render(w, r, http.StatusForbidden, "admin.html", page)
		return
	}

	data, status, err := a.api.do("GET", "/api/contact-messages", s.Token, nil)
	if err != nil {
		page.Error = "Cannot reach API: " + err.Error()
		a.render(w, r, http.StatusBadGateway, "admin.html", page)
		return
	}
	if status != http.StatusOK {
		page.Error, _ = apiError(data)
		a.render(w, r, status, "admin.html", page)
		return
	}

	var msgs []models.ContactMessage
	if err := json.Unmarshal(data, &msgs); err != nil {
		page.Error = "Invalid messages response"
		a.render(w, r, http.StatusBadGateway, "admin.html", page)
		return
	}
	page.Data = msgs
	a.render(w, r, http.StatusOK, "admin.html", page)
}
