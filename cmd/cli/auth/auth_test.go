package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pcbuilderguide/pcbg/cmd/cli/config"
	"github.com/spf13/cobra"
)

func setupEnv(t *testing.T, handler http.HandlerFunc) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	t.Setenv("PCBG_API_URL", srv.URL)
	t.Setenv("PCBG_TOKEN_FILE", filepath.Join(t.TempDir(), "token"))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := &cobra.Command{Use: "pcbg", SilenceUsage: true, SilenceErrors: true}
	InitAuth(root)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetErr(&buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestLogin_SavesToken(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/login" || r.Method != http.MethodPost {
			t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["username"] != "alice" || body["password"] != "password1" {
			t.Fatalf("unexpected body: %v", body)
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"message":   "Login successful",
			"token":     "tok-123",
			"expiresAt": "2030-01-01T00:00:00Z",
		})
	})

	out, err := execute(t, "login", "--username", "alice", "--password", "password1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Login successful") {
		t.Errorf("unexpected output: %s", out)
	}
	token, err := config.LoadToken()
	if err != nil || token != "tok-123" {
		t.Errorf("stored token = %q, %v", token, err)
	}
	info, err := os.Stat(config.TokenPath())
	if err != nil {
		t.Fatalf("stat token file: %v", err)
	}
	if info.Mode().Perm() != 0o600 {
		t.Errorf("token file mode = %v, want 0600", info.Mode().Perm())
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"invalid username or password"}`))
	})

	_, err := execute(t, "login", "--username", "alice", "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid username or password") {
		t.Fatalf("expected credentials error, got %v", err)
	}
	if _, err := config.LoadToken(); err == nil {
		t.Error("no token should be stored after a failed login")
	}
}

func TestSignup_SendsConfirmPassword(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["confirmPassword"] != body["password"] || body["email"] != "a@x.com" {
			t.Fatalf("unexpected body: %v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"User created successfully","user":{"id":7,"username":"alice"}}`))
	})

	out, err := execute(t, "signup", "--username", "alice", "--email", "a@x.com", "--password", "password1")
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if !strings.Contains(out, "id 7") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestSignup_ShowsFieldErrors(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"validation failed","fields":{"email":"must be a valid email address"}}`))
	})

	_, err := execute(t, "signup", "--username", "alice", "--email", "bad", "--password", "password1")
	if err == nil || !strings.Contains(err.Error(), "must be a valid email address") {
		t.Fatalf("expected field error, got %v", err)
	}
}

func TestWhoami(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/auth/user" {
			if r.Header.Get("Authorization") != "Bearer tok-abc" {
				w.WriteHeader(http.StatusForbidden)
				return
			}
			_, _ = w.Write([]byte(`{"id":3,"username":"alice","email":"a@x.com","firstName":"Alice","lastName":"Smith"}`))
		}
	})
	if err := config.SaveToken("tok-abc"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	out, err := execute(t, "whoami")
	if err != nil {
		t.Fatalf("whoami: %v", err)
	}
	if !strings.Contains(out, "alice (id 3)") || !strings.Contains(out, "Alice Smith") {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestWhoami_NotLoggedIn(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := execute(t, "whoami")
	if err == nil || !strings.Contains(err.Error(), "not logged in") {
		t.Fatalf("expected not logged in error, got %v", err)
	}
}

func TestLogout_RemovesToken(t *testing.T) {
	setupEnv(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"message":"Logged out successfully"}`))
	})
	if err := config.SaveToken("tok"); err != nil {
		t.Fatalf("SaveToken: %v", err)
	}

	out, err := execute(t, "logout")
	if err != nil {
		t.Fatalf("logout: %v", err)
	}
	if !strings.Contains(out, "Logged out successfully") {
		t.Errorf("unexpected output: %s", out)
	}
	if _, err := os.Stat(config.TokenPath()); !os.IsNotExist(err) {
		t.Errorf("token file still present: %v", err)
	}

	out, err = execute(t, "logout")
	if err != nil || !strings.Contains(out, "Not logged in") {
		t.Errorf("second logout: %q, %v", out, err)
	}
}
