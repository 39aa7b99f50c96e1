package contact

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSend_PostsForm(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/contact" || r.Header.Get("Authorization") != "" {
			t.Fatalf("unexpected request: %s auth=%q", r.URL.Path, r.Header.Get("Authorization"))
		}
		var body struct {
			Subject      string   `json:"subject"`
			BuildPurpose []string `json:"buildPurpose"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Subject != "compatibility" || len(body.BuildPurpose) != 2 || body.BuildPurpose[1] != "work" {
			t.Fatalf("unexpected body: %+v", body)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"message":"Contact message received successfully","id":12}`))
	}))
	defer srv.Close()
	t.Setenv("PCBG_API_URL", srv.URL)

	root := &cobra.Command{Use: "pcbg", SilenceUsage: true, SilenceErrors: true}
	InitContact(root)
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{
		"contact", "send", "--name", "Sam", "--email", "s@x.com", "--subject", "compatibility",
		"--message", "Will this cooler fit my case?", "--purpose", "gaming", "--purpose", "work",
	})

	if err := root.Execute(); err != nil {
		t.Fatalf("contact send: %v", err)
	}
	if !strings.Contains(buf.String(), "reference #12") {
		t.Errorf("unexpected output: %s", buf.String())
	}
}
