package cli

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRunCommandPostsReadings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"run", "--url", srv.URL, "--duration", "150ms", "--interval", "50ms", "--faulty=false"})

	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "sent=") || strings.Contains(out.String(), "sent=0 ") {
		t.Fatalf("unexpected output %q", out.String())
	}
}

func TestRunCommandRequiresURL(t *testing.T) {
	t.Setenv(URLEnv, "")
	root := NewRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "--url", ""})

	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected missing url error")
	}
}
