package tui

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/christopherklint97/goclockify/clockify"
)

func TestCollectAndRenderSummary(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/workspaces/w1/projects":
			_, _ = io.WriteString(w, `[{"id":"p1","name":"Website","workspaceId":"w1","duration":"PT27H10M","estimate":{"estimate":"PT0S","type":"AUTO"}}]`)
		case "/workspaces/w1/projects/p1/tasks":
			_, _ = io.WriteString(w, `[{"id":"t1","name":"Design","projectId":"p1","estimate":"PT0S","status":"DONE"},
				{"id":"t2","name":"Build","projectId":"p1","estimate":"PT2H","status":"ACTIVE"}]`)
		case "/workspaces/w1/tags":
			_, _ = io.WriteString(w, `[{"id":"g1","name":"Work","workspaceId":"w1"}]`)
		case "/workspaces/w1/user/u1/time-entries":
			_, _ = io.WriteString(w, `[{"id":"e1","description":"Fix login","timeInterval":{"start":"2024-03-01T09:00:00Z","end":"2024-03-01T10:30:00Z"}},
				{"id":"e2","description":"","timeInterval":{"start":"2024-03-01T11:00:00Z","end":null}}]`)
		case "/workspaces/w1/clients":
			_, _ = io.WriteString(w, `[{"id":"c1","name":"Globex","workspaceId":"w1"}]`)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	client := clockify.NewClient("key", server.URL, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	ws := clockify.Workspace{ID: "w1", Name: "Acme"}
	summary, err := CollectSummary(ctx, client, ws, clockify.ID("u1"))
	if err != nil {
		t.Fatalf("CollectSummary returned error: %v", err)
	}
	if len(summary.Projects) != 1 || len(summary.Projects[0].Tasks) != 2 {
		t.Fatalf("projects = %+v", summary.Projects)
	}
	if len(summary.Tags) != 1 || len(summary.Entries) != 2 || len(summary.Clients) != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	out := RenderSummary([]WorkspaceSummary{summary})
	for _, want := range []string{
		"Acme",
		"Website",
		"hours: 27",
		"Design: DONE",
		"Build: ACTIVE",
		"Work",
		"Fix login",
		"running",
		"(no description)",
		"Globex",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("summary output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Projects:") > strings.Index(out, "Clients:") {
		t.Errorf("sections out of order:\n%s", out)
	}
}

func TestCollectSummary_StopsOnError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	t.Cleanup(server.Close)

	client := clockify.NewClient("key", server.URL, nil)
	_, err := CollectSummary(context.Background(), client, clockify.Workspace{ID: "w1"}, clockify.ID("u1"))
	if err == nil {
		t.Fatal("CollectSummary returned nil error on 403")
	}
}

func TestFormatHours(t *testing.T) {
	if got := FormatHours(49*time.Hour + 59*time.Minute); got != "49" {
		t.Fatalf("FormatHours = %q, want 49", got)
	}
}
