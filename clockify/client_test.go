package clockify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient("test-key", server.URL+"/api/v1", nil), server
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestNewClient_Defaults(t *testing.T) {
	c := NewClient("key", "", nil)
	if c.BaseURL() != DefaultBaseURL {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), DefaultBaseURL)
	}

	c = NewClient("key", "http://localhost:9999/api/v1/", nil)
	if c.BaseURL() != "http://localhost:9999/api/v1" {
		t.Fatalf("BaseURL = %q, want trailing slash trimmed", c.BaseURL())
	}
}

func TestClient_Tags(t *testing.T) {
	t.Parallel()

	var gotPath, gotKey, gotContentType, gotMethod string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		gotKey = r.Header.Get("X-Api-Key")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = io.WriteString(w, `[{"id":"t1","name":"Work","workspaceId":"w1"}]`)
	})

	tags, err := c.Tags(testContext(t), ID("w1"))
	if err != nil {
		t.Fatalf("Tags returned error: %v", err)
	}
	if len(tags) != 1 || tags[0] != (Tag{ID: "t1", Name: "Work", WorkspaceID: "w1"}) {
		t.Fatalf("Tags = %+v, want single Work tag", tags)
	}
	if gotPath != "/api/v1/workspaces/w1/tags" {
		t.Fatalf("path = %q", gotPath)
	}
	if gotMethod != http.MethodGet {
		t.Fatalf("method = %q, want GET", gotMethod)
	}
	if gotKey != "test-key" || gotContentType != "application/json" {
		t.Fatalf("headers key=%q content-type=%q", gotKey, gotContentType)
	}
}

func TestClient_RecordAndIDProduceSameURL(t *testing.T) {
	t.Parallel()

	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		_, _ = io.WriteString(w, `[]`)
	})
	ctx := testContext(t)

	ws := Workspace{ID: "w1"}
	project := Project{ID: "p1"}
	user := User{ID: "u1"}

	calls := []struct {
		name   string
		record func() error
		raw    func() error
	}{
		{
			"projects",
			func() error { _, err := c.Projects(ctx, ws); return err },
			func() error { _, err := c.Projects(ctx, ID("w1")); return err },
		},
		{
			"clients",
			func() error { _, err := c.Clients(ctx, &ws); return err },
			func() error { _, err := c.Clients(ctx, ID("w1")); return err },
		},
		{
			"tasks",
			func() error { _, err := c.Tasks(ctx, ws, project); return err },
			func() error { _, err := c.Tasks(ctx, ID("w1"), ID("p1")); return err },
		},
		{
			"time entries",
			func() error { _, err := c.TimeEntries(ctx, ws, user); return err },
			func() error { _, err := c.TimeEntries(ctx, ID("w1"), ID("u1")); return err },
		},
	}

	for _, call := range calls {
		paths = nil
		if err := call.record(); err != nil {
			t.Fatalf("%s with record returned error: %v", call.name, err)
		}
		if err := call.raw(); err != nil {
			t.Fatalf("%s with raw id returned error: %v", call.name, err)
		}
		if len(paths) != 2 || paths[0] != paths[1] {
			t.Fatalf("%s paths = %v, want two identical paths", call.name, paths)
		}
	}
}

func TestClient_Endpoints(t *testing.T) {
	t.Parallel()

	var gotPath string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		switch r.URL.Path {
		case "/api/v1/user":
			_, _ = io.WriteString(w, `{"id":"u1","name":"Ada","status":"ACTIVE","memberships":[]}`)
		default:
			_, _ = io.WriteString(w, `[]`)
		}
	})
	ctx := testContext(t)

	if _, err := c.Workspaces(ctx); err != nil || gotPath != "/api/v1/workspaces" {
		t.Fatalf("Workspaces path=%q err=%v", gotPath, err)
	}
	user, err := c.User(ctx)
	if err != nil || gotPath != "/api/v1/user" {
		t.Fatalf("User path=%q err=%v", gotPath, err)
	}
	if user.ID != "u1" || user.Status != UserActive {
		t.Fatalf("User = %+v", user)
	}
	if _, err := c.Clients(ctx, ID("w1")); err != nil || gotPath != "/api/v1/workspaces/w1/clients" {
		t.Fatalf("Clients path=%q err=%v", gotPath, err)
	}
	if _, err := c.Projects(ctx, ID("w1")); err != nil || gotPath != "/api/v1/workspaces/w1/projects" {
		t.Fatalf("Projects path=%q err=%v", gotPath, err)
	}
	if _, err := c.Tasks(ctx, ID("w1"), ID("p1")); err != nil || gotPath != "/api/v1/workspaces/w1/projects/p1/tasks" {
		t.Fatalf("Tasks path=%q err=%v", gotPath, err)
	}
}

func TestClient_TimeEntriesDefaultsToAuthenticatedUser(t *testing.T) {
	t.Parallel()

	var paths []string
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/v1/user":
			_, _ = io.WriteString(w, `{"id":"me","status":"ACTIVE","memberships":[]}`)
		case "/api/v1/workspaces/w1/user/me/time-entries":
			_, _ = io.WriteString(w, `[
				{"id":"e1","timeInterval":{"start":"2024-03-01T09:00:00Z","end":"2024-03-01T10:00:00Z"}},
				{"id":"e2","timeInterval":{"start":"2024-03-01T11:00:00Z","end":null}}
			]`)
		default:
			http.NotFound(w, r)
		}
	})

	entries, err := c.TimeEntries(testContext(t), ID("w1"), nil)
	if err != nil {
		t.Fatalf("TimeEntries returned error: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/api/v1/user" {
		t.Fatalf("paths = %v, want user lookup first", paths)
	}
	if len(entries) != 2 || entries[0].ID != "e1" || entries[1].ID != "e2" {
		t.Fatalf("entries = %+v, want e1, e2 in order", entries)
	}
	if entries[0].Duration == nil || *entries[0].Duration != time.Hour {
		t.Fatalf("entries[0].Duration = %v, want 1h", entries[0].Duration)
	}
	if !entries[1].Running() {
		t.Fatal("entries[1] should be running")
	}
}

func TestClient_StatusClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error, url string)
	}{
		{"unauthorized", http.StatusUnauthorized, `{"message":"no"}`, func(t *testing.T, err error, _ string) {
			if !errors.Is(err, ErrUnauthorized) {
				t.Fatalf("error = %v, want ErrUnauthorized", err)
			}
		}},
		{"forbidden", http.StatusForbidden, ``, func(t *testing.T, err error, _ string) {
			if !errors.Is(err, ErrForbidden) {
				t.Fatalf("error = %v, want ErrForbidden", err)
			}
		}},
		{"not found", http.StatusNotFound, `nope`, func(t *testing.T, err error, url string) {
			var nf *NotFoundError
			if !errors.As(err, &nf) {
				t.Fatalf("error = %v, want *NotFoundError", err)
			}
			if nf.URL != url {
				t.Fatalf("NotFoundError.URL = %q, want %q", nf.URL, url)
			}
			if !errors.Is(err, ErrNotFound) {
				t.Fatal("errors.Is(err, ErrNotFound) = false")
			}
		}},
		{"not json", http.StatusOK, `<html>maintenance</html>`, func(t *testing.T, err error, url string) {
			var nj *ResponseNotJSONError
			if !errors.As(err, &nj) {
				t.Fatalf("error = %v, want *ResponseNotJSONError", err)
			}
			if nj.URL != url || string(nj.Body) != `<html>maintenance</html>` {
				t.Fatalf("ResponseNotJSONError = %+v", nj)
			}
		}},
		{"server error", http.StatusInternalServerError, `{"message":"boom","code":500}`, func(t *testing.T, err error, url string) {
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("error = %v, want *APIError", err)
			}
			if apiErr.StatusCode != http.StatusInternalServerError || apiErr.URL != url {
				t.Fatalf("APIError = %+v", apiErr)
			}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c, server := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})
			_, err := c.Tags(testContext(t), ID("w1"))
			tt.check(t, err, server.URL+"/api/v1/workspaces/w1/tags")
		})
	}
}

func TestClient_DecodeErrorSurfaces(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id":"t1","name":"Design","projectId":"p1","estimate":"PT1H","status":"BLOCKED"}]`)
	})

	_, err := c.Tasks(testContext(t), ID("w1"), ID("p1"))
	var de *DecodeError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want *DecodeError", err)
	}
	if de.Type != "TaskStatus" || de.Value != "BLOCKED" {
		t.Fatalf("DecodeError = %+v", de)
	}
}

func TestClient_WrongShapeIsDecodeError(t *testing.T) {
	t.Parallel()

	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"id":"t1"}`)
	})

	_, err := c.Tags(testContext(t), ID("w1"))
	var de *DecodeError
	if !errors.As(err, &de) || de.Type != "tags" {
		t.Fatalf("error = %v, want tags DecodeError", err)
	}
}

func TestClient_RejectsEmptyIDs(t *testing.T) {
	called := false
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
		_, _ = io.WriteString(w, `[]`)
	})
	ctx := testContext(t)

	if _, err := c.Projects(ctx, ID("")); err == nil {
		t.Error("Projects with empty workspace returned nil error")
	}
	if _, err := c.Tags(ctx, nil); err == nil {
		t.Error("Tags with nil workspace returned nil error")
	}
	if _, err := c.Tasks(ctx, ID("w1"), Project{}); err == nil {
		t.Error("Tasks with empty project returned nil error")
	}
	if called {
		t.Fatal("request sent despite empty id")
	}
}

func TestClient_CreateTimeEntry(t *testing.T) {
	t.Parallel()

	var gotMethod, gotPath, gotKey string
	var gotBody map[string]any
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id":"e9","description":"Review","projectId":"p1",
			"timeInterval":{"start":"2024-03-01T09:00:00Z","end":"2024-03-01T09:45:00Z"}}`)
	})

	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	end := start.Add(45 * time.Minute)
	created, err := c.CreateTimeEntry(testContext(t), Workspace{ID: "w1"}, TimeEntryRequest{
		Start:       start,
		End:         &end,
		Description: "Review",
		ProjectID:   "p1",
	})
	if err != nil {
		t.Fatalf("CreateTimeEntry returned error: %v", err)
	}
	if gotMethod != http.MethodPost || gotPath != "/api/v1/workspaces/w1/time-entries" || gotKey != "test-key" {
		t.Fatalf("request method=%q path=%q key=%q", gotMethod, gotPath, gotKey)
	}
	if gotBody["start"] != "2024-03-01T09:00:00Z" || gotBody["projectId"] != "p1" {
		t.Fatalf("body = %v", gotBody)
	}
	if created.ID != "e9" || created.Duration == nil || *created.Duration != 45*time.Minute {
		t.Fatalf("created = %+v", created)
	}
}
