package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// mockServer creates a test HTTP server for mocking API responses.
func mockServer(handler http.HandlerFunc) *httptest.Server {
	return httptest.NewServer(handler)
}

func TestNewClient(t *testing.T) {
	client := NewClient("", "test-token")

	if client.accessToken != "test-token" {
		t.Errorf("expected token %q, got %q", "test-token", client.accessToken)
	}
	if client.baseURL != DefaultBaseURL {
		t.Errorf("unexpected base URL: %s", client.baseURL)
	}

	client = NewClient("http://example.test/", "")
	if client.baseURL != "http://example.test" {
		t.Errorf("expected trailing slash trimmed, got %s", client.baseURL)
	}
}

func TestFetchProjects(t *testing.T) {
	tests := []struct {
		name       string
		response   []Project
		statusCode int
		wantErr    bool
	}{
		{
			name: "successful request",
			response: []Project{
				{ProjectID: "1", Name: "DAILY", UserID: "112", DocID: "daily-tasks"},
				{ProjectID: "2", Name: "FUTURE", UserID: "112", DocID: "future-tasks"},
			},
			statusCode: http.StatusOK,
		},
		{
			name:       "empty list",
			response:   []Project{},
			statusCode: http.StatusOK,
		},
		{
			name:       "unauthorized",
			statusCode: http.StatusUnauthorized,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET request, got %s", r.Method)
				}
				if r.URL.Path != "/v1/projects" {
					t.Errorf("expected /v1/projects path, got %s", r.URL.Path)
				}
				if got := r.URL.Query().Get("userId"); got != "112" {
					t.Errorf("expected userId 112, got %q", got)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
					t.Errorf("unexpected Authorization header %q", got)
				}

				w.WriteHeader(tt.statusCode)
				if tt.response != nil {
					json.NewEncoder(w).Encode(tt.response)
				}
			})
			defer server.Close()

			client := NewClient(server.URL, "test-token")
			projects, err := client.FetchProjects(context.Background(), "112")

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				apiErr, ok := IsAPIError(err)
				if !ok {
					t.Fatalf("expected wrapped APIError, got %T", err)
				}
				if !apiErr.IsUnauthorized() {
					t.Errorf("expected 401, got %d", apiErr.StatusCode)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(projects) != len(tt.response) {
				t.Fatalf("expected %d projects, got %d", len(tt.response), len(projects))
			}
			for i := range projects {
				if projects[i] != tt.response[i] {
					t.Errorf("project %d: expected %+v, got %+v", i, tt.response[i], projects[i])
				}
			}
		})
	}
}

func TestCreateProject(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST request, got %s", r.Method)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Error("expected Content-Type: application/json")
		}

		var p Project
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if p.Name != "Best project." || p.UserID != "112" {
			t.Errorf("unexpected project payload: %+v", p)
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(CreatedResponse{DocID: "doc-1"})
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	docID, err := client.CreateProject(context.Background(), Project{ProjectID: "p1", Name: "Best project.", UserID: "112"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if docID != "doc-1" {
		t.Errorf("expected docId doc-1, got %q", docID)
	}
}

func TestCreateProjectMissingDocID(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{}`))
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	if _, err := client.CreateProject(context.Background(), Project{Name: "x"}); err == nil {
		t.Error("expected error when server omits docId")
	}
}

func TestDeleteProject(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
	}{
		{name: "deleted", statusCode: http.StatusNoContent},
		{name: "not found", statusCode: http.StatusNotFound, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodDelete {
					t.Errorf("expected DELETE request, got %s", r.Method)
				}
				if r.URL.Path != "/v1/projects/michael-scott" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}
				w.WriteHeader(tt.statusCode)
			})
			defer server.Close()

			client := NewClient(server.URL, "")
			err := client.DeleteProject(context.Background(), "michael-scott")
			if tt.wantErr {
				apiErr, ok := IsAPIError(err)
				if !ok || !apiErr.IsNotFound() {
					t.Errorf("expected not-found APIError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}
