package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/coder/websocket"
)

func TestCreateTask(t *testing.T) {
	tests := []struct {
		name       string
		task       Task
		statusCode int
		response   string
		wantID     string
		wantErr    bool
	}{
		{
			name:       "successful creation",
			task:       Task{Task: "I am a new task!", ProjectID: "1", UserID: "112", Archived: Bool(false)},
			statusCode: http.StatusCreated,
			response:   `{"id":"BJu2xfJqAo7w4SnzVT8Z"}`,
			wantID:     "BJu2xfJqAo7w4SnzVT8Z",
		},
		{
			name:       "validation error",
			task:       Task{UserID: "112"},
			statusCode: http.StatusBadRequest,
			response:   `{"error":"validation_error"}`,
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := mockServer(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST request, got %s", r.Method)
				}
				if r.URL.Path != "/v1/tasks" {
					t.Errorf("unexpected path %s", r.URL.Path)
				}

				var raw map[string]json.RawMessage
				if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
					t.Errorf("failed to decode request: %v", err)
				}
				if tt.task.Archived.IsFalse() && string(raw["archived"]) != "false" {
					t.Errorf("expected archived=false on the wire, got %s", raw["archived"])
				}

				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.response))
			})
			defer server.Close()

			client := NewClient(server.URL, "")
			id, err := client.CreateTask(context.Background(), tt.task)

			if tt.wantErr {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id != tt.wantID {
				t.Errorf("expected id %q, got %q", tt.wantID, id)
			}
		})
	}
}

func TestBuildFilterQuery(t *testing.T) {
	q := buildFilterQuery(TaskFilter{UserID: "112", Date: DateOnly("")})
	if !q.Has("date") || q.Get("date") != "" {
		t.Errorf("expected present-but-empty date, got %v", q)
	}
	if q.Has("projectId") {
		t.Errorf("unexpected projectId in %v", q)
	}

	q = buildFilterQuery(TaskFilter{UserID: "112", ProjectID: "1"})
	if q.Get("projectId") != "1" || q.Has("date") {
		t.Errorf("unexpected query %v", q)
	}
}

func TestSubscribeTasksReceivesSnapshots(t *testing.T) {
	snapshots := [][]Task{
		{},
		{{ID: "a", Task: "first", UserID: "112", Archived: Bool(false)}},
	}

	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tasks/subscribe" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("projectId") != "1" {
			t.Errorf("expected projectId=1, got %q", r.URL.Query().Get("projectId"))
		}

		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			t.Errorf("accept: %v", err)
			return
		}
		defer conn.CloseNow()

		for _, snap := range snapshots {
			data, _ := json.Marshal(Snapshot{Tasks: snap})
			if err := conn.Write(r.Context(), websocket.MessageText, data); err != nil {
				return
			}
			// Give the client time to take each snapshot before the next
			// one replaces it.
			time.Sleep(50 * time.Millisecond)
		}
		<-r.Context().Done()
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	sub, err := client.SubscribeTasks(context.Background(), TaskFilter{UserID: "112", ProjectID: "1"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}
	defer sub.Close()

	var got [][]Task
	deadline := time.After(2 * time.Second)
	for len(got) < len(snapshots) {
		select {
		case tasks, ok := <-sub.Snapshots():
			if !ok {
				t.Fatal("subscription closed early")
			}
			got = append(got, tasks)
		case <-deadline:
			t.Fatalf("timed out after %d snapshots", len(got))
		}
	}

	if len(got[0]) != 0 {
		t.Errorf("expected empty first snapshot, got %d tasks", len(got[0]))
	}
	if len(got[1]) != 1 || got[1][0].ID != "a" {
		t.Errorf("unexpected second snapshot: %+v", got[1])
	}
}

func TestSubscriptionCloseClosesChannel(t *testing.T) {
	server := mockServer(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			return
		}
		defer conn.CloseNow()
		<-r.Context().Done()
	})
	defer server.Close()

	client := NewClient(server.URL, "")
	sub, err := client.SubscribeTasks(context.Background(), TaskFilter{UserID: "112"})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := sub.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if _, ok := <-sub.Snapshots(); ok {
		t.Error("expected closed snapshot channel after Close")
	}
}

func TestFlagJSON(t *testing.T) {
	tests := []struct {
		in        string
		wantTrue  bool
		wantFalse bool
	}{
		{in: `{"archived":true}`, wantTrue: true},
		{in: `{"archived":false}`, wantFalse: true},
		{in: `{"archived":"yes"}`},
		{in: `{"archived":null}`},
		{in: `{}`},
	}

	for _, tt := range tests {
		var task Task
		if err := json.Unmarshal([]byte(tt.in), &task); err != nil {
			t.Fatalf("%s: %v", tt.in, err)
		}
		if task.Archived.IsTrue() != tt.wantTrue || task.Archived.IsFalse() != tt.wantFalse {
			t.Errorf("%s: IsTrue=%v IsFalse=%v", tt.in, task.Archived.IsTrue(), task.Archived.IsFalse())
		}
	}

	data, _ := json.Marshal(Task{ID: "x", Archived: Bool(true)})
	var back map[string]json.RawMessage
	json.Unmarshal(data, &back)
	if string(back["archived"]) != "true" {
		t.Errorf("expected archived true, got %s", back["archived"])
	}
}
