package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"

	"github.com/hy4ri/todolist/internal/api"
	"github.com/hy4ri/todolist/internal/logging"
	"github.com/hy4ri/todolist/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, err string, msg string) {
	writeJSON(w, status, ErrorResponse{Error: err, Message: msg})
}

// writeGatewayError maps gateway failures onto HTTP statuses.
func writeGatewayError(w http.ResponseWriter, err error) int {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
		return http.StatusNotFound
	case errors.Is(err, store.ErrInvalid):
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
		return http.StatusBadRequest
	default:
		logging.Log.Error("gateway call failed", "err", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "gateway call failed")
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Failed to parse request body")
		return false
	}
	return true
}

func observe(op string, status int) {
	mutationsTotal.WithLabelValues(op, http.StatusText(status)).Inc()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleFetchProjects handles GET /v1/projects?userId=.
func (s *Server) handleFetchProjects(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "userId is required")
		return
	}

	projectFetchesTotal.Inc()
	projects, err := s.gateway.FetchProjects(r.Context(), userID)
	if err != nil {
		writeGatewayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// handleCreateProject handles POST /v1/projects.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var p api.Project
	if !decodeBody(w, r, &p) {
		observe("create_project", http.StatusBadRequest)
		return
	}

	docID, err := s.gateway.CreateProject(r.Context(), p)
	if err != nil {
		observe("create_project", writeGatewayError(w, err))
		return
	}
	observe("create_project", http.StatusCreated)
	writeJSON(w, http.StatusCreated, api.CreatedResponse{DocID: docID})
}

// handleDeleteProject handles DELETE /v1/projects/{docID}.
func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	docID := chi.URLParam(r, "docID")
	if err := s.gateway.DeleteProject(r.Context(), docID); err != nil {
		observe("delete_project", writeGatewayError(w, err))
		return
	}
	observe("delete_project", http.StatusNoContent)
	w.WriteHeader(http.StatusNoContent)
}

// handleCreateTask handles POST /v1/tasks.
func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var t api.Task
	if !decodeBody(w, r, &t) {
		observe("create_task", http.StatusBadRequest)
		return
	}

	id, err := s.gateway.CreateTask(r.Context(), t)
	if err != nil {
		observe("create_task", writeGatewayError(w, err))
		return
	}
	observe("create_task", http.StatusCreated)
	writeJSON(w, http.StatusCreated, api.CreatedResponse{ID: id})
}

// handleSubscribeTasks upgrades to a WebSocket and streams task snapshots
// for the filter in the query string. A date parameter that is present but
// empty selects unscheduled tasks.
func (s *Server) handleSubscribeTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := api.TaskFilter{
		UserID:    q.Get("userId"),
		ProjectID: q.Get("projectId"),
	}
	if filter.UserID == "" {
		writeError(w, http.StatusBadRequest, "validation_error", "userId is required")
		return
	}
	if q.Has("date") {
		filter.Date = api.DateOnly(q.Get("date"))
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logging.Log.Error("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	// Clients never send; CloseRead handles control frames and cancels ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	sub, err := s.gateway.SubscribeTasks(ctx, filter)
	if err != nil {
		logging.Log.Error("subscribe failed", "err", err)
		conn.Close(websocket.StatusInternalError, "subscribe failed")
		return
	}
	defer sub.Close()

	wsSubscriptionsActive.Inc()
	defer wsSubscriptionsActive.Dec()
	logging.Log.Debug("subscriber connected", "userId", filter.UserID, "projectId", filter.ProjectID)

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case tasks, ok := <-sub.Snapshots():
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "subscription closed")
				return
			}
			data, err := json.Marshal(api.Snapshot{Tasks: tasks})
			if err != nil {
				logging.Log.Error("encode snapshot", "err", err)
				continue
			}
			writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			err = conn.Write(writeCtx, websocket.MessageText, data)
			cancel()
			if err != nil {
				logging.Log.Debug("snapshot write failed", "err", err)
				return
			}
			snapshotsSentTotal.Inc()
		}
	}
}
