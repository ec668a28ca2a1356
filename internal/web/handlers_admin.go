package web

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/projtrack/projtrack/internal/core"
)

type userListEntry struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// handleListUsers lists all accounts. Admin only.
func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.service.ListUsers(r.Context(), currentUser(r))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]userListEntry, 0, len(users))
	for _, u := range users {
		out = append(out, userListEntry{
			ID:        u.ID,
			Username:  u.Username,
			Role:      u.Role.String(),
			CreatedAt: u.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"users": out})
}

// handleCreateUser adds an account. Admin only.
func (s *Server) handleCreateUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, core.ErrMissingField)
		return
	}

	u, err := s.service.CreateUser(r.Context(), currentUser(r), req.Username, req.Password, core.ParseRole(req.Role))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"user": userListEntry{
		ID:        u.ID,
		Username:  u.Username,
		Role:      u.Role.String(),
		CreatedAt: u.CreatedAt,
	}})
}

// handleResetPassword replaces a user's password. Admin only.
func (s *Server) handleResetPassword(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, core.ErrMissingField)
		return
	}

	if err := s.service.ResetPassword(r.Context(), currentUser(r), id, req.Password); err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password reset"})
}

type auditEntryResponse struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// handleAuditLog lists audit entries newest first. Admin only.
// Supports limit/offset query parameters.
func (s *Server) handleAuditLog(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	views, total, err := s.service.AuditLog(r.Context(), currentUser(r), limit, offset)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	out := make([]auditEntryResponse, 0, len(views))
	for _, v := range views {
		out = append(out, auditEntryResponse{
			ID:        v.ID,
			Username:  v.Username,
			Action:    v.Action,
			CreatedAt: v.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"entries": out, "total": total})
}
