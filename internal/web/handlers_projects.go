package web

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/projtrack/projtrack/internal/core"
)

// projectResponse is the JSON view of a project. Price is omitted for
// callers who are not admins.
type projectResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Status      string    `json:"status"`
	Notes       string    `json:"notes"`
	POC         string    `json:"poc"`
	QuoteNumber string    `json:"quote_number"`
	PONumber    string    `json:"po_number"`
	Price       *string   `json:"price,omitempty"`
	CreatedBy   int64     `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func projectView(p core.Project, user core.CurrentUser) projectResponse {
	resp := projectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Status:      p.Status,
		Notes:       p.Notes,
		POC:         p.POC,
		QuoteNumber: p.QuoteNumber,
		PONumber:    p.PONumber,
		CreatedBy:   p.CreatedBy,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if user.Role.IsAdmin() {
		price := core.FormatPrice(p.Price)
		resp.Price = &price
	}
	return resp
}

func projectViews(projects []core.Project, user core.CurrentUser) []projectResponse {
	out := make([]projectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, projectView(p, user))
	}
	return out
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, core.ErrNotFound
	}
	return id, nil
}

// handleDashboard lists projects newest first.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	projects, err := s.service.Dashboard(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"projects": projectViews(projects, user)})
}

// handleCreateProject creates a project from a JSON body.
func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	var in core.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		s.respondError(w, r, fmt.Errorf("%w: body", core.ErrMissingField))
		return
	}

	p, err := s.service.CreateProject(r.Context(), user, in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"project": projectView(*p, user)})
}

// handleProjectDetail returns one project with its attachments.
func (s *Server) handleProjectDetail(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := pathID(r, "projectID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	detail, err := s.service.GetProjectDetail(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"project": projectView(detail.Project, user),
		"files":   detail.Files,
	})
}

// handleAddNote appends a note to a project.
func (s *Server) handleAddNote(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := pathID(r, "projectID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	var req struct {
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, r, core.ErrEmptyNote)
		return
	}

	p, err := s.service.AddNote(r.Context(), user, id, req.Note)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"project": projectView(*p, user)})
}

// handleExport streams the project table as a CSV attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	file, err := s.service.ExportProjects(r.Context(), user)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Data)))
	w.WriteHeader(http.StatusOK)
	w.Write(file.Data)
}

// handleImport accepts a multipart CSV upload (field "csv_file") and
// reconciles it against the project table.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Import.Timeout)
	defer cancel()

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Import.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Import.MaxFileSize); err != nil {
		s.respondError(w, r, core.ErrEmptyUpload)
		return
	}

	file, _, err := r.FormFile("csv_file")
	if err != nil {
		s.respondError(w, r, core.ErrEmptyUpload)
		return
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := s.service.ImportProjects(ctx, user, payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
