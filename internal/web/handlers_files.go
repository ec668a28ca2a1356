package web

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/projtrack/projtrack/internal/core"
)

// handleUploadFile attaches a multipart upload (field "file") to a
// project.
func (s *Server) handleUploadFile(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)

	id, err := pathID(r, "projectID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Files.MaxFileSize)
	if err := r.ParseMultipartForm(s.cfg.Files.MaxFileSize); err != nil {
		s.respondError(w, r, core.ErrEmptyUpload)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.respondError(w, r, core.ErrEmptyUpload)
		return
	}
	defer file.Close()

	saved, err := s.files.Save(r.Context(), user, id, header.Filename, file)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"file": saved})
}

// handleDownloadFile streams a stored attachment back to the client.
func (s *Server) handleDownloadFile(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "projectID")
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	filename := chi.URLParam(r, "filename")

	f, err := s.files.Open(id, filename)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	defer f.Close()

	contentType := mime.TypeByExtension(filepath.Ext(f.Name()))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filepath.Base(f.Name()))
	io.Copy(w, f)
}
