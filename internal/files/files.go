// Package files stores project attachments on local disk and records
// them in the database.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/projtrack/projtrack/internal/core"
)

// Store is the subset of persistence the file service needs.
type Store interface {
	GetProject(ctx context.Context, id int64) (*core.Project, error)
	InsertFile(ctx context.Context, f *core.File) error
	RecordAudit(ctx context.Context, userID int64, action string) error
}

var (
	// ErrTypeNotAllowed is returned for extensions outside the allow-list.
	ErrTypeNotAllowed = errors.New("file type not allowed")

	// ErrTooLarge is returned when an upload exceeds the size limit.
	ErrTooLarge = errors.New("file too large")
)

// allowedExtensions is the upload allow-list. Matching is on extension
// only; content inspection is out of scope.
var allowedExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".pdf":  true,
	".docx": true,
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// Service saves uploads under baseDir/project_<id>/ and keeps a row per
// file in the database.
type Service struct {
	store   Store
	baseDir string
	maxSize int64
}

// NewService creates a file service. maxSize caps individual uploads in
// bytes.
func NewService(store Store, baseDir string, maxSize int64) *Service {
	return &Service{
		store:   store,
		baseDir: baseDir,
		maxSize: maxSize,
	}
}

// SecureFilename strips path components and replaces anything outside
// [A-Za-z0-9._-] with underscores. Returns "" when nothing usable
// remains.
func SecureFilename(name string) string {
	name = filepath.Base(name)
	name = unsafeChars.ReplaceAllString(name, "_")
	name = strings.Trim(name, "._")
	if name == "" {
		return ""
	}
	return name
}

// Save stores one upload for a project and records the audit entry.
func (s *Service) Save(ctx context.Context, user core.CurrentUser, projectID int64, filename string, r io.Reader) (*core.File, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	clean := SecureFilename(filename)
	if clean == "" {
		return nil, core.ErrEmptyUpload
	}
	if !allowedExtensions[strings.ToLower(filepath.Ext(clean))] {
		return nil, ErrTypeNotAllowed
	}

	dir := filepath.Join(s.baseDir, fmt.Sprintf("project_%d", projectID))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}

	dst := filepath.Join(dir, clean)
	out, err := os.Create(dst)
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	defer out.Close()

	// One extra byte so we can tell "at the limit" from "over it".
	n, err := io.Copy(out, io.LimitReader(r, s.maxSize+1))
	if err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("write file: %w", err)
	}
	if n > s.maxSize {
		os.Remove(dst)
		return nil, ErrTooLarge
	}

	f := &core.File{
		ProjectID:  projectID,
		Filename:   clean,
		Filepath:   dst,
		UploadedBy: user.ID,
	}
	if err := s.store.InsertFile(ctx, f); err != nil {
		os.Remove(dst)
		return nil, fmt.Errorf("record file: %w", err)
	}

	action := fmt.Sprintf("Uploaded file %s to project %s", clean, project.Name)
	if err := s.store.RecordAudit(ctx, user.ID, action); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	return f, nil
}

// Open returns the on-disk file for a stored attachment. The filename is
// sanitized again so a crafted request cannot escape the upload
// directory.
func (s *Service) Open(projectID int64, filename string) (*os.File, error) {
	clean := SecureFilename(filename)
	if clean == "" {
		return nil, core.ErrNotFound
	}

	path := filepath.Join(s.baseDir, fmt.Sprintf("project_%d", projectID), clean)
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		return nil, err
	}
	return f, nil
}
