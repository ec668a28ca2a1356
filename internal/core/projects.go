package core

import (
	"context"
	"fmt"
	"strings"
)

// ProjectInput carries the fields a caller may set when creating a project.
// Price is only honored for admin callers.
type ProjectInput struct {
	Name        string `json:"name"`
	Status      string `json:"status"`
	Notes       string `json:"notes"`
	POC         string `json:"poc"`
	QuoteNumber string `json:"quote_number"`
	PONumber    string `json:"po_number"`
	Price       string `json:"price"`
}

// ProjectDetail is a project together with its attachments.
type ProjectDetail struct {
	Project Project `json:"project"`
	Files   []File  `json:"files"`
}

// Dashboard lists projects newest first. Every role may view the
// dashboard.
func (s *Service) Dashboard(ctx context.Context) ([]Project, error) {
	projects, err := s.store.ListProjectsRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// GetProjectDetail returns one project with its uploaded files.
func (s *Service) GetProjectDetail(ctx context.Context, id int64) (ProjectDetail, error) {
	p, err := s.store.GetProject(ctx, id)
	if err != nil {
		return ProjectDetail{}, err
	}

	files, err := s.store.ListFiles(ctx, id)
	if err != nil {
		return ProjectDetail{}, fmt.Errorf("list files: %w", err)
	}

	return ProjectDetail{Project: *p, Files: files}, nil
}

// CreateProject creates a project from form input. Admins and project
// managers only; the name is required and the price is admin only.
func (s *Service) CreateProject(ctx context.Context, user CurrentUser, in ProjectInput) (*Project, error) {
	if !user.Role.CanManageProjects() {
		return nil, ErrUnauthorized
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, ErrEmptyName
	}

	status := strings.TrimSpace(in.Status)
	if status == "" {
		status = DefaultStatus
	}

	p := &Project{
		Name:        name,
		Status:      status,
		Notes:       strings.TrimSpace(in.Notes),
		POC:         strings.TrimSpace(in.POC),
		QuoteNumber: strings.TrimSpace(in.QuoteNumber),
		PONumber:    strings.TrimSpace(in.PONumber),
		CreatedBy:   user.ID,
	}
	if user.Role.IsAdmin() && strings.TrimSpace(in.Price) != "" {
		if price := TryParseNumeric(in.Price); price.Valid {
			p.Price = price
		}
	}

	if err := s.store.InsertProject(ctx, p); err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}

	if err := s.store.RecordAudit(ctx, user.ID, "Created project "+p.Name); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	return p, nil
}

// AddNote appends a note to a project. Notes are kept as a running log;
// each entry is prefixed with the author's username. Any role may add
// notes.
func (s *Service) AddNote(ctx context.Context, user CurrentUser, projectID int64, note string) (*Project, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrEmptyNote
	}

	p, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	entry := fmt.Sprintf("[%s] %s", user.Username, note)
	if p.Notes == "" {
		p.Notes = entry
	} else {
		p.Notes += "\n" + entry
	}

	if err := s.store.UpdateProject(ctx, p); err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}

	if err := s.store.RecordAudit(ctx, user.ID, "Added note to project "+p.Name); err != nil {
		return nil, fmt.Errorf("record audit: %w", err)
	}

	return p, nil
}
