package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
)

// ExportFilename is the attachment name for CSV exports.
const ExportFilename = "projects_export.csv"

// exportColumns is the CSV header for non-admin exports. Admin exports
// append the price column.
var exportColumns = []string{"project_name", "status", "notes", "poc", "quote_number", "po_number"}

// ExportProjects writes all projects, ordered by name, as a CSV document.
// The price column is included only for admin callers. Regular users get
// ErrUnauthorized.
func (s *Service) ExportProjects(ctx context.Context, user CurrentUser) (ExportFile, error) {
	if !user.Role.CanManageProjects() {
		return ExportFile{}, ErrUnauthorized
	}

	projects, err := s.store.ListProjectsByName(ctx)
	if err != nil {
		return ExportFile{}, fmt.Errorf("list projects: %w", err)
	}

	includePrice := user.Role.IsAdmin()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := exportColumns
	if includePrice {
		header = append(append([]string{}, exportColumns...), "price")
	}
	if err := w.Write(header); err != nil {
		return ExportFile{}, fmt.Errorf("write header: %w", err)
	}

	for _, p := range projects {
		row := []string{p.Name, p.Status, p.Notes, p.POC, p.QuoteNumber, p.PONumber}
		if includePrice {
			row = append(row, FormatPrice(p.Price))
		}
		if err := w.Write(row); err != nil {
			return ExportFile{}, fmt.Errorf("write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return ExportFile{}, fmt.Errorf("flush csv: %w", err)
	}

	if err := s.store.RecordAudit(ctx, user.ID, "Exported projects to CSV"); err != nil {
		return ExportFile{}, fmt.Errorf("record audit: %w", err)
	}

	return ExportFile{
		Filename:    ExportFilename,
		ContentType: "text/csv",
		Data:        buf.Bytes(),
	}, nil
}
