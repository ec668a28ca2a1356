package core

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
)

// importRow is one parsed CSV record. Name is the reconciliation key;
// every other column is optional and only overwrites when present.
type importRow struct {
	Name        string
	Status      Field
	Notes       Field
	POC         Field
	QuoteNumber Field
	PONumber    Field
	Price       Field
}

// ImportProjects reconciles an uploaded CSV against the project table.
// Rows are matched by project name: matches are updated in place, the
// rest are created. The whole import, including its audit entry, runs in
// one transaction; any failure rolls back everything.
//
// Regular users get ErrUnauthorized. An empty upload returns
// ErrEmptyUpload, and anything the CSV reader cannot parse returns
// ErrMalformedCSV.
func (s *Service) ImportProjects(ctx context.Context, user CurrentUser, payload []byte) (ImportResult, error) {
	if !user.Role.CanManageProjects() {
		return ImportResult{}, ErrUnauthorized
	}

	if len(bytes.TrimSpace(payload)) == 0 {
		return ImportResult{}, ErrEmptyUpload
	}

	rows, hdr, err := parseImportCSV(payload)
	if err != nil {
		return ImportResult{}, err
	}
	if !hdr.Has("project_name") {
		return ImportResult{}, fmt.Errorf("%w: missing project_name column", ErrMalformedCSV)
	}

	tx, err := s.store.BeginImport(ctx)
	if err != nil {
		return ImportResult{}, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback(ctx)

	canSetPrice := user.Role.IsAdmin()

	var result ImportResult
	for _, row := range rows {
		if row.Name == "" {
			continue
		}

		existing, err := tx.GetProjectByName(ctx, row.Name)
		if err != nil {
			return ImportResult{}, fmt.Errorf("lookup %q: %w", row.Name, err)
		}

		if existing != nil {
			existing.Status = row.Status.Apply(existing.Status)
			existing.Notes = row.Notes.Apply(existing.Notes)
			existing.POC = row.POC.Apply(existing.POC)
			existing.QuoteNumber = row.QuoteNumber.Apply(existing.QuoteNumber)
			existing.PONumber = row.PONumber.Apply(existing.PONumber)
			if canSetPrice && row.Price.IsSet() {
				if price := TryParseNumeric(row.Price.Value()); price.Valid {
					existing.Price = price
				}
			}
			if err := tx.UpdateProject(ctx, existing); err != nil {
				return ImportResult{}, fmt.Errorf("update %q: %w", row.Name, err)
			}
			result.Updated++
			continue
		}

		p := &Project{
			Name:        row.Name,
			Status:      row.Status.Or(DefaultStatus),
			Notes:       row.Notes.Value(),
			POC:         row.POC.Value(),
			QuoteNumber: row.QuoteNumber.Value(),
			PONumber:    row.PONumber.Value(),
			CreatedBy:   user.ID,
		}
		if canSetPrice && row.Price.IsSet() {
			if price := TryParseNumeric(row.Price.Value()); price.Valid {
				p.Price = price
			}
		}
		if err := tx.InsertProject(ctx, p); err != nil {
			return ImportResult{}, fmt.Errorf("create %q: %w", row.Name, err)
		}
		result.Created++
	}

	action := fmt.Sprintf("Imported CSV (created=%d, updated=%d)", result.Created, result.Updated)
	if err := tx.RecordAudit(ctx, user.ID, action); err != nil {
		return ImportResult{}, fmt.Errorf("record audit: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return ImportResult{}, fmt.Errorf("commit import: %w", err)
	}

	return result, nil
}

// parseImportCSV decodes the upload into rows keyed by the header. Cells
// that are present and non-empty become set Fields; absent or empty cells
// stay unset so the merge keeps existing values.
func parseImportCSV(payload []byte) ([]importRow, HeaderIndex, error) {
	text := SanitizeUTF8(TrimBOM(payload))

	r := csv.NewReader(bytes.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrMalformedCSV, err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%w: no header row", ErrMalformedCSV)
	}

	hdr := MakeHeaderIndex(records[0])

	rows := make([]importRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := importRow{
			Name:        strings.TrimSpace(hdr.Cell(rec, "project_name")),
			Status:      cellField(hdr, rec, "status"),
			Notes:       cellField(hdr, rec, "notes"),
			POC:         cellField(hdr, rec, "poc"),
			QuoteNumber: cellField(hdr, rec, "quote_number"),
			PONumber:    cellField(hdr, rec, "po_number"),
			Price:       cellField(hdr, rec, "price"),
		}
		rows = append(rows, row)
	}

	return rows, hdr, nil
}

// cellField lifts a CSV cell into a Field. Missing columns and empty
// cells produce the unset Field.
func cellField(hdr HeaderIndex, rec []string, name string) Field {
	if !hdr.Has(name) {
		return Field{}
	}
	v := CleanCell(hdr.Cell(rec, name))
	if v == "" {
		return Field{}
	}
	return SetField(v)
}
