package database

import (
	"context"

	"github.com/projtrack/projtrack/internal/core"
)

const projectColumns = `id, name, status, notes, poc, quote_number, po_number, price, created_by, created_at, updated_at`

const listProjectsByName = `
SELECT ` + projectColumns + `
FROM projects
ORDER BY lower(name), id
`

const listProjectsRecent = `
SELECT ` + projectColumns + `
FROM projects
ORDER BY created_at DESC, id DESC
`

const getProject = `
SELECT ` + projectColumns + `
FROM projects
WHERE id = $1
`

// Duplicate names resolve to the oldest row.
const getProjectByName = `
SELECT ` + projectColumns + `
FROM projects
WHERE name = $1
ORDER BY id
LIMIT 1
`

const insertProject = `
INSERT INTO projects (name, status, notes, poc, quote_number, po_number, price, created_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
RETURNING id, created_at, updated_at
`

const updateProject = `
UPDATE projects
SET name = $2,
    status = $3,
    notes = $4,
    poc = $5,
    quote_number = $6,
    po_number = $7,
    price = $8,
    updated_at = now()
WHERE id = $1
RETURNING updated_at
`

func scanProject(row interface{ Scan(dest ...any) error }) (core.Project, error) {
	var p core.Project
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Status,
		&p.Notes,
		&p.POC,
		&p.QuoteNumber,
		&p.PONumber,
		&p.Price,
		&p.CreatedBy,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

func (q *Queries) listProjects(ctx context.Context, query string) ([]core.Project, error) {
	rows, err := q.db.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.Project
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (q *Queries) ListProjectsByName(ctx context.Context) ([]core.Project, error) {
	return q.listProjects(ctx, listProjectsByName)
}

func (q *Queries) ListProjectsRecent(ctx context.Context) ([]core.Project, error) {
	return q.listProjects(ctx, listProjectsRecent)
}

func (q *Queries) GetProject(ctx context.Context, id int64) (core.Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProject, id))
}

func (q *Queries) GetProjectByName(ctx context.Context, name string) (core.Project, error) {
	return scanProject(q.db.QueryRow(ctx, getProjectByName, name))
}

func (q *Queries) InsertProject(ctx context.Context, p *core.Project) error {
	return q.db.QueryRow(ctx, insertProject,
		p.Name,
		p.Status,
		p.Notes,
		p.POC,
		p.QuoteNumber,
		p.PONumber,
		p.Price,
		p.CreatedBy,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
}

func (q *Queries) UpdateProject(ctx context.Context, p *core.Project) error {
	return q.db.QueryRow(ctx, updateProject,
		p.ID,
		p.Name,
		p.Status,
		p.Notes,
		p.POC,
		p.QuoteNumber,
		p.PONumber,
		p.Price,
	).Scan(&p.UpdatedAt)
}
