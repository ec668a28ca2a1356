package database

import (
	"context"

	"github.com/projtrack/projtrack/internal/core"
)

const insertFile = `
INSERT INTO files (project_id, filename, filepath, uploaded_by)
VALUES ($1, $2, $3, $4)
RETURNING id, uploaded_at
`

const listFiles = `
SELECT id, project_id, filename, filepath, uploaded_by, uploaded_at
FROM files
WHERE project_id = $1
ORDER BY uploaded_at DESC, id DESC
`

const getFile = `
SELECT id, project_id, filename, filepath, uploaded_by, uploaded_at
FROM files
WHERE id = $1
`

func (q *Queries) InsertFile(ctx context.Context, f *core.File) error {
	return q.db.QueryRow(ctx, insertFile, f.ProjectID, f.Filename, f.Filepath, f.UploadedBy).
		Scan(&f.ID, &f.UploadedAt)
}

func (q *Queries) ListFiles(ctx context.Context, projectID int64) ([]core.File, error) {
	rows, err := q.db.Query(ctx, listFiles, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.File
	for rows.Next() {
		var f core.File
		if err := rows.Scan(&f.ID, &f.ProjectID, &f.Filename, &f.Filepath, &f.UploadedBy, &f.UploadedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (q *Queries) GetFile(ctx context.Context, id int64) (core.File, error) {
	var f core.File
	err := q.db.QueryRow(ctx, getFile, id).
		Scan(&f.ID, &f.ProjectID, &f.Filename, &f.Filepath, &f.UploadedBy, &f.UploadedAt)
	return f, err
}
