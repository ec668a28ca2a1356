package database

import (
	"context"

	"github.com/projtrack/projtrack/internal/core"
)

const insertAudit = `
INSERT INTO audit_log (user_id, action)
VALUES ($1, $2)
`

const listAudit = `
SELECT id, user_id, action, created_at
FROM audit_log
ORDER BY created_at DESC, id DESC
LIMIT $1 OFFSET $2
`

const countAudit = `
SELECT count(*) FROM audit_log
`

func (q *Queries) RecordAudit(ctx context.Context, userID int64, action string) error {
	_, err := q.db.Exec(ctx, insertAudit, userID, action)
	return err
}

func (q *Queries) ListAudit(ctx context.Context, limit, offset int) ([]core.AuditEntry, error) {
	rows, err := q.db.Query(ctx, listAudit, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.AuditEntry
	for rows.Next() {
		var e core.AuditEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) CountAudit(ctx context.Context) (int64, error) {
	var n int64
	err := q.db.QueryRow(ctx, countAudit).Scan(&n)
	return n, err
}
