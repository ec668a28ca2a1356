package database

import (
	"context"

	"github.com/projtrack/projtrack/internal/core"
)

const insertSession = `
INSERT INTO sessions (token, user_id, expires_at)
VALUES ($1, $2, $3)
`

const getSession = `
SELECT token, user_id, expires_at
FROM sessions
WHERE token = $1
`

const deleteSession = `
DELETE FROM sessions WHERE token = $1
`

const deleteExpiredSessions = `
DELETE FROM sessions WHERE expires_at < now()
`

func (q *Queries) InsertSession(ctx context.Context, s core.Session) error {
	_, err := q.db.Exec(ctx, insertSession, s.Token, s.UserID, s.ExpiresAt)
	return err
}

func (q *Queries) GetSession(ctx context.Context, token string) (core.Session, error) {
	var s core.Session
	err := q.db.QueryRow(ctx, getSession, token).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	return s, err
}

func (q *Queries) DeleteSession(ctx context.Context, token string) error {
	tag, err := q.db.Exec(ctx, deleteSession, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

// DeleteExpiredSessions removes sessions past their expiry. Returns the
// number of rows removed.
func (q *Queries) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	tag, err := q.db.Exec(ctx, deleteExpiredSessions)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
