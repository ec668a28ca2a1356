package database

import (
	"context"

	"github.com/projtrack/projtrack/internal/core"
)

const getUser = `
SELECT id, username, password_hash, role, created_at
FROM users
WHERE id = $1
`

const getUserByUsername = `
SELECT id, username, password_hash, role, created_at
FROM users
WHERE username = $1
`

const listUsers = `
SELECT id, username, password_hash, role, created_at
FROM users
ORDER BY username
`

const insertUser = `
INSERT INTO users (username, password_hash, role)
VALUES ($1, $2, $3)
RETURNING id, created_at
`

const updateUserPassword = `
UPDATE users
SET password_hash = $2
WHERE id = $1
`

func scanUser(row interface{ Scan(dest ...any) error }) (core.User, error) {
	var (
		u    core.User
		role string
	)
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &role, &u.CreatedAt)
	if err != nil {
		return core.User{}, err
	}
	u.Role = core.ParseRole(role)
	return u, nil
}

func (q *Queries) GetUser(ctx context.Context, id int64) (core.User, error) {
	return scanUser(q.db.QueryRow(ctx, getUser, id))
}

func (q *Queries) GetUserByUsername(ctx context.Context, username string) (core.User, error) {
	return scanUser(q.db.QueryRow(ctx, getUserByUsername, username))
}

func (q *Queries) ListUsers(ctx context.Context) ([]core.User, error) {
	rows, err := q.db.Query(ctx, listUsers)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []core.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (q *Queries) InsertUser(ctx context.Context, u *core.User) error {
	return q.db.QueryRow(ctx, insertUser, u.Username, u.PasswordHash, u.Role.String()).
		Scan(&u.ID, &u.CreatedAt)
}

func (q *Queries) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	tag, err := q.db.Exec(ctx, updateUserPassword, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}
