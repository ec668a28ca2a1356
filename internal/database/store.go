package database

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projtrack/projtrack/internal/core"
)

// Store implements core.Store over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore wraps a pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Pool exposes the underlying pool for health checks and shutdown.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// mapError translates pgx errors into the core package's sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return core.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		// unique_violation; the only unique business key is users.username.
		return core.ErrUsernameExists
	}
	return err
}

func (s *Store) ListProjectsByName(ctx context.Context) ([]core.Project, error) {
	return New(s.pool).ListProjectsByName(ctx)
}

func (s *Store) ListProjectsRecent(ctx context.Context) ([]core.Project, error) {
	return New(s.pool).ListProjectsRecent(ctx)
}

func (s *Store) GetProject(ctx context.Context, id int64) (*core.Project, error) {
	p, err := New(s.pool).GetProject(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &p, nil
}

func (s *Store) InsertProject(ctx context.Context, p *core.Project) error {
	return mapError(New(s.pool).InsertProject(ctx, p))
}

func (s *Store) UpdateProject(ctx context.Context, p *core.Project) error {
	return mapError(New(s.pool).UpdateProject(ctx, p))
}

func (s *Store) GetUser(ctx context.Context, id int64) (*core.User, error) {
	u, err := New(s.pool).GetUser(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*core.User, error) {
	u, err := New(s.pool).GetUserByUsername(ctx, username)
	if err != nil {
		return nil, mapError(err)
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]core.User, error) {
	return New(s.pool).ListUsers(ctx)
}

func (s *Store) InsertUser(ctx context.Context, u *core.User) error {
	return mapError(New(s.pool).InsertUser(ctx, u))
}

func (s *Store) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	return mapError(New(s.pool).UpdateUserPassword(ctx, id, hash))
}

func (s *Store) RecordAudit(ctx context.Context, userID int64, action string) error {
	return New(s.pool).RecordAudit(ctx, userID, action)
}

func (s *Store) ListAudit(ctx context.Context, limit, offset int) ([]core.AuditEntry, error) {
	return New(s.pool).ListAudit(ctx, limit, offset)
}

func (s *Store) CountAudit(ctx context.Context) (int64, error) {
	return New(s.pool).CountAudit(ctx)
}

func (s *Store) InsertFile(ctx context.Context, f *core.File) error {
	return mapError(New(s.pool).InsertFile(ctx, f))
}

func (s *Store) ListFiles(ctx context.Context, projectID int64) ([]core.File, error) {
	return New(s.pool).ListFiles(ctx, projectID)
}

// GetFile is used by the download handler; it is not part of core.Store.
func (s *Store) GetFile(ctx context.Context, id int64) (*core.File, error) {
	f, err := New(s.pool).GetFile(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return &f, nil
}

func (s *Store) InsertSession(ctx context.Context, sess core.Session) error {
	return New(s.pool).InsertSession(ctx, sess)
}

func (s *Store) GetSession(ctx context.Context, token string) (*core.Session, error) {
	sess, err := New(s.pool).GetSession(ctx, token)
	if err != nil {
		return nil, mapError(err)
	}
	return &sess, nil
}

func (s *Store) DeleteSession(ctx context.Context, token string) error {
	return mapError(New(s.pool).DeleteSession(ctx, token))
}

// DeleteExpiredSessions is run periodically by the server.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int64, error) {
	return New(s.pool).DeleteExpiredSessions(ctx)
}

// BeginImport opens the transaction a CSV import runs in.
func (s *Store) BeginImport(ctx context.Context) (core.ImportTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &importTx{tx: tx, q: New(tx)}, nil
}

// importTx binds the import queries to one transaction so the whole
// reconciliation commits or rolls back as a unit.
type importTx struct {
	tx pgx.Tx
	q  *Queries
}

func (t *importTx) GetProjectByName(ctx context.Context, name string) (*core.Project, error) {
	p, err := t.q.GetProjectByName(ctx, name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (t *importTx) InsertProject(ctx context.Context, p *core.Project) error {
	return mapError(t.q.InsertProject(ctx, p))
}

func (t *importTx) UpdateProject(ctx context.Context, p *core.Project) error {
	return mapError(t.q.UpdateProject(ctx, p))
}

func (t *importTx) RecordAudit(ctx context.Context, userID int64, action string) error {
	return t.q.RecordAudit(ctx, userID, action)
}

func (t *importTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *importTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

var _ core.Store = (*Store)(nil)
