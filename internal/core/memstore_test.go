package core

import (
	"context"
	"sort"
	"strings"
	"time"
)

// memStore is an in-memory Store for tests. Import transactions buffer
// their writes and only apply them on Commit, so rollback behavior is
// observable.
type memStore struct {
	projects []Project
	users    []User
	audit    []AuditEntry
	files    []File
	sessions map[string]Session

	nextProjectID int64
	nextUserID    int64
	nextAuditID   int64
	nextFileID    int64
}

func newMemStore() *memStore {
	return &memStore{
		sessions:      make(map[string]Session),
		nextProjectID: 1,
		nextUserID:    1,
		nextAuditID:   1,
		nextFileID:    1,
	}
}

func (m *memStore) ListProjectsByName(ctx context.Context) ([]Project, error) {
	out := append([]Project(nil), m.projects...)
	sort.Slice(out, func(i, j int) bool {
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out, nil
}

func (m *memStore) ListProjectsRecent(ctx context.Context) ([]Project, error) {
	out := append([]Project(nil), m.projects...)
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m *memStore) GetProject(ctx context.Context, id int64) (*Project, error) {
	for i := range m.projects {
		if m.projects[i].ID == id {
			p := m.projects[i]
			return &p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) InsertProject(ctx context.Context, p *Project) error {
	p.ID = m.nextProjectID
	m.nextProjectID++
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.projects = append(m.projects, *p)
	return nil
}

func (m *memStore) UpdateProject(ctx context.Context, p *Project) error {
	for i := range m.projects {
		if m.projects[i].ID == p.ID {
			p.UpdatedAt = time.Now()
			m.projects[i] = *p
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) GetUser(ctx context.Context, id int64) (*User, error) {
	for i := range m.users {
		if m.users[i].ID == id {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) GetUserByUsername(ctx context.Context, username string) (*User, error) {
	for i := range m.users {
		if m.users[i].Username == username {
			u := m.users[i]
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (m *memStore) ListUsers(ctx context.Context) ([]User, error) {
	return append([]User(nil), m.users...), nil
}

func (m *memStore) InsertUser(ctx context.Context, u *User) error {
	u.ID = m.nextUserID
	m.nextUserID++
	u.CreatedAt = time.Now()
	m.users = append(m.users, *u)
	return nil
}

func (m *memStore) UpdateUserPassword(ctx context.Context, id int64, hash string) error {
	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].PasswordHash = hash
			return nil
		}
	}
	return ErrNotFound
}

func (m *memStore) RecordAudit(ctx context.Context, userID int64, action string) error {
	m.audit = append(m.audit, AuditEntry{
		ID:        m.nextAuditID,
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now(),
	})
	m.nextAuditID++
	return nil
}

func (m *memStore) ListAudit(ctx context.Context, limit, offset int) ([]AuditEntry, error) {
	// Newest first.
	out := append([]AuditEntry(nil), m.audit...)
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) CountAudit(ctx context.Context) (int64, error) {
	return int64(len(m.audit)), nil
}

func (m *memStore) InsertFile(ctx context.Context, f *File) error {
	f.ID = m.nextFileID
	m.nextFileID++
	f.UploadedAt = time.Now()
	m.files = append(m.files, *f)
	return nil
}

func (m *memStore) ListFiles(ctx context.Context, projectID int64) ([]File, error) {
	var out []File
	for _, f := range m.files {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (m *memStore) InsertSession(ctx context.Context, s Session) error {
	m.sessions[s.Token] = s
	return nil
}

func (m *memStore) GetSession(ctx context.Context, token string) (*Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return nil, ErrNotFound
	}
	return &s, nil
}

func (m *memStore) DeleteSession(ctx context.Context, token string) error {
	if _, ok := m.sessions[token]; !ok {
		return ErrNotFound
	}
	delete(m.sessions, token)
	return nil
}

func (m *memStore) BeginImport(ctx context.Context) (ImportTx, error) {
	return &memTx{store: m}, nil
}

// memTx buffers writes until Commit.
type memTx struct {
	store *memStore
	done  bool

	inserted []Project
	updated  []Project
	audits   []AuditEntry
}

func (t *memTx) GetProjectByName(ctx context.Context, name string) (*Project, error) {
	// Pending inserts in the same transaction are visible, like a real
	// database transaction.
	var best *Project
	consider := func(p Project) {
		if p.Name != name {
			return
		}
		if best == nil || p.ID < best.ID {
			cp := p
			best = &cp
		}
	}
	for _, p := range t.store.projects {
		consider(p)
	}
	for _, p := range t.inserted {
		consider(p)
	}
	for _, p := range t.updated {
		consider(p)
	}
	return best, nil
}

func (t *memTx) InsertProject(ctx context.Context, p *Project) error {
	p.ID = t.store.nextProjectID
	t.store.nextProjectID++
	now := time.Now()
	p.CreatedAt = now
	p.UpdatedAt = now
	t.inserted = append(t.inserted, *p)
	return nil
}

func (t *memTx) UpdateProject(ctx context.Context, p *Project) error {
	p.UpdatedAt = time.Now()
	t.updated = append(t.updated, *p)
	return nil
}

func (t *memTx) RecordAudit(ctx context.Context, userID int64, action string) error {
	t.audits = append(t.audits, AuditEntry{
		ID:        t.store.nextAuditID,
		UserID:    userID,
		Action:    action,
		CreatedAt: time.Now(),
	})
	t.store.nextAuditID++
	return nil
}

func (t *memTx) Commit(ctx context.Context) error {
	if t.done {
		return nil
	}
	t.done = true

	t.store.projects = append(t.store.projects, t.inserted...)
	for _, upd := range t.updated {
		for i := range t.store.projects {
			if t.store.projects[i].ID == upd.ID {
				t.store.projects[i] = upd
			}
		}
	}
	t.store.audit = append(t.store.audit, t.audits...)
	return nil
}

func (t *memTx) Rollback(ctx context.Context) error {
	t.done = true
	return nil
}
