package core

import (
	"context"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
)

// Role is the closed set of permission levels.
// Role text from storage is parsed with ParseRole; anything unrecognized
// degrades to RoleUser so a corrupted role column never grants access.
type Role int

const (
	RoleUser Role = iota
	RoleProjectManager
	RoleAdmin
)

// ParseRole maps stored role text to a Role.
// Accepts the short forms used by the legacy data ("pm") as well as the
// spelled-out ones.
func ParseRole(s string) Role {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "admin":
		return RoleAdmin
	case "pm", "project-manager", "project_manager":
		return RoleProjectManager
	default:
		return RoleUser
	}
}

// String returns the storage form of the role.
func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleProjectManager:
		return "pm"
	default:
		return "user"
	}
}

// IsAdmin reports whether the role may see and write prices and manage users.
func (r Role) IsAdmin() bool { return r == RoleAdmin }

// CanManageProjects reports whether the role may create projects and run
// CSV import/export.
func (r Role) CanManageProjects() bool {
	return r == RoleAdmin || r == RoleProjectManager
}

// CurrentUser identifies the caller of an operation. It is resolved by the
// auth middleware and threaded through every service call.
type CurrentUser struct {
	ID       int64
	Username string
	Role     Role
}

// Project is one tracked engagement.
// Name is the reconciliation key for CSV import. Price is NULL unless an
// admin has set it; it is never exposed to non-admin callers.
type Project struct {
	ID          int64
	Name        string
	Status      string
	Notes       string
	POC         string
	QuoteNumber string
	PONumber    string
	Price       pgtype.Numeric
	CreatedBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// DefaultStatus is the status assigned to projects created without one.
const DefaultStatus = "Open"

// User is an account that can log in.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// AuditEntry is one immutable record of a user action.
type AuditEntry struct {
	ID        int64
	UserID    int64
	Action    string
	CreatedAt time.Time
}

// AuditView is an audit entry joined with the acting user's name for display.
type AuditView struct {
	AuditEntry
	Username string
}

// File is a stored project attachment.
type File struct {
	ID         int64     `json:"id"`
	ProjectID  int64     `json:"project_id"`
	Filename   string    `json:"filename"`
	Filepath   string    `json:"-"`
	UploadedBy int64     `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Session is a login session backing the auth collaborator.
type Session struct {
	Token     string
	UserID    int64
	ExpiresAt time.Time
}

// Field carries one optional column value from an import row.
//
// The zero value means "keep whatever is stored"; SetField means overwrite.
// This makes the merge rule explicit instead of relying on empty-string
// checks, so a future "set to empty" requirement cannot clear fields by
// accident.
type Field struct {
	value string
	set   bool
}

// SetField returns a Field that overwrites with v.
func SetField(v string) Field { return Field{value: v, set: true} }

// IsSet reports whether the field carries a value.
func (f Field) IsSet() bool { return f.set }

// Value returns the carried value, or "" when unset.
func (f Field) Value() string { return f.value }

// Apply returns the new value for a stored field: the carried value when
// set, otherwise the previous one.
func (f Field) Apply(prev string) string {
	if f.set {
		return f.value
	}
	return prev
}

// Or returns the carried value when set, otherwise def. Used on the create
// path where there is no previous value to preserve.
func (f Field) Or(def string) string {
	if f.set {
		return f.value
	}
	return def
}

// ImportResult reports the outcome of one CSV import run.
type ImportResult struct {
	Created int `json:"created"`
	Updated int `json:"updated"`
}

// ExportFile is a serialized CSV export ready to hand to the HTTP layer.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// Store is the persistence boundary for the service. The database package
// implements it over pgx; tests use an in-memory fake.
type Store interface {
	// Projects, read side.
	ListProjectsByName(ctx context.Context) ([]Project, error)
	ListProjectsRecent(ctx context.Context) ([]Project, error)
	GetProject(ctx context.Context, id int64) (*Project, error)

	// Projects, write side outside the import batch.
	InsertProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error

	// Users.
	GetUser(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	ListUsers(ctx context.Context) ([]User, error)
	InsertUser(ctx context.Context, u *User) error
	UpdateUserPassword(ctx context.Context, id int64, hash string) error

	// Audit trail.
	RecordAudit(ctx context.Context, userID int64, action string) error
	ListAudit(ctx context.Context, limit, offset int) ([]AuditEntry, error)
	CountAudit(ctx context.Context) (int64, error)

	// Attachments.
	InsertFile(ctx context.Context, f *File) error
	ListFiles(ctx context.Context, projectID int64) ([]File, error)

	// Sessions.
	InsertSession(ctx context.Context, s Session) error
	GetSession(ctx context.Context, token string) (*Session, error)
	DeleteSession(ctx context.Context, token string) error

	// BeginImport opens the transaction an import batch runs in.
	BeginImport(ctx context.Context) (ImportTx, error)
}

// ImportTx is the transactional scope of one import batch. All row changes
// and the run's audit entry commit together or not at all.
type ImportTx interface {
	// GetProjectByName returns the stored project with the given exact name,
	// or nil when there is none. When duplicate names exist the lowest id
	// wins, so reconciliation is deterministic.
	GetProjectByName(ctx context.Context, name string) (*Project, error)
	InsertProject(ctx context.Context, p *Project) error
	UpdateProject(ctx context.Context, p *Project) error
	RecordAudit(ctx context.Context, userID int64, action string) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}
