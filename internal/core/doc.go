// Package core provides the business logic for the project tracker.
//
// This package is independent of any transport layer: the web handlers, CLI
// tools, and tests all drive the same [Service]. Persistence is abstracted
// behind the [Store] interface, implemented for PostgreSQL by the database
// package and by an in-memory fake in tests.
//
// # Roles
//
// Every operation takes the calling [CurrentUser]. Permissions are decided
// from the closed [Role] enum:
//
//   - RoleAdmin: everything, including price visibility and user management
//   - RoleProjectManager: project editing plus CSV import/export
//   - RoleUser: read access and note appending
//
// # CSV import/export
//
// [Service.ExportProjects] serializes the project table to CSV with a
// role-dependent column set. [Service.ImportProjects] reconciles an uploaded
// CSV against stored projects by name, creating or updating rows inside a
// single transaction; the audit entry for the run commits with the batch.
//
// Merge semantics on the update path are driven by the [Field] type: an
// absent or empty CSV cell means "keep the stored value", never "clear it".
//
// # Errors
//
// Failures callers are expected to branch on are sentinel errors
// ([ErrUnauthorized], [ErrEmptyUpload], [ErrMalformedCSV], [ErrNotFound],
// [ErrInvalidCredentials], [ErrUsernameExists]). Everything else is a plain
// wrapped error; [MapError] turns any error into a user-facing message with
// a support code.
//
// # Audit trail
//
// Every mutating or export operation records exactly one audit entry
// attributed to the invoking user. Audit entries are append-only and never
// modified by this package.
package core
