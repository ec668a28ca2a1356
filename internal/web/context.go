package web

import (
	"net/http"

	"github.com/projtrack/projtrack/internal/core"
	"github.com/projtrack/projtrack/internal/web/middleware"
)

// currentUser returns the authenticated user for a request behind
// SessionAuth.
func currentUser(r *http.Request) core.CurrentUser {
	return middleware.UserFromContext(r.Context())
}
