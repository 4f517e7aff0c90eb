// Package session holds the server-side session marker. The marker
// records only that a user is authenticated; the role is not stored in
// it and is re-read from the user record on every protected request.
package session

import "workload/internal/model"

// Session is the resolved identity attached to a request once the
// marker and role checks pass. It is built at route-resolution time and
// passed explicitly; nothing reads ambient global state.
type Session struct {
	UserID string
	Role   model.Role
}
