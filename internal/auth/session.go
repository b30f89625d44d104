package auth

// Role selects which dashboard a session may use.
type Role string

const (
	// RoleLibrarian manages the catalogue, members and loans.
	RoleLibrarian Role = "librarian"
	// RoleMember searches the catalogue and borrows books.
	RoleMember Role = "member"
)

// Session is the authenticated user of a console run. It is passed
// explicitly to the workflows that need it.
type Session struct {
	UserID string
	Role   Role
	Name   string
}

// IsAuthenticated reports whether the session belongs to a logged-in user.
func (s *Session) IsAuthenticated() bool {
	return s != nil && s.UserID != ""
}

// HasRole reports whether the session is logged in with role r.
func (s *Session) HasRole(r Role) bool {
	return s.IsAuthenticated() && s.Role == r
}

// Logout clears the session.
func (s *Session) Logout() {
	if s == nil {
		return
	}
	*s = Session{}
}
