package session

import "strings"

// Role is the portal-facing role of the logged-in user. Comparison is
// case-insensitive: the backend has returned both "admin" and "ADMIN" over
// time and both must behave identically.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// Equals compares roles ignoring case.
func (r Role) Equals(other Role) bool {
	return strings.EqualFold(string(r), string(other))
}

// Known reports whether the role is one of the recognized portal roles.
func (r Role) Known() bool {
	return r.Equals(RoleEmployee) || r.Equals(RoleAdmin)
}

// Storage keys for the persisted session. The presence of KeyAuthToken is the
// authentication predicate; everything else is display/context data and must
// degrade gracefully when missing.
const (
	KeyAuthToken      = "auth_token"
	KeyUserName       = "user_name"
	KeyUserRole       = "user_role"
	KeyUserID         = "user_id"
	KeyUserEmployeeID = "user_employee_id"
	KeyUserInfo       = "user_info"
)

var allKeys = []string{
	KeyAuthToken,
	KeyUserName,
	KeyUserRole,
	KeyUserID,
	KeyUserEmployeeID,
	KeyUserInfo,
}

// Identity is the user object returned by the auth endpoints, persisted
// verbatim under KeyUserInfo.
type Identity struct {
	EmployeeID string `json:"employeeId,omitempty"`
	Name       string `json:"name,omitempty"`
	Department string `json:"department,omitempty"`
	Position   string `json:"position,omitempty"`
	Role       Role   `json:"role,omitempty"`
	Username   string `json:"username,omitempty"`
}

// Session is the in-memory mirror of the persisted auth state.
type Session struct {
	Token      string
	UserName   string
	Role       Role
	UserID     string
	EmployeeID string
	Identity   Identity
}

// Authenticated reports whether a token is present.
func (s Session) Authenticated() bool {
	return s.Token != ""
}
