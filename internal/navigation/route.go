// Package navigation gates portal navigation by authentication and role. The
// guard is polymorphic over declared route metadata; the only hard-coded paths
// are the login entry points and the per-role canonical home routes.
package navigation

import (
	"strings"

	"github.com/frahmantamala/hrms-portal/internal/session"
)

const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin-login"
	RegisterPath   = "/register"

	EmployeeHomePath = "/employee/dashboard"
	AdminHomePath    = "/admin/dashboard"

	AppTitle = "HRMS"
)

// Route declares the auth/role requirements and title of one navigable path.
type Route struct {
	Path         string
	Name         string
	Title        string
	RequiresAuth bool
	Role         session.Role
}

// publicEntryPaths are the routes an authenticated user is bounced away from.
var publicEntryPaths = []string{LoginPath, AdminLoginPath, RegisterPath}

// bypassPrefixes are not page navigations and skip guard evaluation entirely.
var bypassPrefixes = []string{"/api/", "/static/"}

func defaultRoutes() []Route {
	return []Route{
		{Path: LoginPath, Name: "Login", Title: "Employee Login"},
		{Path: AdminLoginPath, Name: "AdminLogin", Title: "Admin Login"},
		{Path: RegisterPath, Name: "Register", Title: "Register"},

		{Path: EmployeeHomePath, Name: "EmployeeDashboard", Title: "Employee Home", RequiresAuth: true, Role: session.RoleEmployee},
		{Path: "/employee/profile", Name: "EmployeeProfile", Title: "My Profile", RequiresAuth: true, Role: session.RoleEmployee},
		{Path: "/employee/salary", Name: "EmployeeSalary", Title: "My Salary", RequiresAuth: true, Role: session.RoleEmployee},
		{Path: "/employee/announcements", Name: "EmployeeAnnouncements", Title: "Announcements", RequiresAuth: true, Role: session.RoleEmployee},
		{Path: "/employee/leave", Name: "EmployeeLeave", Title: "Leave Requests", RequiresAuth: true, Role: session.RoleEmployee},

		{Path: AdminHomePath, Name: "AdminDashboard", Title: "Admin Home", RequiresAuth: true, Role: session.RoleAdmin},
		{Path: "/admin/employees", Name: "AdminEmployees", Title: "Employee Management", RequiresAuth: true, Role: session.RoleAdmin},
		{Path: "/admin/announcements", Name: "AdminAnnouncements", Title: "Announcement Management", RequiresAuth: true, Role: session.RoleAdmin},
		{Path: "/admin/reports", Name: "AdminReports", Title: "Reports", RequiresAuth: true, Role: session.RoleAdmin},
		{Path: "/admin/leave-approval", Name: "AdminLeaveApproval", Title: "Leave Approval", RequiresAuth: true, Role: session.RoleAdmin},
		{Path: "/admin/salary", Name: "AdminSalary", Title: "Salary Management", RequiresAuth: true, Role: session.RoleAdmin},
		{Path: "/admin/settings", Name: "AdminSettings", Title: "Settings", RequiresAuth: true, Role: session.RoleAdmin},
	}
}

// Registry resolves paths to declared routes.
type Registry struct {
	routes []Route
}

func NewRegistry(routes []Route) *Registry {
	if routes == nil {
		routes = defaultRoutes()
	}
	return &Registry{routes: routes}
}

// Routes returns the declared route table.
func (r *Registry) Routes() []Route {
	out := make([]Route, len(r.routes))
	copy(out, r.routes)
	return out
}

// Match returns the declared route for path. Unknown paths resolve to a
// catch-all not-found route with no auth requirement, matching the portal's
// wildcard error page.
func (r *Registry) Match(path string) Route {
	for _, route := range r.routes {
		if route.Path == path {
			return route
		}
	}
	return Route{Path: path, Name: "NotFound", Title: "Page Not Found"}
}

// HomeFor returns the canonical home route for a role, or empty when the role
// is not recognized.
func HomeFor(role session.Role) string {
	switch {
	case role.Equals(session.RoleAdmin):
		return AdminHomePath
	case role.Equals(session.RoleEmployee):
		return EmployeeHomePath
	default:
		return ""
	}
}

func isPublicEntry(path string) bool {
	for _, entry := range publicEntryPaths {
		if path == entry {
			return true
		}
	}
	return false
}

func isBypassPath(path string) bool {
	for _, prefix := range bypassPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}
