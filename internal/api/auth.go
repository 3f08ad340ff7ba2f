package api

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/frahmantamala/hrms-portal/internal"
	"github.com/frahmantamala/hrms-portal/internal/session"
)

// Auth drives the login/logout lifecycle. It is the only module that writes
// to the session store.
type Auth struct {
	client  Doer
	session *session.Store
	logger  *slog.Logger
}

func NewAuth(client Doer, sess *session.Store, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.Default()
	}
	return &Auth{client: client, session: sess, logger: logger}
}

type LoginDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (d LoginDTO) Validate() error {
	if d.Username == "" {
		return internal.NewValidationError("username is required", internal.ErrCodeValidationFailed)
	}
	if d.Password == "" {
		return internal.NewValidationError("password is required", internal.ErrCodeValidationFailed)
	}
	return nil
}

// loginResponse is the auth endpoint contract: token and role always present,
// the embedded user object only on newer backend versions.
type loginResponse struct {
	Token    string       `json:"token"`
	Role     session.Role `json:"role"`
	Username string       `json:"username"`
	User     *struct {
		Name  string `json:"name"`
		EmpID string `json:"empId"`
		Dept  string `json:"dept"`
		Pos   string `json:"pos"`
	} `json:"user"`
}

// employeeDetail is the byEmpId endpoint shape used as fallback when login
// omits the user object.
type employeeDetail struct {
	Name       string `json:"name"`
	EmpID      string `json:"empId"`
	Department string `json:"department"`
	Position   string `json:"position"`
}

// EmployeeLogin authenticates against the employee portal entry. The account
// must carry the employee role; admins are told to use their own entry point.
func (a *Auth) EmployeeLogin(ctx context.Context, dto LoginDTO) (session.Session, error) {
	return a.login(ctx, dto, session.RoleEmployee,
		"this account is not an employee account, use the admin login")
}

// AdminLogin authenticates against the admin portal entry.
func (a *Auth) AdminLogin(ctx context.Context, dto LoginDTO) (session.Session, error) {
	return a.login(ctx, dto, session.RoleAdmin,
		"this account is not an admin account, use the employee login")
}

func (a *Auth) login(ctx context.Context, dto LoginDTO, expected session.Role, wrongPortalMsg string) (session.Session, error) {
	if err := dto.Validate(); err != nil {
		return session.Session{}, err
	}

	var resp loginResponse
	if err := a.client.Post(ctx, "/auth/login", dto, &resp); err != nil {
		return session.Session{}, err
	}
	if resp.Token == "" || resp.Role == "" {
		return session.Session{}, internal.NewInternalError("login response is incomplete", nil)
	}
	if !resp.Role.Equals(expected) {
		return session.Session{}, internal.NewForbiddenError(wrongPortalMsg, internal.ErrCodeWrongLoginPortal)
	}

	identity := a.buildIdentity(ctx, resp)

	displayName := identity.Name
	if displayName == "" {
		displayName = identity.EmployeeID
	}
	if displayName == "" {
		displayName = resp.Username
	}

	if err := a.session.Login(resp.Token, displayName, resp.Role, identity); err != nil {
		return session.Session{}, err
	}
	return a.session.Snapshot(), nil
}

// buildIdentity prefers the user object returned by login. Older backends
// omit it, so the employee detail endpoint fills the gap; that call is
// best-effort and its failure only costs display data.
func (a *Auth) buildIdentity(ctx context.Context, resp loginResponse) session.Identity {
	if resp.User != nil && resp.User.Name != "" {
		empID := resp.User.EmpID
		if empID == "" {
			empID = resp.Username
		}
		return session.Identity{
			EmployeeID: empID,
			Name:       resp.User.Name,
			Department: resp.User.Dept,
			Position:   resp.User.Pos,
			Role:       resp.Role,
			Username:   resp.Username,
		}
	}

	identity := session.Identity{
		EmployeeID: resp.Username,
		Role:       resp.Role,
		Username:   resp.Username,
	}

	if resp.Role.Equals(session.RoleEmployee) && resp.Username != "" {
		// persist the token first so the detail call carries auth headers
		if err := a.session.Login(resp.Token, resp.Username, resp.Role, identity); err != nil {
			a.logger.Warn("could not persist provisional session", "error", err)
			return identity
		}
		var detail employeeDetail
		err := a.client.Get(ctx, "/employees/byEmpId/"+url.PathEscape(resp.Username), &detail)
		if err != nil {
			a.logger.Warn("could not fetch employee detail after login", "username", resp.Username, "error", err)
			return identity
		}
		identity.Name = detail.Name
		identity.Department = detail.Department
		identity.Position = detail.Position
		if detail.EmpID != "" {
			identity.EmployeeID = detail.EmpID
		}
	}
	return identity
}

// Logout invalidates the session remotely best-effort and always clears
// locally: a failed backend call never keeps the user logged in.
func (a *Auth) Logout(ctx context.Context) {
	if err := a.client.Post(ctx, "/auth/logout", nil, nil); err != nil {
		a.logger.Warn("remote logout failed, clearing local session anyway", "error", err)
	}
	a.session.Logout()
}

type RegisterDTO struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

func (a *Auth) Register(ctx context.Context, dto RegisterDTO) error {
	if dto.Username == "" || dto.Password == "" {
		return internal.NewValidationError("username and password are required", internal.ErrCodeValidationFailed)
	}
	return a.client.Post(ctx, "/auth/register", dto, nil)
}
