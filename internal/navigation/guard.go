package navigation

import (
	"log/slog"

	"github.com/frahmantamala/hrms-portal/internal/session"
)

// DefaultMaxRedirects is the ceiling beyond which a chain of guard-issued
// redirects is treated as a loop.
const DefaultMaxRedirects = 5

type Action string

const (
	ActionAllow    Action = "allow"
	ActionRedirect Action = "redirect"
)

// Decision is the outcome of evaluating one navigation attempt.
type Decision struct {
	Action Action
	Target string
	// LoopDetected marks the safety-valve transition that cleared the
	// session because redirects failed to converge.
	LoopDetected bool
}

func allow() Decision {
	return Decision{Action: ActionAllow}
}

func redirect(target string) Decision {
	return Decision{Action: ActionRedirect, Target: target}
}

// Chain carries the redirect counter of one navigation chain. It is explicit
// state threaded through Resolve so independent guard instances (and tests)
// never share counters.
type Chain struct {
	previous  string
	redirects int
}

// NewChain starts a fresh navigation chain, equivalent to the state right
// after a full page load: no previous route yet.
func NewChain() *Chain {
	return &Chain{}
}

// Redirects reports how many guard-issued redirects this chain has seen.
func (c *Chain) Redirects() int {
	return c.redirects
}

// TitleSetter receives the declared title of every allowed navigation.
type TitleSetter interface {
	SetTitle(title string)
}

// TitleSetterFunc adapts a function to the TitleSetter interface.
type TitleSetterFunc func(title string)

func (f TitleSetterFunc) SetTitle(title string) { f(title) }

// Guard evaluates navigation intents against the current session.
type Guard struct {
	registry     *Registry
	session      *session.Store
	titles       TitleSetter
	logger       *slog.Logger
	maxRedirects int
}

func NewGuard(registry *Registry, sess *session.Store, titles TitleSetter, logger *slog.Logger) *Guard {
	if registry == nil {
		registry = NewRegistry(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{
		registry:     registry,
		session:      sess,
		titles:       titles,
		logger:       logger,
		maxRedirects: DefaultMaxRedirects,
	}
}

// Resolve evaluates one navigation attempt from `from` to `to`. The caller is
// expected to re-enter Resolve with the returned redirect target until an
// allow decision is reached; chain tracks the redirect count across those
// re-entries. An empty `from` marks the first navigation of a fresh chain.
func (g *Guard) Resolve(chain *Chain, from, to string) Decision {
	if from == "" {
		chain.redirects = 0
	}
	chain.previous = from

	if chain.redirects > g.maxRedirects {
		// safety valve: the chain is not converging, assume corrupt auth
		// state and start over from the login page
		g.logger.Error("redirect loop detected, clearing session",
			"redirects", chain.redirects, "target", to)
		g.session.Clear()
		chain.redirects = 0
		return Decision{Action: ActionRedirect, Target: LoginPath, LoopDetected: true}
	}

	if isBypassPath(to) {
		return allow()
	}

	route := g.registry.Match(to)
	authenticated := g.session.IsAuthenticated()
	role := g.session.Role()

	if route.RequiresAuth && !authenticated {
		if to == LoginPath {
			return g.allowNavigation(chain, route)
		}
		chain.redirects++
		return redirect(LoginPath)
	}

	if route.Role != "" && authenticated && !role.Equals(route.Role) {
		if role == "" {
			// authenticated but no role: corrupt state, self-heal
			g.logger.Warn("session has token but no role, clearing", "target", to)
			g.session.Clear()
			return redirect(LoginPath)
		}
		home := HomeFor(role)
		if home == "" {
			g.logger.Warn("session role not recognized, clearing", "role", role)
			g.session.Clear()
			return redirect(LoginPath)
		}
		if to == home {
			return g.allowNavigation(chain, route)
		}
		chain.redirects++
		return redirect(home)
	}

	if authenticated && isPublicEntry(to) {
		home := HomeFor(role)
		if home == "" {
			g.logger.Warn("authenticated session with unrecognized role on login page, clearing", "role", role)
			g.session.Clear()
			return redirect(LoginPath)
		}
		chain.redirects++
		return redirect(home)
	}

	return g.allowNavigation(chain, route)
}

// SafeResolve wraps Resolve so an unexpected panic during evaluation never
// strands the navigation: it recovers to the session's home route, or login
// when unauthenticated.
func (g *Guard) SafeResolve(chain *Chain, from, to string) (decision Decision) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("navigation resolution panicked", "target", to, "panic", r)
			decision = redirect(g.recoveryTarget())
		}
	}()
	return g.Resolve(chain, from, to)
}

func (g *Guard) recoveryTarget() string {
	if g.session.IsAuthenticated() {
		if home := HomeFor(g.session.Role()); home != "" {
			return home
		}
	}
	return LoginPath
}

// allowNavigation finalizes an allow: the chain converged, so the counter
// resets, and the route title is applied best-effort.
func (g *Guard) allowNavigation(chain *Chain, route Route) Decision {
	chain.redirects = 0
	g.setTitle(route)
	return allow()
}

func (g *Guard) setTitle(route Route) {
	if g.titles == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn("setting page title failed", "route", route.Name, "panic", r)
		}
	}()
	title := AppTitle
	if route.Title != "" {
		title = route.Title + " | " + AppTitle
	}
	g.titles.SetTitle(title)
}
