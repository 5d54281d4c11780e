package auth

// Paths the guard redirects to.
const (
	LoginPath = "/login"
	HomePath  = "/home"
)

// Requirement describes what a view needs before it may render.
type Requirement struct {
	RequiresAuth bool
	RequiredRole *Role
}

// Standing requirements used by the router.
//
//nolint:gochecknoglobals // immutable values shared by every guarded route
var (
	RequireAuthenticated = Requirement{RequiresAuth: true}
	RequireAdmin         = Requirement{RequiresAuth: true, RequiredRole: rolePtr(RoleAdmin)}
)

func rolePtr(r Role) *Role { return &r }

// DecisionKind enumerates what the router should do with a guarded view.
type DecisionKind string

const (
	DecisionShowPending DecisionKind = "show_pending"
	DecisionShowView    DecisionKind = "show_view"
	DecisionRedirect    DecisionKind = "redirect"
)

// Decision is the guard's verdict. Path is set only for DecisionRedirect.
type Decision struct {
	Kind DecisionKind
	Path string
}

func ShowPending() Decision { return Decision{Kind: DecisionShowPending} }
func ShowView() Decision    { return Decision{Kind: DecisionShowView} }

// RedirectTo returns a redirect decision to path.
func RedirectTo(path string) Decision { return Decision{Kind: DecisionRedirect, Path: path} }

// Guard decides whether a view may render for the given session state.
// Rules are evaluated in order and the first match wins:
//  1. pending session: show the pending indicator
//  2. auth required but not authenticated: redirect to /login
//  3. role required but missing or different: redirect to /home
//  4. otherwise: show the view
//
// A wrong role is a soft redirect to the authenticated landing page, never a 403.
// Guard is pure and never navigates; the caller enacts the decision.
func Guard(state SessionState, req Requirement) Decision {
	if state.Status == StatusPending {
		return ShowPending()
	}
	if req.RequiresAuth && state.Status != StatusAuthenticated {
		return RedirectTo(LoginPath)
	}
	if req.RequiredRole != nil && (state.Identity == nil || state.Identity.Role != *req.RequiredRole) {
		return RedirectTo(HomePath)
	}
	return ShowView()
}
