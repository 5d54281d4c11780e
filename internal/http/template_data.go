package httpx

import (
	domainauth "github.com/BemwaMalak/mini-full-stack/internal/domain/auth"
	"github.com/BemwaMalak/mini-full-stack/internal/domain/outcome"
	"github.com/BemwaMalak/mini-full-stack/internal/service/notifier"
)

// PageData is the view model passed to every page template.
type PageData struct {
	Title   string
	Page    string
	Session domainauth.SessionState
	Nav     []NavLink
	Toasts  []notifier.Toast
	// Error is the outcome of a failed form submission, shown inline.
	Error *outcome.Outcome
	// Form echoes non-secret form values back after a failed submission.
	Form map[string]string
}

// NavLink is one entry of the navigation bar. Links with a Method of POST render
// as a form button.
type NavLink struct {
	Label  string
	Href   string
	Method string
	Active bool
}

// BuildNav derives the navigation bar from the session: Home and Logout when
// authenticated, Login and Register otherwise. A pending session has no links.
func BuildNav(st domainauth.SessionState, current string) []NavLink {
	var links []NavLink
	switch {
	case st.IsPending():
		return nil
	case st.IsAuthenticated():
		links = []NavLink{
			{Label: "Home", Href: RouteHome},
			{Label: "Logout", Href: "/auth/logout", Method: "POST"},
		}
	default:
		links = []NavLink{
			{Label: "Login", Href: RouteLogin},
			{Label: "Register", Href: RouteRegister},
		}
	}
	for i := range links {
		links[i].Active = links[i].Href == current
	}
	return links
}
