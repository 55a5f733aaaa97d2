package session

// Decision is the route guard's verdict for a protected view.
type Decision int

const (
	// Pending means the auth state is still loading; render a neutral
	// placeholder and do not redirect yet.
	Pending Decision = iota

	// Allow means a principal exists and the guarded subtree may render.
	Allow

	// Redirect means loading has resolved with no principal; send the
	// client to the login entry point.
	Redirect
)

// String returns the decision name.
func (d Decision) String() string {
	switch d {
	case Pending:
		return "pending"
	case Allow:
		return "allow"
	case Redirect:
		return "redirect"
	default:
		return "unknown"
	}
}

// Decide maps the current auth state to a guard decision. A redirect is
// never issued while the state is still loading; otherwise a page refresh
// would bounce to login before the first auth notification arrives.
func Decide(loading bool, p *Principal) Decision {
	if loading {
		return Pending
	}
	if p != nil {
		return Allow
	}
	return Redirect
}
