package session

// State is the session lifecycle state.
type State int

const (
	// StateUnauthenticated means no session is established.
	StateUnauthenticated State = iota
	// StateAuthenticating means a credential exchange is in flight.
	StateAuthenticating
	// StateAuthenticatedLoading means the session is established but the
	// user record or permission snapshot is still loading.
	StateAuthenticatedLoading
	// StateAuthenticatedReady means the session is fully established.
	StateAuthenticatedReady
)

func (s State) String() string {
	switch s {
	case StateUnauthenticated:
		return "unauthenticated"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticatedLoading:
		return "authenticated(loading)"
	case StateAuthenticatedReady:
		return "authenticated(ready)"
	default:
		return "unknown"
	}
}

// Authenticated reports whether the state represents an established session.
func (s State) Authenticated() bool {
	return s == StateAuthenticatedLoading || s == StateAuthenticatedReady
}

// Loading reports whether the state represents work in flight.
func (s State) Loading() bool {
	return s == StateAuthenticating || s == StateAuthenticatedLoading
}
