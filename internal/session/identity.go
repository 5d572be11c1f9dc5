package session

// State classifies the resolution outcome for an inbound request.
type State string

const (
	StateAuthenticated   State = "authenticated"
	StateGuest           State = "guest"
	StateUnauthenticated State = "unauthenticated"
)

// Identity is the resolved caller identity: exactly one of an
// authenticated user, a guest pseudo-identity, or nobody. Guest ids live
// in their own field so they can never be mistaken for a user row id.
type Identity struct {
	State   State
	UserID  string
	GuestID string
}

// Authenticated builds the identity of a logged-in user.
func Authenticated(userID string) Identity {
	return Identity{State: StateAuthenticated, UserID: userID}
}

// Guest builds a guest pseudo-identity.
func Guest(guestID string) Identity {
	return Identity{State: StateGuest, GuestID: guestID}
}

// Unauthenticated builds the empty identity.
func Unauthenticated() Identity {
	return Identity{State: StateUnauthenticated}
}

// IsAuthenticated reports whether the identity maps to a user row.
func (i Identity) IsAuthenticated() bool {
	return i.State == StateAuthenticated
}

// IsGuest reports whether the identity is a guest pseudo-identity.
func (i Identity) IsGuest() bool {
	return i.State == StateGuest
}

// Resolved reports whether the request carries any usable identity.
func (i Identity) Resolved() bool {
	return i.State == StateAuthenticated || i.State == StateGuest
}
