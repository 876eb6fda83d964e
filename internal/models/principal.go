package models

// PrincipalKind tags the caller variant.
type PrincipalKind string

const (
	PrincipalAnonymous     PrincipalKind = "anonymous"
	PrincipalAuthenticated PrincipalKind = "authenticated"
)

// Principal identifies the caller of an operation. Built by the auth
// middleware and threaded through handlers instead of raw identifiers.
type Principal struct {
	Kind PrincipalKind

	// Authenticated only
	UserID   uint
	Username string
	Roles    []string

	Email string
}

func Anonymous() Principal {
	return Principal{Kind: PrincipalAnonymous}
}

func Authenticated(id uint, username, email string, roles []string) Principal {
	return Principal{
		Kind:     PrincipalAuthenticated,
		UserID:   id,
		Username: username,
		Email:    email,
		Roles:    roles,
	}
}

func (p Principal) IsAuthenticated() bool {
	return p.Kind == PrincipalAuthenticated
}
