package repositories

import "context"

// Identity is the external auth provider's view of an account: a stable
// user id plus the profile fields the portal cares about.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// IdentityStore abstracts the auth provider. SignIn returns
// ErrInvalidCredential or ErrTooManyRequests on the matching failure class;
// CreateIdentity returns ErrEmailInUse when the email is already
// registered. The store never touches portal user rows.
type IdentityStore interface {
	SignIn(ctx context.Context, email, password string) (*Identity, error)
	CreateIdentity(ctx context.Context, email, password, displayName string) (*Identity, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
