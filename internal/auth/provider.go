package auth

import "context"

// Account is what the identity provider returns on a successful sign-in or
// account creation. Token carries the provider's session token when it issues
// one; the store itself does not interpret it.
type Account struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Token       string `json:"-"`
}

// Profile is auxiliary data handed to the provider on account creation.
type Profile struct {
	Name string `json:"name"`
}

// Provider is the external identity backend the store delegates to.
// Structured failures are returned as *ProviderError; any other error is
// treated as unexpected (network fault, malformed response) and replaced with
// a generic message before it reaches the caller.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (*Account, error)
	CreateAccount(ctx context.Context, email, password string, profile Profile) (*Account, error)
	SignOut(ctx context.Context) error

	// SignInMethods lists the registered sign-in methods for an email.
	// An empty list means the email is not registered.
	SignInMethods(ctx context.Context, email string) ([]string, error)
}

// Watcher is implemented by providers that can assert session changes outside
// of explicit calls (token refresh, another tab signing out). The callback
// receives the current identity, or nil when signed out. None of the shipped
// providers push session changes; the entrypoint wires the callback to
// Store.SetIdentity whenever the configured provider implements this.
type Watcher interface {
	OnIdentityChanged(fn func(*Identity)) (stop func())
}
