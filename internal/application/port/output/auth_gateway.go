package output

import (
	"context"
	"fmt"
)

// AuthGateway is the narrow surface of the hosted authentication service
type AuthGateway interface {
	// SignIn exchanges credentials for a session
	SignIn(ctx context.Context, email, password string) (*AuthSession, error)

	// SignUp registers an account. The account stays pending until the
	// address is verified by the provider.
	SignUp(ctx context.Context, email, password string, profile Profile) (*PendingVerification, error)

	// ResetPassword asks the provider to mail a reset link that lands on redirectURL
	ResetPassword(ctx context.Context, email, redirectURL string) error
}

// Profile is user metadata stored with the account
type Profile struct {
	Name string `json:"name"`
}

// AuthSession is a signed-in user
type AuthSession struct {
	UserID      string
	Email       string
	Name        string
	AccessToken string
}

// PendingVerification is the result of a sign up
type PendingVerification struct {
	UserID string
	Email  string
}

// AuthError is an error reported by the auth provider. Message is meant to
// be shown to the user as is.
type AuthError struct {
	Code    string
	Message string
}

func (e *AuthError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}
