package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

func authMessage(t *testing.T, err error) string {
	t.Helper()
	var authErr *output.AuthError
	require.True(t, errors.As(err, &authErr), "expected *output.AuthError, got %v", err)
	return authErr.Message
}

func TestLocalGateway_SignUpAndSignIn(t *testing.T) {
	ctx := context.Background()
	g := NewLocalGateway(WithBcryptCost(bcrypt.MinCost))

	pending, err := g.SignUp(ctx, " Amara@Example.com ", "secret1", output.Profile{Name: "Amara"})
	require.NoError(t, err)
	assert.Equal(t, "amara@example.com", pending.Email)
	assert.NotEmpty(t, pending.UserID)

	session, err := g.SignIn(ctx, "amara@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, pending.UserID, session.UserID)
	assert.Equal(t, "Amara", session.Name)
	assert.NotEmpty(t, session.AccessToken)

	_, err = g.SignIn(ctx, "amara@example.com", "wrong-password")
	assert.Equal(t, "Invalid login credentials", authMessage(t, err))

	_, err = g.SignIn(ctx, "nobody@example.com", "secret1")
	assert.Equal(t, "Invalid login credentials", authMessage(t, err))
}

func TestLocalGateway_SignUpValidation(t *testing.T) {
	ctx := context.Background()
	g := NewLocalGateway(WithBcryptCost(bcrypt.MinCost))

	_, err := g.SignUp(ctx, "not-an-email", "secret1", output.Profile{})
	assert.Equal(t, "Unable to validate email address: invalid format", authMessage(t, err))

	_, err = g.SignUp(ctx, "amara@example.com", "12345", output.Profile{})
	assert.Equal(t, "Password should be at least 6 characters", authMessage(t, err))

	_, err = g.SignUp(ctx, "amara@example.com", "123456", output.Profile{})
	require.NoError(t, err)

	_, err = g.SignUp(ctx, "AMARA@example.com", "123456", output.Profile{})
	assert.Equal(t, "User already registered", authMessage(t, err))
}

func TestLocalGateway_ResetPassword(t *testing.T) {
	ctx := context.Background()
	g := NewLocalGateway(WithBcryptCost(bcrypt.MinCost))
	_, err := g.SignUp(ctx, "amara@example.com", "secret1", output.Profile{})
	require.NoError(t, err)

	require.NoError(t, g.ResetPassword(ctx, "amara@example.com", "http://localhost/reset-password"))
	require.NoError(t, g.ResetPassword(ctx, "unknown@example.com", "http://localhost/reset-password"))

	err = g.ResetPassword(ctx, "", "http://localhost/reset-password")
	assert.Equal(t, "Unable to validate email address: invalid format", authMessage(t, err))

	assert.Equal(t, []ResetRequest{{Email: "amara@example.com", RedirectURL: "http://localhost/reset-password"}}, g.ResetRequests())
}

func TestNewAuthGateway(t *testing.T) {
	g, err := NewAuthGateway("local", "", "", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &LocalGateway{}, g)

	g, err = NewAuthGateway("hosted", "https://auth.example.com", "key", time.Second)
	require.NoError(t, err)
	assert.IsType(t, &HostedGateway{}, g)

	_, err = NewAuthGateway("hosted", "", "key", time.Second)
	assert.Error(t, err)

	_, err = NewAuthGateway("hosted", "https://auth.example.com", "", time.Second)
	assert.Error(t, err)

	_, err = NewAuthGateway("ldap", "", "", time.Second)
	assert.Error(t, err)
}
