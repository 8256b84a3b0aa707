package auth

import (
	"context"
	"regexp"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// Messages match the hosted provider so the pages read the same in both modes
const (
	msgInvalidEmail       = "Unable to validate email address: invalid format"
	msgWeakPassword       = "Password should be at least 6 characters"
	msgAlreadyRegistered  = "User already registered"
	msgInvalidCredentials = "Invalid login credentials"

	minPasswordLength = 6
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// LocalGateway implements AuthGateway with an in-process account table.
// Accounts are confirmed immediately and live as long as the process.
type LocalGateway struct {
	mu       sync.Mutex
	accounts map[string]*account // normalized email -> account
	resets   []ResetRequest
	cost     int
}

type account struct {
	id    string
	email string
	name  string
	hash  []byte
}

// ResetRequest is a password reset the local gateway would have mailed
type ResetRequest struct {
	Email       string
	RedirectURL string
}

// LocalOption configures a LocalGateway
type LocalOption func(*LocalGateway)

// WithBcryptCost overrides the hashing cost. Tests use bcrypt.MinCost.
func WithBcryptCost(cost int) LocalOption {
	return func(g *LocalGateway) {
		g.cost = cost
	}
}

// NewLocalGateway creates an empty local account store
func NewLocalGateway(opts ...LocalOption) *LocalGateway {
	g := &LocalGateway{
		accounts: make(map[string]*account),
		cost:     bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SignUp creates an account
func (g *LocalGateway) SignUp(ctx context.Context, email, password string, profile output.Profile) (*output.PendingVerification, error) {
	key, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if len(password) < minPasswordLength {
		return nil, &output.AuthError{Code: "weak_password", Message: msgWeakPassword}
	}

	// Hash outside the lock
	hash, err := bcrypt.GenerateFromPassword([]byte(password), g.cost)
	if err != nil {
		return nil, &output.AuthError{Code: "weak_password", Message: err.Error()}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.accounts[key]; exists {
		return nil, &output.AuthError{Code: "user_already_exists", Message: msgAlreadyRegistered}
	}
	acc := &account{
		id:    uuid.NewString(),
		email: key,
		name:  strings.TrimSpace(profile.Name),
		hash:  hash,
	}
	g.accounts[key] = acc

	return &output.PendingVerification{UserID: acc.id, Email: acc.email}, nil
}

// SignIn checks the password against the stored hash
func (g *LocalGateway) SignIn(ctx context.Context, email, password string) (*output.AuthSession, error) {
	invalid := &output.AuthError{Code: "invalid_credentials", Message: msgInvalidCredentials}

	key := strings.ToLower(strings.TrimSpace(email))
	g.mu.Lock()
	acc, exists := g.accounts[key]
	g.mu.Unlock()
	if !exists {
		return nil, invalid
	}

	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(password)); err != nil {
		return nil, invalid
	}

	return &output.AuthSession{
		UserID:      acc.id,
		Email:       acc.email,
		Name:        acc.name,
		AccessToken: uuid.NewString(),
	}, nil
}

// ResetPassword records the request. Unknown addresses succeed silently so
// the response does not reveal which accounts exist.
func (g *LocalGateway) ResetPassword(ctx context.Context, email, redirectURL string) error {
	key, err := normalizeEmail(email)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	if _, exists := g.accounts[key]; exists {
		g.resets = append(g.resets, ResetRequest{Email: key, RedirectURL: redirectURL})
	}
	return nil
}

// ResetRequests returns the recorded password reset requests
func (g *LocalGateway) ResetRequests() []ResetRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]ResetRequest(nil), g.resets...)
}

func normalizeEmail(email string) (string, error) {
	key := strings.ToLower(strings.TrimSpace(email))
	if !emailPattern.MatchString(key) {
		return "", &output.AuthError{Code: "validation_failed", Message: msgInvalidEmail}
	}
	return key, nil
}
