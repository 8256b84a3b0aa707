package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/YoshitsuguKoike/kindred/internal/app"
	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
)

// Flash texts shown after login actions
const (
	WelcomeBackTitle   = "Welcome back! 💕"
	WelcomeBackMessage = "You're signed in and ready to continue your journey."
	ResetSentTitle     = "Password reset sent 📧"
	ResetSentMessage   = "Check your email for password reset instructions."
)

const emailRequiredMessage = "Please enter your email address first"

// ResetPasswordPath is appended to the public URL for reset links
const ResetPasswordPath = "/reset-password"

// LoginState is a snapshot of the login form. Values survive failed
// attempts, the password included.
type LoginState struct {
	Email    string
	Password string
	Error    *output.AuthError
	Busy     bool
}

// LoginService handles sign in and password reset for one session
type LoginService struct {
	deps    Deps
	profile *ProfileService

	mu       sync.Mutex
	email    string
	password string
	lastErr  *output.AuthError
	busy     busyFlag
}

// NewLoginService creates a login service with an empty form
func NewLoginService(deps Deps, profile *ProfileService) *LoginService {
	return &LoginService{deps: deps, profile: profile}
}

// SignIn authenticates with the auth gateway. On failure the form keeps
// the submitted values and the message is stored for display.
func (s *LoginService) SignIn(ctx context.Context, email, password string) (*output.AuthSession, error) {
	if !s.busy.acquire() {
		return nil, ErrBusy
	}
	defer s.busy.release()

	email = strings.TrimSpace(email)
	s.mu.Lock()
	s.email, s.password, s.lastErr = email, password, nil
	s.mu.Unlock()

	session, err := s.deps.Auth.SignIn(ctx, email, password)
	if err != nil {
		s.remember(err)
		app.GetLogger().Info("sign in failed: %v", err)
		return nil, err
	}

	s.profile.signedIn(session)
	s.mu.Lock()
	s.email, s.password = "", ""
	s.mu.Unlock()
	return session, nil
}

// ResetPassword asks the gateway to email a reset link
func (s *LoginService) ResetPassword(ctx context.Context, email string) error {
	if !s.busy.acquire() {
		return ErrBusy
	}
	defer s.busy.release()

	email = strings.TrimSpace(email)
	s.mu.Lock()
	s.email, s.lastErr = email, nil
	s.mu.Unlock()

	if email == "" {
		err := &output.AuthError{Code: "email_required", Message: emailRequiredMessage}
		s.remember(err)
		return err
	}

	redirect := strings.TrimSuffix(s.deps.PublicURL, "/") + ResetPasswordPath
	if err := s.deps.Auth.ResetPassword(ctx, email, redirect); err != nil {
		s.remember(err)
		app.GetLogger().Info("password reset failed: %v", err)
		return err
	}
	return nil
}

func (s *LoginService) remember(err error) {
	var authErr *output.AuthError
	if !errors.As(err, &authErr) {
		return
	}
	s.mu.Lock()
	s.lastErr = authErr
	s.mu.Unlock()
}

// DismissError clears the inline message
func (s *LoginService) DismissError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastErr = nil
}

// State returns the form snapshot
func (s *LoginService) State() LoginState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return LoginState{
		Email:    s.email,
		Password: s.password,
		Error:    s.lastErr,
		Busy:     s.busy.Busy(),
	}
}
