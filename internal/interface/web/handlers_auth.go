package web

import (
	"errors"
	"net/http"

	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
	"github.com/YoshitsuguKoike/kindred/internal/application/service"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/wizard"
)

// onboardingFields are read from the form when present; absent fields
// keep their stored values
var onboardingFields = []wizard.Field{
	wizard.FieldName,
	wizard.FieldEmail,
	wizard.FieldPassword,
	wizard.FieldConfirmPassword,
	wizard.FieldGoal,
	wizard.FieldEmotion,
	wizard.FieldPlan,
}

func submittedFields(r *http.Request) map[wizard.Field]string {
	fields := make(map[wizard.Field]string)
	for _, f := range onboardingFields {
		if values, ok := r.PostForm[f.String()]; ok && len(values) > 0 {
			fields[f] = values[0]
		}
	}
	return fields
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.renderLogin(w, r, http.StatusOK)
}

func (s *Server) renderLogin(w http.ResponseWriter, r *http.Request, status int) {
	ws := SessionFrom(r.Context()).Workspace
	s.page(w, r, status, "login", "Sign in", ws.Login.State())
}

func (s *Server) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess := SessionFrom(r.Context())
	login := sess.Workspace.Login

	if r.PostForm.Get("action") == "dismiss" {
		login.DismissError()
		redirect(w, r, "/login")
		return
	}

	_, err := login.SignIn(r.Context(), r.PostForm.Get("email"), r.PostForm.Get("password"))
	switch {
	case err == nil:
		sess.AddFlash(Flash{Title: service.WelcomeBackTitle, Message: service.WelcomeBackMessage})
		redirect(w, r, "/dashboard")
	case isBusy(err):
		s.renderLogin(w, r, http.StatusConflict)
	case isAuthError(err):
		redirect(w, r, "/login")
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) handleLoginReset(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess := SessionFrom(r.Context())

	err := sess.Workspace.Login.ResetPassword(r.Context(), r.PostForm.Get("email"))
	switch {
	case err == nil:
		sess.AddFlash(Flash{Title: service.ResetSentTitle, Message: service.ResetSentMessage})
		redirect(w, r, "/login")
	case isBusy(err):
		s.renderLogin(w, r, http.StatusConflict)
	case isAuthError(err):
		redirect(w, r, "/login")
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) handleOnboarding(w http.ResponseWriter, r *http.Request) {
	s.renderOnboarding(w, r, http.StatusOK)
}

func (s *Server) renderOnboarding(w http.ResponseWriter, r *http.Request, status int) {
	st := SessionFrom(r.Context()).Workspace.Onboarding.State()
	s.page(w, r, status, stepPage(st.Step), st.Step.Title(), st)
}

func (s *Server) handleOnboardingSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	onboarding := SessionFrom(r.Context()).Workspace.Onboarding
	fields := submittedFields(r)

	var err error
	switch r.PostForm.Get("action") {
	case "next":
		_, err = onboarding.Next(fields)
	case "back":
		_, err = onboarding.Back(fields)
	case "restart":
		err = onboarding.Restart()
	case "dismiss":
		onboarding.DismissError()
	case "complete":
		var to string
		to, err = onboarding.Complete(r.Context(), fields)
		if err == nil {
			redirect(w, r, to)
			return
		}
	default:
		err = onboarding.SetFields(fields)
	}

	switch {
	case err == nil, service.IsValidation(err), isWizardMisuse(err), isAuthError(err):
		redirect(w, r, "/onboarding")
	case isBusy(err):
		s.renderOnboarding(w, r, http.StatusConflict)
	default:
		s.fail(w, r, err)
	}
}

func isAuthError(err error) bool {
	var authErr *output.AuthError
	return errors.As(err, &authErr)
}

func isWizardMisuse(err error) bool {
	return errors.Is(err, wizard.ErrUnknownField) ||
		errors.Is(err, wizard.ErrNotTerminal) ||
		errors.Is(err, wizard.ErrIncomplete) ||
		errors.Is(err, wizard.ErrCompleted)
}
