package web

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/YoshitsuguKoike/kindred/internal/application/service"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/reflection"
)

type reflectionView struct {
	Messages []reflection.Message
	Shared   int
	Prompts  []string
	Reminder string
	Draft    string
	Invalid  bool
}

func (s *Server) handleReflection(w http.ResponseWriter, r *http.Request) {
	s.renderReflection(w, r, http.StatusOK, r.URL.Query().Get("prompt"), false)
}

func (s *Server) renderReflection(w http.ResponseWriter, r *http.Request, status int, draft string, invalid bool) {
	rs := SessionFrom(r.Context()).Workspace.Reflection
	s.page(w, r, status, "reflection", "Reflection Coach", reflectionView{
		Messages: rs.Messages(),
		Shared:   rs.SharedCount(),
		Prompts:  rs.Prompts(),
		Reminder: rs.Reminder(),
		Draft:    draft,
		Invalid:  invalid,
	})
}

func (s *Server) handleReflectionSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	text := r.PostForm.Get("text")
	_, err := SessionFrom(r.Context()).Workspace.Reflection.Share(text)
	switch {
	case err == nil:
		redirect(w, r, "/reflection")
	case service.IsValidation(err):
		s.renderReflection(w, r, http.StatusUnprocessableEntity, text, true)
	default:
		s.fail(w, r, err)
	}
}

type trackerView struct {
	service.TrackerState
	Form    service.InteractionForm
	Invalid bool
	Labels  map[string]string
}

func (s *Server) handleTracker(w http.ResponseWriter, r *http.Request) {
	s.renderTracker(w, r, http.StatusOK, service.InteractionForm{Type: service.TypeReachedOut, Energy: "medium"}, false)
}

func (s *Server) renderTracker(w http.ResponseWriter, r *http.Request, status int, form service.InteractionForm, invalid bool) {
	tracker := SessionFrom(r.Context()).Workspace.Tracker
	st, err := tracker.State(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	labels := make(map[string]string, len(st.Types))
	for _, t := range st.Types {
		labels[t.ID] = t.Label
	}
	s.page(w, r, status, "tracker", "Where Are We?", trackerView{
		TrackerState: st,
		Form:         form,
		Invalid:      invalid,
		Labels:       labels,
	})
}

func (s *Server) handleTrackerSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	form := service.InteractionForm{
		Person:      r.PostForm.Get("person"),
		Type:        r.PostForm.Get("type"),
		Description: r.PostForm.Get("description"),
		Energy:      r.PostForm.Get("energy"),
	}
	_, err := SessionFrom(r.Context()).Workspace.Tracker.Add(r.Context(), form)
	switch {
	case err == nil:
		redirect(w, r, withCategory("/tracker", r.URL.Query().Get("category")))
	case service.IsValidation(err):
		s.renderTracker(w, r, http.StatusUnprocessableEntity, form, true)
	default:
		s.fail(w, r, err)
	}
}

type mirrorView struct {
	service.MirrorState
	Draft   string
	Invalid bool
}

func (s *Server) handlePatterns(w http.ResponseWriter, r *http.Request) {
	s.renderPatterns(w, r, http.StatusOK, "", false)
}

func (s *Server) renderPatterns(w http.ResponseWriter, r *http.Request, status int, draft string, invalid bool) {
	st, err := SessionFrom(r.Context()).Workspace.Mirror.State(r.Context())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, status, "patterns", "Blind Spot Mirror", mirrorView{MirrorState: st, Draft: draft, Invalid: invalid})
}

func (s *Server) handlePatternsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	m := SessionFrom(r.Context()).Workspace.Mirror
	answer := r.PostForm.Get("answer")

	var err error
	switch r.PostForm.Get("action") {
	case "select":
		err = m.Select(r.PostForm.Get("category"))
	case "save":
		_, err = m.Save(r.Context(), answer)
	case "skip":
		m.Skip()
	case "leave":
		m.Leave()
	}

	switch {
	case err == nil:
		redirect(w, r, "/patterns")
	case service.IsValidation(err):
		s.renderPatterns(w, r, http.StatusUnprocessableEntity, answer, true)
	default:
		s.fail(w, r, err)
	}
}

func (s *Server) handleScripts(w http.ResponseWriter, r *http.Request) {
	st, err := SessionFrom(r.Context()).Workspace.Scripts.State(r.Context(), r.URL.Query().Get("category"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, http.StatusOK, "scripts", "Expression Scripts", st)
}

func (s *Server) handleScriptsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess := SessionFrom(r.Context())
	scripts := sess.Workspace.Scripts
	id := r.PostForm.Get("id")

	var err error
	switch r.PostForm.Get("action") {
	case "customize":
		if err = scripts.Customize(r.Context(), id, r.PostForm.Get("text")); err == nil {
			sess.AddFlash(Flash{Title: service.CustomizationSavedTitle, Message: service.CustomizationSavedMessage})
		}
	case "reset":
		err = scripts.Reset(r.Context(), id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	redirect(w, r, withCategory("/scripts", r.URL.Query().Get("category")))
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "settings", "Settings", SessionFrom(r.Context()).Workspace.Settings.State())
}

func (s *Server) handleSettingsSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sess := SessionFrom(r.Context())
	toggles := make(map[string]bool)
	for _, key := range r.PostForm["notify"] {
		toggles[key] = true
	}
	sess.Workspace.Settings.Save(service.SettingsForm{
		Name:          r.PostForm.Get("name"),
		Email:         r.PostForm.Get("email"),
		Notifications: toggles,
		DarkMode:      r.PostForm.Get("dark_mode") != "",
	})
	sess.AddFlash(Flash{Title: service.SettingsSavedTitle})
	redirect(w, r, "/settings")
}

func (s *Server) handleSettingsExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = service.FormatYAML
	}
	if format != service.FormatYAML && format != service.FormatJSON {
		http.Error(w, "unsupported format", http.StatusBadRequest)
		return
	}

	exp, err := SessionFrom(r.Context()).Workspace.Settings.Export(r.Context(), format)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", exp.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+exp.FileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(exp.Content)
}

func (s *Server) handleSettingsDelete(w http.ResponseWriter, r *http.Request) {
	sess := SessionFrom(r.Context())
	sess.Workspace.Settings.RequestDeletion()
	sess.AddFlash(Flash{Title: service.DeleteRequestedTitle, Message: service.DeleteRequestedDetail})
	redirect(w, r, "/settings")
}

// withCategory keeps a list filter across a redirect
func withCategory(path, category string) string {
	category = strings.TrimSpace(category)
	if category == "" || category == "all" {
		return path
	}
	return path + "?category=" + url.QueryEscape(category)
}
