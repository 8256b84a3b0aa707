package web

import (
	"net/http"
)

func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "landing", "Kindred", nil)
}

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	s.page(w, r, http.StatusOK, "about", "About", nil)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ws := SessionFrom(r.Context()).Workspace
	st, err := ws.Dashboard.State(r.Context(), r.URL.Query().Get("plan"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.page(w, r, http.StatusOK, "dashboard", "Dashboard", st)
}
