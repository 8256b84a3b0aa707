package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/wizard"
)

//go:embed templates
var templateFS embed.FS

// Page is the data every template receives
type Page struct {
	Title    string
	Path     string
	Flashes  []Flash
	DarkMode bool
	Nav      []NavItem
	Data     any
}

// NavItem is one link of the signed-in navigation
type NavItem struct {
	Label  string
	Path   string
	Active bool
}

var navItems = []NavItem{
	{Label: "Dashboard", Path: "/dashboard"},
	{Label: "Reflect", Path: "/reflection"},
	{Label: "Tracker", Path: "/tracker"},
	{Label: "Mirror", Path: "/patterns"},
	{Label: "Scripts", Path: "/scripts"},
	{Label: "Settings", Path: "/settings"},
}

// buildNav returns the navigation for the app pages and nil elsewhere
func buildNav(current string) []NavItem {
	out := make([]NavItem, len(navItems))
	found := false
	for i, item := range navItems {
		item.Active = item.Path == current
		found = found || item.Active
		out[i] = item
	}
	if !found {
		return nil
	}
	return out
}

// Renderer holds one parsed template set per page
type Renderer struct {
	pages map[string]*template.Template
}

var funcMap = template.FuncMap{
	"fmtDate": func(t time.Time) string { return t.Format("Jan 2, 2006") },
	"fmtTime": func(t time.Time) string { return t.Format("15:04") },
	"energy":  func(e record.Energy) string { return cases.Title(language.English).String(string(e)) },
	"field":   func(fields map[wizard.Field]string, name string) string { return fields[wizard.Field(name)] },
	"add":     func(a, b int) int { return a + b },
	"list":    func(items ...string) []string { return items },
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	base, err := template.New("_root").Funcs(funcMap).ParseFS(templateFS, "templates/layout.tmpl", "templates/partials.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/pages/*.tmpl")
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no page templates found")
	}

	pages := make(map[string]*template.Template, len(files))
	for _, f := range files {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, f); err != nil {
			return nil, fmt.Errorf("parse %s: %w", f, err)
		}
		pages[strings.TrimSuffix(path.Base(f), ".tmpl")] = t
	}
	return &Renderer{pages: pages}, nil
}

// ErrResponseWrite wraps failures that happen after the status line was
// sent; the response can no longer be replaced.
var ErrResponseWrite = errors.New("write response")

// Render executes the named page into w with the given status. The page is
// rendered to a buffer first so a template error never leaves a half page.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page template %q", name)
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		return fmt.Errorf("execute template %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		return fmt.Errorf("%w: %w", ErrResponseWrite, err)
	}
	return nil
}

// stepPage picks the template of a wizard step
func stepPage(step wizard.Step) string {
	switch step.(type) {
	case wizard.NameStep:
		return "onboarding_name"
	case wizard.AccountStep:
		return "onboarding_account"
	case wizard.GoalStep:
		return "onboarding_goal"
	case wizard.EmotionStep:
		return "onboarding_emotion"
	case wizard.SummaryStep:
		return "onboarding_summary"
	case wizard.PlanStep:
		return "onboarding_plan"
	default:
		panic(fmt.Sprintf("unhandled wizard step %T", step))
	}
}
