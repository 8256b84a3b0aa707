package web

import (
	"errors"
	"html"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"github.com/YoshitsuguKoike/kindred/internal/adapter/gateway/auth"
	"github.com/YoshitsuguKoike/kindred/internal/application/port/output"
	"github.com/YoshitsuguKoike/kindred/internal/application/service"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/content"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/record"
	"github.com/YoshitsuguKoike/kindred/internal/domain/model/wizard"
	"github.com/YoshitsuguKoike/kindred/internal/domain/service/selector"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/catalog"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/repository/memory"
	"github.com/YoshitsuguKoike/kindred/internal/infrastructure/transaction"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type harness struct {
	handler  http.Handler
	sessions *SessionStore
	gateway  *auth.LocalGateway
	catalog  *content.Catalog
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	cat, err := catalog.Load()
	require.NoError(t, err)
	gw := auth.NewLocalGateway(auth.WithBcryptCost(bcrypt.MinCost))

	deps := service.Deps{
		Catalog:        cat,
		Records:        memory.NewRecordRepository(),
		Customizations: memory.NewCustomizationRepository(),
		Tx:             transaction.NewPassthroughTransactionManager(),
		Auth:           gw,
		Selector:       selector.First{},
		IDs:            record.NewIDGenerator(),
		PublicURL:      "http://localhost:8080",
	}
	sessions := NewSessionStore("kindred_session", false, func(owner string) *service.Workspace {
		return service.NewWorkspace(deps, owner)
	})
	srv, err := NewServer(Options{Sessions: sessions})
	require.NoError(t, err)

	return &harness{handler: srv.Handler(), sessions: sessions, gateway: gw, catalog: cat}
}

// browser replays the session cookie like a real client would
type browser struct {
	t       *testing.T
	h       *harness
	cookies map[string]*http.Cookie
}

func (h *harness) browser(t *testing.T) *browser {
	return &browser{t: t, h: h, cookies: make(map[string]*http.Cookie)}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.h.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	b.t.Helper()
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func requireRedirect(t *testing.T, rec *httptest.ResponseRecorder, to string) {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, to, rec.Header().Get("Location"))
}

func TestHealthz(t *testing.T) {
	h := newHarness(t)
	rec := h.browser(t).get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.Zero(t, h.sessions.Len(), "health checks do not create sessions")
}

func TestNotFound(t *testing.T) {
	h := newHarness(t)
	rec := h.browser(t).get("/no/such/page")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestStaticPages(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	for _, path := range []string{"/", "/about", "/login", "/onboarding", "/dashboard", "/reflection", "/tracker", "/patterns", "/scripts", "/settings"} {
		rec := b.get(path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"), path)
	}
	assert.Equal(t, 1, h.sessions.Len(), "one browser, one session")
}

func TestOnboardingEndToEnd(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	rec := b.get("/onboarding")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Step 1 of 6")

	// Next without a name stays on step 1
	requireRedirect(t, b.post("/onboarding", url.Values{"action": {"next"}, "name": {" "}}), "/onboarding")
	assert.Contains(t, b.get("/onboarding").Body.String(), "Step 1 of 6")

	steps := []url.Values{
		{"action": {"next"}, "name": {"Amara"}},
		{"action": {"next"}, "email": {"amara@example.com"}, "password": {"secret123"}, "confirm_password": {"secret123"}},
		{"action": {"next"}, "goal": {"healing"}},
		{"action": {"next"}, "emotion": {"feeling-stuck"}},
	}
	for _, form := range steps {
		requireRedirect(t, b.post("/onboarding", form), "/onboarding")
	}

	summary := b.get("/onboarding").Body.String()
	assert.Contains(t, summary, "Step 5 of 6")
	emotion, ok := h.catalog.Emotion("feeling-stuck")
	require.True(t, ok)
	assert.Contains(t, summary, html.EscapeString(emotion.Affirmation))

	requireRedirect(t, b.post("/onboarding", url.Values{"action": {"next"}}), "/onboarding")
	assert.Contains(t, b.get("/onboarding").Body.String(), "Step 6 of 6")

	rec = b.post("/onboarding", url.Values{"action": {"complete"}, "plan": {"annual"}})
	requireRedirect(t, rec, "/dashboard?plan=annual")

	dash := b.get("/dashboard?plan=annual").Body.String()
	assert.Contains(t, dash, "Amara")
	assert.Contains(t, dash, "Welcome to Annual")
}

func TestOnboardingSignUpErrorIsShown(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	steps := []url.Values{
		{"action": {"next"}, "name": {"Amara"}},
		{"action": {"next"}, "email": {"not-an-email"}, "password": {"secret123"}, "confirm_password": {"secret123"}},
		{"action": {"next"}, "goal": {"healing"}},
		{"action": {"next"}, "emotion": {"hopeful"}},
		{"action": {"next"}},
	}
	for _, form := range steps {
		requireRedirect(t, b.post("/onboarding", form), "/onboarding")
	}

	requireRedirect(t, b.post("/onboarding", url.Values{"action": {"complete"}, "plan": {"free"}}), "/onboarding")
	body := b.get("/onboarding").Body.String()
	assert.Contains(t, body, "Step 6 of 6")
	assert.Contains(t, body, "Unable to validate email address: invalid format")

	requireRedirect(t, b.post("/onboarding", url.Values{"action": {"dismiss"}}), "/onboarding")
	assert.NotContains(t, b.get("/onboarding").Body.String(), "Unable to validate email address")
}

func TestLoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.gateway.SignUp(t.Context(), "amara@example.com", "secret123", output.Profile{Name: "Amara"})
	require.NoError(t, err)

	b := h.browser(t)
	rec := b.post("/login", url.Values{"email": {"amara@example.com"}, "password": {"wrong-password"}})
	requireRedirect(t, rec, "/login")

	body := b.get("/login").Body.String()
	assert.Contains(t, body, "Invalid login credentials")
	assert.Contains(t, body, `value="wrong-password"`)
	assert.Contains(t, body, `value="amara@example.com"`)
}

func TestLoginSuccessFlashesWelcome(t *testing.T) {
	h := newHarness(t)
	_, err := h.gateway.SignUp(t.Context(), "amara@example.com", "secret123", output.Profile{Name: "Amara"})
	require.NoError(t, err)

	b := h.browser(t)
	requireRedirect(t, b.post("/login", url.Values{"email": {"amara@example.com"}, "password": {"secret123"}}), "/dashboard")

	body := b.get("/dashboard").Body.String()
	assert.Contains(t, body, "Welcome back! 💕")
	assert.Contains(t, body, "Amara")

	// Flashes are one-shot
	assert.NotContains(t, b.get("/dashboard").Body.String(), "Welcome back! 💕")
}

func TestLoginResetNeedsEmail(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	requireRedirect(t, b.post("/login/reset", url.Values{"email": {""}}), "/login")
	assert.Contains(t, b.get("/login").Body.String(), "Please enter your email address first")

	requireRedirect(t, b.post("/login/reset", url.Values{"email": {"someone@example.com"}}), "/login")
	assert.Contains(t, b.get("/login").Body.String(), "Password reset sent")
}

func TestLoginResetUsesTypedEmail(t *testing.T) {
	h := newHarness(t)
	_, err := h.gateway.SignUp(t.Context(), "amara@example.com", "secret123", output.Profile{Name: "Amara"})
	require.NoError(t, err)

	b := h.browser(t)
	body := b.get("/login").Body.String()
	assert.Contains(t, body, `formaction="/login/reset"`)
	assert.NotContains(t, body, `type="hidden" name="email"`)

	// The reset button submits the sign-in form, so the typed email and
	// password travel together
	form := url.Values{"email": {"amara@example.com"}, "password": {""}}
	requireRedirect(t, b.post("/login/reset", form), "/login")
	assert.Contains(t, b.get("/login").Body.String(), "Password reset sent")

	resets := h.gateway.ResetRequests()
	require.Len(t, resets, 1)
	assert.Equal(t, "amara@example.com", resets[0].Email)
}

func TestTrackerValidationKeepsDraft(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	rec := b.post("/tracker", url.Values{"person": {"Mom"}, "type": {"support"}, "description": {"  "}, "energy": {"low"}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Mom"`)
	assert.Contains(t, body, `data-submit disabled`)

	requireRedirect(t, b.post("/tracker?category=support", url.Values{"person": {"Mom"}, "type": {"support"}, "description": {"Cooked dinner"}, "energy": {"low"}}), "/tracker?category=support")
	body = b.get("/tracker?category=support").Body.String()
	assert.Contains(t, body, "Cooked dinner")
	assert.Contains(t, body, "Offered support")

	assert.NotContains(t, b.get("/tracker?category=conflict").Body.String(), "Cooked dinner")
}

func TestPatternsFlow(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	requireRedirect(t, b.post("/patterns", url.Values{"action": {"select"}, "category": {"communication"}}), "/patterns")
	assert.Contains(t, b.get("/patterns").Body.String(), "Prompt 1 of 4")

	rec := b.post("/patterns", url.Values{"action": {"save"}, "answer": {""}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	requireRedirect(t, b.post("/patterns", url.Values{"action": {"save"}, "answer": {"I go quiet"}}), "/patterns")
	body := b.get("/patterns").Body.String()
	assert.Contains(t, body, "Prompt 2 of 4")
	assert.Contains(t, body, "I go quiet")

	requireRedirect(t, b.post("/patterns", url.Values{"action": {"leave"}}), "/patterns")
	assert.Contains(t, b.get("/patterns").Body.String(), "Explore")
}

func TestScriptsCustomize(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	requireRedirect(t, b.post("/scripts?category=boundaries", url.Values{"action": {"customize"}, "id": {"1"}, "text": {"I need a quiet evening"}}), "/scripts?category=boundaries")
	body := b.get("/scripts?category=boundaries").Body.String()
	assert.Contains(t, body, "I need a quiet evening")
	assert.Contains(t, body, "Customization saved")

	requireRedirect(t, b.post("/scripts", url.Values{"action": {"reset"}, "id": {"1"}}), "/scripts")
	assert.NotContains(t, b.get("/scripts").Body.String(), "I need a quiet evening")
}

func TestReflectionShare(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	rec := b.post("/reflection", url.Values{"text": {"   "}})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	requireRedirect(t, b.post("/reflection", url.Values{"text": {"Today I said no"}}), "/reflection")
	body := b.get("/reflection").Body.String()
	assert.Contains(t, body, "Today I said no")
	assert.Contains(t, body, "1 reflections shared")
}

func TestSettingsExportAndDelete(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)

	requireRedirect(t, b.post("/settings", url.Values{"name": {"Amara"}, "notify": {"weekly_insights"}, "dark_mode": {"on"}}), "/settings")
	body := b.get("/settings").Body.String()
	assert.Contains(t, body, `value="Amara"`)
	assert.Contains(t, body, `class="dark"`)

	rec := b.get("/settings/export?format=json")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), ".json")
	assert.Contains(t, rec.Body.String(), `"name": "Amara"`)

	assert.Equal(t, http.StatusBadRequest, b.get("/settings/export?format=xml").Code)

	requireRedirect(t, b.post("/settings/delete", nil), "/settings")
	assert.Contains(t, b.get("/settings").Body.String(), "Deletion requested")
}

func TestSessionsAreIsolated(t *testing.T) {
	h := newHarness(t)
	alice := h.browser(t)
	bob := h.browser(t)

	requireRedirect(t, alice.post("/reflection", url.Values{"text": {"alice only"}}), "/reflection")
	assert.NotContains(t, bob.get("/reflection").Body.String(), "alice only")
	assert.Equal(t, 2, h.sessions.Len())
}

func TestSessionSweep(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	h.sessions.now = func() time.Time { return now }

	h.browser(t).get("/")
	require.Equal(t, 1, h.sessions.Len())

	assert.Zero(t, h.sessions.Sweep(time.Hour))
	now = now.Add(2 * time.Hour)
	assert.Equal(t, 1, h.sessions.Sweep(time.Hour))
	assert.Zero(t, h.sessions.Len())
}

func TestSweptSessionKeepsItsRecords(t *testing.T) {
	h := newHarness(t)
	now := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	h.sessions.now = func() time.Time { return now }

	b := h.browser(t)
	form := url.Values{"person": {"Sarah"}, "type": {"support"}, "description": {"Brought soup"}, "energy": {"high"}}
	requireRedirect(t, b.post("/tracker", form), "/tracker")
	require.Contains(t, b.get("/tracker").Body.String(), "Brought soup")
	cookie := b.cookies["kindred_session"].Value

	now = now.Add(13 * time.Hour)
	require.Equal(t, 1, h.sessions.Sweep(12*time.Hour))

	rec := b.get("/tracker")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Brought soup")
	assert.Empty(t, rec.Result().Cookies(), "a known cookie is kept, not replaced")
	assert.Equal(t, cookie, b.cookies["kindred_session"].Value)
	assert.Equal(t, 1, h.sessions.Len())
}

func TestMalformedCookieGetsNewSession(t *testing.T) {
	h := newHarness(t)
	b := h.browser(t)
	b.cookies["kindred_session"] = &http.Cookie{Name: "kindred_session", Value: "../not-a-uuid"}

	rec := b.get("/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEqual(t, "../not-a-uuid", b.cookies["kindred_session"].Value)
	assert.Equal(t, 1, h.sessions.Len())
}

func TestStepPageCoversEveryStep(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)
	for _, step := range wizard.OnboardingSteps() {
		_, ok := r.pages[stepPage(step)]
		assert.True(t, ok, "%T has no template", step)
	}
}

// brokenWriter fails every body write after the header is sent
type brokenWriter struct {
	*httptest.ResponseRecorder
	headers int
}

func (w *brokenWriter) WriteHeader(status int) {
	w.headers++
	w.ResponseRecorder.WriteHeader(status)
}

func (w *brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset")
}

func TestPageWriteFailureSendsOneHeader(t *testing.T) {
	h := newHarness(t)
	srv, err := NewServer(Options{Sessions: h.sessions})
	require.NoError(t, err)

	w := &brokenWriter{ResponseRecorder: httptest.NewRecorder()}
	srv.page(w, httptest.NewRequest(http.MethodGet, "/about", nil), http.StatusOK, "about", "About", nil)

	assert.Equal(t, 1, w.headers)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRendererWrapsWriteErrors(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	err = r.Render(&brokenWriter{ResponseRecorder: httptest.NewRecorder()}, http.StatusOK, "about", Page{Title: "About"})
	assert.ErrorIs(t, err, ErrResponseWrite)

	err = r.Render(httptest.NewRecorder(), http.StatusOK, "missing", Page{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrResponseWrite)
}
