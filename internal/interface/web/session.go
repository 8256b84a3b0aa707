package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/YoshitsuguKoike/kindred/internal/application/service"
)

// Flash is a one-shot toast shown on the next rendered page
type Flash struct {
	Title   string
	Message string
	Kind    string // "info" or "error"
}

// Session is the server-side state of one browser. Its ID is also the
// owner of every record the browser creates.
type Session struct {
	ID        string
	Workspace *service.Workspace

	mu       sync.Mutex
	flashes  []Flash
	lastSeen time.Time
}

// AddFlash queues a toast for the next page
func (s *Session) AddFlash(f Flash) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Kind == "" {
		f.Kind = "info"
	}
	s.flashes = append(s.flashes, f)
}

// PopFlashes returns and clears the queued toasts
func (s *Session) PopFlashes() []Flash {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

// WorkspaceFactory creates the page services of a new session
type WorkspaceFactory func(owner string) *service.Workspace

// SessionStore keeps sessions in memory keyed by a random cookie value
type SessionStore struct {
	cookieName string
	secure     bool
	factory    WorkspaceFactory
	now        func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewSessionStore creates an empty store
func NewSessionStore(cookieName string, secure bool, factory WorkspaceFactory) *SessionStore {
	return &SessionStore{
		cookieName: cookieName,
		secure:     secure,
		factory:    factory,
		now:        time.Now,
		sessions:   make(map[string]*Session),
	}
}

// Get returns the session named by the request cookie, if it is still live
func (st *SessionStore) Get(r *http.Request) (*Session, bool) {
	id, ok := st.cookieID(r)
	if !ok {
		return nil, false
	}
	st.mu.RLock()
	defer st.mu.RUnlock()
	sess, ok := st.sessions[id]
	return sess, ok
}

// create starts a new session and sets its cookie
func (st *SessionStore) create(w http.ResponseWriter) *Session {
	id := uuid.NewString()
	sess := st.restore(id)

	http.SetCookie(w, &http.Cookie{
		Name:     st.cookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   st.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return sess
}

// restore returns the live session for id, rebuilding it when it was swept
// or lost on restart. The owner stays id so stored records remain reachable.
func (st *SessionStore) restore(id string) *Session {
	st.mu.Lock()
	defer st.mu.Unlock()
	if sess, ok := st.sessions[id]; ok {
		return sess
	}
	sess := &Session{
		ID:        id,
		Workspace: st.factory(id),
		lastSeen:  st.now(),
	}
	st.sessions[id] = sess
	return sess
}

// cookieID returns the session ID carried by the request, if well formed
func (st *SessionStore) cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(st.cookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed. Stored records survive; only the page state goes.
func (st *SessionStore) Sweep(maxIdle time.Duration) int {
	cutoff := st.now().Add(-maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()
	removed := 0
	for id, sess := range st.sessions {
		if sess.idleSince().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}

type sessionKey struct{}

// Middleware attaches the session to the request context. A known cookie
// keeps its ID even after a sweep or restart; anything else gets a new one.
func (st *SessionStore) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess *Session
		if id, ok := st.cookieID(r); ok {
			sess = st.restore(id)
		} else {
			sess = st.create(w)
		}
		sess.touch(st.now())
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), sessionKey{}, sess)))
	})
}

// SessionFrom returns the session attached by Middleware
func SessionFrom(ctx context.Context) *Session {
	sess, _ := ctx.Value(sessionKey{}).(*Session)
	return sess
}
