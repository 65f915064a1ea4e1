package session

import (
	"encoding/gob"
	"net/http"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/sessions"
	"github.com/pkg/errors"
)

const (
	sessionName = "quizfarm"

	keyToken   = "token"
	keyAttempt = "attempt"

	maxAge = 7 * 24 * 60 * 60
)

// Attempt is the in-flight quiz of one session. It never reaches the database.
type Attempt struct {
	ID          string
	QuestionIds []uint
	StartedAt   time.Time
}

func init() {
	gob.Register(Attempt{})
}

type Manager struct {
	store   sessions.Store
	options *sessions.Options
}

func NewManager(store sessions.Store) *Manager {
	return &Manager{store: store}
}

// NewCookieManager keeps session values in the signed cookie itself. An old
// cookie replays the state it was issued with.
func NewCookieManager(secret string) *Manager {
	store := sessions.NewCookieStore([]byte(secret))
	store.Options = options()
	return &Manager{store: store, options: store.Options}
}

// NewFilesystemManager keeps session values in files under dir; the cookie only carries the id.
func NewFilesystemManager(dir string, secret string) *Manager {
	store := sessions.NewFilesystemStore(dir, []byte(secret))
	store.Options = options()
	store.MaxLength(0)
	return &Manager{store: store, options: store.Options}
}

// SetSecure restricts the session cookie to https.
func (m *Manager) SetSecure(secure bool) *Manager {
	if m.options != nil {
		m.options.Secure = secure
	}
	return m
}

func options() *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
}

// Get returns the session of r. A cookie that no longer decodes yields a fresh session.
func (m *Manager) Get(r *http.Request) *Session {
	s, err := m.store.Get(r, sessionName)
	if err != nil {
		glog.V(4).Infof("discarding undecodable session: %v", err)
	}
	return &Session{s: s}
}

// Flash stores a notice to be shown on the next rendered page.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, message string) {
	s := m.Get(r)
	s.AddFlash(message)
	if err := s.Save(w, r); err != nil {
		glog.Errorf("error saving flash: %v", err)
	}
}

// DrainFlashes returns pending notices and persists their removal.
func (m *Manager) DrainFlashes(w http.ResponseWriter, r *http.Request) []string {
	s := m.Get(r)
	flashes := s.Flashes()
	if len(flashes) == 0 {
		return []string{}
	}
	if err := s.Save(w, r); err != nil {
		glog.Errorf("error saving session: %v", err)
	}
	return flashes
}

type Session struct {
	s *sessions.Session
}

func (s *Session) Attempt() (*Attempt, bool) {
	a, ok := s.s.Values[keyAttempt].(Attempt)
	if !ok {
		return nil, false
	}
	return &a, true
}

func (s *Session) SetAttempt(a Attempt) {
	s.s.Values[keyAttempt] = a
}

func (s *Session) ClearAttempt() {
	delete(s.s.Values, keyAttempt)
}

func (s *Session) Token() string {
	tok, _ := s.s.Values[keyToken].(string)
	return tok
}

func (s *Session) SetToken(token string) {
	s.s.Values[keyToken] = token
}

func (s *Session) AddFlash(message string) {
	s.s.AddFlash(message)
}

// Flashes drains pending notices.
func (s *Session) Flashes() []string {
	var out []string
	for _, f := range s.s.Flashes() {
		if msg, ok := f.(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// Clear drops every value, logging the user out and abandoning any attempt.
func (s *Session) Clear() {
	for k := range s.s.Values {
		delete(s.s.Values, k)
	}
}

func (s *Session) Save(w http.ResponseWriter, r *http.Request) error {
	if err := s.s.Save(r, w); err != nil {
		return errors.Wrap(err, "saving session")
	}
	return nil
}
