package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal/listview"
	"github.com/trezcool/brightacademy/portal/record"
)

const sessionCookie = "brightacademy_session"

// session is the portal state of one logged in user: their backend and list views.
type session struct {
	id       string
	username string
	backend  record.Backend

	mu       sync.Mutex
	views    map[string]*listview.View
	flash    string
	lastSeen time.Time
}

func newSession(username string, backend record.Backend) *session {
	return &session{
		id:       uuid.NewString(),
		username: username,
		backend:  backend,
		views:    make(map[string]*listview.View),
		lastSeen: core.NowFunc(),
	}
}

func (s *session) setFlash(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flash = msg
}

func (s *session) popFlash() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := s.flash
	s.flash = ""
	return msg
}

type sessions struct {
	ttl  time.Duration
	mu   sync.Mutex
	byID map[string]*session
}

func newSessions(ttl time.Duration) *sessions {
	return &sessions{ttl: ttl, byID: make(map[string]*session)}
}

func (ss *sessions) add(s *session) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.byID[s.id] = s
}

// get returns the live session id and marks it as seen. Idle sessions are dropped on the way.
func (ss *sessions) get(id string) (*session, bool) {
	now := core.NowFunc()

	ss.mu.Lock()
	defer ss.mu.Unlock()
	for sid, s := range ss.byID {
		if ss.ttl > 0 && now.Sub(s.lastSeen) > ss.ttl {
			delete(ss.byID, sid)
		}
	}
	s, ok := ss.byID[id]
	if ok {
		s.lastSeen = now
	}
	return s, ok
}

func (ss *sessions) drop(id string) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	delete(ss.byID, id)
}

func (ss *sessions) len() int {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	return len(ss.byID)
}

func setSessionCookie(c echo.Context, id string) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
