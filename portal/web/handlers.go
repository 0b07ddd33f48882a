package web

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal"
	"github.com/trezcool/brightacademy/portal/listview"
	"github.com/trezcool/brightacademy/portal/record"
)

const (
	ctxSessionKey = "session"
	kindEnquiries = "registrations"

	msgEnquiryThanks = "Thank you! We will get back to you shortly."
	msgUnreachable   = "Could not reach the server. Please check your connection and try again."
	msgRequired      = "this field is required"
)

var (
	enquiryFields   = []string{"studentName", "grade", "parentName", "parentEmail", "parentPhone", "message"}
	enquiryRequired = []string{"studentName", "grade", "parentName", "parentEmail", "parentPhone"}
)

func (s *Server) currentSession(c echo.Context) (*session, bool) {
	cookie, err := c.Cookie(sessionCookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	return s.sessions.get(cookie.Value)
}

// requireSession redirects anonymous users to the landing page.
// In demo mode they are given a session over their own copy of the demo records instead.
func (s *Server) requireSession(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, ok := s.currentSession(c)
		if !ok {
			if !s.deps.Conf.Portal.Demo {
				return c.Redirect(http.StatusSeeOther, "/")
			}
			backend, err := portal.DemoBackend()
			if err != nil {
				return errors.Wrap(err, "creating demo backend")
			}
			sess = newSession("demo", backend)
			s.sessions.add(sess)
			setSessionCookie(c, sess.id)
		}
		c.Set(ctxSessionKey, sess)
		return next(c)
	}
}

func contextSession(c echo.Context) *session {
	sess, _ := c.Get(ctxSessionKey).(*session)
	return sess
}

func (s *Server) newPage(sess *session, title string) page {
	p := page{Title: title, Demo: s.deps.Conf.Portal.Demo, Menu: s.menu, Classes: core.Classes}
	if sess != nil {
		p.LoggedIn = true
		p.Flash = sess.popFlash()
	}
	return p
}

// expire ends a session the API no longer accepts.
func (s *Server) expire(c echo.Context, sess *session) error {
	s.sessions.drop(sess.id)
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// report shows err to the user of sess on their next page.
func (s *Server) report(sess *session, err error) {
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		s.deps.Logger.Warn("portal request failed", err, map[string]interface{}{"username": sess.username})
	}
	sess.setFlash(describe(err))
}

func describe(err error) string {
	var netErr *record.NetworkError
	if errors.As(err, &netErr) {
		if netErr.Status == 0 {
			return msgUnreachable
		}
		return fmt.Sprintf("The server could not complete the request (%d): %v", netErr.Status, netErr.Err)
	}
	switch cause := errors.Cause(err).(type) {
	case *core.ValidationError:
		return cause.Error()
	default:
		if cause == record.ErrNotFound {
			return "This record no longer exists."
		}
		return "Something went wrong. Please try again."
	}
}

// =========================================================================
// Public pages

func (s *Server) landing(c echo.Context) error {
	if _, ok := s.currentSession(c); ok && !s.deps.Conf.Portal.Demo {
		return c.Redirect(http.StatusSeeOther, "/portal")
	}
	return c.Render(http.StatusOK, "landing", s.newPage(nil, ""))
}

func (s *Server) login(c echo.Context) error {
	if s.deps.Conf.Portal.Demo {
		return c.Redirect(http.StatusSeeOther, "/portal")
	}

	uname := strings.TrimSpace(c.FormValue("username"))
	token, err := s.deps.API.Login(c.Request().Context(), uname, c.FormValue("password"))
	if err != nil {
		p := s.newPage(nil, "")
		p.Username = uname

		var netErr *record.NetworkError
		switch {
		case errors.As(err, &netErr) && netErr.Status != 0:
			p.LoginError = netErr.Err.Error() // deactivated account, too many attempts...
		case errors.As(err, &netErr):
			p.LoginError = msgUnreachable
		default:
			p.LoginError = describe(err)
		}
		if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
			s.deps.Logger.Warn("login failed", err, map[string]interface{}{"username": uname})
		}
		return c.Render(http.StatusBadRequest, "landing", p)
	}

	sess := newSession(uname, s.deps.API.Session(token))
	s.sessions.add(sess)
	setSessionCookie(c, sess.id)
	return c.Redirect(http.StatusSeeOther, "/portal")
}

func (s *Server) logout(c echo.Context) error {
	if sess, ok := s.currentSession(c); ok {
		s.sessions.drop(sess.id)
	}
	clearSessionCookie(c)
	return c.Redirect(http.StatusSeeOther, "/")
}

// enquire forwards an enrollment enquiry to the school. Failures are shown, never hidden.
func (s *Server) enquire(c echo.Context) error {
	p := s.newPage(nil, "")
	p.Enquiry = make(map[string]string, len(enquiryFields))
	data := make(record.Entity, len(enquiryFields))
	for _, f := range enquiryFields {
		if v := strings.TrimSpace(c.FormValue(f)); v != "" {
			p.Enquiry[f] = v
			data[f] = v
		}
	}

	p.EnquiryErrors = make(map[string]string)
	for _, f := range enquiryRequired {
		if p.Enquiry[f] == "" {
			p.EnquiryErrors[f] = msgRequired
		}
	}
	if len(p.EnquiryErrors) > 0 {
		return c.Render(http.StatusBadRequest, "landing", p)
	}

	demo := s.deps.Conf.Portal.Demo
	var backend record.Backend = s.inbox
	if !demo {
		backend = s.deps.API
	}
	resp, err := backend.Create(c.Request().Context(), kindEnquiries, data)
	if err != nil {
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok {
			if len(vErr.Fields) > 0 {
				p.EnquiryErrors = vErr.FieldMap()
			} else {
				p.Flash = vErr.Error()
			}
			return c.Render(http.StatusBadRequest, "landing", p)
		}
		s.deps.Logger.Error("enquiry failed", err)
		p.Flash = "Your enquiry could not be sent. " + describe(err)
		return c.Render(http.StatusBadGateway, "landing", p)
	}

	p.Enquiry = nil
	p.Notice = msgEnquiryThanks
	// the demo inbox stores the enquiry itself, whose "message" is the parent's text
	if msg := resp.String("message"); msg != "" && !demo {
		p.Notice = msg
	}
	return c.Render(http.StatusOK, "landing", p)
}

// =========================================================================
// Portal

func (s *Server) dashboard(c echo.Context) error {
	sess := contextSession(c)

	dash, err := portal.LoadDashboard(c.Request().Context(), sess.backend, s.deps.Conf.Portal.FetchLimit)
	p := s.newPage(sess, "Dashboard")
	if err != nil {
		if record.IsUnauthorized(err) {
			return s.expire(c, sess)
		}
		s.report(sess, err)
		p.Flash = sess.popFlash()
		return c.Render(http.StatusOK, "dashboard", p)
	}
	p.Dashboard = &dash
	return c.Render(http.StatusOK, "dashboard", p)
}

// view returns the session's list view of the :entity kind, loading it on first use.
func (s *Server) view(c echo.Context, sess *session) (*listview.View, error) {
	kind := c.Param("entity")
	sch, ok := s.schemas[kind]
	if !ok {
		return nil, echo.ErrNotFound
	}
	conf := s.deps.Conf.Portal

	sess.mu.Lock()
	v, loaded := sess.views[kind]
	if !loaded {
		v = portal.NewListView(sch, sess.backend,
			listview.WithDebounce(conf.SearchDebounce), listview.WithFetchLimit(conf.FetchLimit))
		sess.views[kind] = v
	}
	sess.mu.Unlock()

	if !loaded {
		if err := v.Load(c.Request().Context()); err != nil {
			sess.mu.Lock()
			delete(sess.views, kind)
			sess.mu.Unlock()
			return v, err
		}
	}
	return v, nil
}

// fail handles the error of a portal request: expired sessions go back to the landing page,
// anything else is reported and the user is sent back to the list.
func (s *Server) fail(c echo.Context, sess *session, err error) error {
	if err == echo.ErrNotFound {
		return err
	}
	if record.IsUnauthorized(err) {
		return s.expire(c, sess)
	}
	s.report(sess, err)
	return c.Redirect(http.StatusSeeOther, "/portal/"+c.Param("entity"))
}

func (s *Server) list(c echo.Context) error {
	sess := contextSession(c)
	ctx := c.Request().Context()

	v, err := s.view(c, sess)
	if err == echo.ErrNotFound {
		return err
	}

	q := c.QueryParams()
	cur := v.Snapshot()
	if _, ok := q["search"]; ok && err == nil && strings.TrimSpace(q.Get("search")) != cur.Filter.Search {
		err = v.Search(ctx, q.Get("search"))
	}
	for _, ff := range v.Schema().Filters {
		if _, ok := q[ff.Field]; ok && err == nil && q.Get(ff.Field) != cur.Filter.Equals[ff.Field] {
			err = v.SetFilter(ctx, ff.Field, q.Get(ff.Field))
		}
	}
	if n, convErr := strconv.Atoi(q.Get("page")); convErr == nil {
		v.SetPage(n)
	}

	if err != nil {
		if record.IsUnauthorized(err) {
			return s.expire(c, sess)
		}
		s.report(sess, err)
	}

	snap := v.Snapshot()
	p := s.newPage(sess, snap.Schema.Title)
	p.Snap = &snap
	return c.Render(http.StatusOK, "list", p)
}

// rows serves the table body for the search box; keystrokes are debounced.
func (s *Server) rows(c echo.Context) error {
	sess := contextSession(c)

	v, err := s.view(c, sess)
	if err == nil {
		err = v.QueueSearch(c.Request().Context(), c.QueryParam("search"))
	}
	if err != nil {
		if err == echo.ErrNotFound {
			return err
		}
		if record.IsUnauthorized(err) {
			return s.expire(c, sess)
		}
		s.deps.Logger.Warn("search failed", err, map[string]interface{}{"username": sess.username})
	}
	return c.Render(http.StatusOK, "rows", v.Snapshot())
}

// action runs the row action of the delegated table form.
func (s *Server) action(c echo.Context) error {
	sess := contextSession(c)

	v, err := s.view(c, sess)
	if err != nil {
		return s.fail(c, sess, err)
	}
	action := c.FormValue("action")
	if err = v.Dispatch(c.Request().Context(), action); err != nil {
		if errors.Cause(err) == listview.ErrUnknownAction {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown action")
		}
		return s.fail(c, sess, err)
	}

	target := "/portal/" + c.Param("entity")
	if strings.HasPrefix(action, "edit:") {
		target += "#form"
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (s *Server) submit(c echo.Context) error {
	sess := contextSession(c)

	v, err := s.view(c, sess)
	if err != nil {
		return s.fail(c, sess, err)
	}
	params, err := c.FormParams()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form")
	}
	values := make(map[string]string, len(params))
	for k := range params {
		values[k] = params.Get(k)
	}

	if _, err = v.Submit(c.Request().Context(), values); err != nil {
		// field errors are displayed by the form itself
		if vErr, ok := errors.Cause(err).(*core.ValidationError); ok && len(vErr.Fields) > 0 {
			return c.Redirect(http.StatusSeeOther, "/portal/"+c.Param("entity")+"#form")
		}
		return s.fail(c, sess, err)
	}
	return c.Redirect(http.StatusSeeOther, "/portal/"+c.Param("entity"))
}

func (s *Server) cancel(c echo.Context) error {
	sess := contextSession(c)

	v, err := s.view(c, sess)
	if err != nil {
		return s.fail(c, sess, err)
	}
	v.Cancel()
	return c.Redirect(http.StatusSeeOther, "/portal/"+c.Param("entity"))
}
