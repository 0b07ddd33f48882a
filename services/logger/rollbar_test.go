package logsvc

import (
	"bytes"
	"io"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/rollbar/rollbar-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/user"
)

// recorder is a rollbar transport keeping the items it is given.
type recorder struct {
	mu    sync.Mutex
	items []map[string]interface{}
}

var _ rollbar.Transport = (*recorder)(nil)

func (r *recorder) Send(body map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, body["data"].(map[string]interface{}))
	return nil
}

func (r *recorder) Close() error { return nil }
func (r *recorder) Wait() {}
func (r *recorder) SetToken(string) {}
func (r *recorder) SetEndpoint(string) {}
func (r *recorder) SetLogger(rollbar.ClientLogger) {}
func (r *recorder) SetRetryAttempts(int) {}
func (r *recorder) SetPrintPayloadOnError(bool) {}

func newTestLogger(app string, out io.Writer, conf *core.Config) (*RollbarLogger, *recorder) {
	l := NewRollbarLogger(app, out, conf)
	rec := new(recorder)
	l.client.Transport = rec
	return l, rec
}

func TestRollbarLogger(t *testing.T) {
	conf := &core.Config{Env: "TEST", RollbarToken: "tok"}
	usr := user.User{ID: "u1", Username: "admin", Email: "admin@brightacademy.mw"}

	tests := []struct {
		name       string
		log        func(l *RollbarLogger)
		wantLevel  string
		wantPerson map[string]string
		wantCustom map[string]interface{}
	}{
		{
			name:       "api error with its user",
			log:        func(l *RollbarLogger) { l.Error("grade failed", errors.New("boom"), usr) },
			wantLevel:  rollbar.ERR,
			wantPerson: map[string]string{"id": "u1", "username": "admin", "email": "admin@brightacademy.mw"},
			wantCustom: map[string]interface{}{"app": "api", "message": "grade failed"},
		},
		{
			name: "portal warning with the session username",
			log: func(l *RollbarLogger) {
				l.Warn("search failed", errors.New("timeout"), map[string]interface{}{"username": "jbanda"})
			},
			wantLevel:  rollbar.WARN,
			wantPerson: map[string]string{"id": "jbanda", "username": "jbanda", "email": ""},
			wantCustom: map[string]interface{}{"app": "api", "message": "search failed", "username": "jbanda"},
		},
		{
			name: "user wins over the username",
			log: func(l *RollbarLogger) {
				l.Info("logged in", map[string]interface{}{"username": "jbanda"}, usr)
			},
			wantLevel:  rollbar.INFO,
			wantPerson: map[string]string{"id": "u1", "username": "admin", "email": "admin@brightacademy.mw"},
			wantCustom: map[string]interface{}{"app": "api", "username": "jbanda"},
		},
		{
			name:       "anonymous message",
			log:        func(l *RollbarLogger) { l.Debug("started", 42) },
			wantLevel:  rollbar.DEBUG,
			wantCustom: map[string]interface{}{"app": "api", "arg0": 42},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, rec := newTestLogger("api", io.Discard, conf)
			tt.log(l)

			require.Len(t, rec.items, 1)
			item := rec.items[0]
			assert.Equal(t, tt.wantLevel, item["level"])
			assert.Equal(t, tt.wantCustom, item["custom"])
			if tt.wantPerson == nil {
				assert.NotContains(t, item, "person")
			} else {
				assert.Equal(t, tt.wantPerson, item["person"])
			}
		})
	}

	t.Run("apps are told apart", func(t *testing.T) {
		apiLogger, apiRec := newTestLogger("api", io.Discard, conf)
		portalLogger, portalRec := newTestLogger("portal", io.Discard, conf)
		apiLogger.Info("hello")
		portalLogger.Info("hello")

		require.Len(t, apiRec.items, 1)
		require.Len(t, portalRec.items, 1)
		assert.Equal(t, "api", apiRec.items[0]["custom"].(map[string]interface{})["app"])
		assert.Equal(t, "portal", portalRec.items[0]["custom"].(map[string]interface{})["app"])
	})

	t.Run("debug mode does not report", func(t *testing.T) {
		var out bytes.Buffer
		l, rec := newTestLogger("portal", &out, &core.Config{Debug: true, RollbarToken: "tok"})
		l.Warn("login failed", errors.New("bad credentials"), usr)

		assert.Empty(t, rec.items)
		assert.Contains(t, out.String(), "PORTAL : ")
		assert.Contains(t, out.String(), "WARN: login failed")
		assert.Contains(t, out.String(), "bad credentials")
		assert.NotContains(t, out.String(), "admin@brightacademy.mw")
	})
}
