package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/registration"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
	"github.com/trezcool/brightacademy/core/user"
	logsvc "github.com/trezcool/brightacademy/services/logger"
	sqlxrepos "github.com/trezcool/brightacademy/storage/database/sqlx"
	testutil "github.com/trezcool/brightacademy/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	*Server
	usrRepo   user.Repository
	stdRepo   student.Repository
	tchrRepo  teacher.Repository
	gradeRepo grade.Repository
	mailer    *mailerMock
	limiter   *limiterMock
}

func setup(t *testing.T) *testApp {
	t.Helper()

	conf := core.NewConfig()
	conf.TestMode = true
	conf.Debug = false

	// set up DB & repos
	db := testutil.PrepareDB(t)
	app := &testApp{
		usrRepo:   sqlxrepos.NewUserRepository(db),
		stdRepo:   sqlxrepos.NewStudentRepository(db),
		tchrRepo:  sqlxrepos.NewTeacherRepository(db),
		gradeRepo: sqlxrepos.NewGradeRepository(db),
		mailer:    new(mailerMock),
		limiter:   newLimiterMock(2),
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	usrSvc := user.NewService(app.usrRepo)

	// set up server
	app.Server = NewServer(ServerDeps{
		Conf:            conf,
		Logger:          logsvc.NewRollbarLogger("api", io.Discard, conf),
		Validate:        validate,
		Translator:      translator,
		UserSvc:         usrSvc,
		ResetSvc:        user.NewResetService(usrSvc, app.mailer, conf),
		StudentSvc:      student.NewService(app.stdRepo),
		TeacherSvc:      teacher.NewService(app.tchrRepo),
		GradeSvc:        grade.NewService(app.gradeRepo, app.stdRepo),
		RegistrationSvc: registration.NewService(app.mailer, conf),
		LoginLimiter:    app.limiter,
		DisableReqLogs:  true,
	})
	return app
}

func (app *testApp) token(t *testing.T, usr user.User) string {
	t.Helper()

	token, err := app.auth.generateToken(app.auth.userClaims(usr))
	if err != nil {
		t.Fatalf("token() failed: %v", err)
	}
	return token
}

// do serves a JSON request, authenticated when token is set.
func (app *testApp) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.ServeHTTP(rec, req)
	return rec
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func marshallList(t *testing.T, objs ...interface{}) []byte {
	if objs == nil {
		objs = []interface{}{}
	}
	data, err := json.Marshal(objs)
	if err != nil {
		t.Fatalf("marshallList() failed: %v", err)
	}
	return data
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	if tt.wantData != nil {
		assert.JSONEq(t, string(tt.wantData), rec.Body.String())
	}
}

func runHTTPTests(t *testing.T, app *testApp, tests []httpTest) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			method := tt.method
			if method == "" {
				method = http.MethodGet
			}
			checkCodeAndData(t, tt, app.do(method, tt.path, tt.token, tt.body))
		})
	}
}

type mailerMock struct {
	mu   sync.Mutex
	err  error
	sent []*core.EmailMessage
}

func (m *mailerMock) SendMessages(messages ...*core.EmailMessage) {
	for _, msg := range messages {
		_ = m.Send(context.Background(), msg)
	}
}

func (m *mailerMock) Send(_ context.Context, msg *core.EmailMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, msg)
	return nil
}

type limiterMock struct {
	mu       sync.Mutex
	attempts int
	failures map[string]int
}

var _ LoginLimiter = (*limiterMock)(nil)

func newLimiterMock(attempts int) *limiterMock {
	return &limiterMock{attempts: attempts, failures: make(map[string]int)}
}

func (l *limiterMock) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.failures[key] < l.attempts, nil
}

func (l *limiterMock) Fail(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.failures[key]++
	return nil
}

func (l *limiterMock) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.failures, key)
	return nil
}
