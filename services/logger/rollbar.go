package logsvc

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/rollbar/rollbar-go"
	"github.com/rollbar/rollbar-go/errors"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/user"
)

// RollbarLogger logs to a standard logger and reports to rollbar on behalf of one app of the academy
// ("api", "db", "admin" or "portal"). Every report carries the app in its custom data.
type RollbarLogger struct {
	app    string
	std    *log.Logger
	client *rollbar.Client
}

var _ core.Logger = (*RollbarLogger)(nil)

// NewRollbarLogger writes log lines to out, prefixed with the app name.
// Reporting is only enabled outside of debug mode.
func NewRollbarLogger(app string, out io.Writer, conf *core.Config) *RollbarLogger {
	client := rollbar.New(conf.RollbarToken, conf.Env, conf.Build, conf.Server.Host, "")
	client.SetStackTracer(errors.StackTracer)
	client.SetCustom(map[string]interface{}{"app": app})
	client.SetEnabled(!conf.Debug && conf.RollbarToken != "")

	return &RollbarLogger{
		app:    app,
		std:    log.New(out, strings.ToUpper(app)+" : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile),
		client: client,
	}
}

// Close waits for queued reports to be sent.
func (l *RollbarLogger) Close() {
	_ = l.client.Close()
}

// report sends msg to rollbar.
// expected args: error, map[string]interface{}, user.User.
// The API logs the user.User behind a request, the portal only knows the "username" of its session.
func (l *RollbarLogger) report(level, msg string, args []interface{}) {
	var (
		err    error
		person *rollbar.Person
	)
	extras := make(map[string]interface{})
	for i, arg := range args {
		switch a := arg.(type) {
		case user.User:
			if person == nil { // only set one User
				person = &rollbar.Person{Id: a.ID, Username: a.Username, Email: a.Email}
			}
		case error:
			err = a
		case map[string]interface{}:
			for k, v := range a {
				extras[k] = v
			}
		default:
			extras[fmt.Sprintf("arg%d", i)] = a
		}
	}
	if uname, ok := extras["username"].(string); ok && uname != "" && person == nil {
		person = &rollbar.Person{Id: uname, Username: uname}
	}

	ctx := context.Background()
	if person != nil {
		ctx = rollbar.NewPersonContext(ctx, person)
	}
	if err != nil {
		extras["message"] = msg
		l.client.ErrorWithStackSkipWithExtrasAndContext(ctx, level, err, 2, extras)
		return
	}
	l.client.MessageWithExtrasAndContext(ctx, level, msg, extras)
}

func (l *RollbarLogger) print(level, msg string, args []interface{}) {
	_ = l.std.Output(3, fmt.Sprintf("%s: %s", level, msg))
	for _, arg := range args {
		if _, ok := arg.(user.User); ok {
			continue
		}
		_ = l.std.Output(3, fmt.Sprintf("%+v", arg))
	}
}

func (l *RollbarLogger) Debug(msg string, args ...interface{}) {
	l.report(rollbar.DEBUG, msg, args)
	l.print("DEBUG", msg, args)
}

func (l *RollbarLogger) Info(msg string, args ...interface{}) {
	l.report(rollbar.INFO, msg, args)
	l.print("INFO", msg, args)
}

func (l *RollbarLogger) Warn(msg string, args ...interface{}) {
	l.report(rollbar.WARN, msg, args)
	l.print("WARN", msg, args)
}

func (l *RollbarLogger) Error(msg string, args ...interface{}) {
	l.report(rollbar.ERR, msg, args)
	l.print("ERROR", msg, args)
}

func (l *RollbarLogger) Fatal(msg string, args ...interface{}) {
	l.report(rollbar.CRIT, msg, args)
	l.print("FATAL", msg, args)
	l.Close()
	l.std.Fatal(msg)
}
