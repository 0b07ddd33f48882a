package dig_container

import (
	"fmt"
	"log"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/dig"

	echoapi "github.com/trezcool/brightacademy/apps/api/echo"
	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/registration"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
	"github.com/trezcool/brightacademy/core/user"
	emailsvc "github.com/trezcool/brightacademy/services/email"
	logsvc "github.com/trezcool/brightacademy/services/logger"
	"github.com/trezcool/brightacademy/storage/database"
	sqlxrepos "github.com/trezcool/brightacademy/storage/database/sqlx"
)

type DBLoggerParam struct {
	dig.In
	Logger core.Logger `name:"dbLogger"`
}

func newLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger("api", os.Stdout, conf)
}

func newDBLogger(conf *core.Config) core.Logger {
	return logsvc.NewRollbarLogger("db", os.Stdout, conf)
}

func newDB(conf *core.Config, loggerParam DBLoggerParam) *sqlx.DB {
	setUp := func() (*sqlx.DB, error) {
		if err := database.CreateIfNotExist(conf); err != nil {
			return nil, err
		}

		db, err := database.Open(conf)
		if err != nil {
			return nil, err
		}

		if err = database.Migrate(db); err != nil {
			return nil, err
		}
		return db, nil
	}

	db, err := setUp()
	if err != nil {
		loggerParam.Logger.Fatal(fmt.Sprintf("setting up database: %v", err), err)
	}
	return db
}

func newEmailService(conf *core.Config, logger core.Logger) core.EmailService {
	if conf.Debug {
		return emailsvc.NewConsoleService(conf, log.New(os.Stdout, "EMAIL : ", log.LstdFlags))
	}
	return emailsvc.NewSendgridService(conf, logger)
}

// newLoginLimiter connects to redis when configured. Logins are not throttled otherwise.
func newLoginLimiter(conf *core.Config, logger core.Logger) echoapi.LoginLimiter {
	if conf.RedisURL == "" {
		logger.Warn("redis.url not set: login attempts are not throttled")
		return nil
	}
	limiter, err := echoapi.NewRedisLoginLimiter(conf.RedisURL, conf.Server.LoginAttempts, conf.Server.LoginAttemptsWindow)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up login limiter: %v", err), err)
	}
	return limiter
}

// New returns a new dependency injection dig.Container
func New() *dig.Container {
	c := dig.New()

	must(c.Provide(core.NewConfig))
	must(c.Provide(newLogger))
	must(c.Provide(newDBLogger, dig.Name("dbLogger")))
	must(c.Provide(newDB))
	must(c.Provide(newEmailService))
	must(c.Provide(newLoginLimiter))
	must(c.Provide(validator.New))
	must(c.Provide(core.NewTranslator))

	// repositories
	must(c.Provide(sqlxrepos.NewUserRepository, dig.As(new(user.Repository))))
	must(c.Provide(sqlxrepos.NewStudentRepository, dig.As(new(student.Repository))))
	must(c.Provide(sqlxrepos.NewTeacherRepository, dig.As(new(teacher.Repository))))
	must(c.Provide(sqlxrepos.NewGradeRepository, dig.As(new(grade.Repository))))

	// services
	must(c.Provide(user.NewService, dig.As(new(user.ServiceInterface))))
	must(c.Provide(user.NewResetService))
	must(c.Provide(student.NewService, dig.As(new(student.ServiceInterface))))
	must(c.Provide(teacher.NewService, dig.As(new(teacher.ServiceInterface))))
	must(c.Provide(grade.NewService, dig.As(new(grade.ServiceInterface))))
	must(c.Provide(registration.NewService))

	must(c.Provide(echoapi.NewServer))

	return c
}

// must exits program if err happened
func must(err error) {
	if err != nil {
		log.Fatal(errors.Wrap(err, "failed to provide dependency").Error())
	}
}
