package main

import (
	"os"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/core/grade"
	"github.com/trezcool/brightacademy/core/student"
	"github.com/trezcool/brightacademy/core/teacher"
	"github.com/trezcool/brightacademy/core/user"
	logsvc "github.com/trezcool/brightacademy/services/logger"
	"github.com/trezcool/brightacademy/storage/database"
	sqlxrepos "github.com/trezcool/brightacademy/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger("admin", os.Stdout, conf)

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("creating database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// start CLI
	stdRepo := sqlxrepos.NewStudentRepository(db)
	cli := commandLine{
		db:         db,
		validate:   validate,
		translator: translator,
		usrSvc:     user.NewService(sqlxrepos.NewUserRepository(db)),
		stdSvc:     student.NewService(stdRepo),
		tchrSvc:    teacher.NewService(sqlxrepos.NewTeacherRepository(db)),
		gradeSvc:   grade.NewService(sqlxrepos.NewGradeRepository(db), stdRepo),
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			logger.Error("command failed", err)
		}
		os.Exit(1)
	}
}
