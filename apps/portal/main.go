package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/trezcool/brightacademy/core"
	"github.com/trezcool/brightacademy/portal/record"
	"github.com/trezcool/brightacademy/portal/web"
	logsvc "github.com/trezcool/brightacademy/services/logger"
)

func main() {
	conf := core.NewConfig()

	demo := flag.Bool("demo", conf.Portal.Demo, "serve the demo records from memory, without login")
	addr := flag.String("addr", conf.Portal.Address, "address to listen on")
	flag.Parse()
	conf.Portal.Demo = *demo
	conf.Portal.Address = *addr

	logger := logsvc.NewRollbarLogger("portal", os.Stdout, conf)
	defer logger.Close()

	deps := web.Deps{Conf: conf, Logger: logger}
	if conf.Portal.Demo {
		logger.Info("demo mode: records are kept in memory")
	} else {
		deps.API = web.RemoteAPI(record.NewRemoteBackend(conf.Portal.APIBaseURL, conf.Portal.RequestTimeout))
	}

	server, err := web.NewServer(deps)
	if err != nil {
		logger.Fatal(fmt.Sprintf("setting up portal: %v", err), err)
	}

	logger.Info(fmt.Sprintf("Portal starting on %s : version %q", conf.Portal.Address, conf.Build))
	go server.Start()

	select {
	case err = <-server.Errors():
		logger.Fatal(fmt.Sprintf("server error: %v", err), err)

	case sig := <-server.ShutdownSignal():
		logger.Info(fmt.Sprintf("%v: Start shutdown...", sig))

		ctx, cancel := context.WithTimeout(context.Background(), conf.Server.ShutdownTimeout)
		defer cancel()

		if err = server.Shutdown(ctx); err != nil {
			logger.Error(fmt.Sprintf("could not stop portal gracefully: %v", err), err)

			if err = server.Close(); err != nil {
				logger.Fatal(fmt.Sprintf("could not force stop portal: %v", err), err)
			}
		}
	}
	logger.Info("Portal stopped")
}
