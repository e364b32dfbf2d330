package main

import (
	"log"
	"os"

	echoapi "github.com/trezcool/upeo/apps/api/echo"
	"github.com/trezcool/upeo/core"
	"github.com/trezcool/upeo/core/session"
	backendsvc "github.com/trezcool/upeo/services/backend"
	emailsvc "github.com/trezcool/upeo/services/email"
	logsvc "github.com/trezcool/upeo/services/logger"
	localstore "github.com/trezcool/upeo/storage/local"
)

// TODO:
// - graceful shutdown on SIGTERM
// - APM/Tracing
func main() {
	logger := logsvc.NewRollbarLogger(log.New(os.Stderr, core.Conf.GetString("appName")+" ", log.LstdFlags))

	// set up the stored profile and the remote backend
	store, err := localstore.New()
	errAndDie(err)
	backend := backendsvc.NewClient()

	mgr := session.NewManager(store, backend)
	backend.UseTokens(mgr)

	var mailSvc core.EmailService
	if core.Conf.GetBool("debug") {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	// start the gateway server
	app := echoapi.NewServer(
		&echoapi.Options{
			Addr:    core.Conf.GetString("serverAddr"),
			Manager: mgr,
			Backend: backend,
			Mail:    mailSvc,
			Logger:  logger,
		},
	)
	app.Start()
}

func errAndDie(err error) {
	if err != nil {
		log.Fatal(err)
	}
}
