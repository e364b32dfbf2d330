package main

import (
	"log"
	"os"

	"github.com/fatih/color"

	"github.com/trezcool/upeo/core/session"
	backendsvc "github.com/trezcool/upeo/services/backend"
	localstore "github.com/trezcool/upeo/storage/local"
)

var logger *log.Logger

func main() {
	defer os.Exit(0)

	logger = log.New(os.Stderr, "DASHBOARD : ", log.LstdFlags)

	// set up the stored profile and the remote backend
	store, err := localstore.New()
	errAndDie(err)
	backend := backendsvc.NewClient()

	mgr := session.NewManager(store, backend)
	backend.UseTokens(mgr)

	// start CLI
	cli := commandLine{
		mgr:     mgr,
		guard:   session.NewGuard(mgr),
		backend: backend,
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			color.Red("\nerror: %s", err)
		}
		os.Exit(1)
	}
}

func errAndDie(err error) {
	if err != nil {
		logger.Fatal(err)
	}
}
