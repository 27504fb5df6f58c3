package main

import (
	"context"
	"log"
	"os"

	"fyne.io/fyne/v2"
	fyneapp "fyne.io/fyne/v2/app"

	"github.com/dmitrijs2005/userfetcher/internal/buildinfo"
	"github.com/dmitrijs2005/userfetcher/internal/client/bootstrap"
	"github.com/dmitrijs2005/userfetcher/internal/client/config"
	"github.com/dmitrijs2005/userfetcher/internal/client/gui"
)

const appID = "sg.42.userfetcher"

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	cfg := config.LoadConfig()
	app, err := bootstrap.NewApp(ctx, cfg, os.Stderr)
	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	fa := fyneapp.NewWithID(appID)
	w := gui.New(fa, app.Layout())
	p := app.NewPresenter(w, true)
	w.Bind(p)

	app.InitSignalHandler(func() {
		cancelFunc()
		fyne.Do(fa.Quit)
	})

	app.Logger().Info(ctx, "Starting app...")
	wait := app.Serve(ctx, p)
	w.ShowAndRun()

	cancelFunc()
	wait()
}
