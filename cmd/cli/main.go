package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/userfetcher/internal/buildinfo"
	"github.com/dmitrijs2005/userfetcher/internal/client/bootstrap"
	"github.com/dmitrijs2005/userfetcher/internal/client/config"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := bootstrap.NewApp(ctx, cfg, nil)

	if err != nil {
		log.Fatalf("%v", err)
		return
	}
	defer app.Close()

	app.RunCLI(ctx, os.Stdin, os.Stdout)

}
