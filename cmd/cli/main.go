package main

import (
	"context"
	"log"
	"os"

	"github.com/arogyahealth/arogya-go/internal/buildinfo"
	"github.com/arogyahealth/arogya-go/internal/client/cli"
	"github.com/arogyahealth/arogya-go/internal/client/config"
	"github.com/arogyahealth/arogya-go/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()

	app, err := cli.NewApp(ctx, cfg, logging.NewDefault())
	if err != nil {
		log.Fatalf("%v", err)
	}

	app.Run(ctx)
}
