package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/haguru/tracker/config"
	"github.com/haguru/tracker/internal/app"
)

func main() {
	configPath := flag.String("config", config.CONFIG_PATH, "path to the YAML configuration file")
	flag.Parse()

	// create and initialize the app
	app, err := app.NewApp(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}

	// run until interrupted
	if err := app.Run(); err != nil {
		app.Logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}
