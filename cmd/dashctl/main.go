package main

import (
	"fmt"
	"os"

	"market-insights-service/internal/cli"
)

var version = "dev"

func main() {
	app := cli.NewApp(version)

	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
