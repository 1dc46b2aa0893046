package main

import (
	"fmt"
	"os"

	"github.com/de-tools/spot-stats/pkg/runtime/terminal"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional for the command line tool
	_ = godotenv.Load()

	cli := terminal.NewCLI(terminal.Options{
		Output:    os.Stdout,
		ErrOutput: os.Stderr,
	})

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
