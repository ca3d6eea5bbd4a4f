package main

import (
	"fmt"
	"os"

	"github.com/vaultpass/passgen-go/internal/cli"
)

func main() {
	app := cli.NewApp(cli.Options{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "passgen:", err)
		os.Exit(1)
	}
}
