// Command tennis scores tennis matches from the command line.
package main

import (
	"os"

	"github.com/kldn/tennis-scorer/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
