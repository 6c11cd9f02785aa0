// Command trackerctl is the restoration tracker CLI.
package main

import (
	"os"

	"github.com/bcgov/restoration-tracker/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
