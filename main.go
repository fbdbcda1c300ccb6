// togglcmder is a command-line client for the Toggl time tracker with a
// local SQLite cache.
package main

import (
	"os"

	"github.com/manav03panchal/togglcmder/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
