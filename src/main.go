// Command rainsimdb provisions the experiment database: it creates the
// application user and the validated experiments and camera collections,
// then exits. It is meant to run once when the database container starts.
package main

import (
	"os"
)

func main() {
	root, a := newRootCommand()
	err := root.Execute()
	a.close()
	if err != nil {
		os.Exit(1)
	}
}
