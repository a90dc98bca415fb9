package main

import (
	"os"
)

func main() {
	a := newApp(os.Stdout)
	err := newRootCommand(a).Execute()
	if cerr := a.close(); cerr != nil && a.logger != nil {
		a.logger.Warn("Failed to close storage", "error", cerr)
	}
	if err != nil {
		os.Exit(1)
	}
}
