package main

import (
	"fmt"
	"os"

	"aptmaint/internal/app"
)

func main() {
	if err := app.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if app.IsUsageError(err) {
			fmt.Fprintln(os.Stderr)
			fmt.Fprint(os.Stderr, app.Usage())
		}
		os.Exit(1)
	}
}
