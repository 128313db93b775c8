// Command modeldiag fits linear models to tabular data and reports regression diagnostics and
// backward feature elimination sweeps.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
