// Command hoaxctl runs the prediction pipeline and store maintenance from
// the command line.
package main

import (
	"fmt"
	"os"

	"github.com/fahrezi93/hoax-detection/internal/infrastructure/config"
)

func main() {
	if err := newRootCmd(config.Load).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
