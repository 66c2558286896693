package main

import (
	"fmt"
	"os"

	"github.com/TU-Berlin-DIMA/scrum-tools/cmd/cli"
)

const (
	exitErrorTemplateConstant = "%v\n"
)

// main executes the scrum-tools command-line application.
func main() {
	if executionError := cli.Execute(); executionError != nil {
		fmt.Fprintf(os.Stderr, exitErrorTemplateConstant, executionError)
		os.Exit(1)
	}
}
