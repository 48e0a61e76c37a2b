package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// printError writes err to w prefixed with a red "Error: ", matching the
// teacher's FormatError convention of routing CLI-level errors through
// github.com/fatih/color rather than hand-rolled ANSI codes. Color honors
// fatih/color's own terminal/NO_COLOR autodetection.
func printError(w io.Writer, err error) {
	_, _ = fmt.Fprintln(w, color.RedString("Error:")+" "+err.Error())
}
