// Command shortener serves the link shortener API and carries its
// maintenance commands.
package main

import (
	"github.com/spf13/cobra"
)

var buildVersion string
var buildDate string
var buildCommit string

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func main() {
	cobra.CheckErr(newRootCmd().Execute())
}
