package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var noColor bool

var rootCmd = &cobra.Command{
	Use:           "firmsfinder",
	Short:         "Search the FirmsFinder directory of firms, blogs and interviews",
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(serveCmd, mcpCmd, browseCmd)
	rootCmd.AddCommand(servicesCmd, blogsCmd, interviewsCmd, faqsCmd, showCmd)
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd, reviewCmd)
	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

// errLoginRequired is returned by commands behind a protected route.
var errLoginRequired = errors.New("login required: run `firmsfinder login --email <email> --password <password>`")
