package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const (
	// VersionMajor is the major number in betadiv's version
	VersionMajor = 1
	// VersionMinor is the minor number in betadiv's version
	VersionMinor = 0
	// VersionPatch is the patch number in betadiv's version
	VersionPatch = 0
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of betadiv",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "betadiv v%d.%d.%d\n", VersionMajor, VersionMinor, VersionPatch)
		},
	}
}
