package cmd

import (
	"fmt"

	"github.com/fbz-tec/pgxjob/internal/version"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("pgxjob %s (build %s, commit %s)\n",
			version.AppVersion, version.BuildTime, version.GitCommit)
	},
}
