package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/usharma123/ShellHacks2025/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("vca version %s\n", version.Get())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
