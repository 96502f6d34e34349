package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dverna/annet"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of annet",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("annet version %s\n", strings.TrimSpace(annet.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
