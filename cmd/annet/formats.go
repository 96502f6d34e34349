package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dverna/annet/pkg/loader"
)

// formatsCmd represents the formats command
var formatsCmd = &cobra.Command{
	Use:   "formats",
	Short: "List supported file extensions and their formats",
	Run: func(cmd *cobra.Command, args []string) {
		for _, pair := range loader.Extensions() {
			fmt.Printf(".%-14s %s\n", pair[0], pair[1])
		}
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
