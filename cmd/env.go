package cmd

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/streamfin/streamfin/config"
)

func init() {
	rootCmd.AddCommand(envCmd)
}

// envCmd lists every configuration field with its environment variable name.
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Show all configuration fields and their environment variables",
	Run: func(cmd *cobra.Command, args []string) {
		keys := lo.Keys(config.Default)
		sort.Strings(keys)

		for _, k := range keys {
			field := config.Default[k]
			fmt.Printf("%s (%s)\n  default: %v\n  %s\n\n", field.Key, field.Env(), field.Value, field.Description)
		}
	},
}
