// Package cmd implements the command-line interface for streamfin.
package cmd

import (
	"fmt"
	"os"
	"strings"

	cc "github.com/ivanpirog/coloredcobra"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/streamfin/streamfin/constant"
	"github.com/streamfin/streamfin/key"
	"github.com/streamfin/streamfin/log"
)

func init() {
	rootCmd.Flags().BoolP("version", "v", false, "Print the application version")
}

// rootCmd defines the entry point for the streamfin application.
var rootCmd = &cobra.Command{
	Use:   constant.Streamfin,
	Short: "Media playback core for a Jellyfin client",
	Run: func(cmd *cobra.Command, args []string) {
		if cmd.Flags().Changed("version") {
			fmt.Printf("%s version %s\n", constant.Streamfin, constant.Version)
			return
		}

		_ = cmd.Help()
	},
}

// Execute initializes child command routing and processes the CLI entry point.
func Execute() {
	if viper.GetBool(key.CliColored) {
		cc.Init(&cc.Config{
			RootCmd:       rootCmd,
			Headings:      cc.HiCyan + cc.Bold + cc.Underline,
			Commands:      cc.HiYellow + cc.Bold,
			Example:       cc.Italic,
			ExecName:      cc.Bold,
			Flags:         cc.Bold,
			FlagsDataType: cc.Italic + cc.HiBlue,
		})
	}

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func handleErr(err error) {
	if err != nil {
		log.Error(err)
		_, _ = fmt.Fprintf(os.Stderr, "error: %s\n", strings.Trim(err.Error(), " \n"))
		os.Exit(1)
	}
}
