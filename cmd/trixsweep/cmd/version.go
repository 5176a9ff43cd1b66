package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

const version = "0.3.0"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `Display the current version of the trixsweep CLI.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("trixsweep version %s\n", version)
		fmt.Println("TRIX parameter sweep backtester")
		fmt.Println("https://github.com/rustyeddy/trixsweep")
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
