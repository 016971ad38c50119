package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// rootCmd is the base for every mb8 subcommand, mirroring the
// `chippy [command]` root/subcommand split.
var rootCmd = &cobra.Command{
	Use:   "mb8 [command]",
	Short: "mb8 is a retro 8-bit virtual machine and compiler toolchain",
	Long:  "mb8 is a retro 8-bit virtual machine and compiler toolchain",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Unknown command. Try `mb8 help` for more information")
	},
}

func init() {
	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(diskCmd)
}

// Execute runs mb8 according to the user's command/subcommand/flags.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}
