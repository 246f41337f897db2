package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var version = "dev"

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "imgdrop [file]",
		Short: "Upload images from the terminal",
		Long: `imgdrop posts an image to an upload server and prints the URL it
gets back.

Run without a subcommand for the interactive uploader. Drag a file onto
the terminal window or press o to pick one.`,
		Version:       version,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInteractive(cmd.Context(), baseURL, args)
		},
	}

	cmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "upload server, overrides upload.base_url")

	cmd.AddCommand(
		uploadCmd(&baseURL),
		historyCmd(),
		configCmd(),
	)
	return cmd
}
