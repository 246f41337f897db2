package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jask/imgdrop/internal/upload"
)

func uploadCmd(baseURL *string) *cobra.Command {
	return &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload one image and print its URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup(*baseURL)
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return uploadOne(ctx, cmd.OutOrStdout(), e.client, args[0])
		},
	}
}

// uploadOne posts path and writes the resulting URL on its own line. Errors
// carry the same wording the interactive alert uses.
func uploadOne(ctx context.Context, out io.Writer, client upload.Uploader, path string) error {
	f, err := upload.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	url, err := client.Upload(ctx, f)
	if err != nil {
		if reason, ok := upload.IsServerError(err); ok {
			return fmt.Errorf("Upload failed: %s", reason)
		}
		return fmt.Errorf("Error uploading file: %w", err)
	}
	_, err = fmt.Fprintln(out, url)
	return err
}
