package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jask/imgdrop/internal/history"
)

func historyCmd() *cobra.Command {
	var (
		limit int
		wipe  bool
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent uploads",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := setup("")
			if err != nil {
				return err
			}
			defer e.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			if wipe {
				n, err := e.history.Clear(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %d uploads\n", n)
				return nil
			}
			if !cmd.Flags().Changed("limit") {
				limit = e.cfg.History.Limit
			}
			return printHistory(ctx, cmd.OutOrStdout(), e.history, limit)
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "number of uploads to show, 0 for all")
	cmd.Flags().BoolVar(&wipe, "clear", false, "forget every recorded upload")
	return cmd
}

func printHistory(ctx context.Context, out io.Writer, repo *history.Repo, limit int) error {
	list, err := repo.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		_, err := fmt.Fprintln(out, "nothing uploaded yet")
		return err
	}
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for _, u := range list {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", u.UploadedAt.Local().Format("2006-01-02 15:04"), u.FileName, u.URL)
	}
	return tw.Flush()
}
