// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import [dir]",
	Short: "Load CSV fixtures",
	Long: `Load the CSV fixtures (users.csv, category.csv, genre.csv, titles.csv,
genre_title.csv, review.csv, comments.csv) from dir.

Rows keep their IDs. Rows already present are left alone and rows that break
a constraint are skipped. The default directory is data/fixtures.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "data/fixtures"
		if len(args) == 1 {
			dir = args[0]
		}

		pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		reports, err := importer.New(pool, logger).Run(cmd.Context(), dir)
		if err != nil {
			return err
		}

		writer := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(writer, "FILE\tINSERTED\tEXISTING\tSKIPPED")
		for _, report := range reports {
			fmt.Fprintf(writer, "%s\t%d\t%d\t%d\n", report.File, report.Inserted, report.Existing, report.Skipped)
		}
		return writer.Flush()
	},
}
