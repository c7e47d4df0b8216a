// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var issueCodeCmd = &cobra.Command{
	Use:   "issue-code <username>",
	Short: "Print a fresh confirmation code for an existing account",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		signup, err := authService(pool)
		if err != nil {
			return err
		}

		code, err := signup.IssueCode(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), code)
		return nil
	},
}
