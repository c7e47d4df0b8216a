// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/yamdb/internal/platform/sec"
	"github.com/taibuivan/yamdb/internal/users/account"
)

var (
	adminUsername string
	adminEmail    string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create an administrator and print a confirmation code",
	Long: `Create an account with the admin role and print a confirmation code for it.

Exchange the code for a token with POST /api/v1/auth/token.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if adminUsername == "" || adminEmail == "" {
			return errors.New("--username and --email are required")
		}

		pool, err := connect(cmd.Context())
		if err != nil {
			return err
		}
		defer pool.Close()

		accounts := account.NewService(account.NewAccountRepository(pool), logger)
		user, err := accounts.Create(cmd.Context(), account.CreateInput{
			Username: adminUsername,
			Email:    adminEmail,
			Role:     string(sec.RoleAdmin),
		})
		if err != nil {
			return err
		}

		signup, err := authService(pool)
		if err != nil {
			return err
		}
		code, err := signup.IssueCode(cmd.Context(), user.Username)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "created %s (id %d)\nconfirmation code: %s\n", user.Username, user.ID, code)
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "Administrator username")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "Administrator email")
}
