package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/solatis/sdlc-connector/internal/core/store"
	"github.com/solatis/sdlc-connector/internal/types"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage per-project webhook secrets",
}

var tokenAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Provision a webhook secret (read from stdin)",
	Long: `Provision a webhook secret for a project. The secret is read from the
first line of stdin so it never appears in shell history or process lists.
Older secrets stay valid until revoked, which allows rotation.`,
	RunE: runTokenAdd,
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke SECRET_ID",
	Short: "Revoke a webhook secret",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, queries, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := store.NewTokens(queries).RevokeSecret(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Revoked %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd)
	tokenCmd.AddCommand(tokenAddCmd, tokenRevokeCmd)
	tokenAddCmd.Flags().String("project", "", "project id (UUID)")
	tokenAddCmd.Flags().String("system", string(types.SystemGitHub), "source system")
	_ = tokenAddCmd.MarkFlagRequired("project")
}

func runTokenAdd(cmd *cobra.Command, args []string) error {
	projectFlag, _ := cmd.Flags().GetString("project")
	systemFlag, _ := cmd.Flags().GetString("system")

	projectID, err := types.ParseProjectID(projectFlag)
	if err != nil {
		return err
	}
	system, err := types.ParseSystem(systemFlag)
	if err != nil {
		return err
	}

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return fmt.Errorf("failed to read secret from stdin: %w", err)
	}
	secret := strings.TrimRight(line, "\r\n")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	database, queries, err := openDatabase(cfg)
	if err != nil {
		return err
	}
	defer database.Close()

	id, err := store.NewTokens(queries).AddSecret(cmd.Context(), projectID, system, secret)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Added secret %s for project %s (%s)\n", id, projectID, system)
	return nil
}
