package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/sdlc-connector/internal/core/store"
	"github.com/solatis/sdlc-connector/internal/types"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage platform account to user mappings",
}

var userMapCmd = &cobra.Command{
	Use:   "map",
	Short: "Map a platform account id to an internal user id",
	RunE: func(cmd *cobra.Command, args []string) error {
		projectFlag, _ := cmd.Flags().GetString("project")
		systemFlag, _ := cmd.Flags().GetString("system")
		externalID, _ := cmd.Flags().GetString("external-id")
		userID, _ := cmd.Flags().GetString("user-id")

		projectID, err := types.ParseProjectID(projectFlag)
		if err != nil {
			return err
		}
		system, err := types.ParseSystem(systemFlag)
		if err != nil {
			return err
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		database, queries, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := store.NewUsers(queries).MapUser(cmd.Context(), projectID, system, externalID, userID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Mapped %s account %s to %s\n", system, externalID, userID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userMapCmd)
	f := userMapCmd.Flags()
	f.String("project", "", "project id (UUID)")
	f.String("system", string(types.SystemGitHub), "source system")
	f.String("external-id", "", "platform account id (e.g. GitHub sender.id)")
	f.String("user-id", "", "internal user id")
	_ = userMapCmd.MarkFlagRequired("project")
	_ = userMapCmd.MarkFlagRequired("external-id")
	_ = userMapCmd.MarkFlagRequired("user-id")
}
