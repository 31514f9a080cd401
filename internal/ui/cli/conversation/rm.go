package conversation

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meridianesg/ralph/internal/appState"
	"github.com/meridianesg/ralph/internal/repository/sqlite"
)

var rmCmd = &cobra.Command{
	Use:   "rm [id]",
	Short: "Delete a cached conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()
		repo, err := sqlite.Initialize(app.Config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open conversation cache: %w", err)
		}

		conv, err := repo.GetByPartialID(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if err := repo.Delete(cmd.Context(), conv.ID); err != nil {
			return err
		}
		fmt.Printf("Deleted conversation %s\n", conv.ID.String()[:8])
		return nil
	},
}
