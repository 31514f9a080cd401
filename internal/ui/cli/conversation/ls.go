package conversation

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/meridianesg/ralph/internal/appState"
	"github.com/meridianesg/ralph/internal/repository/sqlite"
)

var limit int

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List cached conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()
		repo, err := sqlite.Initialize(app.Config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open conversation cache: %w", err)
		}

		convs, err := repo.List(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(convs) == 0 {
			fmt.Println("No conversations yet.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tUPDATED\tTITLE")
		for _, conv := range convs {
			title := conv.Title
			if title == "" {
				title = "(untitled)"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", conv.ID.String()[:8], conv.UpdatedAt.Format("2006-01-02 15:04"), title)
		}
		return w.Flush()
	},
}

func init() {
	lsCmd.Flags().IntVarP(&limit, "limit", "l", 20, "Maximum number of conversations to list")
}
