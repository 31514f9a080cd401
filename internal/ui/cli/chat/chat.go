package chat

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/meridianesg/ralph/internal/appState"
	"github.com/meridianesg/ralph/internal/domain"
	"github.com/meridianesg/ralph/internal/repository/sqlite"
	"github.com/meridianesg/ralph/internal/ui/tui"
)

var newConversation bool

var ChatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long:  `Start an interactive chat session with the Meridian assistant.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()

		repo, err := sqlite.Initialize(app.Config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open conversation cache: %w", err)
		}

		var conv *domain.Conversation
		if newConversation {
			conv = &domain.Conversation{}
			err = repo.Create(cmd.Context(), conv)
		} else {
			conv, err = repo.GetMostRecent(cmd.Context())
			if err == nil {
				// Reload with messages so the transcript picks up where the
				// conversation left off.
				conv, err = repo.GetByID(cmd.Context(), conv.ID)
			}
			if domain.IsNoConversationError(err) {
				conv = &domain.Conversation{}
				err = repo.Create(cmd.Context(), conv)
			}
		}
		if err != nil {
			return err
		}

		p := tea.NewProgram(tui.New(app, repo, conv), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	ChatCmd.Flags().BoolVarP(&newConversation, "new", "n", false, "Start a new conversation")
}
