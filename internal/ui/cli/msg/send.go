package msg

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/meridianesg/ralph/internal/appState"
	"github.com/meridianesg/ralph/internal/assistant"
	"github.com/meridianesg/ralph/internal/domain"
	"github.com/meridianesg/ralph/internal/repository/sqlite"
)

var (
	newConversation bool
	conversationID  string
)

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send a single message and stream the reply",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		repo, err := sqlite.Initialize(app.Config.DBPath)
		if err != nil {
			return fmt.Errorf("failed to open conversation cache: %w", err)
		}

		var conv *domain.Conversation
		switch {
		case conversationID != "":
			conv, err = repo.GetByPartialID(ctx, conversationID)
		case newConversation:
			conv = &domain.Conversation{}
			err = repo.Create(ctx, conv)
		default:
			conv, err = repo.GetMostRecent(ctx)
			if domain.IsNoConversationError(err) {
				conv = &domain.Conversation{}
				err = repo.Create(ctx, conv)
			}
		}
		if err != nil {
			return err
		}

		content := args[0]
		var reply strings.Builder
		done := make(chan string, 1)

		client := assistant.NewClient(assistant.Config{
			BaseURL: app.Config.API.BaseURL,
			Token:   app.Config.API.Token,
			Logger:  app.Logger,
		}, assistant.Callbacks{
			OnToken: func(fragment string) {
				reply.WriteString(fragment)
				fmt.Print(fragment)
			},
			OnUserMessage: func(messageID string) {
				if err := repo.AddMessage(ctx, conv.ID, &domain.Message{
					Role:     domain.RoleUser,
					Content:  content,
					RemoteID: messageID,
				}); err != nil {
					app.Logger.Warn("failed to cache user message", "error", err)
				}
			},
			OnDone: func(messageID string) {
				done <- messageID
			},
		})

		fmt.Printf("You: %s\n", content)
		fmt.Print("Ralph: ")
		client.Send(conv.ID.String(), content)

		cacheReply := func(messageID string) {
			fmt.Println()
			if err := repo.AddMessage(ctx, conv.ID, &domain.Message{
				Role:     domain.RoleAssistant,
				Content:  reply.String(),
				RemoteID: messageID,
			}); err != nil {
				app.Logger.Warn("failed to cache assistant message", "error", err)
			}
		}

		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		var shownTools []string

		for {
			select {
			case <-ctx.Done():
				// Callbacks run on the reader goroutine, so a token already
				// past the stream's liveness check can still print after
				// Cancel returns.
				client.Cancel()
				fmt.Println()
				fmt.Fprintln(os.Stderr, "cancelled")
				return nil

			case messageID := <-done:
				cacheReply(messageID)
				return nil

			case <-ticker.C:
				for _, name := range newlyRunning(shownTools, client.ActiveToolCalls()) {
					fmt.Fprintf(os.Stderr, "[%s running...]\n", name)
				}
				shownTools = client.ActiveToolCalls()

				if !client.IsStreaming() {
					// The done frame flips streaming off just before the
					// callback runs; give it a moment to land.
					select {
					case messageID := <-done:
						cacheReply(messageID)
						return nil
					case <-time.After(250 * time.Millisecond):
					}
					fmt.Println()
					if err := client.Err(); err != nil {
						return fmt.Errorf("assistant stream failed: %w", err)
					}
					// Stream ended without a done frame.
					return nil
				}
			}
		}
	},
}

// newlyRunning reports names in current that were not yet shown.
func newlyRunning(shown, current []string) []string {
	counts := make(map[string]int, len(shown))
	for _, name := range shown {
		counts[name]++
	}
	var fresh []string
	for _, name := range current {
		if counts[name] > 0 {
			counts[name]--
			continue
		}
		fresh = append(fresh, name)
	}
	return fresh
}

func init() {
	sendCmd.Flags().BoolVarP(&newConversation, "new", "n", false, "Start a new conversation")
	sendCmd.Flags().StringVarP(&conversationID, "conversation", "c", "", "Conversation ID (prefix match)")
}
