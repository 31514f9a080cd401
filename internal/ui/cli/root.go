package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meridianesg/ralph/internal/appState"
	"github.com/meridianesg/ralph/internal/config"
	"github.com/meridianesg/ralph/internal/ui/cli/chat"
	configCmd "github.com/meridianesg/ralph/internal/ui/cli/config"
	"github.com/meridianesg/ralph/internal/ui/cli/conversation"
	"github.com/meridianesg/ralph/internal/ui/cli/msg"
)

var (
	logLevel string
	logFile  string
	baseURL  string
)

var rootCmd = &cobra.Command{
	Use:               "ralph",
	Short:             "Terminal client for the Meridian assistant",
	Long:              `Ralph is a terminal client for the Meridian platform's conversational assistant.`,
	DisableAutoGenTag: true,
}

func Execute() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rootCmd.SetContext(ctx)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Set logging level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Log file path (defaults to stderr)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "Platform API base URL")

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		overrides := &config.RuntimeOverrides{}
		if logLevel != "" {
			overrides.LogLevel = &logLevel
		}
		if logFile != "" {
			overrides.LogFile = &logFile
		}
		if baseURL != "" {
			overrides.BaseURL = &baseURL
		}
		return appState.Initialize(overrides)
	}

	rootCmd.PersistentPostRunE = func(cmd *cobra.Command, args []string) error {
		return appState.Cleanup()
	}

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.AddCommand(
		chat.ChatCmd,
		msg.MsgCmd,
		conversation.ConversationCmd,
		configCmd.ConfigCmd,
	)
}
