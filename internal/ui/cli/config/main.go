package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/meridianesg/ralph/internal/appState"
)

var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect configuration",
}

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the merged configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := appState.Get()
		out, err := yaml.Marshal(app.Config.Redacted())
		if err != nil {
			return fmt.Errorf("failed to render config: %w", err)
		}
		fmt.Print(string(out))
		return nil
	},
}

func init() {
	ConfigCmd.AddCommand(showCmd)
}
