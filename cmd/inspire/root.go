package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"inspiration-backend/application/services"
	"inspiration-backend/infrastructure/config"
	"inspiration-backend/infrastructure/di"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	configFile string
	envFile    string
	jsonOutput bool

	container *di.Container
	cleanup   func()
)

var rootCmd = &cobra.Command{
	Use:   "inspire",
	Short: "Manage inspirations from the command line",
	Long:  `inspire reads and writes the same durable storage as the API server.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if configFile != "" {
			os.Setenv("CONFIG_FILE", configFile)
		}
		if envFile != "" {
			os.Setenv("DOTENV_FILE", envFile)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		container, cleanup, err = di.InitializeContainer(cmd.Context(), cfg)
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		container.LoadState(cmd.Context())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if cleanup != nil {
			cleanup()
		}
		if container != nil {
			_ = container.Logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file")
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", "", "Environment file")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Print results as JSON")

	rootCmd.AddCommand(listCmd, showCmd, addCmd, updateCmd, deleteCmd, tagsCmd, prefsCmd, profileCmd, aiCmd)
}

// printJSON writes v indented to w
func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// reportOutcome tells the user when a change only reached memory. A CLI
// process exits right after, so a memory-only change is lost.
func reportOutcome(w io.Writer, outcome services.Outcome) {
	if !outcome.Degraded() {
		return
	}
	color.New(color.FgYellow).Fprintf(w, "warning: change not saved to storage: %v\n", outcome.Cause)
}
