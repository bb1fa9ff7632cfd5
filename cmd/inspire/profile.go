package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"inspiration-backend/domain/core/entities"

	"github.com/spf13/cobra"
)

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Read or change preferences",
}

var prefsGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print the stored preferences",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs := container.Profile.Snapshot().Preferences
		if prefs == nil {
			prefs = entities.Preferences{}
		}
		return printJSON(cmd.OutOrStdout(), prefs)
	},
}

var prefsSetCmd = &cobra.Command{
	Use:   "set <key=value>...",
	Short: "Merge key=value pairs into the preferences",
	Long: `Merge key=value pairs into the preferences. Values are parsed as JSON
when possible, so fontSize=14 stores a number and theme=dark a string.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefs, err := parsePreferences(args)
		if err != nil {
			return err
		}
		res := container.Profile.UpdatePreferences(cmd.Context(), prefs)
		reportOutcome(cmd.ErrOrStderr(), res.Outcome)
		return printJSON(cmd.OutOrStdout(), res.Value)
	},
}

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Print the user profile",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return printJSON(cmd.OutOrStdout(), container.Profile.Snapshot())
	},
}

func init() {
	prefsCmd.AddCommand(prefsGetCmd, prefsSetCmd)
}

// parsePreferences turns key=value arguments into a preferences patch
func parsePreferences(args []string) (entities.Preferences, error) {
	prefs := make(entities.Preferences, len(args))
	for _, arg := range args {
		key, raw, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid preference %q, expected key=value", arg)
		}
		var value interface{}
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		prefs[key] = value
	}
	return prefs, nil
}
