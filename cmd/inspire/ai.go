package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var imageSize string

var aiCmd = &cobra.Command{
	Use:   "ai",
	Short: "Talk to the AI gateway configured by AI_BASE_URL",
}

var aiStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether AI features are enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if container.AIClient.CheckAvailability(cmd.Context()) {
			color.New(color.FgGreen).Fprintln(cmd.OutOrStdout(), "AI enabled")
			return nil
		}
		color.New(color.FgYellow).Fprintln(cmd.OutOrStdout(), "AI unavailable")
		return nil
	},
}

var aiGenerateCmd = &cobra.Command{
	Use:   "generate <prompt>",
	Short: "Generate an image and print the raw response",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result, err := container.AIClient.GenerateImage(cmd.Context(), args[0], imageSize)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(result))
		return nil
	},
}

func init() {
	aiGenerateCmd.Flags().StringVar(&imageSize, "size", "", "Image size, e.g. 1024x1024")
	aiCmd.AddCommand(aiStatusCmd, aiGenerateCmd)
}
