package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"inspiration-backend/domain/core/entities"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const dateLayout = "2006-01-02"

var (
	listTag  string
	listDate string

	addTitle   string
	addContent string
	addType    string
	addTags    []string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List inspirations, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := container.Content
		var items []entities.Inspiration

		switch {
		case listTag != "" && listDate != "":
			return fmt.Errorf("--tag and --date cannot be combined")
		case listTag != "":
			items = store.GetByTag(listTag)
		case listDate != "":
			loc, err := container.Config.Location()
			if err != nil {
				return err
			}
			day, err := time.ParseInLocation(dateLayout, listDate, loc)
			if err != nil {
				return fmt.Errorf("invalid --date %q, expected YYYY-MM-DD", listDate)
			}
			items = store.GetByDate(day)
		default:
			items = store.All()
		}

		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), items)
		}
		for _, item := range items {
			printInspiration(cmd.OutOrStdout(), item)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one inspiration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		item, ok := container.Content.GetByID(args[0])
		if !ok {
			return fmt.Errorf("inspiration %s not found", args[0])
		}
		return printJSON(cmd.OutOrStdout(), item)
	},
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Create an inspiration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := container.Content.Add(cmd.Context(), entities.InspirationDraft{
			Title:   addTitle,
			Content: addContent,
			Type:    entities.InspirationType(addType),
			Tags:    addTags,
		})
		if err != nil {
			return err
		}
		reportOutcome(cmd.ErrOrStderr(), res.Outcome)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res.Value)
		}
		printInspiration(cmd.OutOrStdout(), res.Value)
		return nil
	},
}

var updateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Change fields of an inspiration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		var patch entities.InspirationPatch
		if flags.Changed("title") {
			patch.Title = &addTitle
		}
		if flags.Changed("content") {
			patch.Content = &addContent
		}
		if flags.Changed("type") {
			kind := entities.InspirationType(addType)
			patch.Type = &kind
		}
		if flags.Changed("tag") {
			patch.Tags = &addTags
		}
		if patch == (entities.InspirationPatch{}) {
			return fmt.Errorf("nothing to update")
		}

		res, err := container.Content.Update(cmd.Context(), args[0], patch)
		if err != nil {
			return err
		}
		reportOutcome(cmd.ErrOrStderr(), res.Outcome)
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), res.Value)
		}
		printInspiration(cmd.OutOrStdout(), res.Value)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an inspiration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := container.Content.Delete(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		reportOutcome(cmd.ErrOrStderr(), res.Outcome)
		color.New(color.FgGreen).Fprintf(cmd.OutOrStdout(), "deleted %s\n", res.Value.ID)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List tags with usage counts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		counts := container.Content.TagCounts()
		if jsonOutput {
			return printJSON(cmd.OutOrStdout(), counts)
		}
		for _, tc := range counts {
			fmt.Fprintf(cmd.OutOrStdout(), "%-12s %d\n", tc.Name, tc.Count)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only inspirations carrying this tag")
	listCmd.Flags().StringVar(&listDate, "date", "", "Only inspirations created on this day (YYYY-MM-DD)")

	for _, cmd := range []*cobra.Command{addCmd, updateCmd} {
		cmd.Flags().StringVarP(&addTitle, "title", "t", "", "Title")
		cmd.Flags().StringVar(&addContent, "content", "", "Text content or image URL")
		cmd.Flags().StringVar(&addType, "type", "", "text or image")
		cmd.Flags().StringSliceVar(&addTags, "tag", nil, "Tag, repeatable")
	}
}

// printInspiration writes a one-line summary of item
func printInspiration(w io.Writer, item entities.Inspiration) {
	id := color.New(color.FgCyan).Sprint(item.ID)
	tags := make([]string, len(item.Tags))
	for i, tag := range item.Tags {
		tags[i] = "#" + tag
	}
	fmt.Fprintf(w, "%s  [%s] %s  %s\n", id, item.Type, item.Title, color.New(color.FgHiBlack).Sprint(strings.Join(tags, " ")))
}
