package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func (r *runner) tagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Tag notes and find them by tag",
	}
	cmd.AddCommand(r.tagAddCommand(), r.tagRemoveCommand(), r.tagFindCommand(), r.tagListCommand())
	return cmd
}

func (r *runner) tagAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add NOTE_ID NAME",
		Short: "Tag a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			tag, err := r.ws.AddTag(cmd.Context(), n, args[1])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Tagged note %d with %s\n", n.ID, tag.Name)
			return nil
		},
	}
}

func (r *runner) tagRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rm NOTE_ID NAME",
		Short: "Remove a tag from a note",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			return r.ws.RemoveTag(cmd.Context(), n, args[1])
		},
	}
}

func (r *runner) tagFindCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "find NAME",
		Short: "List notes carrying exactly this tag",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderNotes(cmd.OutOrStdout(), r.ws.SearchByTag(args[0]))
			return nil
		},
	}
}

func (r *runner) tagListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tags in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderTags(cmd.OutOrStdout(), r.ws.Tags())
			return nil
		},
	}
}
