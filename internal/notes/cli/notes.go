package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes/domain/entities"
)

func (r *runner) noteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "note",
		Short: "Manage notes",
	}
	cmd.AddCommand(
		r.noteAddCommand(),
		r.noteListCommand(),
		r.noteShowCommand(),
		r.noteRemoveCommand(),
		r.noteSearchCommand(),
		r.noteMoveCommand(),
		r.noteFavoriteCommand(),
	)
	return cmd
}

func (r *runner) noteAddCommand() *cobra.Command {
	var (
		content   string
		imageFile string
		folder    string
		tags      []string
		mission   string
		favorite  bool
	)

	cmd := &cobra.Command{
		Use:   "add TITLE",
		Short: "Add a text note, or a drawing with --image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				n   *entities.Note
				err error
			)
			if imageFile != "" {
				image, readErr := os.ReadFile(imageFile)
				if readErr != nil {
					return fmt.Errorf("failed to read image: %w", readErr)
				}
				if content != "" {
					return entities.ErrDrawingHasContent
				}
				n, err = entities.NewDrawingNote(args[0], image)
			} else {
				n, err = entities.NewTextNote(args[0], content)
			}
			if err != nil {
				return err
			}

			f, err := r.folder(folder)
			if err != nil {
				return err
			}
			n.FolderID = f.ID
			n.Favorite = favorite
			if mission != "" {
				n.SetMission(true, mission)
			}
			for _, name := range tags {
				tag, err := entities.NewTag(name)
				if err != nil {
					return err
				}
				if _, err := n.AddTag(tag); err != nil {
					return err
				}
			}

			if err := r.ws.AddNote(cmd.Context(), n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added note %d to %s\n", n.ID, n.Folder().Name)
			return nil
		},
	}
	cmd.Flags().StringVarP(&content, "content", "c", "", "note text")
	cmd.Flags().StringVar(&imageFile, "image", "", "create a drawing note from this file")
	cmd.Flags().StringVar(&folder, "folder", "", "folder name (default Root)")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tag names")
	cmd.Flags().StringVar(&mission, "mission", "", "attach an open mission with this text")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "mark as favorite")
	return cmd
}

func (r *runner) noteListCommand() *cobra.Command {
	var folder string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes: favorites first, then open missions, then newest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			notes := r.ws.Sorted()
			if folder != "" {
				f, err := r.folder(folder)
				if err != nil {
					return err
				}
				notes = entities.SortForDisplay(f.Notes())
			}
			renderNotes(cmd.OutOrStdout(), notes)
			return nil
		},
	}
	cmd.Flags().StringVar(&folder, "folder", "", "only notes of this folder")
	return cmd
}

func (r *runner) noteShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			renderNote(cmd.OutOrStdout(), n)
			return nil
		},
	}
}

func (r *runner) noteRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a note",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			if err := r.ws.DeleteNote(cmd.Context(), n); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted note %d\n", n.ID)
			return nil
		},
	}
}

func (r *runner) noteSearchCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "search QUERY",
		Short: "Find notes by title, content or tag name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			renderNotes(cmd.OutOrStdout(), r.ws.Search(args[0]))
			return nil
		},
	}
}

func (r *runner) noteMoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "move ID [FOLDER]",
		Short: "Move a note to a folder, Root when omitted",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			name := ""
			if len(args) == 2 {
				name = args[1]
			}
			f, err := r.folder(name)
			if err != nil {
				return err
			}
			if err := r.ws.MoveNote(cmd.Context(), n, f); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved note %d to %s\n", n.ID, f.Name)
			return nil
		},
	}
}

func (r *runner) noteFavoriteCommand() *cobra.Command {
	var off bool

	cmd := &cobra.Command{
		Use:   "fav ID",
		Short: "Mark a note as favorite",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := r.note(args[0])
			if err != nil {
				return err
			}
			n.SetFavorite(!off)
			return r.ws.UpdateNote(cmd.Context(), n)
		},
	}
	cmd.Flags().BoolVar(&off, "off", false, "remove the favorite mark")
	return cmd
}
