package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"notekeeper/internal/notes/domain/entities"
)

func (r *runner) folderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "folder",
		Short: "Manage folders",
	}
	cmd.AddCommand(r.folderAddCommand(), r.folderListCommand(), r.folderRemoveCommand())
	return cmd
}

func (r *runner) folderAddCommand() *cobra.Command {
	var (
		parent   string
		favorite bool
	)

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := entities.NewFolder(args[0])
			if err != nil {
				return err
			}
			f.Favorite = favorite

			var owner *entities.Folder
			if parent != "" {
				if owner, err = r.folder(parent); err != nil {
					return err
				}
			}
			if err := r.ws.AddFolder(cmd.Context(), f, owner); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added folder %s\n", f.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&parent, "parent", "", "parent folder name")
	cmd.Flags().BoolVar(&favorite, "favorite", false, "mark as favorite")
	return cmd
}

func (r *runner) folderListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List folders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			renderFolders(cmd.OutOrStdout(), r.ws.Folders())
			return nil
		},
	}
}

func (r *runner) folderRemoveCommand() *cobra.Command {
	var deleteNotes bool

	cmd := &cobra.Command{
		Use:   "rm NAME",
		Short: "Delete a folder, moving its notes to Root unless --delete-notes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := r.folder(args[0])
			if err != nil {
				return err
			}
			if err := r.ws.DeleteFolder(cmd.Context(), f, deleteNotes); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted folder %s\n", f.Name)
			return nil
		},
	}
	cmd.Flags().BoolVar(&deleteNotes, "delete-notes", false, "delete the folder's notes too")
	return cmd
}
