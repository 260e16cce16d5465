// Package cli реализует команды локального режима: рабочий набор читается из
// файла снимка, каждая команда сохраняет его обратно.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	snapshotcodec "notekeeper/internal/notes/adapters/snapshot"
	"notekeeper/internal/notes/config"
	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/workspace"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках.
const (
	ErrOpenWorkspace = "failed to open workspace"
	ErrParseFormat   = "failed to parse snapshot format"
)

// ErrInvalidNoteID возвращается, когда аргумент не является id заметки.
var ErrInvalidNoteID = fmt.Errorf("%w: invalid note id", entities.ErrValidation)

type runner struct {
	path   string
	format string
	ws     *workspace.Workspace
}

// NewRootCommand собирает дерево команд. Путь и формат снимка берутся из cfg
// и могут быть переопределены флагами --file и --format.
func NewRootCommand(cfg config.SnapshotConfig) *cobra.Command {
	r := &runner{}

	root := &cobra.Command{
		Use:           "notes",
		Short:         "Local notebook stored in a single snapshot file",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return r.open(cmd)
		},
	}
	root.PersistentFlags().StringVarP(&r.path, "file", "f", cfg.Path, "snapshot file")
	root.PersistentFlags().StringVar(&r.format, "format", cfg.Format, "snapshot format: json, yaml or auto")

	root.AddCommand(
		r.noteCommand(),
		r.folderCommand(),
		r.tagCommand(),
		r.alarmCommand(),
	)
	return root
}

func (r *runner) open(cmd *cobra.Command) error {
	ctx := cmd.Context()

	format, err := snapshotcodec.ParseFormat(r.format)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrParseFormat, err)
	}

	ws, err := workspace.New(ctx, snapshotcodec.NewCodec(r.path, format))
	if err != nil {
		logger.Log(ctx).Error(ctx, ErrOpenWorkspace, zap.String("path", r.path), zap.Error(err))
		return fmt.Errorf("%s: %w", ErrOpenWorkspace, err)
	}
	r.ws = ws
	return nil
}

// note ищет заметку по id из аргумента.
func (r *runner) note(arg string) (*entities.Note, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidNoteID, arg)
	}
	n := r.ws.Note(id)
	if n == nil {
		return nil, fmt.Errorf("%w: %d", entities.ErrNoteNotFound, id)
	}
	return n, nil
}

// folder ищет папку по имени. Пустое имя означает Root.
func (r *runner) folder(name string) (*entities.Folder, error) {
	if name == "" {
		return r.ws.Root(), nil
	}
	f := r.ws.Folder(name)
	if f == nil {
		return nil, fmt.Errorf("%w: %q", entities.ErrFolderNotFound, name)
	}
	return f, nil
}
