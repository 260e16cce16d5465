package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках репозитория папок.
const (
	ErrCreateFolder      = "failed to create folder"
	ErrGetFolder         = "failed to get folder"
	ErrListFolders       = "failed to list folders"
	ErrUpdateFolder      = "failed to update folder"
	ErrDeleteFolder      = "failed to delete folder"
	ErrCheckFolder       = "failed to check folder existence"
	ErrClearFolderParent = "failed to detach sub-folders"
)

const folderColumns = `id, name, favorite, parent_id`

// FolderRepository реализует repositories.FolderRepository.
type FolderRepository struct {
	db Querier
}

// NewFolderRepository создает репозиторий папок.
func NewFolderRepository(db Querier) *FolderRepository {
	return &FolderRepository{db: db}
}

// Create вставляет папку. Если папка с таким именем уже есть, возвращается ее id,
// а остальные поля не меняются.
func (r *FolderRepository) Create(ctx context.Context, folder *entities.Folder) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", "Create"))
	log.Debug(ctx, "creating folder", zap.String("name", folder.Name))

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO folders (name, favorite, parent_id)
         VALUES ($1, $2, $3)
         ON CONFLICT (name) DO UPDATE SET name = folders.name
         RETURNING id`,
		folder.Name, folder.Favorite, nullableID(folder.ParentID),
	).Scan(&id)
	if err != nil {
		log.Error(ctx, ErrCreateFolder, zap.Error(err))
		return 0, wrapError(ErrCreateFolder, err)
	}
	return id, nil
}

// GetByID возвращает папку или entities.ErrFolderNotFound.
func (r *FolderRepository) GetByID(ctx context.Context, id int64) (*entities.Folder, error) {
	return r.get(ctx, "GetByID", `SELECT `+folderColumns+` FROM folders WHERE id = $1`, id)
}

// GetByName возвращает папку по имени или entities.ErrFolderNotFound.
func (r *FolderRepository) GetByName(ctx context.Context, name string) (*entities.Folder, error) {
	return r.get(ctx, "GetByName", `SELECT `+folderColumns+` FROM folders WHERE name = $1`, name)
}

func (r *FolderRepository) get(ctx context.Context, method, sql string, arg any) (*entities.Folder, error) {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", method))

	folder, err := scanFolder(r.db.QueryRow(ctx, sql, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "folder not found", zap.Any("key", arg))
			return nil, entities.ErrFolderNotFound
		}
		log.Error(ctx, ErrGetFolder, zap.Error(err))
		return nil, wrapError(ErrGetFolder, err)
	}
	return folder, nil
}

// GetAll возвращает все папки в порядке создания.
func (r *FolderRepository) GetAll(ctx context.Context) ([]*entities.Folder, error) {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", "GetAll"))

	rows, err := r.db.Query(ctx, `SELECT `+folderColumns+` FROM folders ORDER BY id`)
	if err != nil {
		log.Error(ctx, ErrListFolders, zap.Error(err))
		return nil, wrapError(ErrListFolders, err)
	}
	folders, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Folder, error) {
		return scanFolder(row)
	})
	if err != nil {
		log.Error(ctx, ErrListFolders, zap.Error(err))
		return nil, wrapError(ErrListFolders, err)
	}
	return folders, nil
}

// Update перезаписывает имя, флаг избранного и родителя папки.
func (r *FolderRepository) Update(ctx context.Context, folder *entities.Folder) error {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", "Update"))
	log.Debug(ctx, "updating folder", zap.Int64("folderID", folder.ID))

	tag, err := r.db.Exec(ctx,
		`UPDATE folders SET name = $2, favorite = $3, parent_id = $4 WHERE id = $1`,
		folder.ID, folder.Name, folder.Favorite, nullableID(folder.ParentID),
	)
	if err != nil {
		log.Error(ctx, ErrUpdateFolder, zap.Error(err))
		return wrapError(ErrUpdateFolder, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrFolderNotFound
	}
	return nil
}

// Delete удаляет строку папки.
func (r *FolderRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", "Delete"))
	log.Debug(ctx, "deleting folder", zap.Int64("folderID", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM folders WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, ErrDeleteFolder, zap.Error(err))
		return wrapError(ErrDeleteFolder, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrFolderNotFound
	}
	return nil
}

// Exists сообщает, есть ли папка с указанным id.
func (r *FolderRepository) Exists(ctx context.Context, id int64) (bool, error) {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", "Exists"))

	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM folders WHERE id = $1)`, id).Scan(&exists); err != nil {
		log.Error(ctx, ErrCheckFolder, zap.Error(err))
		return false, wrapError(ErrCheckFolder, err)
	}
	return exists, nil
}

// ClearParent отвязывает вложенные папки от parentID.
func (r *FolderRepository) ClearParent(ctx context.Context, parentID int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "folder"), zap.String("method", "ClearParent"))

	if _, err := r.db.Exec(ctx, `UPDATE folders SET parent_id = NULL WHERE parent_id = $1`, parentID); err != nil {
		log.Error(ctx, ErrClearFolderParent, zap.Error(err))
		return wrapError(ErrClearFolderParent, err)
	}
	return nil
}

func scanFolder(row pgx.Row) (*entities.Folder, error) {
	var (
		folder   entities.Folder
		parentID *int64
	)
	if err := row.Scan(&folder.ID, &folder.Name, &folder.Favorite, &parentID); err != nil {
		return nil, err
	}
	folder.ParentID = derefID(parentID)
	return &folder, nil
}

var _ repositories.FolderRepository = (*FolderRepository)(nil)
