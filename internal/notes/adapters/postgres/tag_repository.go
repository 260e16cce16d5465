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

// Константы для сообщений об ошибках репозитория тегов.
const (
	ErrCreateTag      = "failed to create tag"
	ErrGetTag         = "failed to get tag"
	ErrListTags       = "failed to list tags"
	ErrUpdateTag      = "failed to update tag"
	ErrDeleteTag      = "failed to delete tag"
	ErrDeleteTagLinks = "failed to delete tag associations"
	ErrListTagNoteIDs = "failed to list tagged notes"
)

// TagRepository реализует repositories.TagRepository.
type TagRepository struct {
	db Querier
}

// NewTagRepository создает репозиторий тегов.
func NewTagRepository(db Querier) *TagRepository {
	return &TagRepository{db: db}
}

// Create вставляет тег или возвращает id существующего тега с тем же именем.
func (r *TagRepository) Create(ctx context.Context, tag *entities.Tag) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", "Create"))
	log.Debug(ctx, "creating tag", zap.String("name", tag.Name))

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO tags (name) VALUES ($1)
         ON CONFLICT (name) DO UPDATE SET name = tags.name
         RETURNING id`,
		tag.Name,
	).Scan(&id)
	if err != nil {
		log.Error(ctx, ErrCreateTag, zap.Error(err))
		return 0, wrapError(ErrCreateTag, err)
	}
	return id, nil
}

// GetByID возвращает тег или entities.ErrTagNotFound.
func (r *TagRepository) GetByID(ctx context.Context, id int64) (*entities.Tag, error) {
	return r.get(ctx, "GetByID", `SELECT id, name FROM tags WHERE id = $1`, id)
}

// GetByName возвращает тег по имени или entities.ErrTagNotFound.
func (r *TagRepository) GetByName(ctx context.Context, name string) (*entities.Tag, error) {
	return r.get(ctx, "GetByName", `SELECT id, name FROM tags WHERE name = $1`, name)
}

func (r *TagRepository) get(ctx context.Context, method, sql string, arg any) (*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", method))

	var tag entities.Tag
	if err := r.db.QueryRow(ctx, sql, arg).Scan(&tag.ID, &tag.Name); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrTagNotFound
		}
		log.Error(ctx, ErrGetTag, zap.Error(err))
		return nil, wrapError(ErrGetTag, err)
	}
	return &tag, nil
}

// GetAll возвращает все теги по алфавиту.
func (r *TagRepository) GetAll(ctx context.Context) ([]*entities.Tag, error) {
	return r.list(ctx, "GetAll", `SELECT id, name FROM tags ORDER BY name`)
}

// GetByNote возвращает теги заметки.
func (r *TagRepository) GetByNote(ctx context.Context, noteID int64) ([]*entities.Tag, error) {
	return r.list(ctx, "GetByNote",
		`SELECT t.id, t.name
         FROM tags t
         JOIN note_tags nt ON nt.tag_id = t.id
         WHERE nt.note_id = $1
         ORDER BY t.name`,
		noteID)
}

func (r *TagRepository) list(ctx context.Context, method, sql string, args ...any) ([]*entities.Tag, error) {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", method))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		log.Error(ctx, ErrListTags, zap.Error(err))
		return nil, wrapError(ErrListTags, err)
	}
	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Tag, error) {
		var tag entities.Tag
		err := row.Scan(&tag.ID, &tag.Name)
		return &tag, err
	})
	if err != nil {
		log.Error(ctx, ErrListTags, zap.Error(err))
		return nil, wrapError(ErrListTags, err)
	}
	return tags, nil
}

// Update переименовывает тег.
func (r *TagRepository) Update(ctx context.Context, tag *entities.Tag) error {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", "Update"))

	res, err := r.db.Exec(ctx, `UPDATE tags SET name = $2 WHERE id = $1`, tag.ID, tag.Name)
	if err != nil {
		log.Error(ctx, ErrUpdateTag, zap.Error(err))
		return wrapError(ErrUpdateTag, err)
	}
	if res.RowsAffected() == 0 {
		return entities.ErrTagNotFound
	}
	return nil
}

// Delete удаляет строку тега. Связи с заметками должны быть удалены раньше.
func (r *TagRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", "Delete"))

	res, err := r.db.Exec(ctx, `DELETE FROM tags WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, ErrDeleteTag, zap.Error(err))
		return wrapError(ErrDeleteTag, err)
	}
	if res.RowsAffected() == 0 {
		return entities.ErrTagNotFound
	}
	return nil
}

// DeleteAssociations удаляет все связи тега с заметками.
func (r *TagRepository) DeleteAssociations(ctx context.Context, tagID int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", "DeleteAssociations"))

	if _, err := r.db.Exec(ctx, `DELETE FROM note_tags WHERE tag_id = $1`, tagID); err != nil {
		log.Error(ctx, ErrDeleteTagLinks, zap.Error(err))
		return wrapError(ErrDeleteTagLinks, err)
	}
	return nil
}

// NoteIDs возвращает id заметок, помеченных тегом.
func (r *TagRepository) NoteIDs(ctx context.Context, tagID int64) ([]int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "tag"), zap.String("method", "NoteIDs"))

	rows, err := r.db.Query(ctx, `SELECT note_id FROM note_tags WHERE tag_id = $1 ORDER BY note_id`, tagID)
	if err != nil {
		log.Error(ctx, ErrListTagNoteIDs, zap.Error(err))
		return nil, wrapError(ErrListTagNoteIDs, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		log.Error(ctx, ErrListTagNoteIDs, zap.Error(err))
		return nil, wrapError(ErrListTagNoteIDs, err)
	}
	return ids, nil
}

var _ repositories.TagRepository = (*TagRepository)(nil)
