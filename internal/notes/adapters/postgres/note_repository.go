package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках репозитория заметок.
const (
	ErrCreateNote     = "failed to create note"
	ErrGetNote        = "failed to get note"
	ErrListNotes      = "failed to list notes"
	ErrUpdateNote     = "failed to update note"
	ErrDeleteNote     = "failed to delete note"
	ErrGetNoteAlarm   = "failed to get note alarm"
	ErrReplaceTags    = "failed to replace note tags"
	ErrDeleteNoteTags = "failed to delete note tags"
)

const noteColumns = `n.id, n.title, n.content, n.image, n.kind, n.created_at, n.updated_at, ` +
	`n.favorite, n.mission, n.mission_completed, n.mission_text, n.folder_id, n.alarm_id`

// NoteRepository реализует repositories.NoteRepository.
type NoteRepository struct {
	db Querier
}

// NewNoteRepository создает репозиторий заметок.
func NewNoteRepository(db Querier) *NoteRepository {
	return &NoteRepository{db: db}
}

// Create вставляет строку заметки и возвращает ее id. Теги не записываются.
func (r *NoteRepository) Create(ctx context.Context, note *entities.Note) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Create"))
	log.Debug(ctx, "creating note", zap.String("title", note.Title), zap.Int64("folderID", note.FolderID))

	var id int64
	err := r.db.QueryRow(ctx,
		`INSERT INTO notes (title, content, image, kind, created_at, updated_at,
                            favorite, mission, mission_completed, mission_text, folder_id, alarm_id)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
         RETURNING id`,
		note.Title, noteContent(note), nullableBytes(note.Image), string(note.Kind), note.CreatedAt, note.UpdatedAt,
		note.Favorite, note.Mission, note.MissionCompleted, note.MissionText, note.FolderID, nullableID(note.AlarmID),
	).Scan(&id)
	if err != nil {
		log.Error(ctx, ErrCreateNote, zap.Error(err))
		return 0, wrapError(ErrCreateNote, err)
	}

	log.Debug(ctx, "note created", zap.Int64("noteID", id))
	return id, nil
}

// GetByID возвращает заметку или entities.ErrNoteNotFound.
func (r *NoteRepository) GetByID(ctx context.Context, id int64) (*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "GetByID"))

	note, err := scanNote(r.db.QueryRow(ctx, `SELECT `+noteColumns+` FROM notes n WHERE n.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug(ctx, "note not found", zap.Int64("noteID", id))
			return nil, entities.ErrNoteNotFound
		}
		log.Error(ctx, ErrGetNote, zap.Error(err))
		return nil, wrapError(ErrGetNote, err)
	}
	return note, nil
}

// GetAll возвращает все заметки, новые первыми.
func (r *NoteRepository) GetAll(ctx context.Context) ([]*entities.Note, error) {
	return r.list(ctx, "GetAll", `SELECT `+noteColumns+` FROM notes n ORDER BY n.created_at DESC, n.id DESC`)
}

// GetByFolder возвращает заметки папки.
func (r *NoteRepository) GetByFolder(ctx context.Context, folderID int64) ([]*entities.Note, error) {
	return r.list(ctx, "GetByFolder",
		`SELECT `+noteColumns+` FROM notes n WHERE n.folder_id = $1 ORDER BY n.created_at DESC, n.id DESC`,
		folderID)
}

// GetByTagName возвращает заметки, помеченные тегом с точно таким именем.
func (r *NoteRepository) GetByTagName(ctx context.Context, name string) ([]*entities.Note, error) {
	return r.list(ctx, "GetByTagName",
		`SELECT `+noteColumns+`
         FROM notes n
         JOIN note_tags nt ON nt.note_id = n.id
         JOIN tags t ON t.id = nt.tag_id
         WHERE t.name = $1
         ORDER BY n.created_at DESC, n.id DESC`,
		name)
}

// Search ищет подстроку без учета регистра в заголовке, тексте и именах тегов.
func (r *NoteRepository) Search(ctx context.Context, query string) ([]*entities.Note, error) {
	return r.list(ctx, "Search",
		`SELECT `+noteColumns+`
         FROM notes n
         WHERE n.title ILIKE $1 ESCAPE '\'
            OR n.content ILIKE $1 ESCAPE '\'
            OR EXISTS (SELECT 1 FROM note_tags nt JOIN tags t ON t.id = nt.tag_id
                       WHERE nt.note_id = n.id AND t.name ILIKE $1 ESCAPE '\')
         ORDER BY n.created_at DESC, n.id DESC`,
		likePattern(query))
}

func (r *NoteRepository) list(ctx context.Context, method, sql string, args ...any) ([]*entities.Note, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", method))

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		log.Error(ctx, ErrListNotes, zap.Error(err))
		return nil, wrapError(ErrListNotes, err)
	}

	notes, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*entities.Note, error) {
		return scanNote(row)
	})
	if err != nil {
		log.Error(ctx, ErrListNotes, zap.Error(err))
		return nil, wrapError(ErrListNotes, err)
	}

	log.Debug(ctx, "notes listed", zap.Int("count", len(notes)))
	return notes, nil
}

// Update перезаписывает строку заметки. Теги не затрагиваются.
func (r *NoteRepository) Update(ctx context.Context, note *entities.Note) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Update"))
	log.Debug(ctx, "updating note", zap.Int64("noteID", note.ID))

	tag, err := r.db.Exec(ctx,
		`UPDATE notes
         SET title = $2, content = $3, image = $4, kind = $5, updated_at = $6, favorite = $7,
             mission = $8, mission_completed = $9, mission_text = $10, folder_id = $11, alarm_id = $12
         WHERE id = $1`,
		note.ID, note.Title, noteContent(note), nullableBytes(note.Image), string(note.Kind), note.UpdatedAt, note.Favorite,
		note.Mission, note.MissionCompleted, note.MissionText, note.FolderID, nullableID(note.AlarmID),
	)
	if err != nil {
		log.Error(ctx, ErrUpdateNote, zap.Error(err))
		return wrapError(ErrUpdateNote, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNoteNotFound
	}
	return nil
}

// Delete удаляет строку заметки. Связи с тегами должны быть удалены раньше.
func (r *NoteRepository) Delete(ctx context.Context, id int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "Delete"))
	log.Debug(ctx, "deleting note", zap.Int64("noteID", id))

	tag, err := r.db.Exec(ctx, `DELETE FROM notes WHERE id = $1`, id)
	if err != nil {
		log.Error(ctx, ErrDeleteNote, zap.Error(err))
		return wrapError(ErrDeleteNote, err)
	}
	if tag.RowsAffected() == 0 {
		return entities.ErrNoteNotFound
	}
	return nil
}

// AlarmID возвращает текущий сохраненный id будильника заметки или 0.
func (r *NoteRepository) AlarmID(ctx context.Context, noteID int64) (int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "AlarmID"))

	var alarmID *int64
	err := r.db.QueryRow(ctx, `SELECT alarm_id FROM notes WHERE id = $1`, noteID).Scan(&alarmID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, entities.ErrNoteNotFound
		}
		log.Error(ctx, ErrGetNoteAlarm, zap.Error(err))
		return 0, wrapError(ErrGetNoteAlarm, err)
	}
	return derefID(alarmID), nil
}

// ReplaceTags заменяет весь набор связей заметки с тегами.
func (r *NoteRepository) ReplaceTags(ctx context.Context, noteID int64, tagIDs []int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "ReplaceTags"))
	log.Debug(ctx, "replacing note tags", zap.Int64("noteID", noteID), zap.Int64s("tagIDs", tagIDs))

	if err := r.DeleteTags(ctx, noteID); err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO note_tags (note_id, tag_id)
         SELECT $1, unnest($2::bigint[])
         ON CONFLICT DO NOTHING`,
		noteID, tagIDs,
	)
	if err != nil {
		log.Error(ctx, ErrReplaceTags, zap.Error(err))
		return wrapError(ErrReplaceTags, err)
	}
	return nil
}

// DeleteTags удаляет все связи заметки с тегами.
func (r *NoteRepository) DeleteTags(ctx context.Context, noteID int64) error {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "DeleteTags"))

	if _, err := r.db.Exec(ctx, `DELETE FROM note_tags WHERE note_id = $1`, noteID); err != nil {
		log.Error(ctx, ErrDeleteNoteTags, zap.Error(err))
		return wrapError(ErrDeleteNoteTags, err)
	}
	return nil
}

// NoteIDsByAlarm возвращает id заметок, ссылающихся на будильник.
func (r *NoteRepository) NoteIDsByAlarm(ctx context.Context, alarmID int64) ([]int64, error) {
	log := logger.Log(ctx).With(zap.String("repository", "note"), zap.String("method", "NoteIDsByAlarm"))

	rows, err := r.db.Query(ctx, `SELECT id FROM notes WHERE alarm_id = $1 ORDER BY id`, alarmID)
	if err != nil {
		log.Error(ctx, ErrListNotes, zap.Error(err))
		return nil, wrapError(ErrListNotes, err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		log.Error(ctx, ErrListNotes, zap.Error(err))
		return nil, wrapError(ErrListNotes, err)
	}
	return ids, nil
}

func scanNote(row pgx.Row) (*entities.Note, error) {
	var (
		note    entities.Note
		content *string
		kind    string
		alarmID *int64
	)
	err := row.Scan(
		&note.ID, &note.Title, &content, &note.Image, &kind, &note.CreatedAt, &note.UpdatedAt,
		&note.Favorite, &note.Mission, &note.MissionCompleted, &note.MissionText, &note.FolderID, &alarmID,
	)
	if err != nil {
		return nil, err
	}
	note.Content = derefString(content)
	note.Kind = entities.NoteKind(kind)
	note.AlarmID = derefID(alarmID)
	note.CreatedAt = note.CreatedAt.UTC()
	note.UpdatedAt = note.UpdatedAt.UTC()
	return &note, nil
}

// noteContent возвращает NULL для рисунков: у них нет текстового содержимого.
func noteContent(note *entities.Note) any {
	if note.Kind == entities.KindDrawing {
		return nil
	}
	return note.Content
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(query string) string {
	return "%" + likeEscaper.Replace(strings.TrimSpace(query)) + "%"
}

var _ repositories.NoteRepository = (*NoteRepository)(nil)
