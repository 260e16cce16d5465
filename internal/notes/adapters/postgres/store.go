package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/repositories"
	"notekeeper/pkg/logger"
)

// Константы для сообщений об ошибках транзакций.
const (
	ErrBeginTx    = "failed to begin transaction"
	ErrCommitTx   = "failed to commit transaction"
	ErrRollbackTx = "failed to rollback transaction"
)

// repositorySet связывает все репозитории с одним Querier: пулом или транзакцией.
type repositorySet struct {
	notes   *NoteRepository
	folders *FolderRepository
	tags    *TagRepository
	alarms  *AlarmRepository
}

func newRepositorySet(q Querier) *repositorySet {
	return &repositorySet{
		notes:   NewNoteRepository(q),
		folders: NewFolderRepository(q),
		tags:    NewTagRepository(q),
		alarms:  NewAlarmRepository(q),
	}
}

// Notes возвращает репозиторий заметок.
func (s *repositorySet) Notes() repositories.NoteRepository { return s.notes }

// Folders возвращает репозиторий папок.
func (s *repositorySet) Folders() repositories.FolderRepository { return s.folders }

// Tags возвращает репозиторий тегов.
func (s *repositorySet) Tags() repositories.TagRepository { return s.tags }

// Alarms возвращает репозиторий будильников.
func (s *repositorySet) Alarms() repositories.AlarmRepository { return s.alarms }

// RepositoryFactory реализует repositories.Store поверх пула соединений.
// Вне транзакции каждый запрос берет соединение из пула на время своего выполнения.
type RepositoryFactory struct {
	*repositorySet
	pool PgxPoolInterface
}

// NewRepositoryFactory создает фабрику репозиториев.
func NewRepositoryFactory(pool PgxPoolInterface) *RepositoryFactory {
	return &RepositoryFactory{
		repositorySet: newRepositorySet(pool),
		pool:          pool,
	}
}

// WithinTx выполняет fn в одной транзакции на одном соединении из пула.
// Любая ошибка fn откатывает транзакцию и возвращается как есть.
func (f *RepositoryFactory) WithinTx(ctx context.Context, fn repositories.TxFunc) error {
	log := logger.Log(ctx).With(zap.String("method", "RepositoryFactory.WithinTx"))

	tx, err := f.pool.Begin(ctx)
	if err != nil {
		log.Error(ctx, ErrBeginTx, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", ErrBeginTx, entities.ErrConnectivity, err)
	}

	finished := false
	defer func() {
		if finished {
			return
		}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			log.Error(ctx, ErrRollbackTx, zap.Error(rbErr))
		}
	}()

	if err := fn(ctx, newRepositorySet(tx)); err != nil {
		log.Debug(ctx, "transaction rolled back", zap.Error(err))
		return err
	}

	finished = true
	if err := tx.Commit(ctx); err != nil {
		log.Error(ctx, ErrCommitTx, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", ErrCommitTx, entities.ErrPersistence, err)
	}
	return nil
}

var _ repositories.Store = (*RepositoryFactory)(nil)
