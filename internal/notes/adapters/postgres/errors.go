// Package postgres реализует реляционное хранилище записной книжки на pgx.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"notekeeper/internal/notes/domain/entities"
)

// Querier - общий для пула и транзакции набор методов.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PgxPoolInterface - пул соединений, который умеет открывать транзакции.
type PgxPoolInterface interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
	Close()
}

// classify относит ошибку драйвера к одной из категорий доменных ошибок.
func classify(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.ForeignKeyViolation:
			return entities.ErrReferential
		case pgErr.Code == pgerrcode.UniqueViolation:
			return entities.ErrNameTaken
		case pgerrcode.IsIntegrityConstraintViolation(pgErr.Code), pgerrcode.IsDataException(pgErr.Code):
			return entities.ErrValidation
		case pgerrcode.IsConnectionException(pgErr.Code),
			pgerrcode.IsInsufficientResources(pgErr.Code),
			pgerrcode.IsOperatorIntervention(pgErr.Code):
			return entities.ErrConnectivity
		}
		return entities.ErrPersistence
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) || pgconn.Timeout(err) {
		return entities.ErrConnectivity
	}
	return entities.ErrPersistence
}

// wrapError добавляет к ошибке драйвера сообщение и категорию.
func wrapError(msg string, err error) error {
	return fmt.Errorf("%s: %w: %w", msg, classify(err), err)
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullableBytes(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return b
}

func nullableID(id int64) any {
	if id == entities.UnassignedID {
		return nil
	}
	return id
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefID(id *int64) int64 {
	if id == nil {
		return entities.UnassignedID
	}
	return *id
}
