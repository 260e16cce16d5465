// Package entities описывает доменную модель записной книжки: заметки, папки, теги и будильники.
package entities

import (
	"errors"
	"fmt"
)

// Категории ошибок. Конкретные ошибки ниже оборачивают одну из категорий,
// поэтому errors.Is работает с обеими.
var (
	ErrValidation         = errors.New("validation error")
	ErrReferential        = errors.New("referential error")
	ErrConnectivity       = errors.New("connectivity error")
	ErrPersistence        = errors.New("persistence error")
	ErrSnapshotCorruption = errors.New("snapshot corruption")
	ErrNotFound           = errors.New("not found")
)

// Ошибки валидации.
var (
	ErrEmptyTitle        = fmt.Errorf("%w: note title cannot be empty", ErrValidation)
	ErrUnknownKind       = fmt.Errorf("%w: unknown note kind", ErrValidation)
	ErrDrawingHasContent = fmt.Errorf("%w: drawing note cannot carry text content", ErrValidation)
	ErrTextHasImage      = fmt.Errorf("%w: text note cannot carry an image", ErrValidation)
	ErrMissionInactive   = fmt.Errorf("%w: mission is not active", ErrValidation)
	ErrZeroTimestamp     = fmt.Errorf("%w: timestamp is required", ErrValidation)
	ErrEmptyFolderName   = fmt.Errorf("%w: folder name cannot be empty", ErrValidation)
	ErrFolderCycle       = fmt.Errorf("%w: folder cannot contain itself", ErrValidation)
	ErrRootFolderDelete  = fmt.Errorf("%w: root folder cannot be deleted", ErrValidation)
	ErrRootFolderRename  = fmt.Errorf("%w: root folder cannot be renamed", ErrValidation)
	ErrEmptyTagName      = fmt.Errorf("%w: tag name cannot be empty", ErrValidation)
	ErrZeroAlarmTime     = fmt.Errorf("%w: alarm time is required", ErrValidation)
	ErrMissingRecurrence = fmt.Errorf("%w: recurring alarm requires a recurrence pattern", ErrValidation)
	ErrUnexpectedPattern = fmt.Errorf("%w: non-recurring alarm cannot have a recurrence pattern", ErrValidation)
	ErrNilEntity         = fmt.Errorf("%w: entity is nil", ErrValidation)
	ErrNameTaken         = fmt.Errorf("%w: name is already taken", ErrValidation)
)

// Ошибки поиска и ссылок.
var (
	ErrNoteNotFound   = fmt.Errorf("note %w", ErrNotFound)
	ErrFolderNotFound = fmt.Errorf("folder %w", ErrNotFound)
	ErrTagNotFound    = fmt.Errorf("tag %w", ErrNotFound)
	ErrAlarmNotFound  = fmt.Errorf("alarm %w", ErrNotFound)

	ErrFolderReference = fmt.Errorf("%w: note folder does not exist", ErrReferential)
	ErrAlarmReference  = fmt.Errorf("%w: note alarm does not exist", ErrReferential)
)
