// Package snapshot хранит рабочий набор заметок в одном JSON или YAML файле.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"notekeeper/internal/notes/domain/entities"
	"notekeeper/internal/notes/ports/snapshot"
	"notekeeper/pkg/logger"
)

// Константы для сообщений logger.
const (
	LogSnapshotLoaded  = "snapshot loaded"
	LogSnapshotSaved   = "snapshot saved"
	LogSnapshotMissing = "snapshot file not found, starting empty"
)

// Константы для сообщений об ошибках.
const (
	ErrReadSnapshot   = "failed to read snapshot"
	ErrParseSnapshot  = "failed to parse snapshot"
	ErrEncodeSnapshot = "failed to encode snapshot"
	ErrWriteSnapshot  = "failed to write snapshot"
	ErrUnknownFormat  = "unknown snapshot format"
	ErrNotARecord     = "top level of the snapshot is not a record"
)

// ErrTrailingData возвращается, когда после JSON документа есть лишние данные.
var ErrTrailingData = errors.New("unexpected data after snapshot document")

// Format - формат файла снимка.
type Format string

// Поддерживаемые форматы.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	// FormatAuto выбирает формат по расширению файла.
	FormatAuto Format = "auto"
)

// ParseFormat разбирает название формата. Пустая строка означает FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatAuto, nil
	case FormatJSON, FormatYAML, FormatAuto:
		return f, nil
	case "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%s: %q", ErrUnknownFormat, s)
	}
}

// Codec читает и пишет снимок целиком. Конкурентные вызовы Save должны
// упорядочиваться вызывающей стороной.
type Codec struct {
	path   string
	format Format
}

// NewCodec создает кодек для файла path.
func NewCodec(path string, format Format) *Codec {
	if format == "" {
		format = FormatAuto
	}
	return &Codec{path: path, format: format}
}

// Path возвращает путь к файлу снимка.
func (c *Codec) Path() string {
	return c.path
}

// Format возвращает фактический формат файла.
func (c *Codec) Format() Format {
	if c.format != FormatAuto {
		return c.format
	}
	switch strings.ToLower(filepath.Ext(c.path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Load читает снимок. Отсутствующий или пустой файл дает пустой снимок.
// Испорченный документ возвращает ErrSnapshotCorruption и не возвращает данных.
func (c *Codec) Load(ctx context.Context) (*snapshot.Snapshot, error) {
	log := logger.Log(ctx).With(zap.String("method", "Codec.Load"), zap.String("path", c.path))

	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Info(ctx, LogSnapshotMissing)
			return &snapshot.Snapshot{}, nil
		}
		log.Error(ctx, ErrReadSnapshot, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", ErrReadSnapshot, entities.ErrPersistence, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &snapshot.Snapshot{}, nil
	}

	var tree any
	switch c.Format() {
	case FormatYAML:
		err = yaml.Unmarshal(data, &tree)
	default:
		tree, err = decodeJSON(data)
	}
	if err != nil {
		log.Warn(ctx, ErrParseSnapshot, zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %w", ErrParseSnapshot, entities.ErrSnapshotCorruption, err)
	}

	root, ok := tree.(map[string]any)
	if !ok {
		log.Warn(ctx, ErrNotARecord, zap.String("type", fmt.Sprintf("%T", tree)))
		return nil, fmt.Errorf("%s: %w", ErrNotARecord, entities.ErrSnapshotCorruption)
	}

	d := newDecoder(ctx)
	snap := d.decode(root)

	log.Info(ctx, LogSnapshotLoaded,
		zap.Int("notes", len(snap.Notes)),
		zap.Int("folders", len(snap.Folders)),
		zap.Int("tags", len(snap.Tags)),
		zap.Int("defaulted_fields", d.defaulted))
	return snap, nil
}

// decodeJSON разбирает документ, сохраняя числа как json.Number, чтобы id
// больше 2^53 не теряли точность.
func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var tree any
	if err := dec.Decode(&tree); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, ErrTrailingData
	}
	return tree, nil
}

// Save перезаписывает файл снимка: данные пишутся во временный файл рядом
// с целевым и переименовываются поверх него.
func (c *Codec) Save(ctx context.Context, snap *snapshot.Snapshot) error {
	log := logger.Log(ctx).With(zap.String("method", "Codec.Save"), zap.String("path", c.path))

	doc := encode(snap)

	var (
		data []byte
		err  error
	)
	switch c.Format() {
	case FormatYAML:
		data, err = yaml.Marshal(doc)
	default:
		data, err = json.MarshalIndent(doc, "", "  ")
	}
	if err != nil {
		log.Error(ctx, ErrEncodeSnapshot, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", ErrEncodeSnapshot, entities.ErrPersistence, err)
	}

	if err := writeFileAtomic(c.path, data); err != nil {
		log.Error(ctx, ErrWriteSnapshot, zap.Error(err))
		return fmt.Errorf("%s: %w: %w", ErrWriteSnapshot, entities.ErrPersistence, err)
	}

	log.Debug(ctx, LogSnapshotSaved, zap.Int("bytes", len(data)))
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, path)
}

var _ snapshot.Store = (*Codec)(nil)
