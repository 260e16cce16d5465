package config

// SnapshotConfig содержит настройки файла снимка для локального режима.
type SnapshotConfig struct {
	Path   string `yaml:"path" env:"NOTES_SNAPSHOT_PATH" env-default:"notes.json"`
	Format string `yaml:"format" env:"NOTES_SNAPSHOT_FORMAT" env-default:"auto"`
}
