package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"zungenrede-bot/internal/models"
)

const DefaultStorageFile = "translations_storage.json"

// FileBackend keeps the collection as one JSON array in a local file. It
// serves a single process, so it has no versions: Load reports 0 and Save
// ignores the version it is given.
type FileBackend struct {
	path string
}

func NewFileBackend(path string) (*FileBackend, error) {
	if path == "" {
		path = DefaultStorageFile
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	return &FileBackend{path: path}, nil
}

func (b *FileBackend) Path() string {
	return b.path
}

// Load reads the file, creating it with an empty array when it is missing.
func (b *FileBackend) Load(ctx context.Context) ([]models.VocabularyRecord, int64, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := b.Save(ctx, []models.VocabularyRecord{}, 0); err != nil {
			return nil, 0, err
		}
		return []models.VocabularyRecord{}, 0, nil
	}
	if err != nil {
		return nil, 0, fmt.Errorf("failed to read %s: %w", b.path, err)
	}

	var records []models.VocabularyRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", b.path, err)
	}
	return records, 0, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never see a half-written array.
func (b *FileBackend) Save(_ context.Context, records []models.VocabularyRecord, _ int64) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode vocabulary: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(b.path), filepath.Base(b.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), b.path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", b.path, err)
	}
	return nil
}
