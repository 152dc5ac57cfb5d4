package game

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Checkpointer persists the single coarse resume tag.
type Checkpointer interface {
	Save(tag string) error
	Load() (string, bool)
}

// AppDir returns (and creates) the per-user directory for save and log files.
func AppDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(configDir, "creepy-pasta")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func DefaultSavePath() (string, error) {
	dir, err := AppDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "save_file.txt"), nil
}

// FileStore keeps the checkpoint tag as the whole content of a text file.
type FileStore struct {
	path   string
	logger *zap.Logger
}

func NewFileStore(path string, logger *zap.Logger) *FileStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileStore{path: path, logger: logger.Named("store")}
}

func (s *FileStore) Path() string {
	return s.path
}

// Save overwrites whatever was stored before.
func (s *FileStore) Save(tag string) error {
	file, err := os.Create(s.path)
	if err != nil {
		s.logger.Error("save failed", zap.String("path", s.path), zap.Error(err))
		return err
	}
	defer file.Close()

	if _, err := file.WriteString(tag); err != nil {
		s.logger.Error("save failed", zap.String("path", s.path), zap.Error(err))
		return err
	}
	s.logger.Info("game saved", zap.String("checkpoint", tag))
	return nil
}

// Load reports false when there is no usable save: the file is missing,
// unreadable, or blank.
func (s *FileStore) Load() (string, bool) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			s.logger.Info("no saved game", zap.String("path", s.path))
		} else {
			s.logger.Warn("save unreadable", zap.String("path", s.path), zap.Error(err))
		}
		return "", false
	}

	tag := strings.TrimSpace(string(data))
	if tag == "" {
		s.logger.Info("save file empty", zap.String("path", s.path))
		return "", false
	}
	s.logger.Info("game loaded", zap.String("checkpoint", tag))
	return tag, true
}

// Reset removes the save file. A missing file is not an error.
func (s *FileStore) Reset() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
