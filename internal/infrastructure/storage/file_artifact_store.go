package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"eutectic-bot/internal/domain/entity"
	"eutectic-bot/internal/domain/port"
)

const reportFileName = "report.json"

// FileArtifactStore складывает результаты пакетной обработки в каталог basePath/<taskID>/
type FileArtifactStore struct {
	basePath string
	create   func(path string) (io.WriteCloser, error)
}

// NewFileArtifactStore создаёт файловое хранилище
func NewFileArtifactStore(basePath string) *FileArtifactStore {
	return &FileArtifactStore{basePath: basePath, create: createFile}
}

func createFile(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

// SaveArtifact сохраняет изображение и возвращает путь к файлу
func (s *FileArtifactStore) SaveArtifact(ctx context.Context, taskID string, artifact entity.Artifact) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return s.save(taskID, artifact.Filename(), bytes.NewReader(artifact.Data))
}

// SaveReport сохраняет report.json и возвращает путь к файлу
func (s *FileArtifactStore) SaveReport(ctx context.Context, taskID string, report entity.AnalysisReport) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode report: %w", err)
	}
	return s.save(taskID, reportFileName, bytes.NewReader(data))
}

// Open открывает сохранённый файл задачи
func (s *FileArtifactStore) Open(taskID, name string) (io.ReadCloser, error) {
	path, err := s.path(taskID, name)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (s *FileArtifactStore) save(taskID, name string, data io.Reader) (string, error) {
	fullPath, err := s.path(taskID, name)
	if err != nil {
		return "", err
	}

	// Создаем директорию если нужно
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("create task dir: %w", err)
	}

	file, err := s.create(fullPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	if _, err := io.Copy(file, data); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s: %w", name, err)
	}
	// ошибка Close означает, что данные могли не дойти до диска
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}
	return fullPath, nil
}

// path не даёт taskID и имени файла выйти за пределы basePath.
func (s *FileArtifactStore) path(taskID, name string) (string, error) {
	for _, part := range []string{taskID, name} {
		if part == "" || part == "." || part == ".." || strings.ContainsAny(part, `/\`) {
			return "", fmt.Errorf("invalid path component %q", part)
		}
	}
	return filepath.Join(s.basePath, taskID, name), nil
}

// Проверка реализации интерфейса
var _ port.ArtifactStore = (*FileArtifactStore)(nil)
