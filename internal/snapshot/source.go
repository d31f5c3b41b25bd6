package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	// ErrNoSnapshot — в источнике ничего не сохранено (это не ошибка загрузки)
	ErrNoSnapshot = errors.New("snapshot: nothing stored")
	// ErrNotObject — блоб переопределения не является JSON-объектом
	ErrNotObject = errors.New("snapshot: override is not a JSON object")
)

// Source отдает сырой JSON-блоб переопределения снапшота
type Source interface {
	Load(ctx context.Context) ([]byte, error)
}

// FileSource читает блоб из JSON или YAML файла.
// YAML конвертируется в JSON, чтобы правила слияния были одни.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Load(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoSnapshot
		}
		return nil, fmt.Errorf("snapshot: read %s: %w", s.path, err)
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrNoSnapshot
	}

	switch strings.ToLower(filepath.Ext(s.path)) {
	case ".yaml", ".yml":
		return yamlToJSON(data)
	default:
		return data, nil
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("snapshot: parse yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("snapshot: yaml to json: %w", err)
	}
	return out, nil
}

// StaticSource отдает заранее заданный блоб (сиды, CLI, тесты)
type StaticSource []byte

func (s StaticSource) Load(ctx context.Context) ([]byte, error) {
	if len(s) == 0 {
		return nil, ErrNoSnapshot
	}
	return []byte(s), nil
}
