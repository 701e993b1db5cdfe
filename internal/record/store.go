package record

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const filePrefix = "all_jobs_"

var ErrNoRecords = errors.New("no saved records")

// FileStore keeps one JSON file per run in a directory.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

// FileName is the file a record is saved under, e.g. all_jobs_20261013_1600.json.
func FileName(r Record) string {
	return filePrefix + r.Timestamp.Format("20060102_1504") + ".json"
}

// Save writes the record and returns its path.
func (s *FileStore) Save(r Record) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("create record dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal record: %w", err)
	}
	path := filepath.Join(s.Dir, FileName(r))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write record: %w", err)
	}
	return path, nil
}

// Latest loads the most recent record in the directory.
func (s *FileStore) Latest() (Record, error) {
	var r Record
	entries, err := os.ReadDir(s.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return r, ErrNoRecords
		}
		return r, fmt.Errorf("read record dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		name := e.Name()
		if !e.IsDir() && strings.HasPrefix(name, filePrefix) && strings.HasSuffix(name, ".json") {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return r, ErrNoRecords
	}
	// timestamped names sort chronologically
	sort.Strings(names)

	data, err := os.ReadFile(filepath.Join(s.Dir, names[len(names)-1]))
	if err != nil {
		return r, fmt.Errorf("read record: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("parse record: %w", err)
	}
	return r, nil
}
