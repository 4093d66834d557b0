package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/google/uuid"

	"smart-wallet/pkg/types"
)

const (
	DefaultStorageFileName = ".smart-wallet-history.json"
)

// ErrNotFound is returned when no execution has the requested id
var ErrNotFound = errors.New("execution not found")

// Storage persists simulated executions to a JSON file.
// With an empty file path it keeps records in memory only.
type Storage struct {
	filePath string
	mu       sync.RWMutex
	records  map[string]types.Execution
}

// historyFile represents the JSON structure on disk
type historyFile struct {
	Executions []types.Execution `json:"executions"`
}

// NewStorage opens the store at filePath, loading any existing records
func NewStorage(filePath string) (*Storage, error) {
	s := &Storage{
		filePath: filePath,
		records:  make(map[string]types.Execution),
	}

	if filePath == "" {
		return s, nil
	}

	if err := s.load(); err != nil {
		// a missing file is created on first save
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load history: %w", err)
		}
	}

	return s, nil
}

// DefaultPath returns the history file location in the user's home directory
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, DefaultStorageFileName), nil
}

func (s *Storage) load() error {
	data, err := os.ReadFile(s.filePath)
	if err != nil {
		return err
	}

	var file historyFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal history: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, rec := range file.Executions {
		s.records[rec.ID] = rec
	}
	return nil
}

// saveLocked writes all records; the caller must hold s.mu
func (s *Storage) saveLocked() error {
	if s.filePath == "" {
		return nil
	}

	data, err := json.MarshalIndent(historyFile{Executions: s.sortedLocked()}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	dir := filepath.Dir(s.filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	// write to a temporary file first, then rename for an atomic replace
	tempFile := s.filePath + ".tmp"
	if err := os.WriteFile(tempFile, data, 0600); err != nil {
		return fmt.Errorf("failed to write history: %w", err)
	}
	if err := os.Rename(tempFile, s.filePath); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}

	return nil
}

// Add stores an execution, assigning an id when it has none
func (s *Storage) Add(rec types.Execution) (types.Execution, error) {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return types.Execution{}, fmt.Errorf("execution '%s' already exists", rec.ID)
	}
	s.records[rec.ID] = rec

	if err := s.saveLocked(); err != nil {
		delete(s.records, rec.ID)
		return types.Execution{}, err
	}
	return rec, nil
}

// Get retrieves an execution by id
func (s *Storage) Get(id string) (types.Execution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[id]
	if !ok {
		return types.Execution{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// List returns all executions, newest first
func (s *Storage) List() []types.Execution {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked()
}

func (s *Storage) sortedLocked() []types.Execution {
	out := make([]types.Execution, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Count returns the number of stored executions
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// GetFilePath returns the storage file path
func (s *Storage) GetFilePath() string {
	return s.filePath
}
