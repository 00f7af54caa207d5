// Package artifact implements the in-memory, path-addressed artifact store.
// Agents externalize intermediate results here as UTF-8 text files; every
// mutation through Edit produces a unified diff of the change.
//
// Stores are created per run and passed by handle into the orchestrator.
// Operations are safe for concurrent use because the HTTP, WebSocket, and MCP
// surfaces may inspect a store while the orchestration loop mutates it.
package artifact

import (
	"fmt"
	"strings"
	"sync"

	"github.com/strandwork/overseer/internal/domain"
)

// Write statuses.
const (
	StatusCreated     = "created"
	StatusOverwritten = "overwritten"
)

// Edit operation names reported in EditResult.
const (
	OpAppend      = "append"
	OpFindReplace = "find_replace"
	OpReplace     = "whole_file_replace"
)

// Store is an in-memory file store keyed by path. Listing preserves
// insertion order, not lexical order.
type Store struct {
	mu    sync.RWMutex
	files map[string]string
	order []string
}

// New creates an empty store.
func New() *Store {
	return &Store{files: make(map[string]string)}
}

// WriteResult reports the outcome of a Write.
type WriteResult struct {
	Path         string `json:"path"`
	BytesWritten int    `json:"bytes_written"`
	Status       string `json:"status"` // created | overwritten
}

// FileInfo reports size metadata for a stored file.
type FileInfo struct {
	Path      string `json:"path"`
	SizeBytes int    `json:"size_bytes"`
	SizeChars int    `json:"size_chars"`
	Lines     int    `json:"lines"`
}

// Read returns the content stored at path.
func (s *Store) Read(path string) (string, error) {
	if err := validPath(path); err != nil {
		return "", err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return "", fmt.Errorf("file %q: %w", path, domain.ErrNotFound)
	}
	return content, nil
}

// Write stores content at path, creating the file if absent and fully
// replacing it otherwise. Write is idempotent in effect.
func (s *Store) Write(path, content string) (WriteResult, error) {
	if err := validPath(path); err != nil {
		return WriteResult{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	_, existed := s.files[path]
	if !existed {
		s.order = append(s.order, path)
	}
	s.files[path] = content

	status := StatusCreated
	if existed {
		status = StatusOverwritten
	}
	return WriteResult{Path: path, BytesWritten: len(content), Status: status}, nil
}

// List returns all stored paths in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.order))
	copy(out, s.order)
	return out
}

// Exists reports whether a file is stored at path.
func (s *Store) Exists(path string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.files[path]
	return ok
}

// Delete removes the file at path.
func (s *Store) Delete(path string) error {
	if err := validPath(path); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[path]; !ok {
		return fmt.Errorf("file %q: %w", path, domain.ErrNotFound)
	}
	delete(s.files, path)
	for i, p := range s.order {
		if p == path {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Info returns byte, character, and line counts for the file at path.
func (s *Store) Info(path string) (FileInfo, error) {
	if err := validPath(path); err != nil {
		return FileInfo{}, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	content, ok := s.files[path]
	if !ok {
		return FileInfo{}, fmt.Errorf("file %q: %w", path, domain.ErrNotFound)
	}
	lines := 0
	if content != "" {
		lines = len(strings.Split(strings.TrimSuffix(content, "\n"), "\n"))
	}
	return FileInfo{
		Path:      path,
		SizeBytes: len(content),
		SizeChars: len([]rune(content)),
		Lines:     lines,
	}, nil
}

// Clear removes all files and returns the number removed.
func (s *Store) Clear() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.files)
	s.files = make(map[string]string)
	s.order = nil
	return n
}

func validPath(path string) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("%w: empty file path", domain.ErrValidation)
	}
	return nil
}
