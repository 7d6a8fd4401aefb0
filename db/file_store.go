package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"rollcall-roster/models"
	"rollcall-roster/roster"
)

// FileStore persists the roster as plain "name,average" lines.
type FileStore struct {
	Path string
}

// NewFileStore creates a FileStore for path
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (s *FileStore) Location() string {
	return s.Path
}

// Save truncates the file and writes one line per student
func (s *FileStore) Save(_ context.Context, students []models.Student) (err error) {
	f, err := os.Create(s.Path)
	if err != nil {
		log.Printf("Error opening %s for writing: %v", s.Path, err)
		return fmt.Errorf("failed to open file for writing: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", s.Path, cerr)
		}
	}()

	_, err = roster.WriteLines(f, students)
	return err
}

// Load reads every well-formed line of the file
func (s *FileStore) Load(_ context.Context) ([]models.Student, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		log.Printf("Error opening %s for reading: %v", s.Path, err)
		return nil, fmt.Errorf("failed to open file for reading: %w", err)
	}
	defer f.Close()

	return roster.ReadLines(f)
}
