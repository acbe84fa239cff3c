// Package storage provides the on-disk file handle that mfcc.SaveFile
// and mfcc.LoadFile use to persist enrolled word templates.
package storage

import "os"

// FileStore wraps an open *os.File behind a minimal Read/Write/Close
// surface, letting callers that only need sequential byte access
// avoid importing os directly.
type FileStore struct {
	file *os.File
}

// Create opens path for writing, truncating any existing content.
func Create(path string) (*FileStore, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

// Open opens path for reading.
func Open(path string) (*FileStore, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	return &FileStore{file: f}, nil
}

func (s *FileStore) Read(p []byte) (int, error)  { return s.file.Read(p) }
func (s *FileStore) Write(p []byte) (int, error) { return s.file.Write(p) }
func (s *FileStore) Close() error                { return s.file.Close() }
