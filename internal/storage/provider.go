// Package storage defines the document library file-system abstraction.
package storage

import "github.com/starford/pactum/internal/models"

// Provider is the interface for library file operations.
type Provider interface {
	// List returns metadata for every .pdf and .txt file under dir (relative to library root).
	List(dir string) ([]models.DocumentMetadata, error)
	// Read returns the raw bytes of the file at path (relative to library root).
	Read(path string) ([]byte, error)
	// Write atomically writes content to path (relative to library root).
	Write(path string, content []byte) error
	// Delete removes the file at path (relative to library root).
	Delete(path string) error
	// Create writes content to a new path and fails with fs.ErrExist if it is taken.
	Create(path string, content []byte) error
}
