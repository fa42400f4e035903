// Package blobstore keeps uploaded image bytes addressed by filename. The
// diary service only knows the Store port; adapters exist for memory, a
// local directory and S3-compatible object storage.
package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"github.com/dmitrijs2005/photodiary/internal/server/config"
)

// ErrInvalidName is returned for names that are empty, dot directories or
// contain a path separator.
var ErrInvalidName = errors.New("invalid blob name")

// Store is the blob storage port.
//
// Delete of a missing blob succeeds. Open of a missing blob returns
// common.ErrorNotFound.
type Store interface {
	Put(ctx context.Context, name string, data []byte) error
	Exists(ctx context.Context, name string) (bool, error)
	Delete(ctx context.Context, name string) error
	Open(ctx context.Context, name string) (io.ReadCloser, error)
}

// validName rejects anything that is not a single path element.
func validName(name string) error {
	if name == "" || name == "." || name == ".." || path.Base(name) != name {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for i := 0; i < len(name); i++ {
		if name[i] == '\\' || name[i] == 0 {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// New builds the store selected by cfg.BlobBackend.
func New(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendMemory:
		return NewMemoryStore(), nil
	case config.BlobBackendFilesystem:
		return NewFilesystemStore(cfg.BlobDir)
	case config.BlobBackendS3:
		return NewS3Store(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported blob backend %q", cfg.BlobBackend)
	}
}
