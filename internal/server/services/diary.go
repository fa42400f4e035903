// Package services contains the server's business logic. DiaryService is the
// only writer of the entry and placement repositories and the only caller of
// the blob store, so it owns the consistency between image rows and bytes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dmitrijs2005/photodiary/internal/common"
	"github.com/dmitrijs2005/photodiary/internal/dbx"
	"github.com/dmitrijs2005/photodiary/internal/logging"
	"github.com/dmitrijs2005/photodiary/internal/server/blobstore"
	"github.com/dmitrijs2005/photodiary/internal/server/config"
	"github.com/dmitrijs2005/photodiary/internal/server/models"
	"github.com/dmitrijs2005/photodiary/internal/server/repositories/repomanager"
)

// DateLayout is the only accepted form of an entry date.
const DateLayout = "2006-01-02"

type DiaryService struct {
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	blobs          blobstore.Store
	logger         logging.Logger
	maxUploadBytes int64
}

func NewDiaryService(db *sql.DB, m repomanager.RepositoryManager, blobs blobstore.Store, logger logging.Logger, cfg *config.Config) *DiaryService {
	return &DiaryService{
		db:             db,
		repomanager:    m,
		blobs:          blobs,
		logger:         logger.With("module", "diary"),
		maxUploadBytes: cfg.MaxUploadBytes,
	}
}

// ValidateDate reports common.ErrInvalidDate unless date is a real
// calendar day written as YYYY-MM-DD.
func ValidateDate(date string) error {
	if _, err := time.Parse(DateLayout, date); err != nil {
		return fmt.Errorf("%w: %q", common.ErrInvalidDate, date)
	}
	return nil
}

func validateScope(userID, date string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	return ValidateDate(date)
}

// GetDay returns the entry text and collage of one date. A date nobody
// wrote to yields empty content and an empty image list.
func (s *DiaryService) GetDay(ctx context.Context, userID, date string) (*models.Day, error) {
	if err := validateScope(userID, date); err != nil {
		return nil, err
	}

	content, err := s.repomanager.Entries(s.db).Content(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("error getting entry: %w", err)
	}

	images, err := s.repomanager.Placements(s.db).List(ctx, userID, date)
	if err != nil {
		return nil, fmt.Errorf("error listing images: %w", err)
	}
	if images == nil {
		images = []*models.Placement{}
	}

	return &models.Day{Date: date, Content: content, Images: images}, nil
}

// SaveEntry stores content as the entry of (userID, date), replacing any
// earlier text.
func (s *DiaryService) SaveEntry(ctx context.Context, userID, date, content string) (*models.Entry, error) {
	if err := validateScope(userID, date); err != nil {
		return nil, err
	}

	entry, err := s.repomanager.Entries(s.db).Upsert(ctx, userID, date, content)
	if err != nil {
		return nil, fmt.Errorf("error saving entry: %w", err)
	}
	return entry, nil
}

// UploadImage stores data and adds it to the collage of (userID, date).
//
// The placement row is inserted and the blob written inside one
// transaction that commits only after the write succeeded: a duplicate
// filename fails before any bytes are stored, and a failed write leaves no
// row behind.
func (s *DiaryService) UploadImage(ctx context.Context, userID, date string, data []byte, originalName, caption string) (*models.Placement, error) {
	if err := validateScope(userID, date); err != nil {
		return nil, err
	}
	if len(data) == 0 || originalName == "" {
		return nil, common.ErrEmptyFile
	}
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, common.ErrFileTooLarge
	}

	filename := StorageFilename(userID, date, originalName)
	if filename == "" {
		return nil, fmt.Errorf("%w: no usable characters in %q", common.ErrEmptyFile, originalName)
	}

	var (
		created     *models.Placement
		blobWritten bool
	)
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		p, err := s.repomanager.Placements(tx).Create(ctx, userID, date, filename, caption)
		if err != nil {
			return err
		}
		if err := s.blobs.Put(ctx, filename, data); err != nil {
			return fmt.Errorf("%w: %v", common.ErrBlobIO, err)
		}
		blobWritten = true
		created = p
		return nil
	})
	if err != nil {
		if blobWritten {
			// commit failed after the write; the blob has no row now
			s.cleanupBlob(ctx, filename)
		}
		if errors.Is(err, common.ErrDuplicateFilename) || errors.Is(err, common.ErrBlobIO) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating placement: %w", err)
	}

	s.logger.Info(ctx, "image uploaded", "filename", filename, "bytes", len(data))
	return created, nil
}

// MoveImage applies a partial transform to the user's placement.
// A scale that is not positive, or any non-finite number, is rejected
// before anything is written.
func (s *DiaryService) MoveImage(ctx context.Context, userID, filename string, patch models.PlacementPatch) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}
	if err := validatePatch(patch); err != nil {
		return err
	}

	if err := s.repomanager.Placements(s.db).Update(ctx, userID, filename, patch); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error updating placement: %w", err)
	}
	return nil
}

func validatePatch(p models.PlacementPatch) error {
	if p.Scale != nil && !(*p.Scale > 0) {
		return fmt.Errorf("%w: scale must be positive, got %v", common.ErrInvalidTransform, *p.Scale)
	}
	for name, v := range map[string]*float64{
		"rotation": p.Rotation,
		"scale":    p.Scale,
		"tilt_x":   p.TiltX,
		"tilt_y":   p.TiltY,
	} {
		if v != nil && (math.IsNaN(*v) || math.IsInf(*v, 0)) {
			return fmt.Errorf("%w: %s is not a finite number", common.ErrInvalidTransform, name)
		}
	}
	return nil
}

// RemoveImage deletes the placement and then, best effort, its blob. Blob
// failures are logged and not returned.
func (s *DiaryService) RemoveImage(ctx context.Context, userID, filename string) error {
	if userID == "" {
		return common.ErrorUnauthorized
	}

	if err := s.repomanager.Placements(s.db).Delete(ctx, userID, filename); err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return err
		}
		return fmt.Errorf("error deleting placement: %w", err)
	}

	s.cleanupBlob(ctx, filename)
	return nil
}

func (s *DiaryService) cleanupBlob(ctx context.Context, filename string) {
	exists, err := s.blobs.Exists(ctx, filename)
	if err != nil {
		s.logger.Warn(ctx, "blob cleanup: exists check failed", "filename", filename, "error", err)
		return
	}
	if !exists {
		s.logger.Debug(ctx, "blob cleanup: nothing to delete", "filename", filename)
		return
	}
	if err := s.blobs.Delete(ctx, filename); err != nil {
		s.logger.Warn(ctx, "blob cleanup: delete failed", "filename", filename, "error", err)
	}
}

// OpenImage returns the bytes of a placement owned by userID. The caller
// closes the reader.
func (s *DiaryService) OpenImage(ctx context.Context, userID, filename string) (io.ReadCloser, *models.Placement, error) {
	if userID == "" {
		return nil, nil, common.ErrorUnauthorized
	}

	p, err := s.repomanager.Placements(s.db).GetByFilename(ctx, userID, filename)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Open(ctx, filename)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", common.ErrBlobIO, err)
	}
	return rc, p, nil
}
