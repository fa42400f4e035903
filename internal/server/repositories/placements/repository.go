package placements

import (
	"context"

	"github.com/dmitrijs2005/photodiary/internal/server/models"
)

type Repository interface {
	List(ctx context.Context, userID, date string) ([]*models.Placement, error)
	Create(ctx context.Context, userID, date, filename, caption string) (*models.Placement, error)
	GetByFilename(ctx context.Context, userID, filename string) (*models.Placement, error)
	Update(ctx context.Context, userID, filename string, patch models.PlacementPatch) error
	Delete(ctx context.Context, userID, filename string) error
}
