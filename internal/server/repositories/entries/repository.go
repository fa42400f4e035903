package entries

import (
	"context"

	"github.com/dmitrijs2005/photodiary/internal/server/models"
)

type Repository interface {
	Content(ctx context.Context, userID, date string) (string, error)
	Get(ctx context.Context, userID, date string) (*models.Entry, error)
	Upsert(ctx context.Context, userID, date, content string) (*models.Entry, error)
}
