package domain

import "context"

// GenerationRepository persists and reads generation records.
type GenerationRepository interface {
	Create(ctx context.Context, imageURL, generatedCode, ownerID string) (*Generation, error)
	GetForOwner(ctx context.Context, id, ownerID string) (*Generation, error)
	ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]Generation, error)
	DeleteByOwner(ctx context.Context, ownerID string) (int64, error)
	Stats(ctx context.Context) (*GenerationStats, error)
}
