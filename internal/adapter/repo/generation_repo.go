package repo

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"uigenie/internal/domain"
	"uigenie/internal/infra"
	"uigenie/internal/sqlinline"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// GenerationRepositoryPG implements domain.GenerationRepository on the
// generated_uis table.
type GenerationRepositoryPG struct {
	db infra.SQLExecutor
}

// NewGenerationRepository wraps db, usually an *infra.SQLRunner over the pool.
func NewGenerationRepository(db infra.SQLExecutor) *GenerationRepositoryPG {
	return &GenerationRepositoryPG{db: db}
}

// Create inserts one record. Records are immutable once written.
func (r *GenerationRepositoryPG) Create(ctx context.Context, imageURL, generatedCode, ownerID string) (*domain.Generation, error) {
	g := domain.Generation{ImageURL: imageURL, GeneratedCode: generatedCode, OwnerID: ownerID}
	row := r.db.QueryRow(ctx, sqlinline.QInsertGeneration, imageURL, generatedCode, ownerID)
	if err := row.Scan(&g.ID, &g.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert generation: %w", err)
	}
	return &g, nil
}

// GetForOwner returns the record only when ownerID owns it.
func (r *GenerationRepositoryPG) GetForOwner(ctx context.Context, id, ownerID string) (*domain.Generation, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrNotFound
	}
	row := r.db.QueryRow(ctx, sqlinline.QGetGenerationForOwner, id, ownerID)
	return scanGeneration(row)
}

// ListByOwner returns the owner's records, newest first.
func (r *GenerationRepositoryPG) ListByOwner(ctx context.Context, ownerID string, limit, offset int) ([]domain.Generation, error) {
	limit, offset = clampPage(limit, offset)
	rows, err := r.db.Query(ctx, sqlinline.QListGenerationsByOwner, ownerID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	defer rows.Close()

	out := make([]domain.Generation, 0, limit)
	for rows.Next() {
		g, err := scanGeneration(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list generations: %w", err)
	}
	return out, nil
}

// DeleteByOwner removes every record of ownerID and reports how many went.
func (r *GenerationRepositoryPG) DeleteByOwner(ctx context.Context, ownerID string) (int64, error) {
	tag, err := r.db.Exec(ctx, sqlinline.QDeleteGenerationsByOwner, ownerID)
	if err != nil {
		return 0, fmt.Errorf("delete generations: %w", err)
	}
	return tag.RowsAffected(), nil
}

// Stats summarises the table for the admin dashboard.
func (r *GenerationRepositoryPG) Stats(ctx context.Context) (*domain.GenerationStats, error) {
	var s domain.GenerationStats
	if err := r.db.QueryRow(ctx, sqlinline.QGenerationStats).Scan(&s.TotalGenerations, &s.Owners); err != nil {
		return nil, fmt.Errorf("generation stats: %w", err)
	}
	return &s, nil
}

func scanGeneration(row pgx.Row) (*domain.Generation, error) {
	var g domain.Generation
	if err := row.Scan(&g.ID, &g.ImageURL, &g.GeneratedCode, &g.OwnerID, &g.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

var _ domain.GenerationRepository = (*GenerationRepositoryPG)(nil)
