package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmindex/catalog-api/internal/domain"
)

// RatingsRepository provides access to the ratings database. Rows are keyed by
// the catalog's internal movie id; the repository never sees public ids.
type RatingsRepository struct {
	pool *pgxpool.Pool
}

// Average computes the arithmetic mean of all rating samples for a movie. It
// returns nil when no samples exist, which callers must keep distinct from a
// stored average of zero.
func (r *RatingsRepository) Average(ctx context.Context, movieID int64) (*float64, error) {
	const query = `SELECT AVG(rating) FROM ratings WHERE movie_id = $1`

	var avg *float64
	if err := r.pool.QueryRow(ctx, query, movieID).Scan(&avg); err != nil {
		return nil, fmt.Errorf("average rating for movie %d: %w", movieID, err)
	}
	return avg, nil
}

// Insert stores a single rating sample. Duplicates are allowed; the store
// carries raw samples, not per-rater state.
func (r *RatingsRepository) Insert(ctx context.Context, sample domain.RatingSample) error {
	const query = `INSERT INTO ratings (movie_id, rating) VALUES ($1,$2)`
	if _, err := r.pool.Exec(ctx, query, sample.MovieID, sample.Value); err != nil {
		return fmt.Errorf("insert rating for movie %d: %w", sample.MovieID, err)
	}
	return nil
}
