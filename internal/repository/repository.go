package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmindex/catalog-api/internal/store"
)

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("repository: not found")

// Repository aggregates the per-database repositories. Movies and Ratings sit
// on independent pools; joining them happens in application code, keyed by the
// catalog's internal id.
type Repository struct {
	Movies  *MoviesRepository
	Ratings *RatingsRepository
}

// New constructs a Repository backed by the provided stores.
func New(catalog, ratings *store.Store) *Repository {
	return NewWithPools(catalog.Pool(), ratings.Pool())
}

// NewWithPools allows constructing repositories directly from pgx pools.
func NewWithPools(catalogPool, ratingsPool *pgxpool.Pool) *Repository {
	return &Repository{
		Movies:  &MoviesRepository{pool: catalogPool},
		Ratings: &RatingsRepository{pool: ratingsPool},
	}
}
