package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/filmindex/catalog-api/internal/domain"
)

// MoviesRepository provides read access to the catalog database.
type MoviesRepository struct {
	pool *pgxpool.Pool
}

const movieColumns = `
    id,
    imdb_id,
    title,
    overview,
    release_date,
    budget,
    runtime,
    original_language,
    genres,
    production_companies
`

// ListPage returns a window of catalog rows ordered by internal id. The id
// ordering keeps pagination deterministic; raw insertion order carries no
// contract of its own.
func (r *MoviesRepository) ListPage(ctx context.Context, limit, offset int) ([]domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies ORDER BY id LIMIT $1 OFFSET $2`, movieColumns)
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer rows.Close()
	return collectMovies(rows)
}

// ListByYear returns catalog rows whose release date begins with the given
// 4-character year, ordered by release date in the requested direction. A
// value that matches no stored dates simply yields zero rows.
func (r *MoviesRepository) ListByYear(ctx context.Context, year string, order domain.SortOrder, limit, offset int) ([]domain.Movie, error) {
	direction := "ASC"
	if order == domain.SortDesc {
		direction = "DESC"
	}
	query := fmt.Sprintf(`
        SELECT %s FROM movies
        WHERE left(release_date, 4) = $1
        ORDER BY release_date %s, id
        LIMIT $2 OFFSET $3
    `, movieColumns, direction)

	rows, err := r.pool.Query(ctx, query, year, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movies by year: %w", err)
	}
	defer rows.Close()
	return collectMovies(rows)
}

// ListByGenre returns catalog rows whose serialized genre text contains the
// given value as a case-sensitive substring. The match runs against the raw
// JSON blob, not the parsed array, so partial words and id digits match too;
// that looseness is the intended filter contract.
func (r *MoviesRepository) ListByGenre(ctx context.Context, genre string, limit, offset int) ([]domain.Movie, error) {
	query := fmt.Sprintf(`
        SELECT %s FROM movies
        WHERE strpos(genres, $1) > 0
        ORDER BY id
        LIMIT $2 OFFSET $3
    `, movieColumns)

	rows, err := r.pool.Query(ctx, query, genre, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list movies by genre: %w", err)
	}
	defer rows.Close()
	return collectMovies(rows)
}

// GetByImdbID fetches a single catalog row by its public identifier.
func (r *MoviesRepository) GetByImdbID(ctx context.Context, imdbID string) (domain.Movie, error) {
	query := fmt.Sprintf(`SELECT %s FROM movies WHERE imdb_id = $1`, movieColumns)
	row := r.pool.QueryRow(ctx, query, imdbID)
	movie, err := scanMovie(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Movie{}, ErrNotFound
		}
		return domain.Movie{}, fmt.Errorf("get movie %q: %w", imdbID, err)
	}
	return movie, nil
}

// MovieInsertParams bundles the fields required to insert a catalog row. Only
// the seed tool and tests write to the catalog; the service itself is
// read-only.
type MovieInsertParams struct {
	ImdbID              string
	Title               string
	Overview            *string
	ReleaseDate         *string
	Budget              *int64
	Runtime             *int64
	OriginalLanguage    *string
	Genres              []byte
	ProductionCompanies []byte
}

// Insert stores a new catalog row and returns its internal id.
func (r *MoviesRepository) Insert(ctx context.Context, params MovieInsertParams) (int64, error) {
	const query = `
        INSERT INTO movies (imdb_id, title, overview, release_date, budget, runtime, original_language, genres, production_companies)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)
        RETURNING id
    `
	var id int64
	err := r.pool.QueryRow(ctx, query,
		params.ImdbID,
		params.Title,
		params.Overview,
		params.ReleaseDate,
		params.Budget,
		params.Runtime,
		params.OriginalLanguage,
		textOrNil(params.Genres),
		textOrNil(params.ProductionCompanies),
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("insert movie %q: %w", params.ImdbID, err)
	}
	return id, nil
}

func collectMovies(rows pgx.Rows) ([]domain.Movie, error) {
	items := make([]domain.Movie, 0)
	for rows.Next() {
		movie, err := scanMovie(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		items = append(items, movie)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read movies: %w", err)
	}
	return items, nil
}

func scanMovie(row pgx.Row) (domain.Movie, error) {
	var movie domain.Movie
	err := row.Scan(
		&movie.ID,
		&movie.ImdbID,
		&movie.Title,
		&movie.Overview,
		&movie.ReleaseDate,
		&movie.Budget,
		&movie.Runtime,
		&movie.OriginalLanguage,
		&movie.Genres,
		&movie.ProductionCompanies,
	)
	if err != nil {
		return domain.Movie{}, err
	}
	return movie, nil
}

func textOrNil(raw []byte) *string {
	if len(raw) == 0 {
		return nil
	}
	val := string(raw)
	return &val
}
