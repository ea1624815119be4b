// Package catalog implements the movie query service: it reads raw rows from
// the catalog and ratings stores, normalizes the JSON-text columns, formats
// budgets for display, and shapes everything into client-facing DTOs. It is
// the only place the two stores are joined.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"

	"github.com/filmindex/catalog-api/internal/domain"
	"github.com/filmindex/catalog-api/internal/repository"
)

// PageSize is the fixed number of movies per listing page.
const PageSize = 50

// BudgetUnknown is rendered when a catalog row carries no budget at all. A
// stored budget of zero is real data and renders as "$0".
const BudgetUnknown = "N/A"

// ErrNotFound reports that no catalog row matches the requested public id.
var ErrNotFound = errors.New("catalog: movie not found")

// MovieStore is the read port onto the catalog database.
type MovieStore interface {
	ListPage(ctx context.Context, limit, offset int) ([]domain.Movie, error)
	ListByYear(ctx context.Context, year string, order domain.SortOrder, limit, offset int) ([]domain.Movie, error)
	ListByGenre(ctx context.Context, genre string, limit, offset int) ([]domain.Movie, error)
	GetByImdbID(ctx context.Context, imdbID string) (domain.Movie, error)
}

// RatingStore is the read port onto the ratings database, keyed by the
// catalog's internal id.
type RatingStore interface {
	Average(ctx context.Context, movieID int64) (*float64, error)
}

// ListItem is the listing-page view of a movie.
type ListItem struct {
	ImdbID      string            `json:"imdbId"`
	Title       string            `json:"title"`
	Genres      []domain.NamedRef `json:"genres"`
	ReleaseDate *string           `json:"releaseDate"`
	Budget      string            `json:"budget"`
}

// Detail is the single-movie view, including the cross-store rating average.
type Detail struct {
	ImdbID              string            `json:"imdbId"`
	Title               string            `json:"title"`
	Description         *string           `json:"description"`
	ReleaseDate         *string           `json:"releaseDate"`
	Budget              string            `json:"budget"`
	Runtime             *int64            `json:"runtime"`
	AverageRating       *float64          `json:"averageRating"`
	Genres              []domain.NamedRef `json:"genres"`
	OriginalLanguage    *string           `json:"originalLanguage"`
	ProductionCompanies []domain.NamedRef `json:"productionCompanies"`
}

// Service issues read queries against both stores and shapes the results.
// Operations are stateless and safe for unbounded concurrent use.
type Service struct {
	movies  MovieStore
	ratings RatingStore
}

// New constructs the query service over the two store ports.
func New(movies MovieStore, ratings RatingStore) *Service {
	return &Service{movies: movies, ratings: ratings}
}

// NewFromRepository wires the service directly to the pgx-backed repositories.
func NewFromRepository(repo *repository.Repository) *Service {
	return New(repo.Movies, repo.Ratings)
}

// ListPage returns one page of the full catalog, 50 movies per page. Pages
// start at 1; anything lower is treated as the first page.
func (s *Service) ListPage(ctx context.Context, page int) ([]ListItem, error) {
	limit, offset := pageWindow(page)
	movies, err := s.movies.ListPage(ctx, limit, offset)
	if err != nil {
		return nil, err
	}
	return toListItems(movies)
}

// ListByYear returns one page of movies whose release date starts with the
// given 4-character year, ordered by release date in the requested direction.
// A year that matches nothing yields an empty page, not an error.
func (s *Service) ListByYear(ctx context.Context, year string, page int, order domain.SortOrder) ([]ListItem, error) {
	if order != domain.SortDesc {
		order = domain.SortAsc
	}
	limit, offset := pageWindow(page)
	movies, err := s.movies.ListByYear(ctx, year, order, limit, offset)
	if err != nil {
		return nil, err
	}
	return toListItems(movies)
}

// ListByGenre returns one page of movies whose raw genre text contains the
// given value as a case-sensitive substring. The filter is a deliberate
// best-effort containment check against the serialized blob; see
// MoviesRepository.ListByGenre.
func (s *Service) ListByGenre(ctx context.Context, genre string, page int) ([]ListItem, error) {
	limit, offset := pageWindow(page)
	movies, err := s.movies.ListByGenre(ctx, genre, limit, offset)
	if err != nil {
		return nil, err
	}
	return toListItems(movies)
}

// GetDetail fetches a single movie by public id and merges in the average of
// its rating samples from the ratings store. A movie with no samples carries a
// nil average. The rating lookup only runs after the catalog row is found, and
// a failure there fails the whole call; the service never returns a partially
// populated detail. ErrNotFound reports an unknown public id.
func (s *Service) GetDetail(ctx context.Context, imdbID string) (*Detail, error) {
	movie, err := s.movies.GetByImdbID(ctx, imdbID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	avg, err := s.ratings.Average(ctx, movie.ID)
	if err != nil {
		return nil, fmt.Errorf("ratings for %q: %w", imdbID, err)
	}
	if avg != nil {
		rounded := roundToOneDecimal(*avg)
		avg = &rounded
	}

	genres, err := domain.DecodeNamedRefs(movie.Genres, "genres")
	if err != nil {
		return nil, err
	}
	companies, err := domain.DecodeNamedRefs(movie.ProductionCompanies, "production_companies")
	if err != nil {
		return nil, err
	}

	return &Detail{
		ImdbID:              movie.ImdbID,
		Title:               movie.Title,
		Description:         movie.Overview,
		ReleaseDate:         movie.ReleaseDate,
		Budget:              formatBudget(movie.Budget),
		Runtime:             movie.Runtime,
		AverageRating:       avg,
		Genres:              genres,
		OriginalLanguage:    movie.OriginalLanguage,
		ProductionCompanies: companies,
	}, nil
}

func pageWindow(page int) (limit, offset int) {
	if page < 1 {
		page = 1
	}
	return PageSize, (page - 1) * PageSize
}

func toListItems(movies []domain.Movie) ([]ListItem, error) {
	items := make([]ListItem, 0, len(movies))
	for _, movie := range movies {
		genres, err := domain.DecodeNamedRefs(movie.Genres, "genres")
		if err != nil {
			return nil, err
		}
		items = append(items, ListItem{
			ImdbID:      movie.ImdbID,
			Title:       movie.Title,
			Genres:      genres,
			ReleaseDate: movie.ReleaseDate,
			Budget:      formatBudget(movie.Budget),
		})
	}
	return items, nil
}

// formatBudget renders the budget display string: "$" followed by the whole
// number, with no separators, or BudgetUnknown when the column is NULL.
func formatBudget(budget *int64) string {
	if budget == nil {
		return BudgetUnknown
	}
	return "$" + strconv.FormatInt(*budget, 10)
}

// roundToOneDecimal rounds half away from zero, so 4.35 becomes 4.4.
func roundToOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
