package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/filmindex/catalog-api/internal/domain"
	"github.com/filmindex/catalog-api/internal/repository"
)

type listCall struct {
	year   string
	genre  string
	order  domain.SortOrder
	limit  int
	offset int
}

type fakeMovieStore struct {
	movies  []domain.Movie
	byID    map[string]domain.Movie
	err     error
	calls   []listCall
	getErrs map[string]error
}

func (f *fakeMovieStore) ListPage(_ context.Context, limit, offset int) ([]domain.Movie, error) {
	f.calls = append(f.calls, listCall{limit: limit, offset: offset})
	return f.movies, f.err
}

func (f *fakeMovieStore) ListByYear(_ context.Context, year string, order domain.SortOrder, limit, offset int) ([]domain.Movie, error) {
	f.calls = append(f.calls, listCall{year: year, order: order, limit: limit, offset: offset})
	return f.movies, f.err
}

func (f *fakeMovieStore) ListByGenre(_ context.Context, genre string, limit, offset int) ([]domain.Movie, error) {
	f.calls = append(f.calls, listCall{genre: genre, limit: limit, offset: offset})
	return f.movies, f.err
}

func (f *fakeMovieStore) GetByImdbID(_ context.Context, imdbID string) (domain.Movie, error) {
	if err, ok := f.getErrs[imdbID]; ok {
		return domain.Movie{}, err
	}
	movie, ok := f.byID[imdbID]
	if !ok {
		return domain.Movie{}, repository.ErrNotFound
	}
	return movie, nil
}

type fakeRatingStore struct {
	avg    *float64
	err    error
	called int
	lastID int64
}

func (f *fakeRatingStore) Average(_ context.Context, movieID int64) (*float64, error) {
	f.called++
	f.lastID = movieID
	return f.avg, f.err
}

func strPtr(s string) *string { return &s }
func int64Ptr(n int64) *int64 { return &n }
func f64Ptr(v float64) *float64 { return &v }

func TestListPage_Window(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		wantOffset int
	}{
		{"first page", 1, 0},
		{"third page", 3, 100},
		{"zero falls back to first", 0, 0},
		{"negative falls back to first", -5, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies := &fakeMovieStore{}
			svc := New(movies, &fakeRatingStore{})

			_, err := svc.ListPage(context.Background(), tt.page)
			require.NoError(t, err)
			require.Len(t, movies.calls, 1)
			assert.Equal(t, PageSize, movies.calls[0].limit)
			assert.Equal(t, tt.wantOffset, movies.calls[0].offset)
		})
	}
}

func TestFormatBudget(t *testing.T) {
	tests := []struct {
		name   string
		budget *int64
		want   string
	}{
		{"absent", nil, "N/A"},
		{"zero is real data", int64Ptr(0), "$0"},
		{"positive", int64Ptr(160000000), "$160000000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatBudget(tt.budget))
		})
	}
}

func TestListPage_ShapesRows(t *testing.T) {
	movies := &fakeMovieStore{movies: []domain.Movie{
		{
			ID:          7,
			ImdbID:      "tt0000001",
			Title:       "Zero Budget",
			Budget:      int64Ptr(0),
			Genres:      nil,
			ReleaseDate: strPtr("2001-05-01"),
		},
	}}
	svc := New(movies, &fakeRatingStore{})

	items, err := svc.ListPage(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "$0", items[0].Budget)
	assert.NotNil(t, items[0].Genres)
	assert.Empty(t, items[0].Genres)
	assert.Equal(t, "tt0000001", items[0].ImdbID)
}

func TestListPage_MalformedGenresSurface(t *testing.T) {
	movies := &fakeMovieStore{movies: []domain.Movie{
		{ImdbID: "tt0000001", Title: "Broken", Genres: []byte("{{not json")},
	}}
	svc := New(movies, &fakeRatingStore{})

	_, err := svc.ListPage(context.Background(), 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestGetDetail_RoundsAverage(t *testing.T) {
	tests := []struct {
		name string
		avg  *float64
		want *float64
	}{
		{"two samples", f64Ptr(4.5), f64Ptr(4.5)},
		{"repeating mean rounds to one decimal", f64Ptr(4.333333333333333), f64Ptr(4.3)},
		{"half rounds away from zero", f64Ptr(4.35), f64Ptr(4.4)},
		{"no samples", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			movies := &fakeMovieStore{byID: map[string]domain.Movie{
				"tt0000001": {ID: 42, ImdbID: "tt0000001", Title: "Rated"},
			}}
			ratings := &fakeRatingStore{avg: tt.avg}
			svc := New(movies, ratings)

			detail, err := svc.GetDetail(context.Background(), "tt0000001")
			require.NoError(t, err)
			assert.Equal(t, int64(42), ratings.lastID, "rating lookup must use the internal id")
			if tt.want == nil {
				assert.Nil(t, detail.AverageRating)
			} else {
				require.NotNil(t, detail.AverageRating)
				assert.InDelta(t, *tt.want, *detail.AverageRating, 1e-9)
			}
		})
	}
}

func TestGetDetail_NotFoundSkipsRatings(t *testing.T) {
	movies := &fakeMovieStore{byID: map[string]domain.Movie{}}
	ratings := &fakeRatingStore{}
	svc := New(movies, ratings)

	detail, err := svc.GetDetail(context.Background(), "tt9999999")
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Zero(t, ratings.called, "ratings store must not be queried for unknown ids")
}

func TestGetDetail_RatingFailureIsFatal(t *testing.T) {
	movies := &fakeMovieStore{byID: map[string]domain.Movie{
		"tt0000001": {ID: 1, ImdbID: "tt0000001", Title: "Found"},
	}}
	ratings := &fakeRatingStore{err: errors.New("ratings db down")}
	svc := New(movies, ratings)

	detail, err := svc.GetDetail(context.Background(), "tt0000001")
	assert.Nil(t, detail, "no partial detail when the rating lookup fails")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestGetDetail_ShapesRecord(t *testing.T) {
	movies := &fakeMovieStore{byID: map[string]domain.Movie{
		"tt0000001": {
			ID:                  9,
			ImdbID:              "tt0000001",
			Title:               "Full Record",
			Overview:            strPtr("An overview."),
			ReleaseDate:         strPtr("2010-07-15"),
			Budget:              nil,
			Runtime:             int64Ptr(148),
			OriginalLanguage:    strPtr("en"),
			Genres:              []byte(`[{"id":28,"name":"Action"}]`),
			ProductionCompanies: []byte(`[{"id":923,"name":"Legendary Pictures"}]`),
		},
	}}
	svc := New(movies, &fakeRatingStore{avg: f64Ptr(4.0)})

	detail, err := svc.GetDetail(context.Background(), "tt0000001")
	require.NoError(t, err)
	assert.Equal(t, "N/A", detail.Budget)
	assert.Equal(t, "An overview.", *detail.Description)
	require.Len(t, detail.Genres, 1)
	assert.Equal(t, "Action", detail.Genres[0].Name)
	require.Len(t, detail.ProductionCompanies, 1)
	assert.Equal(t, "Legendary Pictures", detail.ProductionCompanies[0].Name)
}

func TestGetDetail_MalformedCompaniesSurface(t *testing.T) {
	movies := &fakeMovieStore{byID: map[string]domain.Movie{
		"tt0000001": {ID: 1, ImdbID: "tt0000001", Title: "Broken", ProductionCompanies: []byte("oops")},
	}}
	svc := New(movies, &fakeRatingStore{})

	_, err := svc.GetDetail(context.Background(), "tt0000001")
	assert.ErrorIs(t, err, domain.ErrMalformedRecord)
}

func TestListByYear_OrderAndWindow(t *testing.T) {
	movies := &fakeMovieStore{}
	svc := New(movies, &fakeRatingStore{})

	_, err := svc.ListByYear(context.Background(), "2005", 2, domain.SortDesc)
	require.NoError(t, err)
	require.Len(t, movies.calls, 1)
	assert.Equal(t, "2005", movies.calls[0].year)
	assert.Equal(t, domain.SortDesc, movies.calls[0].order)
	assert.Equal(t, 50, movies.calls[0].offset)

	// Unknown order values normalize to ascending.
	_, err = svc.ListByYear(context.Background(), "2005", 1, domain.SortOrder("sideways"))
	require.NoError(t, err)
	assert.Equal(t, domain.SortAsc, movies.calls[1].order)
}

func TestListByGenre_PassesFilter(t *testing.T) {
	movies := &fakeMovieStore{}
	svc := New(movies, &fakeRatingStore{})

	_, err := svc.ListByGenre(context.Background(), "Action", 3)
	require.NoError(t, err)
	require.Len(t, movies.calls, 1)
	assert.Equal(t, "Action", movies.calls[0].genre)
	assert.Equal(t, 100, movies.calls[0].offset)
	assert.Equal(t, PageSize, movies.calls[0].limit)
}

func TestList_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("catalog db down")
	movies := &fakeMovieStore{err: storeErr}
	svc := New(movies, &fakeRatingStore{})

	_, err := svc.ListPage(context.Background(), 1)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.ListByYear(context.Background(), "2005", 1, domain.SortAsc)
	assert.ErrorIs(t, err, storeErr)

	_, err = svc.ListByGenre(context.Background(), "Action", 1)
	assert.ErrorIs(t, err, storeErr)
}
