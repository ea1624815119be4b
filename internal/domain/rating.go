package domain

// RatingSample is a single rating submitted for a movie, keyed by the
// catalog's internal id. Many samples may exist per movie.
type RatingSample struct {
	MovieID int64
	Value   float64
}
