// Command seed loads a JSON fixture of movies and rating samples into the
// catalog and ratings databases. It is the only write path in the repo; the
// API itself is read-only.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/filmindex/catalog-api/internal/config"
	"github.com/filmindex/catalog-api/internal/domain"
	"github.com/filmindex/catalog-api/internal/repository"
	"github.com/filmindex/catalog-api/internal/store"
)

type movieFixture struct {
	ImdbID              string          `json:"imdbId"`
	Title               string          `json:"title"`
	Overview            *string         `json:"overview"`
	ReleaseDate         *string         `json:"releaseDate"`
	Budget              *int64          `json:"budget"`
	Runtime             *int64          `json:"runtime"`
	OriginalLanguage    *string         `json:"originalLanguage"`
	Genres              json.RawMessage `json:"genres"`
	ProductionCompanies json.RawMessage `json:"productionCompanies"`
	Ratings             []float64       `json:"ratings"`
}

func main() {
	var (
		path    = flag.String("data", "db/fixtures/sample.json", "path to the fixture file")
		timeout = flag.Duration("timeout", 30*time.Second, "overall deadline for the load")
	)
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	payload, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("read fixture: %v", err)
	}
	var fixtures []movieFixture
	if err := json.Unmarshal(payload, &fixtures); err != nil {
		log.Fatalf("parse fixture: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	logger := log.New(os.Stdout, "[seed] ", log.LstdFlags)

	catalogStore, err := store.New(ctx, cfg.CatalogDBURL, store.Options{Name: "catalog-store", Logger: logger})
	if err != nil {
		log.Fatalf("connect catalog database: %v", err)
	}
	defer catalogStore.Close()

	ratingsStore, err := store.New(ctx, cfg.RatingsDBURL, store.Options{Name: "ratings-store", Logger: logger})
	if err != nil {
		log.Fatalf("connect ratings database: %v", err)
	}
	defer ratingsStore.Close()

	repo := repository.New(catalogStore, ratingsStore)

	var sampleCount int
	for _, fx := range fixtures {
		id, err := repo.Movies.Insert(ctx, repository.MovieInsertParams{
			ImdbID:              fx.ImdbID,
			Title:               fx.Title,
			Overview:            fx.Overview,
			ReleaseDate:         fx.ReleaseDate,
			Budget:              fx.Budget,
			Runtime:             fx.Runtime,
			OriginalLanguage:    fx.OriginalLanguage,
			Genres:              fx.Genres,
			ProductionCompanies: fx.ProductionCompanies,
		})
		if err != nil {
			log.Fatalf("insert movie %q: %v", fx.ImdbID, err)
		}
		for _, value := range fx.Ratings {
			if err := repo.Ratings.Insert(ctx, domain.RatingSample{MovieID: id, Value: value}); err != nil {
				log.Fatalf("insert rating for %q: %v", fx.ImdbID, err)
			}
			sampleCount++
		}
	}

	logger.Printf("loaded %d movies and %d rating samples", len(fixtures), sampleCount)
}
