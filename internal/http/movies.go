package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/filmindex/catalog-api/internal/catalog"
	"github.com/filmindex/catalog-api/internal/domain"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type movieListResponse struct {
	Page   int                `json:"page"`
	Movies []catalog.ListItem `json:"movies"`
}

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r.URL.Query())

	movies, err := s.svc.ListPage(r.Context(), page)
	if err != nil {
		s.logger.Printf("list movies error: %v", err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	s.respondJSON(w, http.StatusOK, movieListResponse{Page: page, Movies: movies})
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	imdbID := chi.URLParam(r, "imdbID")

	detail, err := s.svc.GetDetail(r.Context(), imdbID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found")
			return
		}
		s.logger.Printf("get movie %q error: %v", imdbID, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to fetch movie")
		return
	}

	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleListByYear(w http.ResponseWriter, r *http.Request) {
	year := chi.URLParam(r, "year")
	query := r.URL.Query()
	page := parsePage(query)
	order := parseSortOrder(query)

	movies, err := s.svc.ListByYear(r.Context(), year, page, order)
	if err != nil {
		s.logger.Printf("list movies by year %q error: %v", year, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	s.respondJSON(w, http.StatusOK, movieListResponse{Page: page, Movies: movies})
}

func (s *Server) handleListByGenre(w http.ResponseWriter, r *http.Request) {
	genre := chi.URLParam(r, "genre")
	page := parsePage(r.URL.Query())

	movies, err := s.svc.ListByGenre(r.Context(), genre, page)
	if err != nil {
		s.logger.Printf("list movies by genre %q error: %v", genre, err)
		s.respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list movies")
		return
	}

	s.respondJSON(w, http.StatusOK, movieListResponse{Page: page, Movies: movies})
}

// parsePage reads the page query parameter, falling back to the first page for
// anything absent, non-numeric, or below 1.
func parsePage(query url.Values) int {
	raw := strings.TrimSpace(query.Get("page"))
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// parseSortOrder reads the sort query parameter; anything other than "desc"
// falls back to ascending.
func parseSortOrder(query url.Values) domain.SortOrder {
	if strings.EqualFold(strings.TrimSpace(query.Get("sort")), string(domain.SortDesc)) {
		return domain.SortDesc
	}
	return domain.SortAsc
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			s.logger.Printf("failed to encode response: %v", err)
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, code, message string) {
	s.respondJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}
