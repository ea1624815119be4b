package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedRecord indicates a stored JSON-text field is present but does not
// parse as the expected structure. Callers must surface it rather than fall
// back to an empty value; the empty array is reserved for the absent case.
var ErrMalformedRecord = errors.New("domain: malformed record")

// NamedRef is a single {id,name} entry from a serialized genre or
// production-company column.
type NamedRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Movie is a catalog row as stored. ID is the internal key that joins the
// catalog and ratings stores and is never serialized to clients; ImdbID is the
// public identifier. Genres and ProductionCompanies carry the raw JSON text
// exactly as stored and are decoded on read via DecodeNamedRefs.
type Movie struct {
	ID                  int64
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

// DecodeNamedRefs parses a JSON-text column into its structured form. A NULL
// or empty column decodes to an empty slice; text that is present but invalid
// reports ErrMalformedRecord with the offending field name.
func DecodeNamedRefs(raw []byte, field string) ([]NamedRef, error) {
	if len(raw) == 0 {
		return []NamedRef{}, nil
	}
	var refs []NamedRef
	if err := json.Unmarshal(raw, &refs); err != nil {
		return nil, fmt.Errorf("decode %s: %w: %v", field, ErrMalformedRecord, err)
	}
	if refs == nil {
		refs = []NamedRef{}
	}
	return refs, nil
}

// SortOrder selects the direction of a release-date ordered listing.
type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)
