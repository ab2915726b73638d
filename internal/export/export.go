// Package export converts a favorites list to and from portable files.
package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// Formats lists the supported encodings.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML}

// ParseFormat accepts a format name (case-insensitive, "yml" allowed).
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "toml":
		return FormatTOML, nil
	}
	return "", fmt.Errorf("unsupported format %q (want json, yaml or toml)", s)
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer format of %q", path)
	}
	return ParseFormat(ext)
}

// record is the on-disk shape of one favorite.
type record struct {
	ID               int     `json:"id" yaml:"id" toml:"id"`
	Title            string  `json:"title" yaml:"title" toml:"title"`
	OriginalTitle    string  `json:"original_title,omitempty" yaml:"original_title,omitempty" toml:"original_title,omitempty"`
	Overview         string  `json:"overview,omitempty" yaml:"overview,omitempty" toml:"overview,omitempty"`
	PosterPath       string  `json:"poster_path,omitempty" yaml:"poster_path,omitempty" toml:"poster_path,omitempty"`
	BackdropPath     string  `json:"backdrop_path,omitempty" yaml:"backdrop_path,omitempty" toml:"backdrop_path,omitempty"`
	VoteAverage      float64 `json:"vote_average" yaml:"vote_average" toml:"vote_average"`
	VoteCount        int     `json:"vote_count,omitempty" yaml:"vote_count,omitempty" toml:"vote_count,omitempty"`
	ReleaseDate      string  `json:"release_date,omitempty" yaml:"release_date,omitempty" toml:"release_date,omitempty"`
	Popularity       float64 `json:"popularity,omitempty" yaml:"popularity,omitempty" toml:"popularity,omitempty"`
	GenreIDs         []int   `json:"genre_ids,omitempty" yaml:"genre_ids,omitempty,flow" toml:"genre_ids,omitempty"`
	OriginalLanguage string  `json:"original_language,omitempty" yaml:"original_language,omitempty" toml:"original_language,omitempty"`
	Adult            bool    `json:"adult,omitempty" yaml:"adult,omitempty" toml:"adult,omitempty"`
}

// tomlDocument wraps the list; a TOML document must be a table.
type tomlDocument struct {
	Favorites []record `toml:"favorites"`
}

func toRecord(m domain.Movie) record {
	return record{
		ID:               m.ID,
		Title:            m.Title,
		OriginalTitle:    m.OriginalTitle,
		Overview:         m.Overview,
		PosterPath:       m.PosterPath,
		BackdropPath:     m.BackdropPath,
		VoteAverage:      m.VoteAverage,
		VoteCount:        m.VoteCount,
		ReleaseDate:      m.ReleaseDate,
		Popularity:       m.Popularity,
		GenreIDs:         m.GenreIDs,
		OriginalLanguage: m.OriginalLanguage,
		Adult:            m.Adult,
	}
}

func (r record) movie() domain.Movie {
	return domain.Movie{
		ID:               r.ID,
		Title:            r.Title,
		OriginalTitle:    r.OriginalTitle,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		ReleaseDate:      r.ReleaseDate,
		Popularity:       r.Popularity,
		GenreIDs:         r.GenreIDs,
		OriginalLanguage: r.OriginalLanguage,
		Adult:            r.Adult,
	}
}

// Encode writes movies to w in the given format.
func Encode(w io.Writer, format Format, movies []domain.Movie) error {
	records := make([]record, len(movies))
	for i, m := range movies {
		records[i] = toRecord(m)
	}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(records); err != nil {
			return err
		}
		return enc.Close()
	case FormatTOML:
		return toml.NewEncoder(w).Encode(tomlDocument{Favorites: records})
	}
	return fmt.Errorf("unsupported format %q", format)
}

// Decode reads movies from r. Entries without an id are rejected.
func Decode(r io.Reader, format Format) ([]domain.Movie, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	var records []record
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &records)
	case FormatYAML:
		err = yaml.Unmarshal(data, &records)
	case FormatTOML:
		var doc tomlDocument
		err = toml.NewDecoder(bytes.NewReader(data)).Decode(&doc)
		records = doc.Favorites
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	movies := make([]domain.Movie, 0, len(records))
	for i, rec := range records {
		if rec.ID == 0 {
			return nil, fmt.Errorf("decode %s: entry %d has no id", format, i+1)
		}
		movies = append(movies, rec.movie())
	}
	return movies, nil
}
