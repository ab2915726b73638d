// Package filter evaluates user-written boolean expressions against movies.
//
// Expressions use expr-lang syntax over these fields:
//
//	id, title, rating, votes, year, released, language, popularity, adult
//
// For example: `rating >= 7.5 && year < 2000` or `title contains "Star"`.
package filter

import (
	"fmt"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/mmcdole/reel/internal/domain"
)

// Env is the set of names visible to an expression.
type Env struct {
	ID         int     `expr:"id"`
	Title      string  `expr:"title"`
	Rating     float64 `expr:"rating"`
	Votes      int     `expr:"votes"`
	Year       int     `expr:"year"`
	Released   string  `expr:"released"`
	Language   string  `expr:"language"`
	Popularity float64 `expr:"popularity"`
	Adult      bool    `expr:"adult"`
}

// NewEnv projects a movie onto the expression environment.
func NewEnv(m domain.Movie) Env {
	return Env{
		ID:         m.ID,
		Title:      m.Title,
		Rating:     m.VoteAverage,
		Votes:      m.VoteCount,
		Year:       m.Year(),
		Released:   m.ReleaseDate,
		Language:   m.OriginalLanguage,
		Popularity: m.Popularity,
		Adult:      m.Adult,
	}
}

// Predicate is a compiled expression.
type Predicate struct {
	source  string
	program *vm.Program
}

// Compile type-checks src. The expression must evaluate to a bool.
func Compile(src string) (*Predicate, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("empty filter expression")
	}
	program, err := expr.Compile(src, expr.Env(Env{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("compile filter %q: %w", src, err)
	}
	return &Predicate{source: src, program: program}, nil
}

// String returns the expression source.
func (p *Predicate) String() string { return p.source }

// Match reports whether the movie satisfies the predicate.
func (p *Predicate) Match(m domain.Movie) (bool, error) {
	out, err := expr.Run(p.program, NewEnv(m))
	if err != nil {
		return false, fmt.Errorf("evaluate filter on movie %d: %w", m.ID, err)
	}
	ok, _ := out.(bool)
	return ok, nil
}

// Apply keeps the movies that match, preserving order. The first
// evaluation error aborts.
func (p *Predicate) Apply(movies []domain.Movie) ([]domain.Movie, error) {
	out := make([]domain.Movie, 0, len(movies))
	for _, m := range movies {
		ok, err := p.Match(m)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, m)
		}
	}
	return out, nil
}
