// Define an interface for all listing sources
// Candidates are vended raw; the pipeline does the cleaning

package scraper

import (
	"context"

	"go-lancers-notifier/internal/models"
)

// Source fetches raw candidates from one listing site.
type Source interface {
	// Fetch loads the listing page and returns candidates in page order
	Fetch(ctx context.Context) ([]models.Candidate, error)

	// Name is the site name (Lancers, ...)
	Name() string
}

// StaticSource serves a fixed candidate list; used by the preview endpoint and tests.
type StaticSource struct {
	SourceName string
	Candidates []models.Candidate
}

func (s StaticSource) Fetch(ctx context.Context) ([]models.Candidate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.Candidates, nil
}

func (s StaticSource) Name() string {
	if s.SourceName == "" {
		return "static"
	}
	return s.SourceName
}
