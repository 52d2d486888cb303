package services

import (
	"context"
	"strings"

	"github.com/desertthunder/podx/internal/models"
	"github.com/sahilm/fuzzy"
)

// FeaturedCatalog searches a fixed list of shows with fuzzy matching on name and description.
type FeaturedCatalog struct {
	shows []models.Show
}

// NewFeaturedCatalog searches shows, or [models.FeaturedShows] when shows is empty.
func NewFeaturedCatalog(shows []models.Show) *FeaturedCatalog {
	if len(shows) == 0 {
		shows = models.FeaturedShows
	}
	return &FeaturedCatalog{shows: shows}
}

type showSource []models.Show

func (s showSource) String(i int) string { return s[i].Name + " " + s[i].Description }
func (s showSource) Len() int            { return len(s) }

// SearchShows returns matches best first. Blank queries return no results.
func (c *FeaturedCatalog) SearchShows(ctx context.Context, query string) ([]models.Show, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	query = strings.TrimSpace(query)
	if query == "" {
		return []models.Show{}, nil
	}

	matches := fuzzy.FindFrom(query, showSource(c.shows))
	shows := make([]models.Show, 0, len(matches))
	for _, m := range matches {
		shows = append(shows, c.shows[m.Index])
	}
	return shows, nil
}
