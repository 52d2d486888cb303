package wizard

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/desertthunder/podx/internal/models"
)

// SearchDebounce is how long the search box waits after the last keystroke before searching.
const SearchDebounce = 500 * time.Millisecond

// SearchFailedMessage is shown when a show search fails.
const SearchFailedMessage = "Failed to search shows. Please try again."

// ShowSearcher finds shows for a query.
type ShowSearcher interface {
	SearchShows(ctx context.Context, query string) ([]models.Show, error)
}

// ShowsEditor edits the shows slice of a draft snapshot.
type ShowsEditor struct {
	draft    models.Draft
	onChange OnChange
}

// Shows builds the shows step editor.
func Shows(d models.Draft, onChange OnChange) ShowsEditor {
	return ShowsEditor{draft: d, onChange: onChange}
}

// Selected reports whether a show with id is in the draft.
func (e ShowsEditor) Selected(id string) bool {
	return e.draft.HasShow(id)
}

// Add appends show unless its id is already selected.
func (e ShowsEditor) Add(show models.Show) {
	if show.ID == "" || e.Selected(show.ID) {
		return
	}
	e.onChange(models.ShowsPatch(append(slices.Clone(e.draft.Shows), show)))
}

// Remove drops the show with id.
func (e ShowsEditor) Remove(id string) {
	if !e.Selected(id) {
		return
	}
	next := slices.DeleteFunc(slices.Clone(e.draft.Shows), func(s models.Show) bool { return s.ID == id })
	e.onChange(models.ShowsPatch(next))
}

// Toggle adds show if absent and removes it otherwise.
func (e ShowsEditor) Toggle(show models.Show) {
	if e.Selected(show.ID) {
		e.Remove(show.ID)
		return
	}
	e.Add(show)
}

// ShowSearch is the search box state for the shows step. It is never part of the draft.
//
// Every query change bumps a generation number; results for an older generation are dropped.
type ShowSearch struct {
	Query     string
	Results   []models.Show
	Err       string
	Searching bool
	gen       int
}

// SetQuery records a new query and returns its generation.
//
// A blank query clears results and reports false: no search should run.
func (s *ShowSearch) SetQuery(q string) (gen int, search bool) {
	s.gen++
	s.Query = q
	s.Err = ""
	if strings.TrimSpace(q) == "" {
		s.Results = nil
		s.Searching = false
		return s.gen, false
	}
	return s.gen, true
}

// Begin marks generation gen as searching. It reports false when gen is stale.
func (s *ShowSearch) Begin(gen int) bool {
	if gen != s.gen {
		return false
	}
	s.Searching = true
	return true
}

// Resolve applies results for generation gen. Stale generations are ignored and reported false.
func (s *ShowSearch) Resolve(gen int, results []models.Show, err error) bool {
	if gen != s.gen {
		return false
	}
	s.Searching = false
	if err != nil {
		s.Results = nil
		s.Err = SearchFailedMessage
		return true
	}
	s.Results = results
	s.Err = ""
	return true
}

// Generation returns the current query generation.
func (s *ShowSearch) Generation() int { return s.gen }

// Search runs a search for q synchronously.
func (s *ShowSearch) Search(ctx context.Context, searcher ShowSearcher, q string) error {
	gen, ok := s.SetQuery(q)
	if !ok {
		return nil
	}
	s.Begin(gen)
	results, err := searcher.SearchShows(ctx, q)
	s.Resolve(gen, results, err)
	return err
}
