package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/podx/internal/models"
)

var (
	_ list.Item = episodeItem{}
)

// episodeItem wraps [models.Episode] to implement [list.Item].
type episodeItem struct {
	episode models.Episode
}

func (i episodeItem) FilterValue() string { return i.episode.Name + " " + i.episode.ShowName }
func (i episodeItem) Title() string       { return i.episode.Name }
func (i episodeItem) Description() string {
	parts := []string{i.episode.ShowName}
	if i.episode.Duration != "" {
		parts = append(parts, i.episode.Duration)
	}
	if i.episode.RelevanceScore > 0 {
		parts = append(parts, fmt.Sprintf("%.0f%% match", i.episode.RelevanceScore*100))
	}
	return strings.Join(parts, " • ")
}

func episodeItems(episodes []models.Episode) []list.Item {
	items := make([]list.Item, len(episodes))
	for i, e := range episodes {
		items[i] = episodeItem{episode: e}
	}
	return items
}
