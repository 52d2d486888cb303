package wizard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/shared"
)

// TopicInput is the custom topic text box. It is never part of the draft.
type TopicInput struct {
	Buffer string
}

// TopicsEditor edits the topics slice of a draft snapshot.
type TopicsEditor struct {
	draft    models.Draft
	onChange OnChange
}

// Topics builds the topics step editor.
func Topics(d models.Draft, onChange OnChange) TopicsEditor {
	return TopicsEditor{draft: d, onChange: onChange}
}

// Selected reports whether name is in the draft.
func (e TopicsEditor) Selected(name string) bool {
	return e.draft.HasTopic(name)
}

// Toggle removes name if selected and appends it otherwise.
func (e TopicsEditor) Toggle(name string) {
	if e.Selected(name) {
		e.Remove(name)
		return
	}
	e.onChange(models.TopicsPatch(append(slices.Clone(e.draft.Topics), name)))
}

// Remove drops name from the draft.
func (e TopicsEditor) Remove(name string) {
	if !e.Selected(name) {
		return
	}
	next := slices.DeleteFunc(slices.Clone(e.draft.Topics), func(t string) bool { return t == name })
	e.onChange(models.TopicsPatch(next))
}

// AddCustom adds the trimmed input buffer as a topic and clears the buffer.
//
// Blank input and topics already selected are rejected with [shared.ErrInvalidInput]; the buffer is kept.
func (e TopicsEditor) AddCustom(in *TopicInput) error {
	topic := strings.TrimSpace(in.Buffer)
	if topic == "" {
		return fmt.Errorf("%w: topic is empty", shared.ErrInvalidInput)
	}
	if e.Selected(topic) {
		return fmt.Errorf("%w: %q is already selected", shared.ErrInvalidInput, topic)
	}

	e.onChange(models.TopicsPatch(append(slices.Clone(e.draft.Topics), topic)))
	in.Buffer = ""
	return nil
}

// Custom lists selected topics that are not in [models.PopularTopics], in selection order.
func (e TopicsEditor) Custom() []string {
	var custom []string
	for _, t := range e.draft.Topics {
		if !models.IsPopularTopic(t) {
			custom = append(custom, t)
		}
	}
	return custom
}
