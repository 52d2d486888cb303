package models

import "slices"

// Topic is an entry in the popular topic grid.
type Topic struct {
	ID    string
	Name  string
	Emoji string
}

// PopularTopics are offered on the topics step. Any selected topic not in this list is a custom topic.
var PopularTopics = []Topic{
	{ID: "technology", Name: "Technology", Emoji: "💻"},
	{ID: "business", Name: "Business", Emoji: "💼"},
	{ID: "science", Name: "Science", Emoji: "🔬"},
	{ID: "health", Name: "Health & Wellness", Emoji: "🏃"},
	{ID: "politics", Name: "Politics", Emoji: "🏛️"},
	{ID: "comedy", Name: "Comedy", Emoji: "😄"},
	{ID: "true-crime", Name: "True Crime", Emoji: "🔍"},
	{ID: "history", Name: "History", Emoji: "📚"},
	{ID: "sports", Name: "Sports", Emoji: "⚽"},
	{ID: "education", Name: "Education", Emoji: "🎓"},
	{ID: "startups", Name: "Startups", Emoji: "🚀"},
	{ID: "ai-ml", Name: "AI & Machine Learning", Emoji: "🤖"},
	{ID: "design", Name: "Design", Emoji: "🎨"},
	{ID: "marketing", Name: "Marketing", Emoji: "📈"},
	{ID: "finance", Name: "Finance & Investing", Emoji: "💰"},
	{ID: "psychology", Name: "Psychology", Emoji: "🧠"},
	{ID: "productivity", Name: "Productivity", Emoji: "⚡"},
	{ID: "travel", Name: "Travel", Emoji: "✈️"},
}

// IsPopularTopic reports whether name matches a [PopularTopics] entry.
func IsPopularTopic(name string) bool {
	return slices.ContainsFunc(PopularTopics, func(t Topic) bool { return t.Name == name })
}

const placeholderImage = "https://via.placeholder.com/64x64"

// FeaturedShows are offered on the shows step when no search is active.
var FeaturedShows = []Show{
	{ID: "joe-rogan", Name: "The Joe Rogan Experience", Description: "Long-form conversations", ImageURL: placeholderImage},
	{ID: "tim-ferriss", Name: "The Tim Ferriss Show", Description: "World-class performers", ImageURL: placeholderImage},
	{ID: "lex-fridman", Name: "Lex Fridman Podcast", Description: "AI, science, technology", ImageURL: placeholderImage},
	{ID: "huberman", Name: "Huberman Lab", Description: "Neuroscience & health", ImageURL: placeholderImage},
	{ID: "pivot", Name: "Pivot", Description: "Tech, business, politics", ImageURL: placeholderImage},
	{ID: "startup", Name: "StartUp Podcast", Description: "Business & entrepreneurship", ImageURL: placeholderImage},
}

// DurationPreset is a named duration range.
type DurationPreset struct {
	Name        string
	Icon        string
	Description string
	Range       Duration
}

// DurationPresets are the quick picks on the duration step.
var DurationPresets = []DurationPreset{
	{Name: "Quick Listens", Icon: "⚡", Description: "Perfect for commutes", Range: Duration{Min: 5, Max: 20}},
	{Name: "Standard Episodes", Icon: "🎧", Description: "Most popular length", Range: Duration{Min: 20, Max: 60}},
	{Name: "Deep Dives", Icon: "🔍", Description: "Long-form content", Range: Duration{Min: 60, Max: 180}},
	{Name: "Any Length", Icon: "🌍", Description: "No restrictions", Range: Duration{Min: 5, Max: 300}},
}

// Slider is an inclusive bounded integer input with a fixed step.
type Slider struct {
	Lo, Hi, Step int
}

// Clamp snaps v into [Lo, Hi].
func (s Slider) Clamp(v int) int {
	return max(s.Lo, min(s.Hi, v))
}

// Bounds of the custom range sliders on the duration step.
var (
	MinDurationSlider = Slider{Lo: 5, Hi: 180, Step: 5}
	MaxDurationSlider = Slider{Lo: 10, Hi: 300, Step: 10}
)

// Notification describes one email digest option.
type Notification struct {
	Kind        NotificationKind
	Name        string
	Description string
	Frequency   string
}

// Notifications are the digests offered once email is enabled.
var Notifications = []Notification{
	{Kind: NotifyDaily, Name: "Daily Summaries", Description: "Get a digest of new episodes found each day", Frequency: "Daily at 8:00 AM"},
	{Kind: NotifyWeekly, Name: "Weekly Digest", Description: "Weekly roundup of all episodes and listening stats", Frequency: "Sundays at 9:00 AM"},
	{Kind: NotifyInstant, Name: "Instant Alerts", Description: "Get notified immediately when great episodes are found", Frequency: "As they happen"},
}
