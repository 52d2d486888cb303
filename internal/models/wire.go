package models

// User is the identity returned by the auth endpoints.
type User struct {
	ID             string `json:"id"`
	DisplayName    string `json:"displayName"`
	Email          string `json:"email"`
	HasPreferences bool   `json:"hasPreferences"`
}

// AuthURLResponse is the body of GET /api/auth/spotify/url.
type AuthURLResponse struct {
	AuthURL string `json:"authUrl"`
}

// CallbackRequest is the body of POST /api/auth/spotify/callback.
type CallbackRequest struct {
	Code  string `json:"code"`
	State string `json:"state"`
}

// AuthSession is the body returned by a successful code exchange.
type AuthSession struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// MeResponse is the body of GET /api/auth/me.
type MeResponse struct {
	User *User `json:"user"`
}

// PreferencesRecord is the flat preference shape the backend stores.
type PreferencesRecord struct {
	Topics       []string `json:"topics"`
	Shows        []Show   `json:"shows"`
	MinDuration  int      `json:"minDuration"`
	MaxDuration  int      `json:"maxDuration"`
	EmailEnabled bool     `json:"emailEnabled"`
	EmailAddress string   `json:"emailAddress"`
}

// SavePreferencesRequest is the body of POST /api/web/preferences.
type SavePreferencesRequest struct {
	UserID      string            `json:"userId"`
	Preferences PreferencesRecord `json:"preferences"`
}

// ToRecord flattens the draft into its wire shape. Slices are copied and never nil.
func (d Draft) ToRecord() PreferencesRecord {
	c := d.Clone()
	return PreferencesRecord{
		Topics:       c.Topics,
		Shows:        c.Shows,
		MinDuration:  c.Duration.Min,
		MaxDuration:  c.Duration.Max,
		EmailEnabled: c.Email.Enabled,
		EmailAddress: c.Email.Address,
	}
}

// ToDraft rebuilds an editable draft from a stored record. Digest kinds are not stored and start off.
func (r PreferencesRecord) ToDraft() Draft {
	return Draft{
		Topics:   cloneTopics(r.Topics),
		Shows:    cloneShows(r.Shows),
		Duration: Duration{Min: r.MinDuration, Max: r.MaxDuration},
		Email:    EmailSettings{Enabled: r.EmailEnabled, Address: r.EmailAddress},
	}
}

// Status is the body of GET /api/web/status.
type Status struct {
	LastRun          string             `json:"lastRun"`
	EpisodesThisWeek int                `json:"episodesThisWeek"`
	QueueDuration    string             `json:"queueDuration"`
	Preferences      *PreferencesRecord `json:"preferences"`
}

// Episode is one curated episode from GET /api/web/recent-episodes.
type Episode struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	ShowName       string  `json:"showName"`
	Image          string  `json:"image"`
	Duration       string  `json:"duration"`
	RelevanceScore float64 `json:"relevanceScore"`
	AddedAt        string  `json:"addedAt"`
	SpotifyURL     string  `json:"spotifyUrl"`
}

// EpisodesResponse is the body of GET /api/web/recent-episodes.
type EpisodesResponse struct {
	Episodes []Episode `json:"episodes"`
}
