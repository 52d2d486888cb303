package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/podx/internal/models"
	"github.com/desertthunder/podx/internal/repositories"
	"github.com/desertthunder/podx/internal/services"
	"github.com/desertthunder/podx/internal/session"
	"github.com/desertthunder/podx/internal/shared"
	"github.com/desertthunder/podx/internal/wizard"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
//
// Backend-facing dependencies are built lazily by [Runner.connect] so that commands like setup
// never touch the network or the token database.
type Runner struct {
	config       *shared.Config
	configPath   string
	configLoaded bool
	httpClient   *http.Client
	logger       *log.Logger
	output       io.Writer

	db       *sql.DB
	client   *services.Client
	session  *session.Store
	searcher wizard.ShowSearcher
	flow     *loginFlow
}

// RunnerOpts contains configuration options for creating a Runner.
//
// A non-nil Config is used as-is and the --config flag is ignored.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	HTTPClient *http.Client
	Searcher   wizard.ShowSearcher
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	loaded := opts.Config != nil
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	return &Runner{
		config:       opts.Config,
		configPath:   opts.ConfigPath,
		configLoaded: loaded,
		httpClient:   opts.HTTPClient,
		searcher:     opts.Searcher,
		logger:       opts.Logger,
		output:       opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, preferencesCommand, statusCommand, episodesCommand, showsCommand, routeCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Before loads the config file named by --config and applies the log level.
func (r *Runner) Before(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	if !r.configLoaded {
		path := cmd.String("config")
		config, err := shared.LoadConfigOrDefault(path)
		if err != nil {
			return ctx, err
		}
		r.config, r.configPath, r.configLoaded = config, path, true
	}

	if url := cmd.String("api-url"); url != "" {
		r.config.API.BaseURL = url
	}

	level := shared.ParseLogLevel(r.config.Log.Level)
	if cmd.Bool("verbose") {
		level = log.DebugLevel
	}
	shared.SetLogLevel(r.logger, level)
	return ctx, nil
}

// After releases whatever [Runner.connect] opened.
func (r *Runner) After(ctx context.Context, cmd *cli.Command) error {
	return r.Close()
}

// SetLogger replaces the logger used by the runner and any already connected services.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
}

// connect opens the token database and wires the backend client and session store.
//
// It is idempotent; the session is initialized before returning.
func (r *Runner) connect(ctx context.Context) error {
	if r.session != nil {
		return nil
	}

	db, err := shared.OpenDatabase(ctx, r.config.Database)
	if err != nil {
		return err
	}

	httpClient := r.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: r.config.API.Timeout()}
	}

	client := services.NewClient(r.config.API.BaseURL, httpClient, shared.WithLogger(r.logger, "component", "api"))
	tokens := repositories.NewTokenStore(repositories.NewKVRepository(db))
	store := session.New(tokens, client,
		session.WithLogger(shared.WithLogger(r.logger, "component", "session")),
		session.WithUserCacheTTL(r.config.Session.UserCacheTTL()),
	)
	client.UseTokens(store)

	if err := store.Init(ctx); err != nil {
		db.Close()
		return err
	}

	r.db, r.client, r.session = db, client, store
	r.flow = newLoginFlow(store, r.config.Server, r.logger)

	if r.searcher == nil {
		r.searcher = r.showSearcher(ctx)
	}
	return nil
}

// showSearcher picks the live Spotify catalog when credentials are configured.
func (r *Runner) showSearcher(ctx context.Context) wizard.ShowSearcher {
	spotify := r.config.Credentials.Spotify
	if !spotify.Configured() {
		r.logger.Debug("spotify credentials not configured, searching featured shows")
		return services.NewFeaturedCatalog(models.FeaturedShows)
	}

	catalog, err := services.NewSpotifyCatalog(ctx, spotify)
	if err != nil {
		r.logger.Warn("spotify catalog unavailable, searching featured shows", "error", err)
		return services.NewFeaturedCatalog(models.FeaturedShows)
	}
	return catalog
}

// requireUser resolves the signed-in user or fails with [shared.ErrNotAuthenticated].
func (r *Runner) requireUser(ctx context.Context) (*models.User, error) {
	if err := r.connect(ctx); err != nil {
		return nil, err
	}

	state := r.session.CheckAuthStatus(ctx)
	if state.Kind != session.Authenticated || state.User == nil {
		return nil, fmt.Errorf("%w: run 'podx auth login' first", shared.ErrNotAuthenticated)
	}
	return state.User, nil
}

// Close shuts down the login listener, session and database.
func (r *Runner) Close() error {
	if r.flow != nil {
		r.flow.Close()
	}
	if r.session != nil {
		r.session.Close()
	}
	if r.db != nil {
		if err := r.db.Close(); err != nil {
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	r.flow, r.session, r.client, r.db = nil, nil, nil, nil
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

func (r *Runner) writeBytes(b []byte) error {
	if _, err := r.output.Write(b); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
