package cli

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"sync/atomic"

	"github.com/dmitrijs2005/letterpress/internal/client/client"
	"github.com/dmitrijs2005/letterpress/internal/client/config"
	"github.com/dmitrijs2005/letterpress/internal/client/models"
	"github.com/dmitrijs2005/letterpress/internal/client/services"
	"github.com/dmitrijs2005/letterpress/internal/editor"
	"github.com/dmitrijs2005/letterpress/internal/logging"
	"github.com/dmitrijs2005/letterpress/internal/metrics"
	"github.com/dmitrijs2005/letterpress/internal/surface"

	_ "modernc.org/sqlite"
)

type resolver interface {
	Resolve(ctx context.Context, versionID string) (*services.Resolution, error)
}

type saver interface {
	Save(ctx context.Context, in services.SaveInput) (*models.SaveResult, error)
}

type library interface {
	ListCurrent(ctx context.Context) (models.Grouped, error)
	ListVersions(ctx context.Context, projectID string) ([]models.Summary, error)
	Delete(ctx context.Context, versionID string) error
	Duplicate(ctx context.Context, versionID string) (string, error)
	Restore(ctx context.Context, versionID string) error
}

type imager interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type transformer interface {
	TransformText(ctx context.Context, req models.TransformRequest) (string, error)
}

// project is what the editor knows about the open newsletter.
type project struct {
	versionID string
	projectID string
	name      string
	status    models.Status
	source    services.Source
	dirty     bool
}

type App struct {
	config      *config.Config
	log         logging.Logger
	sessions    services.SessionService
	loader      resolver
	saver       saver
	library     library
	images      imager
	transformer transformer
	metrics     metrics.Recorder
	stats       io.WriterTo

	doc     *surface.Document
	tracker editor.Tracker
	tx      editor.Transformation
	project project

	// generation identifies the latest open; results of older ones are dropped.
	generation atomic.Uint64

	userName string
	reader   *bufio.Reader
	out      io.Writer
	db       *sql.DB
}

// NewApp wires the local database, the API client and the services.
func NewApp(ctx context.Context, c *config.Config, log logging.Logger) (*App, error) {
	db, err := client.InitDatabase(ctx, c.CacheDSN)
	if err != nil {
		log.Error(ctx, "error initializing database", "dsn", c.CacheDSN, "error", err)
		return nil, err
	}

	memoryMB := 0
	if c.CacheDriver == config.CacheDriverMemory {
		memoryMB = c.MemoryCacheSizeMB
	}
	repos, err := client.NewRepositories(db, memoryMB)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	m := metrics.New()

	// The API client needs the session token and the session service needs
	// the API client for login; the closure breaks the cycle.
	var sessions services.SessionService
	api := client.NewHTTPClient(c.APIBaseURL, client.TokenFunc(func(ctx context.Context) (string, error) {
		return sessions.Token(ctx)
	}), log, m)
	sessions = services.NewSessionService(api, db, log)

	return &App{
		config:      c,
		log:         log,
		sessions:    sessions,
		loader:      services.NewProjectLoader(api, repos.Cache, sessions, log, m, surface.Sanitize),
		saver:       services.NewSaver(api, repos.Cache, c.SaveTimeout, log, m),
		library:     services.NewLibraryService(api, log),
		images:      services.NewImageService(api, c.S3, log),
		transformer: api,
		metrics:     m,
		stats:       m,
		doc:         surface.New(),
		reader:      bufio.NewReader(os.Stdin),
		out:         os.Stdout,
		db:          db,
	}, nil
}

// Run restores the session, opens the default template and blocks in the
// REPL until the user exits.
func (a *App) Run(ctx context.Context) {
	defer a.close()

	fmt.Fprintln(a.out, "Welcome to letterpress (type 'help' for commands)")
	if sess, err := a.sessions.GetSession(ctx); err == nil {
		a.userName = sess.Email
	} else {
		fmt.Fprintln(a.out, "Not signed in. Use 'login' to sign in.")
	}

	if err := a.Open(ctx, nil); err != nil {
		a.Notify(ctx, err)
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) close() {
	if a.db != nil {
		_ = a.db.Close()
	}
}

func (a *App) isLoggedIn() bool {
	return a.userName != ""
}

func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.project.name != "" {
		s += fmt.Sprintf("%s [%s]", a.project.name, a.project.status)
		if a.project.dirty {
			s += "*"
		}
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format+"\n", args...)
}
