package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/quotewizard/internal/backend/archive"
	"github.com/dmitrijs2005/quotewizard/internal/backend/repositories/repomanager"
	"github.com/dmitrijs2005/quotewizard/internal/backend/services"
	"github.com/dmitrijs2005/quotewizard/internal/client/config"
	"github.com/dmitrijs2005/quotewizard/internal/client/draft"
	"github.com/dmitrijs2005/quotewizard/internal/client/models"
	"github.com/dmitrijs2005/quotewizard/internal/client/storage"
	"github.com/dmitrijs2005/quotewizard/internal/client/wizard"
	"github.com/dmitrijs2005/quotewizard/internal/logging"
	"github.com/dmitrijs2005/quotewizard/internal/quote"
)

// backend is what the CLI needs from the quote backend.
type backend interface {
	wizard.Submitter
	Load(ctx context.Context, id string) (quote.WizardState, error)
}

// draftLister lists stored drafts for the 'drafts' command.
type draftLister interface {
	List(ctx context.Context, entityType string) []draft.Preview
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	session *wizard.Session
	drafts  draftLister
	backend backend
	reader  *bufio.Reader
	out     io.Writer
	// prompts go here; io.Discard when stdin is not a terminal.
	promptOut io.Writer

	closers []io.Closer
}

// NewApp opens the draft database, connects the backend when one is
// configured and starts a wizard session. A backend that cannot be reached
// is logged and replaced by one that refuses submits, so drafts keep working.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logOut, closeLog, err := openLogOutput(c.LogFile)
	if err != nil {
		return nil, err
	}
	logger := logging.NewTextLogger(logOut, c.LogLevel).With("app", "quotewizard")

	a := &App{
		config: c,
		logger: logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}
	if closeLog != nil {
		a.closers = append(a.closers, closeLog)
	}
	a.promptOut = a.out
	if !isTerminal(int(os.Stdin.Fd())) {
		a.promptOut = io.Discard
	}

	repos, err := storage.InitDatabase(ctx, c.DraftDatabasePath)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("error initializing draft database: %w", err)
	}
	a.closers = append(a.closers, repos)

	store := draft.NewStore(repos.Drafts, logger, draft.WithMaxAge(c.DraftMaxAge))
	_, _ = store.PurgeExpired(ctx, models.EntityTypeQuote)
	a.drafts = store

	a.backend = a.connectBackend(ctx)

	var opts []wizard.Option
	if c.EditQuoteID != "" {
		state, err := a.backend.Load(ctx, c.EditQuoteID)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("error loading quote %s: %w", c.EditQuoteID, err)
		}
		opts = append(opts, wizard.FromExisting(state))
	}

	a.session = wizard.Open(ctx, store, c.AutosaveInterval, logger, opts...)
	return a, nil
}

func (a *App) connectBackend(ctx context.Context) backend {
	if a.config.DatabaseDSN == "" {
		a.logger.Info(ctx, "no quote database configured, submit is disabled")
		return services.Unavailable{}
	}

	rm := repomanager.NewPostgresRepositoryManager()
	db, err := repomanager.OpenPostgres(ctx, a.config.DatabaseDSN, rm)
	if err != nil {
		a.logger.Warn(ctx, "quote database unavailable, submit is disabled", "err", err)
		return services.Unavailable{}
	}
	a.closers = append(a.closers, closerFunc(db.Close))

	var arch services.Archiver
	if a.config.ArchiveEnabled() {
		s3a, err := archive.NewS3ArchiverFromOptions(ctx, archive.Options{
			Bucket:       a.config.S3Bucket,
			Region:       a.config.S3Region,
			BaseEndpoint: a.config.S3BaseEndpoint,
			AccessKey:    a.config.S3AccessKey,
			SecretKey:    a.config.S3SecretKey,
		})
		if err != nil {
			a.logger.Warn(ctx, "quote archive disabled", "err", err)
		} else {
			arch = s3a
		}
	}
	return services.NewSubmissionService(db, rm, arch, a.logger)
}

func (a *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run shows the recovery banner if needed and runs the REPL until the user
// exits or a signal arrives. The autosave timer is stopped on the way out
// without a final save.
func (a *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer a.Close()

	a.initSignalHandler(cancelFunc)

	fmt.Fprintln(a.out, "Quote wizard (type 'help' for commands)")
	a.showRecoveryBanner()
	_ = a.Status(ctx)

	done := make(chan struct{})
	go func() {
		defer close(done)
		runREPL(ctx, a, a.getStatus, a.reader)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		fmt.Fprintln(a.out, "\nInterrupted.")
	}
}

// Close stops the session and releases every resource NewApp opened.
func (a *App) Close() {
	if a.session != nil {
		a.session.Close()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
	a.closers = nil
}

func openLogOutput(path string) (io.Writer, io.Closer, error) {
	if path == "" {
		return os.Stderr, nil, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return f, f, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }
