package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"

	"github.com/kobzarvs/sortlines/internal/collation"
	"github.com/kobzarvs/sortlines/internal/config"
	"github.com/kobzarvs/sortlines/internal/document"
	"github.com/kobzarvs/sortlines/internal/gitinfo"
	"github.com/kobzarvs/sortlines/internal/logger"
	"github.com/kobzarvs/sortlines/internal/preview"
	"github.com/kobzarvs/sortlines/internal/selspec"
	"github.com/kobzarvs/sortlines/internal/session"
	"github.com/kobzarvs/sortlines/internal/sortlines"
)

var (
	// ErrCancelled is returned when the preview is dismissed without applying.
	ErrCancelled = errors.New("sort cancelled")
	// ErrNoHistory is returned by Again when the file was never sorted.
	ErrNoHistory = errors.New("no previous sort recorded")
)

// SortOverrides holds sort options given on the command line. Nil fields keep
// the configured value.
type SortOverrides struct {
	Locale           *string
	Descending       *bool
	IgnoreCase       *bool
	IgnoreWidth      *bool
	IgnoreDiacritics *bool
	Numeric          *bool
}

func (o SortOverrides) apply(opts config.SortOptions) config.SortOptions {
	if o.Locale != nil {
		opts.Locale = *o.Locale
	}
	if o.Descending != nil {
		opts.Descending = *o.Descending
	}
	if o.IgnoreCase != nil {
		opts.IgnoreCase = *o.IgnoreCase
	}
	if o.IgnoreWidth != nil {
		opts.IgnoreWidth = *o.IgnoreWidth
	}
	if o.IgnoreDiacritics != nil {
		opts.IgnoreDiacritics = *o.IgnoreDiacritics
	}
	if o.Numeric != nil {
		opts.Numeric = *o.Numeric
	}
	return opts
}

// Options describe one sortlines invocation.
type Options struct {
	// Path is the file to sort; "-" reads standard input and writes standard
	// output.
	Path           string
	Output         string
	Stdout         bool
	Preview        bool
	Specs          []string
	LineRanges     []string
	SelectionsFile string
	// Again replays the last sort of Path: its direction and locale become
	// defaults under Sort, and its selections are used when none are given.
	Again      bool
	ConfigPath string
	LogLevel   string
	LogFile    string
	Sort       SortOverrides
}

// App is the top-level runtime for sortlines.
type App struct {
	opts      Options
	stdin     io.Reader
	stdout    io.Writer
	newScreen func() (tcell.Screen, error)
}

func New(opts Options) *App {
	return &App{
		opts:      opts,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		newScreen: tcell.NewScreen,
	}
}

func (a *App) Run(ctx context.Context) error {
	cfg, err := a.loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logLevel := cfg.Log.Level
	if a.opts.LogLevel != "" {
		logLevel = a.opts.LogLevel
	}
	logFile := cfg.Log.File
	if a.opts.LogFile != "" {
		logFile = a.opts.LogFile
	}
	if err := logger.Init(logFile, logLevel); err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer logger.Close()

	txn := uuid.NewString()
	start := time.Now()
	err = a.sort(ctx, cfg, txn)
	if err != nil {
		logger.Error("sort failed", "txn", txn, "path", a.opts.Path, "error", err)
		return err
	}
	logger.Info("sort finished", "txn", txn, "path", a.opts.Path, "elapsed", time.Since(start))
	return nil
}

func (a *App) loadConfig() (config.Config, error) {
	if a.opts.ConfigPath != "" {
		return config.LoadFile(a.opts.ConfigPath)
	}
	return config.Load()
}

func (a *App) sort(ctx context.Context, cfg config.Config, txn string) error {
	profiles, err := config.LoadProfiles()
	if err != nil {
		return fmt.Errorf("load profiles: %w", err)
	}
	prof := profiles.Match(a.opts.Path)
	if prof != nil {
		logger.Debug("profile matched", "txn", txn, "profile", prof.Name)
	}
	sortOpts := prof.Apply(cfg.Sort)

	var (
		history *session.Manager
		absPath string
	)
	if a.opts.Path != "-" {
		absPath, err = filepath.Abs(a.opts.Path)
		if err != nil {
			return err
		}
		history, err = session.NewManager()
		if err != nil {
			logger.Warn("session unavailable", "txn", txn, "error", err)
		}
	}

	sels, err := a.selections()
	if err != nil {
		return err
	}
	if a.opts.Again {
		state, err := a.previousState(history, absPath)
		if err != nil {
			return err
		}
		sortOpts.Descending = state.Descending
		if state.Locale != "" {
			sortOpts.Locale = state.Locale
		}
		if len(sels) == 0 {
			sels, err = selspec.ParseAll(state.Selections)
			if err != nil {
				return err
			}
		}
	}
	sortOpts = a.opts.Sort.apply(sortOpts)

	coll, err := collation.New(collation.Options{
		Locale:           sortOpts.Locale,
		IgnoreCase:       sortOpts.IgnoreCase,
		IgnoreWidth:      sortOpts.IgnoreWidth,
		IgnoreDiacritics: sortOpts.IgnoreDiacritics,
		Numeric:          sortOpts.Numeric,
	})
	if err != nil {
		return err
	}

	buf, err := a.openDocument()
	if err != nil {
		return err
	}
	defer buf.Close()

	if len(sels) == 0 {
		buf.SelectAll()
	} else {
		buf.SetSelections(sels...)
	}
	used := buf.Selections()
	logger.Debug("sorting", "txn", txn, "selections", len(used), "lines", buf.LineCount(),
		"locale", coll.Tag().String(),
		"descending", sortOpts.Descending, "collation", coll.Options())

	if a.opts.Preview {
		if err := a.confirm(cfg.Preview, buf, coll, sortOpts.Descending); err != nil {
			return err
		}
	}

	tick := buf.ChangeTick()
	if err := sortlines.SortLines(ctx, buf, coll.Compare, sortOpts.Descending); err != nil {
		return err
	}
	logger.Debug("edit applied", "txn", txn, "changed", buf.ChangeTick() != tick)

	if err := a.write(buf, buf.ChangeTick() != tick); err != nil {
		return err
	}
	if history != nil {
		history.SetFileState(absPath, session.FileState{
			Selections: formatAll(used),
			Descending: sortOpts.Descending,
			Locale:     coll.Tag().String(),
			SortedAt:   time.Now(),
		})
		if err := history.Save(); err != nil {
			logger.Warn("save session", "txn", txn, "path", history.Path(), "error", err)
		}
	}
	return nil
}

// previousState returns the last recorded sort of absPath.
func (a *App) previousState(history *session.Manager, absPath string) (session.FileState, error) {
	if history == nil {
		return session.FileState{}, fmt.Errorf("%w for %s", ErrNoHistory, a.opts.Path)
	}
	state, ok := history.GetFileState(absPath)
	if !ok || len(state.Selections) == 0 {
		return session.FileState{}, fmt.Errorf("%w for %s", ErrNoHistory, a.opts.Path)
	}
	return state, nil
}

func formatAll(sels []sortlines.Selection) []string {
	specs := make([]string, len(sels))
	for i, sel := range sels {
		specs[i] = selspec.Format(sel)
	}
	return specs
}

func (a *App) openDocument() (*document.Buffer, error) {
	if a.opts.Path == "-" {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, err
		}
		return document.New(string(data)), nil
	}
	return document.Open(a.opts.Path)
}

func (a *App) selections() ([]sortlines.Selection, error) {
	var sels []sortlines.Selection
	if a.opts.SelectionsFile != "" {
		fromFile, err := selspec.Load(a.opts.SelectionsFile)
		if err != nil {
			return nil, err
		}
		sels = append(sels, fromFile...)
	}
	fromSpecs, err := selspec.ParseAll(a.opts.Specs)
	if err != nil {
		return nil, err
	}
	sels = append(sels, fromSpecs...)
	for _, r := range a.opts.LineRanges {
		sel, err := selspec.ParseLines(r)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

func (a *App) confirm(opts config.PreviewOptions, buf *document.Buffer, coll *collation.Collator, descending bool) error {
	lines := buf.Lines()
	blocks, err := sortlines.Plan(lines, buf.Selections(), coll.Compare, descending)
	if err != nil {
		return err
	}

	s, err := a.newScreen()
	if err != nil {
		return err
	}
	if err := s.Init(); err != nil {
		return err
	}
	defer s.Fini()

	title := "stdin"
	if a.opts.Path != "-" {
		title = gitinfo.Describe(a.opts.Path)
	}
	if preview.Run(s, preview.New(opts, title, lines, blocks)) != preview.Accept {
		return ErrCancelled
	}
	return nil
}

func (a *App) write(buf *document.Buffer, changed bool) error {
	switch {
	case a.opts.Stdout || a.opts.Path == "-":
		_, err := io.WriteString(a.stdout, buf.Content())
		return err
	case a.opts.Output != "":
		return buf.Save(a.opts.Output)
	case changed:
		return buf.Save("")
	default:
		return nil
	}
}
