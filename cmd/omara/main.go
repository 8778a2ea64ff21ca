package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/erazemk/omara/internal/config"
	"github.com/erazemk/omara/internal/db"
	"github.com/erazemk/omara/internal/storage"
)

// levelRouter is a slog.Handler that routes INFO/WARN to stdout and ERROR+ to stderr.
type levelRouter struct {
	level  slog.Leveler
	stdout slog.Handler
	stderr slog.Handler
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.level.Level()
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.stderr.Handle(ctx, r)
	}
	return lr.stdout.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithAttrs(attrs),
		stderr: lr.stderr.WithAttrs(attrs),
	}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{
		level:  lr.level,
		stdout: lr.stdout.WithGroup(name),
		stderr: lr.stderr.WithGroup(name),
	}
}

// setupLogger configures structured logging. Below-ERROR records go to
// stdout, ERROR goes to stderr. If logPath is non-empty, all levels are also
// written to that file. Returns a cleanup function that closes the log file
// (if opened).
func setupLogger(logPath string, level slog.Level) (func(), error) {
	opts := &slog.HandlerOptions{Level: level}

	cleanup := func() {}

	stdoutW := io.Writer(os.Stdout)
	stderrW := io.Writer(os.Stderr)

	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdoutW = io.MultiWriter(os.Stdout, f)
		stderrW = io.MultiWriter(os.Stderr, f)
	}

	handler := &levelRouter{
		level:  level,
		stdout: slog.NewTextHandler(stdoutW, opts),
		stderr: slog.NewTextHandler(stderrW, opts),
	}
	slog.SetDefault(slog.New(handler))
	return cleanup, nil
}

const usage = `Usage: omara [flags] <command> [command flags] [args]

Flags:
  -d, -db <path>          SQLite database path (default: omara.sqlite3)
  -l, -log <path>         log file path (default: no file, stdout/stderr only)
  -h, -help               show this help and exit

Settings may also come from OMARA_DB, OMARA_LOG and OMARA_LOG_LEVEL, a .env
file, or omara.yaml in the working directory.

Data:
  init                    load the wardrobe, seeding it on first run
  reset                   replace everything with the sample wardrobe
  export [-o file]        write a JSON backup (default: stdout)
  import <file>           restore a JSON backup
  clear                   delete all stored data
  stats                   show wardrobe and storage statistics

Items:
  items [-q text] [-category c] [-season s] [-fav]
  add-item -category c -name n [-brand -color -season -size -price -rating
           -tags a,b -purchased yyyy-mm-dd -image url -notes]
  edit-item -category c -id id [same flags as add-item; -category-to moves]
  rm-item -category c -id id
  fav -category c -id id  toggle favorite
  wear -category c -id id record a wear

Categories:
  categories
  add-category [-image url] <name>
  rm-category <name>      also deletes the category's items

Outfits:
  outfits
  add-outfit -name n -items id,id [-occasion o] [-rating r]
  wear-outfit <id>
  rm-outfit <id>

Images:
  upload <file>
  images
  rm-image <filename>

Session:
  login -email e [-password p]
  register -email e [-username u] [-password p]
  logout
  whoami [-token t]
`

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fs := flag.NewFlagSet("omara", flag.ContinueOnError)

	var dbPath string
	fs.StringVar(&dbPath, "db", cfg.DBPath, "")
	fs.StringVar(&dbPath, "d", cfg.DBPath, "")

	var logPath string
	fs.StringVar(&logPath, "log", cfg.LogPath, "")
	fs.StringVar(&logPath, "l", cfg.LogPath, "")

	fs.Usage = func() {
		fmt.Fprint(os.Stdout, usage)
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if fs.NArg() == 0 {
		fs.Usage()
		os.Exit(1)
	}

	closeLog, err := setupLogger(logPath, cfg.Level())
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer closeLog()

	var database *sql.DB
	lazy := &storage.Lazy{
		Log: slog.Default(),
		Open: func() (storage.Backend, error) {
			d, err := db.Open(dbPath)
			if err != nil {
				return nil, err
			}
			if err := db.Migrate(d); err != nil {
				d.Close()
				return nil, fmt.Errorf("migrating database: %w", err)
			}
			database = d
			slog.Debug("database ready", "path", dbPath)
			return storage.NewSQLite(d), nil
		},
	}
	defer func() {
		if database != nil {
			database.Close()
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	kv, err := lazy.Adapter()
	if err != nil {
		slog.Error("failed to open storage", "error", err)
		os.Exit(1)
	}

	a := newApp(kv, os.Stdout)
	if err := a.run(ctx, fs.Args()); err != nil {
		if errors.Is(err, errUsage) {
			fs.Usage()
		} else {
			fmt.Fprintln(os.Stderr, styleError.Render("error: "+err.Error()))
		}
		stop()
		closeLog()
		if database != nil {
			database.Close()
		}
		os.Exit(1)
	}
}
