// Command starosta is the terminal client of the StarostaHub group service.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.uber.org/zap"

	"github.com/and161185/starostahub/internal/app"
	"github.com/and161185/starostahub/internal/config"
	"github.com/and161185/starostahub/internal/errs"
	"github.com/and161185/starostahub/internal/i18n"
	"github.com/and161185/starostahub/internal/logging"
)

var (
	version   = "dev"
	buildDate = "unknown"
)

func usage(w io.Writer) {
	fmt.Fprintf(w, `starosta CLI
Usage:
  starosta [-config file] [-api URL] [-locale uk|en] [-log-level L] [-state dir] <cmd> [args]

Commands:
  version
  login         -email <email> -password <password>
  register      -email <email> -password <password> -first <name> -last <name>
  logout
  status
  open          <route>                          (/, /profile, /group/ID, /events/ID, ...)
  profile-edit  [-username u] [-first name] [-last name]
  add-students  -group <id> [-ids 1,2,...]        (no -ids lists the available students)
  event-add     -group <id> -name <n> -date <d> [-time hh:mm] [-url u] [-recurring -until <d>] [-inactive]
  event-edit    -group <id> -id <id> [same flags as event-add]
  event-rm      -group <id> -id <id> [-yes]
  ics           -group <id> [-out file]
`)
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run dispatches one command and returns the process exit code.
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	gfs := flag.NewFlagSet("starosta", flag.ContinueOnError)
	gfs.SetOutput(stderr)
	cfgPath := gfs.String("config", "", "config file (default $XDG_CONFIG_HOME/starostahub/config.yaml)")
	apiURL := gfs.String("api", "", "remote service base URL")
	locale := gfs.String("locale", "", "interface language: uk or en")
	logLevel := gfs.String("log-level", "", "debug, info, warn or error")
	stateDir := gfs.String("state", "", "session directory")
	gfs.Usage = func() { usage(stderr) }
	if err := gfs.Parse(args); err != nil {
		return 2
	}
	if gfs.NArg() < 1 {
		usage(stderr)
		return 2
	}
	cmd, rest := gfs.Arg(0), gfs.Args()[1:]

	if cmd == "version" {
		fmt.Fprintf(stdout, "starosta %s (%s)\n", version, buildDate)
		return 0
	}

	path := *cfgPath
	if path == "" {
		path = config.DefaultPath()
	}
	if err := config.LoadDotEnv(".env", filepath.Join(filepath.Dir(path), ".env")); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg, err := config.Load(path)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	cfg.ApplyEnv(os.Getenv)
	if *apiURL != "" {
		cfg.APIURL = *apiURL
	}
	if *locale != "" {
		cfg.Locale = *locale
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	if *stateDir != "" {
		cfg.StateDir = *stateDir
	}
	cfg.Normalize()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDev)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	defer func() { _ = logger.Sync() }()
	logger.Debug("starting",
		zap.String("version", version),
		zap.String("buildDate", buildDate),
		zap.String("cmd", cmd),
	)

	a, err := app.New(cfg, cfg.SessionDir(path), logger)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c := &cli{app: a, cat: a.Catalog, in: bufio.NewReader(stdin), out: stdout, errw: stderr}
	switch cmd {
	case "login":
		return c.cmdLogin(ctx, rest)
	case "register":
		return c.cmdRegister(ctx, rest)
	case "logout":
		return c.cmdLogout()
	case "status":
		return c.cmdStatus()
	case "open":
		return c.cmdOpen(ctx, rest)
	case "profile-edit":
		return c.cmdProfileEdit(ctx, rest)
	case "add-students":
		return c.cmdAddStudents(ctx, rest)
	case "event-add":
		return c.cmdEventSave(ctx, "event-add", rest)
	case "event-edit":
		return c.cmdEventSave(ctx, "event-edit", rest)
	case "event-rm":
		return c.cmdEventRemove(ctx, rest)
	case "ics":
		return c.cmdICS(ctx, rest)
	default:
		usage(stderr)
		return 2
	}
}

// cli carries what every command needs.
type cli struct {
	app  *app.App
	cat  *i18n.Catalog
	in   *bufio.Reader
	out  io.Writer
	errw io.Writer
}

// fail prints the user-facing text of err and returns the failure exit code.
func (c *cli) fail(err error) int {
	msg := errs.Message(err)
	if errors.Is(err, errs.ErrForbidden) {
		msg = c.cat.T(i18n.Forbidden)
	}
	fmt.Fprintln(c.errw, msg)
	return 1
}

// need reports missing required flags.
func (c *cli) need(what string) int {
	fmt.Fprintln(c.errw, "need "+what)
	return 1
}
