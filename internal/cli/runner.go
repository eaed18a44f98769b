package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/Makepad-fr/catalog/internal/api"
	"github.com/Makepad-fr/catalog/internal/catalog"
	"github.com/Makepad-fr/catalog/internal/config"
	"github.com/Makepad-fr/catalog/internal/debounce"
	"github.com/Makepad-fr/catalog/internal/logging"
	"github.com/Makepad-fr/catalog/internal/model"
	"github.com/Makepad-fr/catalog/internal/query"
	"github.com/Makepad-fr/catalog/internal/store/jsonstore"
	"github.com/Makepad-fr/catalog/internal/tui"
	"github.com/Makepad-fr/catalog/internal/ui"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// showConcurrency caps parallel detail requests for `show`.
const showConcurrency = 4

// Options tune behavior from root flags.
type Options struct {
	ConfigPath string // -config; empty means CATALOG_CONFIG or ./catalog.yaml
	Theme      string // -theme; overrides ui.theme from the config
}

// env is what every subcommand needs once config and logging are up.
type env struct {
	cfg    *config.Config
	log    zerolog.Logger
	store  *jsonstore.Store
	client *api.Client
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(args []string, opt Options) int {
	if len(args) == 0 {
		PrintHelp()
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp()
		return 0
	case "browse", "ls", "show", "page":
	default:
		ui.Fail("unknown subcommand: " + cmd)
		fmt.Fprintln(os.Stderr)
		PrintHelp()
		return 2
	}

	e, closeLog, code := setup(opt, cmd == "browse")
	if code != 0 {
		return code
	}
	defer closeLog()

	ctx := context.Background()
	e.log.Debug().Str("cmd", cmd).Strs("args", a).Msg("run")

	switch cmd {
	case "browse":
		if len(a) != 0 {
			ui.Fail("usage: catalog browse")
			return 2
		}
		return doBrowse(ctx, e)

	case "ls":
		return doList(ctx, e, a)

	case "show":
		if len(a) == 0 {
			ui.Fail("usage: catalog show <id> [id...]")
			return 2
		}
		ids := make([]int, 0, len(a))
		for _, s := range a {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				ui.Fail("show: not an item id: " + s)
				return 2
			}
			ids = append(ids, n)
		}
		return doShow(ctx, e, ids)

	default: // page
		switch {
		case len(a) == 0:
			return doPage(e)
		case len(a) == 1 && a[0] == "reset":
			return doPageReset(e)
		}
		ui.Fail("usage: catalog page [reset]")
		return 2
	}
}

func PrintHelp() {
	fmt.Printf(`catalog - browse the product catalog from a terminal

Usage:
  catalog [-config path] [-theme classic|neon|mono] <subcommand> [args]

Subcommands:
  browse                       Interactive browser (filters, cards, details)
  ls [flags]                   Print one catalog page
       -startswith s  -endswith s  -contains s  -article s  -page n
  show <id> [id...]            Print item details
  page [reset]                 Print or reset the remembered page

Examples:
  catalog browse
  catalog ls -contains bolt
  catalog ls -page 3
  catalog show 42 43
  catalog page reset
`)
}

// setup loads config, applies the theme and builds the logger, store and
// client. The returned func closes the log file.
func setup(opt Options, interactive bool) (*env, func(), int) {
	cfg, err := config.Load(opt.ConfigPath)
	if err != nil {
		ui.Fail(err.Error())
		return nil, nil, 1
	}

	theme := cfg.UI.Theme
	if opt.Theme != "" {
		theme = opt.Theme
	}
	ui.SetTheme(theme)

	logger, closer, err := logging.Setup(cfg.Log, interactive)
	if err != nil {
		ui.Fail("log: " + err.Error())
		return nil, nil, 1
	}

	path := cfg.Storage.Path
	if path == "" {
		if path, err = jsonstore.DefaultPath(); err != nil {
			ui.Fail("storage: " + err.Error())
			_ = closer.Close()
			return nil, nil, 1
		}
	}

	e := &env{
		cfg:   cfg,
		log:   logging.For(logger, "cli"),
		store: jsonstore.New(path),
		client: api.New(cfg.API.BaseURL, logger, api.Options{
			Timeout:         cfg.API.Timeout,
			DetailCacheSize: cfg.API.DetailCacheSize,
			DetailCacheTTL:  cfg.API.DetailCacheTTL,
		}),
	}
	closeLog := func() {
		if err := closer.Close(); err != nil {
			fmt.Fprintln(os.Stderr, "close log:", err)
		}
	}
	return e, closeLog, 0
}

// -------------- subcommand impls ----------------

func doBrowse(ctx context.Context, e *env) int {
	deb := debounce.New[query.State](e.cfg.UI.Debounce)
	err := tui.Run(ctx, tui.Deps{
		Context:   ctx,
		Browser:   catalog.NewBrowser(e.store, e.log),
		Fetcher:   e.client,
		Debouncer: deb,
		Log:       e.log,
	})
	if err != nil {
		e.log.Error().Err(err).Msg("browser stopped")
		ui.Fail(err.Error())
		return 1
	}
	return 0
}

func doList(ctx context.Context, e *env, args []string) int {
	fs := flag.NewFlagSet("ls", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	filters := map[query.Field]*string{
		query.StartsWith: fs.String("startswith", "", "name starts with"),
		query.EndsWith:   fs.String("endswith", "", "name ends with"),
		query.Contains:   fs.String("contains", "", "name contains"),
		query.Article:    fs.String("article", "", "article number"),
	}
	page := fs.Int("page", 0, "page number (default: the remembered page)")
	if err := fs.Parse(args); err != nil {
		ui.Fail("ls: " + err.Error())
		return 2
	}
	if fs.NArg() != 0 {
		ui.Fail("ls: unexpected argument: " + fs.Arg(0))
		return 2
	}
	if *page < 0 {
		ui.Fail("ls: page must be positive")
		return 2
	}

	b := catalog.NewBrowser(e.store, e.log)
	for _, f := range query.FilterFields {
		if v := *filters[f]; v != "" {
			if _, err := b.EditFilter(f, v); err != nil {
				ui.Fail("ls: " + err.Error())
				return 2
			}
		}
	}
	if *page > 0 {
		if _, err := b.ChangePage(*page); err != nil {
			ui.Fail("ls: " + err.Error())
			return 2
		}
	}

	t := b.BeginCatalog(b.State())
	b.ResolveCatalog(t.Run(ctx, e.client))

	snap := b.Snapshot()
	if snap.CatalogErr != nil {
		ui.Fail("ls: " + snap.CatalogErr.Error())
		return 1
	}
	ui.Panel(pageLines(snap))
	return 0
}

func doShow(ctx context.Context, e *env, ids []int) int {
	details := make([]model.ItemDetail, len(ids))
	errs := make([]error, len(ids))

	var g errgroup.Group
	g.SetLimit(showConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			details[i], errs[i] = e.client.FetchDetail(ctx, id)
			return nil
		})
	}
	_ = g.Wait()

	code := 0
	for i, id := range ids {
		switch err := errs[i]; {
		case errors.Is(err, api.ErrNotFound):
			ui.Fail(fmt.Sprintf("show %d: not found", id))
			code = 1
		case err != nil:
			ui.Fail(fmt.Sprintf("show %d: %v", id, err))
			code = 1
		default:
			ui.Panel(detailLines(details[i]))
		}
	}
	return code
}

func doPage(e *env) int {
	s := query.Restore(e.store)
	ui.OK(fmt.Sprintf("page %d", s.Page))
	ui.Hint("stored in " + e.store.Path())
	return 0
}

func doPageReset(e *env) int {
	if err := query.SavePage(e.store, 1); err != nil {
		ui.Fail("page: " + err.Error())
		return 1
	}
	ui.OK("page reset to 1")
	return 0
}
