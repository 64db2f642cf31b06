package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/aeo"
	"github.com/fwojciec/aeo/analysis"
	"github.com/fwojciec/aeo/fs"
	"github.com/fwojciec/aeo/gemini"
	"github.com/fwojciec/aeo/goquery"
	"github.com/fwojciec/aeo/htmltomarkdown"
	aeohttp "github.com/fwojciec/aeo/http"
	"github.com/fwojciec/aeo/readability"
	"github.com/fwojciec/aeo/rod"
	aeoslog "github.com/fwojciec/aeo/slog"
	"github.com/fwojciec/aeo/sqlite"
	"github.com/fwojciec/aeo/trafilatura"
	"google.golang.org/genai"
)

// staleReservationAge is how old a pending reservation must be before it is
// assumed abandoned by a crashed process and released.
const staleReservationAge = time.Hour

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "warning: .env: %v\n", err)
	}

	m := NewMain()
	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor AEO_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Provider, when set, is registered as a remote provider under
	// ProviderKey instead of Gemini. Used by end-to-end tests.
	Provider    aeo.SuggestionProvider
	ProviderKey string

	// Fetcher replaces the HTTP fetcher when set.
	Fetcher aeo.Fetcher
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("aeo"),
		kong.Description("Compile JSON-LD structured data and optimize content metadata for search and answer engines."),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'aeo --help' to see available commands")
	}
	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	deps.Logger = logger

	cfg, err := LoadConfig(cli.Config)
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Set AEO_CONFIG or --config to a valid YAML file")
		return err
	}
	deps.Config = cfg
	deps.Store = fs.NewContentStore()
	deps.Compiler = aeo.NewCompiler(aeo.NewDefaultRegistry(), cfg.Site)

	switch cmd {
	case "compile":
		return kongCtx.Run(deps)
	case "import":
		closeFetcher, err := m.wireImport(deps, cli.Import.Render, logger)
		if err != nil {
			fmt.Fprintln(stderr, "Hint: --render needs Chrome or Chromium installed")
			return err
		}
		defer closeFetcher()
		return kongCtx.Run(deps)
	}

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set AEO_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	ledger := sqlite.NewUsageLedger(m.DB, cfg.Limits)
	if n, err := ledger.ReleaseStale(ctx, staleReservationAge); err != nil {
		logger.Warn("release stale reservations", "err", err)
	} else if n > 0 {
		logger.Info("released stale reservations", "count", n)
	}
	cache := sqlite.NewAnalysisCache(m.DB)
	if n, err := cache.Purge(ctx); err != nil {
		logger.Warn("purge analysis cache", "err", err)
	} else if n > 0 {
		logger.Debug("purged analysis cache", "count", n)
	}

	deps.Ledger = aeoslog.NewLoggingLedger(ledger, logger)
	deps.Optimizations = sqlite.NewOptimizationService(m.DB)

	analyzer, err := m.buildAnalyzer(ctx, cfg, deps.Ledger, cache, logger, stderr)
	if err != nil {
		return err
	}
	deps.Analyzer = analyzer

	return kongCtx.Run(deps)
}

// wireImport sets up page fetching and extraction. The returned func
// releases the headless browser when render is set.
func (m *Main) wireImport(deps *Dependencies, render bool, logger *slog.Logger) (func(), error) {
	closer := func() {}
	fetcher := m.Fetcher
	switch {
	case fetcher != nil:
	case render:
		browser, err := rod.NewFetcher()
		if err != nil {
			return nil, err
		}
		fetcher = browser
		closer = func() { _ = browser.Close() }
	default:
		fetcher = aeohttp.NewFetcher()
	}
	deps.Fetcher = aeoslog.NewLoggingFetcher(fetcher, logger)
	deps.Extractor = aeo.Extractors{
		trafilatura.NewExtractor(),
		readability.NewExtractor(),
	}
	return closer, nil
}

func (m *Main) buildAnalyzer(ctx context.Context, cfg *Config, ledger aeo.UsageLedger, cache aeo.AnalysisCache, logger *slog.Logger, stderr io.Writer) (*analysis.Analyzer, error) {
	basic := goquery.NewProvider()
	opts := aeo.DefaultAnalyzeOptions()
	opts.KnownTags = cfg.Analysis.KnownTags

	a := &analysis.Analyzer{
		Basic: analysis.Provider{
			Provider: aeoslog.NewLoggingProvider(basic, goquery.ProviderKey, logger),
			Info:     basic.Info(),
		},
		Remote:      map[string]analysis.Provider{},
		Ledger:      ledger,
		Cache:       cache,
		Options:     opts,
		Timeout:     cfg.Analysis.Timeout,
		CacheTTL:    cfg.Analysis.CacheTTL,
		RetryDelays: cfg.Analysis.RetryDelays,
		Log: func(format string, args ...any) {
			logger.Debug(fmt.Sprintf(format, args...))
		},
	}
	if cfg.Analysis.RequestsPerSecond > 0 {
		a.Limiter = analysis.NewUserLimiter(cfg.Analysis.RequestsPerSecond, cfg.Analysis.Burst)
	}

	if m.Provider != nil {
		key := m.ProviderKey
		if key == "" {
			key = gemini.ProviderKey
		}
		a.Remote[key] = analysis.Provider{
			Provider: aeoslog.NewLoggingProvider(m.Provider, key, logger),
			Info:     aeo.ProviderInfo{Key: key, Name: key, QualityRating: 3, EstimatedTime: 1},
			Rates:    cfg.Providers.Gemini.Rates,
		}
		return a, nil
	}

	gcfg := cfg.Providers.Gemini
	if gcfg.APIKey == "" {
		logger.Debug("gemini provider disabled: GEMINI_API_KEY not set")
		return a, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  gcfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		fmt.Fprintln(stderr, "Hint: Check your GEMINI_API_KEY is valid")
		return nil, fmt.Errorf("failed to connect to Gemini API: %w", err)
	}

	p := gemini.NewProvider(client, gcfg.Rates)
	p.Model = gcfg.Model
	p.Converter = htmltomarkdown.NewConverter(htmltomarkdown.WithMaxRunes(gcfg.PromptMaxRunes))
	if tc, err := gemini.NewTokenCounter(p.Model); err != nil {
		logger.Debug("local token counting unavailable", "model", p.Model, "err", err)
	} else {
		p.Tokens = tc
	}
	a.Remote[gemini.ProviderKey] = analysis.Provider{
		Provider: aeoslog.NewLoggingProvider(p, gemini.ProviderKey, logger),
		Info:     p.Info(),
		Rates:    gcfg.Rates,
	}
	return a, nil
}

func defaultDBPath() string {
	if path := os.Getenv("AEO_DB"); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "aeo.db"
	}
	dir := filepath.Join(home, ".aeo")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "aeo.db")
}
