package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/insightdelivered/momo-score/internal/api"
	"github.com/insightdelivered/momo-score/internal/config"
	"github.com/insightdelivered/momo-score/internal/logger"
	"github.com/insightdelivered/momo-score/internal/models"
	"github.com/insightdelivered/momo-score/internal/parser"
	"github.com/insightdelivered/momo-score/internal/scoring"
	"github.com/insightdelivered/momo-score/internal/source"
	"github.com/insightdelivered/momo-score/internal/writer"
)

const version = "1.0.0"

func main() {
	// CLI flags
	periodFlag := flag.String("period", "", "Scoring window: week, month or all (defaults to the configured period)")
	nowFlag := flag.String("now", "", "Evaluate the window as of this RFC3339 instant instead of the current time")
	outputFlag := flag.String("output", "", "Output CSV file path (defaults to input filename with .csv extension)")
	headerFlag := flag.Bool("header", true, "Include score summary rows in CSV")
	serveFlag := flag.Bool("serve", false, "Run the HTTP API instead of converting files")
	versionFlag := flag.Bool("version", false, "Print version and exit")
	helpFlag := flag.Bool("help", false, "Show usage help")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `Mobile Money Hustle Score
by Insight Delivered

Extracts transactions from M-PESA notification messages and scores
income against expenses over a week, a month or the whole history.

Usage:
  momo-score [flags] <messages.txt|messages.json|inbox.pdf> [more ...]
  momo-score --serve

Flags:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # Score the last 30 days of an exported inbox
  momo-score messages.txt

  # Score the last 7 days as of a fixed instant
  momo-score --period=week --now=2025-10-31T12:00:00+03:00 messages.json

  # Custom output path
  momo-score --period=all --output=report.csv inbox.pdf

  # Start the API (MOMO_SERVER_PORT and friends configure it)
  momo-score --serve

Input formats:
  .txt   one message per line
  .json  ["msg", ...] or {"messages": ["msg", ...]}
  .pdf   printed inbox export, split at confirmation codes
`)
	}

	flag.Parse()

	if *versionFlag {
		fmt.Printf("momo-score v%s\n", version)
		os.Exit(0)
	}

	if *helpFlag || (flag.NArg() == 0 && !*serveFlag) {
		flag.Usage()
		os.Exit(0)
	}

	cfg, err := config.Load()
	if err != nil {
		fatalf("Configuration error: %v\n", err)
	}
	log := logger.New(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})

	if *serveFlag {
		if err := serve(cfg, log); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
		return
	}

	period := cfg.Scoring.DefaultPeriod
	if *periodFlag != "" {
		if period, err = models.ParsePeriod(*periodFlag); err != nil {
			fatalf("%v. Supported: week, month, all\n", err)
		}
	}

	engine := scoring.NewEngine()
	if *nowFlag != "" {
		fixed, err := time.Parse(time.RFC3339, *nowFlag)
		if err != nil {
			fatalf("Invalid --now %q: expected RFC3339, e.g. 2025-10-31T12:00:00+03:00\n", *nowFlag)
		}
		engine = scoring.NewEngine(scoring.WithClock(func() time.Time { return fixed }))
	}

	inputFiles := flag.Args()
	if *outputFlag != "" && len(inputFiles) > 1 {
		fatalf("--output can only be used with a single input file\n")
	}

	p := parser.New(parser.WithLocation(cfg.Scoring.Location()))

	// Process each input file
	for _, inputPath := range inputFiles {
		if err := processFile(p, engine, inputPath, period, *outputFlag, *headerFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error processing %s: %v\n", inputPath, err)
			os.Exit(1)
		}
	}
}

func processFile(p *parser.Parser, engine *scoring.Engine, inputPath string, period models.Period, outputPath string, includeHeader bool) error {
	fmt.Printf("Processing: %s\n", inputPath)

	messages, err := source.ReadMessages(inputPath)
	if err != nil {
		return err
	}

	fmt.Printf("  Read %d message(s)\n", len(messages))

	txns := p.ParseAll(messages)
	unclassified := 0
	for _, txn := range txns {
		if !txn.IsClassified() {
			unclassified++
		}
	}

	fmt.Printf("  Classified %d transaction(s), %d unclassified\n", len(txns)-unclassified, unclassified)

	if unclassified == len(txns) {
		fmt.Println("  Warning: No message matched a known M-PESA notification format.")
	}

	now := engine.Now()
	summary, err := scoring.Score(txns, period, now)
	if err != nil {
		return fmt.Errorf("scoring failed: %w", err)
	}

	// Determine output path
	outPath := outputPath
	if outPath == "" {
		base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
		outPath = base + ".csv"
	}

	// Write CSV
	w := &writer.CSVWriter{IncludeHeader: includeHeader}
	if err := w.WriteToFile(outPath, &writer.Report{Transactions: txns, Summary: summary}); err != nil {
		return fmt.Errorf("CSV write failed: %w", err)
	}

	fmt.Printf("  Output: %s\n", outPath)

	// Print summary
	fmt.Printf("  Period: %s as of %s (timestamps read in %s)\n", summary.Period, now.Format(time.RFC3339), p.Location())
	fmt.Printf("  Hustle score: %d/100\n", summary.Score)
	fmt.Printf("  Income: Ksh %s\n", summary.TotalIncome.StringFixed(2))
	fmt.Printf("  Expenses: Ksh %s\n", summary.TotalExpenses.StringFixed(2))
	for i, g := range summary.TopExpenses {
		fmt.Printf("  %d. %s  Ksh %s\n", i+1, g.Name, g.Amount.StringFixed(2))
	}

	fmt.Println("  Done.")
	return nil
}

// serve runs the API until SIGINT or SIGTERM, then drains in-flight requests.
func serve(cfg config.Config, log zerolog.Logger) error {
	log = logger.WithFields(log, map[string]interface{}{
		"service": "momo-score",
		"version": version,
	})
	h := api.NewHandler(log)
	h.Parser = parser.New(parser.WithLocation(cfg.Scoring.Location()))
	h.DefaultPeriod = cfg.Scoring.DefaultPeriod
	app := api.NewApp(cfg.Server, h)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", cfg.Server.Addr()).
			Str("timezone", h.Parser.Location().String()).
			Str("default_period", string(h.DefaultPeriod)).
			Msg("starting API server")
		errCh <- app.Listen(cfg.Server.Addr())
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(shutdownCtx)
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}
