// Command saasdex scrapes the SaaS company directory into JSON files:
// listing pages first, then (on confirmation) the per-company profiles.
package main

import (
	"bufio"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/use-agent/saasdex/config"
	"github.com/use-agent/saasdex/models"
	"github.com/use-agent/saasdex/output"
	"github.com/use-agent/saasdex/scraper"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg := config.Load()
	initLogger(cfg.Log)

	pr, err := parseArgs(args, cfg.Scraper.DefaultPages)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\n", err)
		printUsage(cfg.Scraper.DefaultPages)
		return 1
	}

	writer, err := output.NewWriter(cfg.Scraper.OutputDir)
	if err != nil {
		slog.Error("cannot prepare output directory", "dir", cfg.Scraper.OutputDir, "error", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := scraper.New(cfg)
	defer s.Close()

	var (
		records      []models.Record
		listFile     string
		detailedFile string
	)
	switch {
	case pr.defaulted:
		slog.Info("scraping default listing", "pages", cfg.Scraper.DefaultPages)
		records = s.ScrapeList(ctx)
		listFile = output.ListFile
		detailedFile = output.DetailedListFile

	case pr.start == pr.end:
		records, err = s.ScrapePage(ctx, pr.start)
		listFile = output.PageFile(pr.start)
		detailedFile = output.DetailedPageFile(pr.start)

	default:
		records, err = s.ScrapeRange(ctx, pr.start, pr.end)
		listFile = output.RangeFile(pr.start, pr.end)
		detailedFile = output.DetailedRangeFile(pr.start, pr.end)
	}
	if err != nil {
		slog.Error("scrape failed", "error", err)
		return 1
	}
	if len(records) == 0 {
		slog.Error("no companies found")
		return 1
	}

	if err := writer.Save(listFile, records); err != nil {
		slog.Error("failed to save results", "file", listFile, "error", err)
		return 1
	}
	fmt.Printf("\nScraped %d companies. Results saved to %s/%s\n",
		len(records), cfg.Scraper.OutputDir, listFile)

	if promptYesNo("Would you like to scrape detailed profiles for these companies? (y/n): ") {
		detailed := s.EnrichProfiles(ctx, records)
		if err := writer.Save(detailedFile, detailed); err != nil {
			slog.Error("failed to save detailed results", "file", detailedFile, "error", err)
			return 1
		}
		fmt.Printf("Detailed results saved to %s/%s\n", cfg.Scraper.OutputDir, detailedFile)
	}

	fmt.Printf("\nCheck the '%s' directory for results.\n", cfg.Scraper.OutputDir)
	return 0
}

// promptYesNo asks on stdout and reads one line from stdin. Anything other
// than an answer starting with "y" counts as no, including a closed stdin.
func promptYesNo(question string) bool {
	fmt.Print(question)

	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(line)), "y")
}

func printUsage(defaultPages int) {
	fmt.Fprintf(os.Stderr, `Usage:
  saasdex              scrape the first pages of the listing (default %d)
  saasdex N            scrape listing page N
  saasdex START END    scrape listing pages START through END (inclusive)

Configuration is read from SAASDEX_* environment variables; see config/.
`, defaultPages)
}

// initLogger installs the process-wide slog handler.
func initLogger(cfg config.Log) {
	var level slog.Level
	switch strings.ToLower(cfg.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.ToLower(cfg.Format) == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
