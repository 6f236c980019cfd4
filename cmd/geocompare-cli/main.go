package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"yashubustudio/geocompare/geography"
)

type cliOptions struct {
	configPath string
	pathA      string
	pathB      string
	labelA     string
	labelB     string
	separator  string
	encoding   string
	column     string
	onBadRows  string
	outputPath string
	outputDir  string
	sortBy     string
	stdout     bool
	sequential bool
	quiet      bool
}

func main() {
	opts, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("geocompare-cli: %v", err)
	}
	if err := run(opts, os.Stdout); err != nil {
		log.Fatalf("geocompare-cli: %v", err)
	}
}

func parseFlags(fs *flag.FlagSet, args []string) (cliOptions, error) {
	var opts cliOptions
	fs.StringVar(&opts.configPath, "config", "", "Path to config.json or config.yaml (default: ./config.json)")
	fs.StringVar(&opts.pathA, "a", "", "CSV file with candidate A's posts")
	fs.StringVar(&opts.pathB, "b", "", "CSV file with candidate B's posts")
	fs.StringVar(&opts.labelA, "label-a", "", "Output column label for candidate A")
	fs.StringVar(&opts.labelB, "label-b", "", "Output column label for candidate B")
	fs.StringVar(&opts.separator, "sep", "", `Field separator of the input files (default ";", use \t for tabs)`)
	fs.StringVar(&opts.encoding, "encoding", "", "Text encoding of the input files (default utf-8)")
	fs.StringVar(&opts.column, "column", "", "Column name or #index holding the location (default: first column containing \"location\")")
	fs.StringVar(&opts.onBadRows, "on-bad-rows", "", "What to do with malformed rows: skip or error")
	fs.StringVar(&opts.outputPath, "output", "", "CSV file to write the comparison (default uses --output-dir/comparison_*.csv)")
	fs.StringVar(&opts.outputDir, "output-dir", "", "Directory where comparison CSVs are written when --output is omitted")
	fs.StringVar(&opts.sortBy, "sort", "", "Row order of the output: location, total or diff")
	fs.BoolVar(&opts.stdout, "stdout", false, "Print the top rows to STDOUT")
	fs.BoolVar(&opts.sequential, "sequential", false, "Load the two files one after the other")
	fs.BoolVar(&opts.quiet, "quiet", false, "Suppress progress logging")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: %s -a FILE -b FILE [options]\n\n", filepath.Base(os.Args[0]))
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return opts, err
	}

	opts.configPath = strings.TrimSpace(opts.configPath)
	opts.pathA = strings.TrimSpace(opts.pathA)
	opts.pathB = strings.TrimSpace(opts.pathB)
	opts.outputPath = strings.TrimSpace(opts.outputPath)
	opts.outputDir = strings.TrimSpace(opts.outputDir)
	opts.column = strings.TrimSpace(opts.column)

	switch opts.onBadRows {
	case "", string(geography.BadRowsSkip), string(geography.BadRowsError):
	default:
		return opts, fmt.Errorf("invalid --on-bad-rows %q", opts.onBadRows)
	}
	switch opts.sortBy {
	case "", string(geography.SortLocation), string(geography.SortTotal), string(geography.SortDiff):
	default:
		return opts, fmt.Errorf("invalid --sort %q", opts.sortBy)
	}
	return opts, nil
}

// applyFlags overlays command line values on the loaded configuration.
func applyFlags(cfg geography.Config, opts cliOptions) geography.Config {
	if opts.pathA != "" {
		cfg.CandidateA.Path = opts.pathA
	}
	if opts.pathB != "" {
		cfg.CandidateB.Path = opts.pathB
	}
	if opts.labelA != "" {
		cfg.CandidateA.Label = opts.labelA
	}
	if opts.labelB != "" {
		cfg.CandidateB.Label = opts.labelB
	}
	if opts.separator != "" {
		cfg.Separator = opts.separator
		cfg.Output.Separator = opts.separator
	}
	if opts.encoding != "" {
		cfg.Encoding = opts.encoding
	}
	if opts.column != "" {
		cfg.LocationColumn = opts.column
	}
	if opts.onBadRows != "" {
		cfg.OnBadRows = geography.BadRowPolicy(opts.onBadRows)
	}
	if opts.outputPath != "" {
		cfg.Output.Path = opts.outputPath
	}
	if opts.outputDir != "" {
		cfg.Output.Dir = opts.outputDir
	}
	if opts.sortBy != "" {
		cfg.Output.Sort = geography.SortKey(opts.sortBy)
	}
	if opts.sequential {
		parallel := false
		cfg.Parallel = &parallel
	}
	cfg.ApplyDefaults()
	return cfg
}

func run(opts cliOptions, stdout io.Writer) error {
	cfg, err := geography.LoadConfig(opts.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	cfg = applyFlags(cfg, opts)
	if cfg.CandidateA.Path == "" || cfg.CandidateB.Path == "" {
		return errors.New("missing required -a and -b input files")
	}

	logWriter := io.Writer(os.Stderr)
	if opts.quiet {
		logWriter = io.Discard
	}
	logger := log.New(logWriter, "", log.LstdFlags)
	service, err := geography.NewService(cfg, logger)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}

	table, err := service.CompareFiles(context.Background())
	if err != nil {
		if errors.Is(err, geography.ErrNoLocationColumn) {
			return fmt.Errorf("%w (use -column to pick one)", err)
		}
		return err
	}
	table = table.Sorted(cfg.Output.Sort)

	outputPath, err := resolveOutputPath(cfg.Output.Path, cfg.Output.Dir)
	if err != nil {
		return err
	}
	if err := geography.SaveTable(outputPath, table, cfg.WriteOptions()); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Comparison saved to %s\n", outputPath)

	if opts.stdout {
		printSummary(stdout, table, 20)
	}
	return nil
}

func resolveOutputPath(path, dir string) (string, error) {
	if path != "" {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve output path: %w", err)
		}
		return absPath, nil
	}
	if dir == "" {
		dir = "csv"
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}
	filename := fmt.Sprintf("comparison_%s.csv", time.Now().Format("20060102150405"))
	return filepath.Join(absDir, filename), nil
}

func printSummary(w io.Writer, table geography.Table, limit int) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "==== Comparison preview ====")
	if len(table.Rows) == 0 {
		fmt.Fprintln(w, "    no locations found")
		return
	}
	header := table.Header()
	fmt.Fprintf(w, "%-32s %10s %10s %8s %8s\n", header[0], header[1], header[2], header[3], header[4])
	if len(table.Rows) < limit {
		limit = len(table.Rows)
	}
	for _, row := range table.Rows[:limit] {
		fmt.Fprintf(w, "%-32s %10d %10d %8d %8d\n", truncate(row.Location, 32), row.CountA, row.CountB, row.Diff, row.Total)
	}
	if rest := len(table.Rows) - limit; rest > 0 {
		fmt.Fprintf(w, "... %d more\n", rest)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
