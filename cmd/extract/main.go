package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/oarkflow/log"

	"github.com/vegasq/extract/internal/logging"
	"github.com/vegasq/extract/output"
	"github.com/vegasq/extract/query"
	"github.com/vegasq/extract/reader"
)

// autoOutput selects one <name>_extract.txt file per input.
const autoOutput = "auto"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type config struct {
	expr     string
	out      string
	format   string
	limit    int
	workers  int
	schema   bool
	explain  bool
	logLevel string
	files    []string
}

func parseFlags(args []string, stderr io.Writer) (*config, error) {
	cfg := &config{}
	flags := flag.NewFlagSet("extract", flag.ContinueOnError)
	flags.SetOutput(stderr)

	flags.StringVar(&cfg.expr, "x", "1", "Filter expression (e.g., \"Total>3 && Lat<60\")")
	flags.StringVar(&cfg.out, "o", "", "Output file (default stdout; \"auto\" writes <name>_extract.txt next to each input)")
	flags.StringVar(&cfg.format, "f", output.FormatText, "Output format: "+strings.Join(output.Formats, ", "))
	tab := flags.Bool("tab", false, "Separate output columns with tabs (same as -f tab)")
	fast := flags.Bool("fast", false, "Echo matching lines verbatim (same as -f raw)")
	flags.IntVar(&cfg.limit, "limit", 0, "Limit number of records written (0 = unlimited)")
	flags.IntVar(&cfg.workers, "workers", 0, "Evaluation workers (0 = GOMAXPROCS)")
	flags.BoolVar(&cfg.schema, "schema", false, "Show the columns of the input instead of data")
	flags.BoolVar(&cfg.explain, "explain", false, "Print the compiled expression in postfix form and exit")
	flags.StringVar(&cfg.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	quiet := flags.Bool("quiet", false, "Only report errors")

	flags.Usage = func() {
		fmt.Fprintf(stderr, "Usage: extract [options] <file|glob> [more files...]\n\n")
		fmt.Fprintf(stderr, "Writes the records of numeric tables that satisfy an expression.\n\n")
		fmt.Fprintf(stderr, "IMPORTANT: All flags must come BEFORE file arguments.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		flags.PrintDefaults()
		fmt.Fprintf(stderr, "\nExpressions:\n")
		fmt.Fprintf(stderr, "  Columns by label or as #N (#0 is the record number); numbers;\n")
		fmt.Fprintf(stderr, "  + - * / %% ^  > < >= <= == !=  && || !  and the functions\n")
		fmt.Fprintf(stderr, "  log10 ln exp sqrt sin cos tan asin acos atan abs floor round pow(x,y).\n")
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  extract -x \"Total>3\" cpool.out\n")
		fmt.Fprintf(stderr, "  extract -x \"#0%%10==0\" -fast -o auto runs/*/cpool.out\n")
		fmt.Fprintf(stderr, "  extract -x \"Lat>=55.5 && Lat<=72\" -f csv grid.parquet\n")
		fmt.Fprintf(stderr, "  extract -schema grid.parquet\n")
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if cfg.limit < 0 {
		return nil, fmt.Errorf("-limit must be non-negative, got %d", cfg.limit)
	}
	if cfg.workers < 0 {
		return nil, fmt.Errorf("-workers must be non-negative, got %d", cfg.workers)
	}
	if *tab && *fast {
		return nil, errors.New("-tab and -fast cannot be used together")
	}
	if cfg.schema && cfg.explain {
		return nil, errors.New("-schema and -explain cannot be used together")
	}
	switch {
	case *tab:
		cfg.format = output.FormatTab
	case *fast:
		cfg.format = output.FormatRaw
	}
	if _, err := output.New(cfg.format, io.Discard); err != nil {
		return nil, err
	}
	if *quiet {
		cfg.logLevel = "error"
	}

	cfg.files = flags.Args()
	if len(cfg.files) == 0 && !cfg.explain {
		flags.Usage()
		return nil, errors.New("missing input file argument")
	}
	return cfg, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	cfg, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	logger, err := logging.New(stderr, cfg.logLevel)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}

	var paths []string
	for _, pattern := range cfg.files {
		matches, err := reader.ExpandPattern(pattern)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return 1
		}
		paths = append(paths, matches...)
	}

	if cfg.schema {
		return handleSchemaMode(paths, cfg.format, stdout, stderr, logger)
	}

	expr, err := query.ParseExpression(cfg.expr)
	if err != nil {
		reportExpressionError(stderr, err)
		return 1
	}
	if cfg.explain {
		return handleExplainMode(expr, paths, stdout, stderr, logger)
	}

	jobs, code := planJobs(expr, paths, cfg.out == autoOutput, stderr, logger)
	if code != 0 {
		return code
	}
	return writeResults(ctx, cfg, jobs, stdout, stderr, logger)
}

// job is one input with the program compiled against its header.
type job struct {
	path string
	dest string // output file when writing one per input
	prog *query.Program
}

// planJobs reads the header of every input and compiles the expression
// against it before any record is loaded, so a bad column name in any file
// aborts the run without partial output. With perInput set it also names
// each output file and refuses names shared by two inputs or naming an
// input.
func planJobs(expr *query.Expression, paths []string, perInput bool, stderr io.Writer, logger *log.Logger) ([]job, int) {
	cache := query.NewCache(0)

	inputs := make(map[string]bool, len(paths))
	for _, path := range paths {
		inputs[filepath.Clean(path)] = true
	}
	dests := make(map[string]string)

	jobs := make([]job, 0, len(paths))
	for _, path := range paths {
		header, err := reader.ReadHeader(path)
		if err != nil {
			reportFileError(stderr, path, err)
			return nil, 1
		}

		prog, hit, err := cache.Resolve(expr, header.Environment())
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return nil, 1
		}
		if hit {
			logger.Debug().Str("file", path).Msg("reusing compiled expression")
		}
		for _, w := range prog.Warnings {
			logger.Warn().Str("file", path).Str("item", w.Name).Str("chosen", w.Chosen).Msg(w.String())
		}

		j := job{path: path, prog: prog}
		if perInput {
			j.dest = autoOutputName(path)
			if other, ok := dests[j.dest]; ok {
				fmt.Fprintf(stderr, "Error: %s and %s would both be written to %s\n", other, path, j.dest)
				return nil, 1
			}
			if inputs[filepath.Clean(j.dest)] {
				fmt.Fprintf(stderr, "Error: output for %s would overwrite input %s\n", path, j.dest)
				return nil, 1
			}
			dests[j.dest] = path
		}
		jobs = append(jobs, j)
	}
	return jobs, 0
}

// writeResults loads, filters and writes one table at a time.
func writeResults(ctx context.Context, cfg *config, jobs []job, stdout, stderr io.Writer, logger *log.Logger) int {
	shared, sharedName := stdout, "stdout"
	if cfg.out != "" && cfg.out != autoOutput {
		f, err := os.Create(cfg.out)
		if err != nil {
			fmt.Fprintf(stderr, "Error: failed to create output file: %v\n", err)
			return 1
		}
		defer func() { _ = f.Close() }()
		shared, sharedName = f, cfg.out
	}

	opts := reader.Options{Logger: logger}
	remaining := cfg.limit
	for _, j := range jobs {
		table, err := reader.Open(j.path, opts)
		if err != nil {
			reportFileError(stderr, j.path, err)
			return 1
		}

		kept, err := query.ApplyFilter(ctx, j.prog, table.Rows(), query.FilterOptions{Workers: cfg.workers})
		if err != nil {
			fmt.Fprintf(stderr, "Error applying filter to %s: %v\n", j.path, err)
			return 1
		}
		if cfg.limit > 0 {
			if len(kept) > remaining {
				kept = kept[:remaining]
			}
			remaining -= len(kept)
		}

		w, dest := shared, sharedName
		if j.dest != "" {
			dest = j.dest
			w = nil
		}
		if err := writeTable(cfg.format, table, kept, w, dest, logger); err != nil {
			fmt.Fprintf(stderr, "Error formatting output: %v\n", err)
			return 1
		}
		if cfg.limit > 0 && remaining == 0 {
			break
		}
	}
	return 0
}

// writeTable formats the kept records of table to w, or to a new file
// named dest when w is nil.
func writeTable(format string, table *reader.Table, kept []int, w io.Writer, dest string, logger *log.Logger) error {
	if w == nil {
		f, err := os.Create(dest)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		w = f
	}

	formatter, err := output.New(format, w)
	if err != nil {
		return err
	}
	if err := formatter.Format(table, table.Select(kept)); err != nil {
		return err
	}

	logger.Info().Str("file", table.Source).Int("records", len(kept)).Int("read", len(table.Records)).
		Msgf("%d records written to %s", len(kept), dest)
	return nil
}

// autoOutputName derives <name>_extract.txt next to an input, where name is
// the file name up to its first dot.
func autoOutputName(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return filepath.Join(filepath.Dir(path), base+"_extract.txt")
}

func handleSchemaMode(paths []string, format string, stdout, stderr io.Writer, logger *log.Logger) int {
	path := paths[0]
	if len(paths) > 1 {
		logger.Info().Str("file", path).Int("matched", len(paths)).Msg("showing schema of the first file")
	}

	columns, err := reader.Describe(path, reader.Options{Logger: logger})
	if err != nil {
		reportFileError(stderr, path, err)
		return 1
	}
	if err := output.FormatSchema(stdout, format, columns); err != nil {
		fmt.Fprintf(stderr, "Error formatting output: %v\n", err)
		return 1
	}
	return 0
}

func handleExplainMode(expr *query.Expression, paths []string, stdout, stderr io.Writer, logger *log.Logger) int {
	fmt.Fprintf(stdout, "postfix: %s\n", expr)
	if len(paths) == 0 {
		return 0
	}

	jobs, code := planJobs(expr, paths, false, stderr, logger)
	if code != 0 {
		return code
	}
	for _, j := range jobs {
		fmt.Fprintf(stdout, "%s: %s (stack %d)\n", j.path, j.prog, j.prog.MaxStack())
	}
	return 0
}

func reportExpressionError(stderr io.Writer, err error) {
	var se *query.SyntaxError
	if errors.As(err, &se) {
		fmt.Fprintf(stderr, "Error in expression\n%s\n%v\n", se.Caret(), err)
		return
	}
	fmt.Fprintf(stderr, "Error in expression: %v\n", err)
}

func reportFileError(stderr io.Writer, path string, err error) {
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(stderr, "Error: file '%s' not found\n", path)
		fmt.Fprintf(stderr, "Please check the file path and try again.\n")
		return
	}
	fmt.Fprintf(stderr, "Error: %v\n", err)
}
