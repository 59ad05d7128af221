package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"

	"github.com/joho/godotenv"
	"github.com/ormasoftchile/extel/pkg/command"
	"github.com/ormasoftchile/extel/pkg/logging"
	"github.com/ormasoftchile/extel/pkg/manifest"
	"github.com/ormasoftchile/extel/pkg/replay"
	"github.com/ormasoftchile/extel/pkg/report"
	"github.com/ormasoftchile/extel/pkg/suite"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"
)

// Version is set at build time via ldflags.
var (
	version = "dev"
	commit  = "unknown"
)

func main() {
	if err := loadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "extel: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "extel: %v\n", err)
		os.Exit(exitCodeOf(err))
	}
}

// loadDotEnv loads .env files if present. Their values never override
// variables that are already set; a missing file is not an error.
func loadDotEnv(filenames ...string) error {
	if err := godotenv.Load(filenames...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// exitError carries a specific process exit status out of a command.
type exitError struct {
	code int
	msg  string
}

func (e *exitError) Error() string { return e.msg }

func exitCodeOf(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

var (
	verbose bool
	logger  = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:           "extel",
	Short:         "Run command test suites",
	Long:          "extel runs suites of command tests and reports one ok or FAILED line per outcome.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		l, err := logging.New(verbose)
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

// --- run ---

var (
	runOutput   string
	runColor    string
	runJSON     bool
	runFailExit bool
	runReplay   string
	runRecord   string
)

var runCmd = &cobra.Command{
	Use:   "run [suite.yaml...]",
	Short: "Validate and run suite manifests",
	Long: `Validate each manifest, then run every valid suite in order.

Exit codes:
  0: every outcome passed
  1: at least one outcome failed
  2: a manifest failed validation`,
	Args: cobra.MinimumNArgs(1),
	RunE: runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	if runReplay != "" && runRecord != "" {
		return errors.New("--replay and --record are mutually exclusive")
	}
	opts := manifest.Options{Context: cmd.Context(), Executor: &command.RealExecutor{}}
	var recorder *replay.Recorder
	var replayer *replay.Executor
	switch {
	case runReplay != "":
		scenario, err := replay.LoadScenario(runReplay)
		if err != nil {
			return err
		}
		replayer = replay.NewExecutor(scenario)
		opts.Executor = replayer
	case runRecord != "":
		// Recording wraps the governed executor so redacted output is
		// what lands in the scenario file.
		recorder = replay.NewRecorder(opts.Executor)
		opts.Wrap = recorder.Wrap
	}

	var set suite.Set
	invalid := 0
	for _, path := range args {
		m, errs := manifest.ValidateFile(path)
		printValidationWarnings(stderr, errs)
		if manifest.HasErrors(errs) {
			fmt.Fprintf(stderr, "  ✗ %s: %s\n", path, manifest.FirstError(errs))
			invalid++
			continue
		}
		s, err := manifest.Build(m, opts)
		if err != nil {
			return err
		}
		set = append(set, s)
	}

	dest, err := parseDestination(runOutput, stdout)
	if err != nil {
		return err
	}
	if runJSON && isStdout(runOutput) {
		dest = suite.None()
	}
	colored, err := useColor(runColor, runOutput, stdout)
	if err != nil {
		return err
	}

	logger.Debug("running suites", zap.Int("suites", len(set)), zap.Stringer("output", dest))
	results, err := set.RunAll(suite.Config{Output: dest, Colored: colored, Logger: logger})
	if err != nil {
		return err
	}

	if recorder != nil {
		if err := recorder.Scenario.Save(runRecord); err != nil {
			return err
		}
		logger.Info("recorded scenario", zap.String("path", runRecord), zap.Int("commands", len(recorder.Scenario.Commands)))
	}
	if replayer != nil {
		for _, argv := range replayer.Unused() {
			logger.Warn("scenario entry never replayed", zap.Strings("argv", argv))
		}
	}

	failed := 0
	if runJSON {
		doc := report.NewDocument()
		for _, r := range results {
			doc.AddSuite(r.Suite, r.Results)
		}
		if err := doc.Encode(stdout); err != nil {
			return fmt.Errorf("encode report: %w", err)
		}
		failed = doc.Summary.Failed
	} else {
		for _, r := range results {
			if err := report.WriteSummary(stdout, r.Suite, r.Results); err != nil {
				return fmt.Errorf("write summary: %w", err)
			}
			failed += report.Summarize(r.Results).Failed
		}
	}

	if invalid > 0 {
		return &exitError{code: 2, msg: fmt.Sprintf("%d manifest(s) failed validation", invalid)}
	}
	if failed > 0 && runFailExit {
		return &exitError{code: 1, msg: fmt.Sprintf("%d outcome(s) failed", failed)}
	}
	return nil
}

// isStdout reports whether an --output value names the command's stdout.
func isStdout(output string) bool { return output == "stdout" || output == "-" }

// parseDestination maps the --output flag to a suite destination.
func parseDestination(value string, stdout io.Writer) (suite.Destination, error) {
	if isStdout(value) {
		return suite.Writer(stdout), nil
	}
	switch value {
	case "none":
		return suite.None(), nil
	case "":
		return nil, errors.New("--output must not be empty")
	default:
		return suite.File(value), nil
	}
}

// useColor resolves --color. auto colors only when results stream to stdout
// and stdout is a terminal.
func useColor(mode, output string, stdout io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto":
		if !isStdout(output) {
			return false, nil
		}
		f, ok := stdout.(*os.File)
		return ok && term.IsTerminal(int(f.Fd())), nil
	default:
		return false, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
	}
}

// --- validate ---

var validateCmd = &cobra.Command{
	Use:   "validate [suite.yaml]",
	Short: "Validate a suite manifest against the schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

func runValidate(cmd *cobra.Command, args []string) error {
	stderr := cmd.ErrOrStderr()
	m, errs := manifest.ValidateFile(args[0])
	printValidationWarnings(stderr, errs)
	if manifest.HasErrors(errs) {
		n := countValidationErrors(errs)
		fmt.Fprintf(stderr, "Validation failed: %d error(s)\n\n", n)
		i := 0
		for _, e := range errs {
			if e.Severity == "warning" {
				continue
			}
			i++
			fmt.Fprintf(stderr, "  %d. [%s] %s\n", i, e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(stderr, "     at: %s\n", e.Path)
			}
		}
		return &exitError{code: 2, msg: fmt.Sprintf("validation failed with %d error(s)", n)}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s is valid (%d tests)\n", m.Suite, len(m.Tests))
	return nil
}

// countValidationErrors counts non-warning errors.
func countValidationErrors(errs []*manifest.ValidationError) int {
	n := 0
	for _, e := range errs {
		if e.Severity != "warning" {
			n++
		}
	}
	return n
}

// printValidationWarnings prints any warnings to w.
func printValidationWarnings(w io.Writer, errs []*manifest.ValidationError) {
	for _, e := range errs {
		if e.Severity == "warning" {
			fmt.Fprintf(w, "  ⚠ [%s] %s\n", e.Phase, e.Message)
			if e.Path != "" {
				fmt.Fprintf(w, "    at: %s\n", e.Path)
			}
		}
	}
}

// --- schema ---

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the suite manifest JSON Schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := manifest.GenerateJSONSchema()
		if err != nil {
			return fmt.Errorf("generate schema: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	},
}

// --- tokenize ---

var tokenizeJSON bool

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <template> [params...]",
	Short: "Show how a command template resolves into a program and arguments",
	Example: `  extel tokenize 'echo -n "{}"' "viva las vegas"
  extel tokenize --json 'grep "a b" file'`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTokenize,
}

func runTokenize(cmd *cobra.Command, args []string) error {
	params := make([]any, 0, len(args)-1)
	for _, p := range args[1:] {
		params = append(params, p)
	}
	inv, err := command.Parse(command.Format(args[0], params...))
	if err != nil {
		return fmt.Errorf("tokenize %q: %w", args[0], err)
	}

	out := cmd.OutOrStdout()
	if tokenizeJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(inv)
	}
	fmt.Fprintf(out, "program: %s\n", inv.Program)
	for i, a := range inv.Args {
		fmt.Fprintf(out, "arg[%d]:  %q\n", i, a)
	}
	fmt.Fprintf(out, "shell:   %s\n", inv)
	return nil
}

// --- version ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "extel %s (build: %s)\n", version, commit)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging on stderr")

	runCmd.Flags().StringVarP(&runOutput, "output", "o", "stdout", "Where to stream results: stdout, none, or a file path")
	runCmd.Flags().StringVar(&runColor, "color", "auto", "Color ok/FAILED tokens: auto, always, or never")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "Print results as a JSON document")
	runCmd.Flags().BoolVar(&runFailExit, "fail-exit", true, "Exit with status 1 when any outcome fails")
	runCmd.Flags().StringVar(&runReplay, "replay", "", "Answer commands from a recorded scenario instead of executing them")
	runCmd.Flags().StringVar(&runRecord, "record", "", "Record every executed command into this scenario file")

	tokenizeCmd.Flags().BoolVar(&tokenizeJSON, "json", false, "Print the invocation as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(versionCmd)
}
