package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/sakshisonawane10/Blast-Radius/internal/app"
	"github.com/sakshisonawane10/Blast-Radius/internal/application/session"
	"github.com/sakshisonawane10/Blast-Radius/internal/config"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/ai"
	"github.com/sakshisonawane10/Blast-Radius/internal/domain/blast"
	"github.com/sakshisonawane10/Blast-Radius/internal/logging"
	"github.com/sakshisonawane10/Blast-Radius/internal/render"
)

type analyzeOptions struct {
	configPath *string
	input      blast.RiskInput
	jsonOut    bool
	failOn     string
	timeout    time.Duration
	verbose    bool
}

// thresholdError is returned when --fail-on trips. The report has already
// been printed so main only sets the exit code.
type thresholdError struct {
	level, threshold blast.RiskLevel
}

func (e *thresholdError) Error() string {
	return fmt.Sprintf("risk level %s is at or above %s", e.level, e.threshold)
}

// overridable in tests
var (
	newAnalyzer   = defaultAnalyzer
	isInteractive = func() bool {
		return isatty.IsTerminal(os.Stdin.Fd()) && isatty.IsTerminal(os.Stderr.Fd())
	}
	promptInput = runForm
)

func newAnalyzeCmd(configPath *string) *cobra.Command {
	o := &analyzeOptions{configPath: configPath}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Run a BLAST assessment for one feature",
		Long: `Run a BLAST assessment for one feature.

Fields not given as flags are asked for in an interactive form when stdin is
a terminal. --fail-on makes the command exit 1 when the assessed level is at
or above the given level, for use as a CI gate.`,
		Example: `  blast analyze --context "Regional bank" \
    --feature "Automated loan approval using document AI" \
    --outcome "Reduce review time" --fail-on high`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return o.run(cmd.Context(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.input.Context, "context", "", "Organisation or environment the feature ships into")
	f.StringVar(&o.input.ProposedFeature, "feature", "", "The feature being proposed")
	f.StringVar(&o.input.IntendedOutcome, "outcome", "", "What the feature is meant to achieve")
	f.BoolVar(&o.jsonOut, "json", false, "Print the analysis as JSON")
	f.StringVar(&o.failOn, "fail-on", "", "Exit 1 when the risk level is at or above this level (low, moderate, high, critical)")
	f.DurationVar(&o.timeout, "timeout", 0, "Override ai.timeout from the config")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Show the failure kind and debug logs")
	return cmd
}

func (o *analyzeOptions) run(ctx context.Context, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var threshold blast.RiskLevel
	if o.failOn != "" {
		l, err := blast.ParseLevel(o.failOn)
		if err != nil {
			return err
		}
		threshold = l
	}

	in := o.input
	if !blast.IsValid(in) {
		if !isInteractive() {
			return fmt.Errorf("--context, --feature and --outcome are required when not running in a terminal")
		}
		var err error
		if in, err = promptInput(in); err != nil {
			return err
		}
	}

	cfg, err := loadConfig(*o.configPath)
	if err != nil {
		return err
	}
	if o.timeout > 0 {
		cfg.AI.Timeout = o.timeout
	}
	level := "error"
	if o.verbose {
		level = "debug"
	}
	log, err := logging.New(stderr, level, "text")
	if err != nil {
		return err
	}

	analyzer, closeFn, err := newAnalyzer(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer closeFn()

	var a *blast.BlastAnalysis
	if isInteractive() && !o.jsonOut {
		a, err = runWithSpinner(ctx, stderr, analyzer, in)
	} else {
		a, err = analyzer.Analyze(ctx, in)
	}
	if err != nil {
		return o.failure(err)
	}

	if o.jsonOut {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		err = enc.Encode(struct {
			Analysis   *blast.BlastAnalysis `json:"analysis"`
			Advisories []string             `json:"advisories,omitempty"`
		}{a, a.Advisories()})
	} else {
		err = render.Text(stdout, a, render.TextOptions{Advisories: a.Advisories()})
	}
	if err != nil {
		return err
	}

	if threshold != "" && a.OverallRiskLevel.AtLeast(threshold) {
		fmt.Fprintf(stderr, "risk level %s meets --fail-on %s\n", a.OverallRiskLevel, threshold)
		return &thresholdError{level: a.OverallRiskLevel, threshold: threshold}
	}
	return nil
}

// failure hides provider detail behind the generic message.
func (o *analyzeOptions) failure(err error) error {
	kind, ok := ai.KindOf(err)
	if !ok {
		return err
	}
	if o.verbose {
		return fmt.Errorf("%s (%s)", ai.UserMessage, kind)
	}
	return fmt.Errorf("%s", ai.UserMessage)
}

func loadConfig(flagPath string) (*config.Config, error) {
	path, required := config.DefaultPath, false
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path, required = v, true
	}
	if flagPath != "" {
		path, required = flagPath, true
	}
	cfg, err := config.Load(path, required)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func defaultAnalyzer(ctx context.Context, cfg *config.Config, log *slog.Logger) (session.Analyzer, func(), error) {
	diag, err := app.OpenDiagnostics(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}
	gen, model, err := app.NewGenerator(cfg)
	if err != nil {
		diag.Close()
		return nil, nil, err
	}
	svc := app.NewService(cfg, gen, model, diag, nil, log)
	return svc, func() { diag.Close() }, nil
}
