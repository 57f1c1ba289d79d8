package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/gokay-avci/UnifiedLAB/agent"
	"github.com/gokay-avci/UnifiedLAB/agent/diag"
	"github.com/gokay-avci/UnifiedLAB/gulp"
	"github.com/gokay-avci/UnifiedLAB/physics"
	"github.com/gokay-avci/UnifiedLAB/protocol"
)

var (
	// CLI flags shared by the agent commands
	logLevel     string    // Log verbosity level (stderr; stdout stays clean for JSON)
	tuningPath   string    // Optional YAML tuning file overriding engine defaults
	snapshotPath string    // Advisory training-set snapshot CSV
	plotDir      string    // Directory for per-generation surface plots
	debugDir     string    // Per-job simulator input/debug directories
	gulpBinary   string    // GULP executable (empty = resolve from PATH)
	reference    []float64 // Known-good parameter point marked on plots

	// CLI flags for the one-shot suggest command
	historyPath   string    // JSON evaluation ledger file
	genCounter    int       // Iteration index (0 = warm start)
	warmStartSize int       // Genesis batch size
	batchSize     int       // Model-guided batch size
	seed          int64     // Sampler/jitter seed
	boundsFlat    []float64 // Bounds as lo,hi pairs per dimension
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ulab-agent",
	Short: "Active-learning agent for the UnifiedLAB materials pipeline",
}

// serveCmd handles one task request from stdin and answers on stdout.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one SUGGEST/CALCULATE task over stdin/stdout",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		srv := buildServer()
		if err := srv.ServeStream(context.Background(), os.Stdin, os.Stdout); err != nil {
			logrus.Fatalf("serve: %v", err)
		}
	},
}

// evaldCmd runs the line-served mock evaluator daemon.
var evaldCmd = &cobra.Command{
	Use:   "evald",
	Short: "Run the Lennard-Jones mock evaluator daemon (one JSON request per line)",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()
		if err := physics.Serve(os.Stdin, os.Stdout); err != nil {
			logrus.Fatalf("evald: %v", err)
		}
	},
}

// suggestCmd runs one suggestion from a history file, for debugging runs
// outside the host pipeline.
var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Produce one candidate batch from a JSON history file",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		bounds, err := parseBounds(boundsFlat)
		if err != nil {
			logrus.Fatalf("suggest: %v", err)
		}
		var ledger []agent.Record
		if historyPath != "" {
			data, err := os.ReadFile(historyPath)
			if err != nil {
				logrus.Fatalf("suggest: read history: %v", err)
			}
			if err := json.Unmarshal(data, &ledger); err != nil {
				logrus.Fatalf("suggest: parse history: %v", err)
			}
		}

		o := agent.NewDefaultOrchestrator(bounds, seed, loadTuning(), buildSink())
		result := o.Suggest(ledger, agent.SuggestParams{
			Gen:           genCounter,
			WarmStartSize: warmStartSize,
			BatchSize:     batchSize,
		})

		out, err := json.MarshalIndent(protocol.SuggestData{
			RawCandidates: result.Candidates,
			Reasoning:     result.Reasoning,
			ModelMetadata: result.Metadata,
		}, "", "  ")
		if err != nil {
			logrus.Fatalf("suggest: encode result: %v", err)
		}
		fmt.Println(string(out))
	},
}

func setupLogging() {
	level, err := logrus.ParseLevel(logLevel)
	if err != nil {
		logrus.Fatalf("Invalid log level: %s", logLevel)
	}
	logrus.SetLevel(level)
	logrus.SetOutput(os.Stderr)
}

func loadTuning() agent.Tuning {
	if tuningPath == "" {
		return agent.DefaultTuning()
	}
	t, err := agent.LoadTuning(tuningPath)
	if err != nil {
		logrus.Fatalf("tuning: %v", err)
	}
	return t
}

func buildSink() agent.Sink {
	sink, err := diag.New(snapshotPath, plotDir)
	if err != nil {
		logrus.Warnf("diagnostics disabled: %v", err)
		return nil
	}
	if len(reference) == 2 {
		sink.Reference = reference
	}
	return sink
}

func buildServer() *protocol.Server {
	var calc protocol.Calculator
	worker, err := gulp.NewWorker(gulpBinary, debugDir)
	switch {
	case err == nil:
		calc = worker
	case errors.Is(err, gulp.ErrBinaryNotFound):
		logrus.Warnf("gulp binary not found; CALCULATE tasks will fail")
	default:
		logrus.Fatalf("gulp worker: %v", err)
	}
	return protocol.NewServer(loadTuning(), calc, buildSink())
}

func parseBounds(flat []float64) (agent.Bounds, error) {
	if len(flat) == 0 {
		return agent.DefaultBounds, nil
	}
	if len(flat)%2 != 0 {
		return nil, fmt.Errorf("bounds need lo,hi pairs, got %d values", len(flat))
	}
	b := make(agent.Bounds, 0, len(flat)/2)
	for i := 0; i < len(flat); i += 2 {
		b = append(b, [2]float64{flat[i], flat[i+1]})
	}
	return b, b.Validate()
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")
	rootCmd.PersistentFlags().StringVar(&tuningPath, "tuning", "", "YAML tuning file (defaults apply when empty)")
	rootCmd.PersistentFlags().StringVar(&snapshotPath, "snapshot", "shim_snapshot.csv", "Training-set snapshot CSV path")
	rootCmd.PersistentFlags().StringVar(&plotDir, "plots", "plots", "Surface plot output directory")
	rootCmd.PersistentFlags().Float64SliceVar(&reference, "reference", []float64{1428.5, 0.2945}, "Known-good parameter point marked on plots")

	serveCmd.Flags().StringVar(&gulpBinary, "gulp-bin", "", "GULP executable path (empty = PATH lookup)")
	serveCmd.Flags().StringVar(&debugDir, "debug-dir", "gulp_debug", "Per-job simulator debug directory")

	suggestCmd.Flags().StringVar(&historyPath, "history", "", "JSON evaluation ledger file")
	suggestCmd.Flags().IntVar(&genCounter, "gen", 0, "Iteration index (0 = warm start)")
	suggestCmd.Flags().IntVar(&warmStartSize, "warm", 0, "Warm-start batch size (0 = tuning default)")
	suggestCmd.Flags().IntVar(&batchSize, "batch", 0, "Batch size (0 = default)")
	suggestCmd.Flags().Int64Var(&seed, "seed", protocol.DefaultSeed, "Sampler seed")
	suggestCmd.Flags().Float64SliceVar(&boundsFlat, "bounds", nil, "Bounds as lo,hi pairs (default MgO region)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaldCmd)
	rootCmd.AddCommand(suggestCmd)
}
