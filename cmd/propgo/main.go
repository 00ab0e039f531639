package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime/debug"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rgehrsitz/propgo/internal/calculation"
	"github.com/rgehrsitz/propgo/internal/config"
	"github.com/rgehrsitz/propgo/internal/domain"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const (
	envDebug = "PROPGO_DEBUG"
	envAsOf  = "PROPGO_AS_OF"
)

// slogLogger implements calculation.Logger on top of log/slog
type slogLogger struct {
	l *slog.Logger
}

func newSlogLogger(w io.Writer) slogLogger {
	return slogLogger{l: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))}
}

func (s slogLogger) Debugf(format string, args ...interface{}) { s.l.Debug(fmt.Sprintf(format, args...)) }
func (s slogLogger) Infof(format string, args ...interface{})  { s.l.Info(fmt.Sprintf(format, args...)) }
func (s slogLogger) Warnf(format string, args ...interface{})  { s.l.Warn(fmt.Sprintf(format, args...)) }
func (s slogLogger) Errorf(format string, args ...interface{}) { s.l.Error(fmt.Sprintf(format, args...)) }

func main() {
	// A missing .env is normal
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "propgo",
		Short: "Australian property investment projection calculator",
		Long: `Projects the year-by-year outcome of buying a property in an Australian state:
purchase costs, loan and offset simulation, negative gearing, land tax, CGT and the
net position against renting and investing the deposit instead.`,
		SilenceUsage: true,
	}
	root.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr (also "+envDebug+"=1)")

	root.AddCommand(
		newCalculateCmd(),
		newValidateCmd(),
		newCompareCmd(),
		newBreakEvenCmd(),
		newSensitivityCmd(),
		newPurchaseCostsCmd(),
		newStampDutyCmd(),
		newLandTaxCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "propgo %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Main.Path, bi.GoVersion)
			}
		},
	}
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [input-file]",
		Short: "Validate a configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Configuration file %s is valid (%d scenarios)\n", args[0], len(cfg.Scenarios))
			return nil
		},
	}
}

// debugEnabled reports whether --debug or PROPGO_DEBUG asks for logging
func debugEnabled(cmd *cobra.Command) bool {
	if on, _ := cmd.Flags().GetBool("debug"); on {
		return true
	}
	on, _ := strconv.ParseBool(os.Getenv(envDebug))
	return on
}

// clockFromEnv pins the grant clock to PROPGO_AS_OF when it is set
func clockFromEnv() (func() time.Time, error) {
	raw := os.Getenv(envAsOf)
	if raw == "" {
		return nil, nil
	}
	asOf, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, fmt.Errorf("%s must be YYYY-MM-DD: %w", envAsOf, err)
	}
	return func() time.Time { return asOf }, nil
}

// newEngine builds a calculation engine for the loaded configuration
func newEngine(cmd *cobra.Command, cfg *domain.Configuration) (*calculation.CalculationEngine, error) {
	opts := []calculation.EngineOption{calculation.WithTaxCalculator(config.TaxCalculator(cfg))}

	clock, err := clockFromEnv()
	if err != nil {
		return nil, err
	}
	if clock != nil {
		opts = append(opts, calculation.WithClock(clock))
	}

	engine := calculation.NewCalculationEngine(opts...)
	if debugEnabled(cmd) {
		engine.SetLogger(newSlogLogger(cmd.ErrOrStderr()))
	}
	return engine, nil
}

// loadEngine parses the input file and builds an engine for it
func loadEngine(cmd *cobra.Command, path string) (*domain.Configuration, *calculation.CalculationEngine, error) {
	cfg, err := config.NewInputParser().LoadFromFile(path)
	if err != nil {
		return nil, nil, err
	}
	engine, err := newEngine(cmd, cfg)
	if err != nil {
		return nil, nil, err
	}
	return cfg, engine, nil
}
