// main.go bootstraps prmconv: it builds the root Cobra command and executes it with a signal-aware context.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/honeybbq/prmconfig/internal/logging"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

const (
	envPrefix     = "PRMCONV"
	envConfigFile = "PRMCONV_CONFIG"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	rootCmd := newRootCommand()
	err := rootCmd.ExecuteContext(ctx)
	handleError(err)
	if err != nil {
		os.Exit(1)
	}
}

// app carries state shared by all subcommands once flags are resolved.
type app struct {
	logLevel string
	noColor  bool
	log      *zap.Logger
}

func newRootCommand() *cobra.Command {
	a := &app{logLevel: "info", log: zap.NewNop()}
	cmd := &cobra.Command{
		Use:   "prmconv",
		Short: "Convert section-structured parameter files into simulation log documents",
		Long: `prmconv reads parameter files made of nested "subsection <name>" / "end" blocks
and "set <key> = <value>[, <type>]" lines, and writes an order-preserving document
describing the file and every parameter in it.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyEnvAndConfig(cmd); err != nil {
				return err
			}
			if a.noColor || os.Getenv("NO_COLOR") != "" {
				color.NoColor = true
			}
			logger, err := logging.New(a.logLevel)
			if err != nil {
				return err
			}
			a.log = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.log.Sync()
		},
	}
	cmd.PersistentFlags().StringVar(&a.logLevel, "log-level", a.logLevel, "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "Disable colored output")

	cmd.AddCommand(
		newConvertCommand(a),
		newMergeCommand(a),
		newColumnsCommand(a),
		newDiffCommand(a),
		newAppendCommand(a),
		newFormatsCommand(),
	)
	cmd.Example = `  # Convert a parameter file, writing YAML
  prmconv convert parameters.prm simlog.yaml

  # Use the simulation directory layout (<dir>/code/parameters.prm -> <dir>/simlog.yaml)
  prmconv convert runs/heat-01

  # Layer an override file on top of a base file and print JSON
  prmconv merge base.prm override.prm --format json

  # Record a finished run in a results table
  prmconv append runs/heat-01 results.db --run-description "baseline"

  # Show what an override changes
  prmconv diff base.prm override.prm`
	return cmd
}

// applyEnvAndConfig fills flags the user did not set from PRMCONV_<FLAG>
// environment variables and from the file named by PRMCONV_CONFIG.
func applyEnvAndConfig(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	if file := os.Getenv(envConfigFile); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", file, err)
		}
	}
	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	var firstErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		val := v.GetString(f.Name)
		if val == "" {
			return
		}
		if err := f.Value.Set(val); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("invalid value %q for --%s: %w", val, f.Name, err)
		}
	})
	return firstErr
}

func handleError(err error) {
	if err == nil || errors.Is(err, pflag.ErrHelp) {
		return
	}
	message := err.Error()
	switch prmerrors.KindOf(err) {
	case prmerrors.KindMalformedLine, prmerrors.KindUnbalancedSection:
		message = fmt.Sprintf("%s\nHint: drop --strict to skip anomalies with a warning.", err)
	}
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
}
