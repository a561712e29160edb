package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/honeybbq/prmconfig/domain/simlog"
	"github.com/honeybbq/prmconfig/internal/runstore"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

func newAppendCommand(a *app) *cobra.Command {
	var (
		description  string
		observations string
	)
	cmd := &cobra.Command{
		Use:   "append <simulation-dir> <runs.db>",
		Short: "Append the row of a simulation run to a SQLite run table",
		Long: `Read <simulation-dir>/simlog.yaml and append its spreadsheet row (see "columns") to
the runs table of a SQLite database. The first row creates the table; later rows must
not bring parameters the table has no column for.

description.txt and observations.txt are written into the simulation directory from
--run-description and --observations, or created empty when missing.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			simDir, dbPath := args[0], args[1]
			logPath := filepath.Join(simDir, simLogBase+".yaml")
			data, err := os.ReadFile(logPath)
			if err != nil {
				return prmerrors.New(prmerrors.KindInputUnavailable, fmt.Errorf("simulation log not found in %s: %w", simDir, err))
			}
			doc, err := simlog.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", logPath, err)
			}

			if err := writeNote(filepath.Join(simDir, simlog.DescriptionFile), description, description != "" || cmd.Flags().Changed("run-description")); err != nil {
				return err
			}
			if err := writeNote(filepath.Join(simDir, simlog.ObservationsFile), observations, observations != "" || cmd.Flags().Changed("observations")); err != nil {
				return err
			}

			store, err := runstore.Open(cmd.Context(), dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			cols := simlog.Columns(doc, simDir)
			created, err := store.Append(cmd.Context(), cols)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if created {
				fmt.Fprintf(out, "Created new table in: %s\n", dbPath)
			} else {
				fmt.Fprintf(out, "Appended data to: %s\n", dbPath)
			}
			a.log.Info("run appended",
				zap.String("calculation", simlog.CalculationName(simDir)),
				zap.String("path", dbPath),
				zap.Int("columns", len(cols)),
			)
			return nil
		},
	}
	cmd.Flags().StringVar(&description, "run-description", "", "Text written to description.txt")
	cmd.Flags().StringVar(&observations, "observations", "", "Text written to observations.txt")
	return cmd
}

// writeNote writes text to path when set explicitly, otherwise only makes
// sure the file exists.
func writeNote(path, text string, set bool) error {
	if !set {
		if _, err := os.Stat(path); err == nil || !errors.Is(err, fs.ErrNotExist) {
			return nil
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return prmerrors.New(prmerrors.KindOutputUnwritable, err)
	}
	return nil
}
