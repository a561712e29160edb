package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/honeybbq/prmconfig/domain/simlog"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

func newColumnsCommand(a *app) *cobra.Command {
	var calculation string
	cmd := &cobra.Command{
		Use:   "columns <simlog.yaml>",
		Short: "Print the spreadsheet row a simulation log maps to",
		Long: `Print one "column<TAB>value" line per cell of the spreadsheet row built from a
YAML simulation log: c:Calculation first, then p:<key> for every top-level parameter.
The calculation name defaults to the directory holding the log.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			data, err := os.ReadFile(path)
			if err != nil {
				return prmerrors.New(prmerrors.KindInputUnavailable, err)
			}
			doc, err := simlog.Decode(data)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			simDir := calculation
			if simDir == "" {
				abs, err := filepath.Abs(path)
				if err != nil {
					return err
				}
				simDir = filepath.Dir(abs)
			}
			out := cmd.OutOrStdout()
			for _, col := range simlog.Columns(doc, simDir) {
				fmt.Fprintf(out, "%s\t%s\n", col.Name, col.Value)
			}
			a.log.Debug("columns printed", zap.String("path", path))
			return nil
		},
	}
	cmd.Flags().StringVar(&calculation, "calculation", "", "Calculation directory (default: directory of the log file)")
	return cmd
}
