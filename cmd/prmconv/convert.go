package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

// Simulation directory layout used when convert gets a single directory.
const (
	simCodeDir   = "code"
	simParamFile = "parameters.prm"
	simLogBase   = "simlog"
)

// convertFlags are shared by convert and merge.
type convertFlags struct {
	format      string
	indent      int
	strict      bool
	name        string
	description string
}

func (f *convertFlags) bind(fs *pflag.FlagSet) {
	fs.StringVarP(&f.format, "format", "f", string(prmconfig.FormatYAML), "Output format (yaml, json, pb)")
	fs.IntVar(&f.indent, "indent", prmconfig.DefaultIndent, "Indentation width for yaml and json output")
	fs.BoolVar(&f.strict, "strict", false, "Fail on malformed lines and unbalanced sections instead of warning")
	fs.StringVar(&f.name, "name", "", "Descriptor name (default \"parameters.prm\")")
	fs.StringVar(&f.description, "description", "", "Descriptor description (default \"Parameter file required to run simulation\")")
}

func (f *convertFlags) options() prmconfig.Options {
	return prmconfig.Options{
		Parse:    prmconfig.ParseOptions{Strict: f.strict},
		Assemble: prmconfig.AssembleOptions{Name: f.name, Description: f.description},
		Render:   prmconfig.RenderOptions{Indent: f.indent},
	}
}

func newConvertCommand(a *app) *cobra.Command {
	flags := &convertFlags{}
	cmd := &cobra.Command{
		Use:   "convert <input> [output]",
		Short: "Convert one parameter file",
		Long: `Convert one parameter file. With two arguments the first is read and the second
written ("-" means stdin/stdout). With a single directory argument the simulation
layout is used: <dir>/code/parameters.prm is read and <dir>/simlog.<format> written.
A single file argument writes to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := lookupBackend(a.log, flags.format)
			if err != nil {
				return err
			}
			in, out, err := resolvePaths(args, backend.Format())
			if err != nil {
				return err
			}

			r, err := openInput(cmd.InOrStdin(), in)
			if err != nil {
				return err
			}
			defer r.Close()

			bundle, err := backend.Convert(cmd.Context(), prmconfig.Source{Path: in, Reader: r}, flags.options())
			if err != nil {
				return fmt.Errorf("convert %s: %w", in, err)
			}
			if err := writeOutput(cmd.OutOrStdout(), out, bundle.Content); err != nil {
				return err
			}
			a.log.Info("output generated",
				zap.String("input", in),
				zap.String("path", out),
				zap.String("format", string(bundle.Metadata.Format)),
				zap.Int("warnings", len(bundle.Diagnostics)),
			)
			return nil
		},
	}
	flags.bind(cmd.Flags())
	return cmd
}

// resolvePaths maps positional arguments to an input and an output path.
func resolvePaths(args []string, format prmconfig.Format) (string, string, error) {
	if len(args) == 2 {
		return args[0], args[1], nil
	}
	in := args[0]
	if in == "-" {
		return in, "-", nil
	}
	info, err := os.Stat(in)
	if err != nil {
		return "", "", prmerrors.New(prmerrors.KindInputUnavailable, err)
	}
	if info.IsDir() {
		return filepath.Join(in, simCodeDir, simParamFile), filepath.Join(in, simLogBase+"."+string(format)), nil
	}
	return in, "-", nil
}

func openInput(stdin io.Reader, path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, prmerrors.New(prmerrors.KindInputUnavailable, err)
	}
	return f, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		if _, err := stdout.Write(data); err != nil {
			return prmerrors.New(prmerrors.KindOutputUnwritable, err)
		}
		return nil
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return prmerrors.New(prmerrors.KindOutputUnwritable, err)
	}
	return nil
}
