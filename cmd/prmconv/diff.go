package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/changeset"
	"github.com/honeybbq/prmconfig/pkg/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
	yamlrenderer "github.com/honeybbq/prmconfig/pkg/renderer/yaml"
)

var (
	diffAdded   = color.New(color.FgGreen).SprintFunc()
	diffRemoved = color.New(color.FgRed).SprintFunc()
	diffChanged = color.New(color.FgYellow).SprintFunc()
	diffHeader  = color.New(color.Bold).SprintFunc()
)

func newDiffCommand(a *app) *cobra.Command {
	var (
		strict  bool
		unified bool
	)
	cmd := &cobra.Command{
		Use:   "diff <base> <target>",
		Short: "Show parameters that differ between two parameter files",
		Long: `Compare two parameter files leaf by leaf. Lines starting with "+" are parameters
only present in the target, "-" only in the base, "~" changed value or type.
With --unified a unified diff of the two YAML documents is printed instead.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := prm.NewParser(a.log)
			opts := prmconfig.ParseOptions{Strict: strict}
			versions := make([]*changeset.VersionedConfig, 0, len(args))
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return prmerrors.New(prmerrors.KindInputUnavailable, err)
				}
				res, err := parser.Parse(cmd.Context(), bytes.NewReader(raw), opts)
				if err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				versions = append(versions, changeset.NewVersioned(path, raw, res.Root, time.Now()))
			}

			cs := changeset.Compute(versions[0], versions[1])
			out := cmd.OutOrStdout()
			paint := isTerminalWriter(out) && !color.NoColor
			if unified {
				text, err := unifiedDiff(cmd.Context(), cs)
				if err != nil {
					return err
				}
				writeUnified(out, text, paint)
			} else {
				writeChangeSet(out, cs, paint)
			}
			a.log.Debug("diff computed",
				zap.Int("added", len(cs.Diff.Added)),
				zap.Int("removed", len(cs.Diff.Removed)),
				zap.Int("changed", len(cs.Diff.Changed)),
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail on malformed lines and unbalanced sections instead of warning")
	cmd.Flags().BoolVarP(&unified, "unified", "u", false, "Print a unified diff of the YAML documents")
	return cmd
}

func writeChangeSet(w io.Writer, cs *changeset.ChangeSet, paint bool) {
	style := func(f func(a ...any) string, s string) string {
		if paint {
			return f(s)
		}
		return s
	}
	fmt.Fprintln(w, style(diffHeader, fmt.Sprintf("--- %s (sha256:%s)", cs.Base.VersionID, cs.Base.ShortChecksum())))
	fmt.Fprintln(w, style(diffHeader, fmt.Sprintf("+++ %s (sha256:%s)", cs.Target.VersionID, cs.Target.ShortChecksum())))
	if cs.Diff.Empty() {
		fmt.Fprintln(w, "no differences")
		return
	}
	for _, c := range cs.Diff.Removed {
		fmt.Fprintln(w, style(diffRemoved, fmt.Sprintf("- %s = %s", c, formatEntry(c.Old))))
	}
	for _, c := range cs.Diff.Added {
		fmt.Fprintln(w, style(diffAdded, fmt.Sprintf("+ %s = %s", c, formatEntry(c.New))))
	}
	for _, c := range cs.Diff.Changed {
		fmt.Fprintln(w, style(diffChanged, fmt.Sprintf("~ %s = %s -> %s", c, formatEntry(c.Old), formatEntry(c.New))))
	}
}

// unifiedDiff renders both trees as YAML documents and diffs the text.
func unifiedDiff(ctx context.Context, cs *changeset.ChangeSet) (string, error) {
	r := yamlrenderer.NewRenderer()
	texts := make([]string, 0, 2)
	for _, v := range []*changeset.VersionedConfig{cs.Base, cs.Target} {
		bundle, err := r.Render(ctx, simlog.New(v.Config, v.VersionID, prmconfig.AssembleOptions{}), prmconfig.RenderOptions{})
		if err != nil {
			return "", err
		}
		texts = append(texts, string(bundle.Content))
	}
	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(texts[0]),
		B:        difflib.SplitLines(texts[1]),
		FromFile: cs.Base.VersionID,
		ToFile:   cs.Target.VersionID,
		Context:  3,
	}
	return difflib.GetUnifiedDiffString(ud)
}

func writeUnified(w io.Writer, text string, paint bool) {
	if text == "" {
		fmt.Fprintln(w, "no differences")
		return
	}
	if !paint {
		fmt.Fprint(w, text)
		return
	}
	for _, line := range strings.SplitAfter(text, "\n") {
		switch {
		case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
			fmt.Fprint(w, diffHeader(line))
		case strings.HasPrefix(line, "-"):
			fmt.Fprint(w, diffRemoved(line))
		case strings.HasPrefix(line, "+"):
			fmt.Fprint(w, diffAdded(line))
		case strings.HasPrefix(line, "@@"):
			fmt.Fprint(w, diffChanged(line))
		default:
			fmt.Fprint(w, line)
		}
	}
}

// formatEntry writes a leaf the way it appears after "=" in a parameter file.
func formatEntry(e *ast.Entry) string {
	if e.HasType() {
		return e.Value + ", " + e.Type
	}
	return e.Value
}

func isTerminalWriter(w io.Writer) bool {
	type fdProvider interface {
		Fd() uintptr
	}
	if v, ok := w.(fdProvider); ok {
		return term.IsTerminal(int(v.Fd()))
	}
	return false
}
