package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
)

func newMergeCommand(a *app) *cobra.Command {
	flags := &convertFlags{}
	var output string
	cmd := &cobra.Command{
		Use:   "merge <base> <override>...",
		Short: "Merge parameter files in order and convert the result",
		Long: `Merge parameter files in order: later files override values of earlier ones in
place, subsections are merged recursively and new keys are appended. The merged
tree is written as one document whose path is the base file.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := lookupBackend(a.log, flags.format)
			if err != nil {
				return err
			}
			opts := flags.options()
			parser := prm.NewParser(a.log)

			// 各文件并发解析，结果按参数顺序合并
			results := make([]*prm.Result, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			for i, path := range args {
				g.Go(func() error {
					res, err := parser.ParseFile(ctx, path, opts.Parse)
					if err != nil {
						return fmt.Errorf("parse %s: %w", path, err)
					}
					results[i] = res
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			sections := make([]*ast.Section, len(results))
			warnings := 0
			for i, res := range results {
				sections[i] = res.Root
				warnings += len(res.Diagnostics)
			}
			merged, err := prmconfig.MergeSections(sections...)
			if err != nil {
				return err
			}

			bundle, err := backend.Render(cmd.Context(), merged, args[0], opts)
			if err != nil {
				return err
			}
			if err := writeOutput(cmd.OutOrStdout(), output, bundle.Content); err != nil {
				return err
			}
			a.log.Info("output generated",
				zap.Strings("inputs", args),
				zap.String("path", output),
				zap.String("format", string(bundle.Metadata.Format)),
				zap.Int("warnings", warnings),
			)
			return nil
		},
	}
	flags.bind(cmd.Flags())
	cmd.Flags().StringVarP(&output, "output", "o", "-", "Output path (\"-\" for stdout)")
	return cmd
}
