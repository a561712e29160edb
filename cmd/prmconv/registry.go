package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	simlogbackend "github.com/honeybbq/prmconfig/backend/simlog"
	"github.com/honeybbq/prmconfig/pkg/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
	jsonrenderer "github.com/honeybbq/prmconfig/pkg/renderer/json"
	pbrenderer "github.com/honeybbq/prmconfig/pkg/renderer/pb"
	yamlrenderer "github.com/honeybbq/prmconfig/pkg/renderer/yaml"
)

func buildRegistry(log *zap.Logger) map[prmconfig.Format]*simlogbackend.Backend {
	parser := prm.NewParser(log)
	return map[prmconfig.Format]*simlogbackend.Backend{
		prmconfig.FormatYAML:     simlogbackend.New(prmconfig.FormatYAML, yamlrenderer.NewRenderer(), parser),
		prmconfig.FormatJSON:     simlogbackend.New(prmconfig.FormatJSON, jsonrenderer.NewRenderer(), parser),
		prmconfig.FormatProtobuf: simlogbackend.New(prmconfig.FormatProtobuf, pbrenderer.NewRenderer(), parser),
	}
}

func lookupBackend(log *zap.Logger, format string) (*simlogbackend.Backend, error) {
	registry := buildRegistry(log)
	backend, ok := registry[prmconfig.Format(strings.ToLower(format))]
	if !ok {
		return nil, prmerrors.Newf(prmerrors.KindUnsupported, "unknown format %q (use %s)", format, strings.Join(formatNames(registry), "|"))
	}
	return backend, nil
}

func formatNames(registry map[prmconfig.Format]*simlogbackend.Backend) []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return names
}

func newFormatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Supported formats:")
			for _, name := range formatNames(buildRegistry(zap.NewNop())) {
				fmt.Fprintf(out, "  - %s\n", name)
			}
			return nil
		},
	}
}
