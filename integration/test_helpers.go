package integration

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"

	simlogbackend "github.com/honeybbq/prmconfig/backend/simlog"
	"github.com/honeybbq/prmconfig/pkg/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	jsonrenderer "github.com/honeybbq/prmconfig/pkg/renderer/json"
	pbrenderer "github.com/honeybbq/prmconfig/pkg/renderer/pb"
	yamlrenderer "github.com/honeybbq/prmconfig/pkg/renderer/yaml"
)

// documentPath 写入 descriptor 的 path，使 golden 文件与临时目录无关
const documentPath = "parameters.prm"

func fixture(name string) string {
	return filepath.Join("..", "testdata", "prm", name)
}

func newBackend(format prmconfig.Format) *simlogbackend.Backend {
	parser := prm.NewParser(zap.NewNop())
	switch format {
	case prmconfig.FormatJSON:
		return simlogbackend.New(format, jsonrenderer.NewRenderer(), parser)
	case prmconfig.FormatProtobuf:
		return simlogbackend.New(format, pbrenderer.NewRenderer(), parser)
	default:
		return simlogbackend.New(prmconfig.FormatYAML, yamlrenderer.NewRenderer(), parser)
	}
}

// convertFixture 读取 testdata 中的参数文件并转换。
func convertFixture(t *testing.T, name string, format prmconfig.Format) *prmconfig.Bundle {
	t.Helper()
	f, err := os.Open(fixture(name))
	if err != nil {
		t.Fatalf("open fixture: %v", err)
	}
	defer f.Close()

	bundle, err := newBackend(format).Convert(context.Background(), prmconfig.Source{Path: documentPath, Reader: f}, prmconfig.Options{})
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	return bundle
}

func readGolden(t *testing.T, name string) string {
	t.Helper()
	want, err := os.ReadFile(fixture(name))
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(want)
}

// normalizeConfig 统一换行符
func normalizeConfig(text string) string {
	return strings.ReplaceAll(text, "\r\n", "\n")
}

// assertGolden compares got with the golden file line by line.
func assertGolden(t *testing.T, got, goldenName string) {
	t.Helper()
	want := readGolden(t, goldenName)
	gotLines := strings.Split(normalizeConfig(got), "\n")
	wantLines := strings.Split(normalizeConfig(want), "\n")
	if diff := cmp.Diff(wantLines, gotLines); diff != "" {
		t.Fatalf("%s mismatch (-want +got):\n%s", goldenName, diff)
	}
}
