package yaml

import (
	"bytes"
	"context"
	"fmt"

	yamlv3 "gopkg.in/yaml.v3"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

// Renderer 将 simlog 文档渲染为保持插入顺序的 YAML。
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render 实现 renderer.Renderer。
func (r *Renderer) Render(ctx context.Context, doc *simlog.Document, opts prmconfig.RenderOptions) (*prmconfig.Bundle, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if doc == nil {
		return nil, prmerrors.New(prmerrors.KindRender, fmt.Errorf("simlog document is nil"))
	}

	var buf bytes.Buffer
	enc := yamlv3.NewEncoder(&buf)
	enc.SetIndent(opts.IndentOrDefault())
	if err := enc.Encode(DocumentNode(doc)); err != nil {
		return nil, prmerrors.New(prmerrors.KindRender, fmt.Errorf("encode yaml: %w", err))
	}
	if err := enc.Close(); err != nil {
		return nil, prmerrors.New(prmerrors.KindRender, fmt.Errorf("encode yaml: %w", err))
	}

	bundle := prmconfig.NewBundle(prmconfig.FormatYAML, "")
	bundle.Content = buf.Bytes()
	return bundle, nil
}

// DocumentNode builds the YAML node tree for doc. Mapping keys are emitted in
// the order they are appended, so the tree carries the section order as is.
func DocumentNode(doc *simlog.Document) *yamlv3.Node {
	inputs := &yamlv3.Node{Kind: yamlv3.SequenceNode, Tag: "!!seq"}
	for _, desc := range doc.Inputs {
		if desc == nil {
			continue
		}
		inputs.Content = append(inputs.Content, descriptorNode(desc))
	}
	return mapping(str(simlog.FieldInputs), inputs)
}

func descriptorNode(desc *simlog.Descriptor) *yamlv3.Node {
	return mapping(
		str(simlog.FieldPath), str(desc.Path),
		str(simlog.FieldEncodingFormat), str(desc.EncodingFormat),
		str(simlog.FieldName), str(desc.Name),
		str(simlog.FieldDescription), str(desc.Description),
		str(simlog.FieldDownload), boolean(desc.Download),
		str(simlog.FieldParameters), SectionNode(desc.Parameters),
	)
}

// SectionNode renders a section as a mapping; leaves become {value[, type]}.
func SectionNode(sec *ast.Section) *yamlv3.Node {
	out := mapping()
	for key, n := range sec.All() {
		var child *yamlv3.Node
		switch v := n.(type) {
		case *ast.Entry:
			child = entryNode(v)
		case *ast.Section:
			child = SectionNode(v)
		default:
			continue
		}
		out.Content = append(out.Content, str(key), child)
	}
	return out
}

func entryNode(e *ast.Entry) *yamlv3.Node {
	out := mapping(str(simlog.FieldValue), str(e.Value))
	// 没有类型时整个字段省略，而不是写 null
	if e.HasType() {
		out.Content = append(out.Content, str(simlog.FieldType), str(e.Type))
	}
	return out
}

// mapping takes alternating key and value nodes.
func mapping(kv ...*yamlv3.Node) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.MappingNode, Tag: "!!map", Content: kv}
}

func str(v string) *yamlv3.Node {
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!str", Value: v}
}

func boolean(v bool) *yamlv3.Node {
	value := "false"
	if v {
		value = "true"
	}
	return &yamlv3.Node{Kind: yamlv3.ScalarNode, Tag: "!!bool", Value: value}
}
