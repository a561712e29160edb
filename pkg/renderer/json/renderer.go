package json

import (
	"bytes"
	"context"
	stdjson "encoding/json"
	"fmt"
	"strings"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

// Renderer 将 simlog 文档渲染为 JSON，对象字段按插入顺序输出。
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

	w := &writer{indent: strings.Repeat(" ", opts.IndentOrDefault())}
	w.document(doc)
	if w.err != nil {
		return nil, prmerrors.New(prmerrors.KindRender, fmt.Errorf("encode json: %w", w.err))
	}
	w.buf.WriteByte('\n')

	bundle := prmconfig.NewBundle(prmconfig.FormatJSON, "")
	bundle.Content = w.buf.Bytes()
	return bundle, nil
}

type writer struct {
	buf    bytes.Buffer
	indent string
	depth  int
	err    error
}

func (w *writer) document(doc *simlog.Document) {
	w.open('{')
	w.key(simlog.FieldInputs, true)
	w.open('[')
	first := true
	for _, desc := range doc.Inputs {
		if desc == nil {
			continue
		}
		w.item(first)
		first = false
		w.descriptor(desc)
	}
	w.close(']', first)
	w.close('}', false)
}

func (w *writer) descriptor(desc *simlog.Descriptor) {
	w.open('{')
	w.key(simlog.FieldPath, true)
	w.str(desc.Path)
	w.key(simlog.FieldEncodingFormat, false)
	w.str(desc.EncodingFormat)
	w.key(simlog.FieldName, false)
	w.str(desc.Name)
	w.key(simlog.FieldDescription, false)
	w.str(desc.Description)
	w.key(simlog.FieldDownload, false)
	fmt.Fprintf(&w.buf, "%t", desc.Download)
	w.key(simlog.FieldParameters, false)
	w.section(desc.Parameters)
	w.close('}', false)
}

func (w *writer) section(sec *ast.Section) {
	w.open('{')
	first := true
	for key, n := range sec.All() {
		switch v := n.(type) {
		case *ast.Entry:
			w.key(key, first)
			w.entry(v)
		case *ast.Section:
			w.key(key, first)
			w.section(v)
		default:
			continue
		}
		first = false
	}
	w.close('}', first)
}

func (w *writer) entry(e *ast.Entry) {
	w.open('{')
	w.key(simlog.FieldValue, true)
	w.str(e.Value)
	if e.HasType() {
		w.key(simlog.FieldType, false)
		w.str(e.Type)
	}
	w.close('}', false)
}

func (w *writer) open(c byte) {
	w.buf.WriteByte(c)
	w.depth++
}

// close ends an object or array; empty ones stay on one line.
func (w *writer) close(c byte, empty bool) {
	w.depth--
	if !empty {
		w.newline()
	}
	w.buf.WriteByte(c)
}

func (w *writer) item(first bool) {
	if !first {
		w.buf.WriteByte(',')
	}
	w.newline()
}

func (w *writer) key(name string, first bool) {
	w.item(first)
	w.str(name)
	w.buf.WriteString(": ")
}

func (w *writer) newline() {
	w.buf.WriteByte('\n')
	for i := 0; i < w.depth; i++ {
		w.buf.WriteString(w.indent)
	}
}

func (w *writer) str(s string) {
	if w.err != nil {
		return
	}
	var b bytes.Buffer
	enc := stdjson.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		w.err = err
		return
	}
	w.buf.Write(bytes.TrimSuffix(b.Bytes(), []byte("\n")))
}
