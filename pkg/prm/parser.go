package prm

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

// Result is the outcome of one parse pass.
type Result struct {
	Root        *ast.Section
	Diagnostics []prmconfig.Diagnostic
	Lines       int
}

// Parser 将参数文件解析为有序的 Section 树。
type Parser struct {
	log *zap.Logger
}

// NewParser returns a parser reporting recovered anomalies to log.
// A nil logger discards them.
func NewParser(log *zap.Logger) *Parser {
	if log == nil {
		log = zap.NewNop()
	}
	return &Parser{log: log}
}

// ParseFile opens path and parses it.
func (p *Parser) ParseFile(ctx context.Context, path string, opts prmconfig.ParseOptions) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, prmerrors.New(prmerrors.KindInputUnavailable, err)
	}
	defer f.Close()
	return p.Parse(ctx, f, opts)
}

// Parse reads r line by line in a single pass. Malformed lines and stray "end"
// lines are recorded as diagnostics and skipped unless opts.Strict is set.
func (p *Parser) Parse(ctx context.Context, r io.Reader, opts prmconfig.ParseOptions) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if r == nil {
		return nil, prmerrors.New(prmerrors.KindInputUnavailable, fmt.Errorf("reader is nil"))
	}

	res := &Result{Root: ast.NewSection()}
	st := newStack(res.Root)

	// 逐行读取，不限制行长度
	br := bufio.NewReader(r)
	for {
		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return nil, prmerrors.New(prmerrors.KindInputUnavailable, fmt.Errorf("read line %d: %w", res.Lines+1, readErr))
		}
		if raw == "" && readErr == io.EOF {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res.Lines++
		if err := p.line(res, st, Classify(raw), opts); err != nil {
			return nil, err
		}
		if readErr == io.EOF {
			break
		}
	}

	// 文件结束时仍未关闭的 subsection 隐式关闭
	for _, name := range st.open() {
		d := prmconfig.Diagnostic{Kind: prmconfig.DiagnosticUnclosedSection, Text: name}
		if err := p.report(res, d, opts); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// line applies one classified line to the stack.
func (p *Parser) line(res *Result, st *stack, line Line, opts prmconfig.ParseOptions) error {
	if line.Repaired {
		d := prmconfig.Diagnostic{Kind: prmconfig.DiagnosticInvalidEncoding, Line: res.Lines, Text: line.Text}
		if err := p.report(res, d, opts); err != nil {
			return err
		}
	}

	switch line.Kind {
	case LineSkip:
	case LineOpen:
		st.push(line.Name, st.top().Subsection(line.Name))
	case LineClose:
		if !st.pop() {
			d := prmconfig.Diagnostic{Kind: prmconfig.DiagnosticUnbalancedSection, Line: res.Lines, Text: line.Text}
			return p.report(res, d, opts)
		}
	case LineAssign:
		st.top().SetEntry(line.Key, line.Value, line.Type)
	case LineUnrecognized:
		d := prmconfig.Diagnostic{Kind: prmconfig.DiagnosticMalformedLine, Line: res.Lines, Text: line.Text}
		return p.report(res, d, opts)
	}
	return nil
}

func (p *Parser) report(res *Result, d prmconfig.Diagnostic, opts prmconfig.ParseOptions) error {
	if opts.Strict {
		kind := prmerrors.KindUnbalancedSection
		switch d.Kind {
		case prmconfig.DiagnosticMalformedLine, prmconfig.DiagnosticInvalidEncoding:
			kind = prmerrors.KindMalformedLine
		}
		return prmerrors.New(kind, fmt.Errorf("%s", d))
	}
	res.Diagnostics = append(res.Diagnostics, d)
	p.log.Warn(d.String(),
		zap.String("kind", string(d.Kind)),
		zap.Int("line", d.Line),
	)
	return nil
}

type frame struct {
	name    string
	section *ast.Section
}

// stack holds the open nesting path; the root frame is never popped.
type stack struct {
	frames []frame
}

func newStack(root *ast.Section) *stack {
	return &stack{frames: []frame{{section: root}}}
}

func (s *stack) top() *ast.Section {
	return s.frames[len(s.frames)-1].section
}

func (s *stack) push(name string, sec *ast.Section) {
	s.frames = append(s.frames, frame{name: name, section: sec})
}

// pop reports false when only the root is left.
func (s *stack) pop() bool {
	if len(s.frames) <= 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-1]
	return true
}

// open returns the names of subsections still open, innermost first.
func (s *stack) open() []string {
	names := make([]string, 0, len(s.frames)-1)
	for i := len(s.frames) - 1; i > 0; i-- {
		names = append(names, s.frames[i].name)
	}
	return names
}
