package renderer

import (
	"context"
	"io"

	"github.com/honeybbq/prmconfig/pkg/prmconfig"
)

// Renderer 定义文档序列化接口，使用泛型约束文档类型。
type Renderer[T any] interface {
	Render(ctx context.Context, doc T, opts prmconfig.RenderOptions) (*prmconfig.Bundle, error)
}

// Parser 将参数文本解析成领域文档。
type Parser[T any] interface {
	Parse(ctx context.Context, r io.Reader, opts prmconfig.ParseOptions) (T, error)
}
