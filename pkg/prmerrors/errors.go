package prmerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the high level class of an error surfaced by prmconfig.
type Kind string

const (
	// KindInputUnavailable indicates the parameter file could not be opened or read.
	KindInputUnavailable Kind = "input_unavailable"
	// KindMalformedLine 表示某一行无法识别。
	KindMalformedLine Kind = "malformed_line"
	// KindUnbalancedSection 表示 subsection/end 不配对。
	KindUnbalancedSection Kind = "unbalanced_section"
	// KindOutputUnwritable indicates the destination could not be created or written.
	KindOutputUnwritable Kind = "output_unwritable"
	// KindRender 表示序列化失败。
	KindRender Kind = "render"
	// KindConflict 表示新数据与已有表结构冲突。
	KindConflict Kind = "conflict"
	// KindUnsupported 表示暂不支持的功能。
	KindUnsupported Kind = "unsupported"
	// KindInternal 表示未知或内部错误。
	KindInternal Kind = "internal"
)

// Error 包装底层错误并附加 Kind，方便调用方根据类型处理。
type Error struct {
	Kind Kind
	Err  error
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap 允许 errors.Is/As 访问底层错误。
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New 创建指定 Kind 的错误。
func New(kind Kind, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Err: err}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the kind of the outermost *Error in the chain, or KindInternal
// when err carries no kind at all.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	return KindOf(err) == kind
}
