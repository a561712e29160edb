// Package pb encodes a simulation log document in protobuf wire format.
//
// The layout corresponds to:
//
//	message Document   { repeated Descriptor inputs = 1; }
//	message Descriptor {
//	  string  path = 1;
//	  string  encoding_format = 2;
//	  string  name = 3;
//	  string  description = 4;
//	  bool    download = 5;
//	  Section parameters = 6;
//	}
//	message Section { repeated Member members = 1; }
//	message Member  {
//	  string name = 1;
//	  oneof node { Entry entry = 2; Section section = 3; }
//	}
//	message Entry   { string value = 1; optional string type = 2; }
//
// Section members are a repeated field, so insertion order survives the encoding.
package pb

import (
	"context"
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
	"github.com/honeybbq/prmconfig/pkg/prmconfig"
	"github.com/honeybbq/prmconfig/pkg/prmerrors"
)

const (
	documentInputs protowire.Number = 1

	descriptorPath           protowire.Number = 1
	descriptorEncodingFormat protowire.Number = 2
	descriptorName           protowire.Number = 3
	descriptorDescription    protowire.Number = 4
	descriptorDownload       protowire.Number = 5
	descriptorParameters     protowire.Number = 6

	sectionMembers protowire.Number = 1

	memberName    protowire.Number = 1
	memberEntry   protowire.Number = 2
	memberSection protowire.Number = 3

	entryValue protowire.Number = 1
	entryType  protowire.Number = 2
)

// Renderer 将 simlog 文档编码为 protobuf 二进制。
type Renderer struct{}

func NewRenderer() *Renderer {
	return &Renderer{}
}

// Render 实现 renderer.Renderer。opts 对二进制格式无影响。
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

	bundle := prmconfig.NewBundle(prmconfig.FormatProtobuf, "")
	bundle.Content = Marshal(doc)
	return bundle, nil
}

// Marshal encodes doc.
func Marshal(doc *simlog.Document) []byte {
	var b []byte
	for _, desc := range doc.Inputs {
		if desc == nil {
			continue
		}
		b = appendMessage(b, documentInputs, appendDescriptor(nil, desc))
	}
	return b
}

func appendDescriptor(b []byte, desc *simlog.Descriptor) []byte {
	b = appendString(b, descriptorPath, desc.Path)
	b = appendString(b, descriptorEncodingFormat, desc.EncodingFormat)
	b = appendString(b, descriptorName, desc.Name)
	b = appendString(b, descriptorDescription, desc.Description)
	if desc.Download {
		b = protowire.AppendTag(b, descriptorDownload, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeBool(true))
	}
	return appendMessage(b, descriptorParameters, appendSection(nil, desc.Parameters))
}

func appendSection(b []byte, sec *ast.Section) []byte {
	for key, n := range sec.All() {
		var m []byte
		m = appendString(m, memberName, key)
		switch v := n.(type) {
		case *ast.Entry:
			m = appendMessage(m, memberEntry, appendEntry(nil, v))
		case *ast.Section:
			m = appendMessage(m, memberSection, appendSection(nil, v))
		default:
			continue
		}
		b = appendMessage(b, sectionMembers, m)
	}
	return b
}

func appendEntry(b []byte, e *ast.Entry) []byte {
	// value 总是写出，空字符串也保留
	b = protowire.AppendTag(b, entryValue, protowire.BytesType)
	b = protowire.AppendString(b, e.Value)
	if e.HasType() {
		b = appendString(b, entryType, e.Type)
	}
	return b
}

// appendString skips empty strings, as proto3 does for scalar fields.
func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, m []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, m)
}
