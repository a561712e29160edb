package pb

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/honeybbq/prmconfig/domain/simlog"
	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
)

// Unmarshal decodes a document produced by Marshal. Unknown fields are skipped.
func Unmarshal(b []byte) (*simlog.Document, error) {
	doc := &simlog.Document{}
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num == documentInputs && typ == protowire.BytesType {
			desc, err := unmarshalDescriptor(v)
			if err != nil {
				return err
			}
			doc.Inputs = append(doc.Inputs, desc)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

func unmarshalDescriptor(b []byte) (*simlog.Descriptor, error) {
	desc := &simlog.Descriptor{Parameters: ast.NewSection()}
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error {
		switch {
		case num == descriptorPath && typ == protowire.BytesType:
			desc.Path = string(v)
		case num == descriptorEncodingFormat && typ == protowire.BytesType:
			desc.EncodingFormat = string(v)
		case num == descriptorName && typ == protowire.BytesType:
			desc.Name = string(v)
		case num == descriptorDescription && typ == protowire.BytesType:
			desc.Description = string(v)
		case num == descriptorDownload && typ == protowire.VarintType:
			desc.Download = protowire.DecodeBool(x)
		case num == descriptorParameters && typ == protowire.BytesType:
			sec, err := unmarshalSection(v)
			if err != nil {
				return err
			}
			desc.Parameters = sec
		}
		return nil
	})
	return desc, err
}

func unmarshalSection(b []byte) (*ast.Section, error) {
	sec := ast.NewSection()
	err := eachField(b, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
		if num != sectionMembers || typ != protowire.BytesType {
			return nil
		}
		var (
			name string
			node ast.Node
		)
		err := eachField(v, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
			if typ != protowire.BytesType {
				return nil
			}
			switch num {
			case memberName:
				name = string(v)
			case memberEntry:
				e := &ast.Entry{}
				if err := eachField(v, func(num protowire.Number, typ protowire.Type, v []byte, _ uint64) error {
					switch {
					case num == entryValue && typ == protowire.BytesType:
						e.Value = string(v)
					case num == entryType && typ == protowire.BytesType:
						e.Type = string(v)
					}
					return nil
				}); err != nil {
					return err
				}
				node = e
			case memberSection:
				child, err := unmarshalSection(v)
				if err != nil {
					return err
				}
				node = child
			}
			return nil
		})
		if err != nil {
			return err
		}
		if node == nil {
			return fmt.Errorf("member %q has neither entry nor section", name)
		}
		sec.Set(name, node)
		return nil
	})
	return sec, err
}

// eachField walks the top-level fields of a message. For bytes fields v is the
// payload; for varints x is the value.
func eachField(b []byte, fn func(num protowire.Number, typ protowire.Type, v []byte, x uint64) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return protowire.ParseError(n)
		}
		b = b[n:]

		switch typ {
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := fn(num, typ, v, 0); err != nil {
				return err
			}
			b = b[n:]
		case protowire.VarintType:
			x, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			if err := fn(num, typ, nil, x); err != nil {
				return err
			}
			b = b[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return protowire.ParseError(n)
			}
			b = b[n:]
		}
	}
	return nil
}
