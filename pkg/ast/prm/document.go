package prm

import "iter"

// Node 是 Section 子节点的统一类型，只有 *Entry 和 *Section 两种实现。
type Node interface {
	node()
}

// Entry 对应一行 "set key = value[, type]"。
type Entry struct {
	Value string
	// Type is empty when the line carried no trailing type tag.
	Type string
}

func (*Entry) node() {}

// HasType reports whether a type tag was given.
func (e *Entry) HasType() bool {
	return e != nil && e.Type != ""
}

// Section is an ordered mapping from a name to an *Entry or a nested *Section.
// Names are unique; iteration follows first insertion order.
type Section struct {
	keys     []string
	children map[string]Node
}

func (*Section) node() {}

// NewSection 创建空 Section。
func NewSection() *Section {
	return &Section{children: make(map[string]Node)}
}

// Len returns the number of direct children.
func (s *Section) Len() int {
	if s == nil {
		return 0
	}
	return len(s.keys)
}

// Keys returns child names in insertion order.
func (s *Section) Keys() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.keys))
	copy(out, s.keys)
	return out
}

// Get returns the child stored under name.
func (s *Section) Get(name string) (Node, bool) {
	if s == nil {
		return nil, false
	}
	n, ok := s.children[name]
	return n, ok
}

// Set stores n under name. An existing name keeps its position.
func (s *Section) Set(name string, n Node) {
	if s.children == nil {
		s.children = make(map[string]Node)
	}
	if _, ok := s.children[name]; !ok {
		s.keys = append(s.keys, name)
	}
	s.children[name] = n
}

// SetEntry is Set for a leaf.
func (s *Section) SetEntry(name, value, typ string) *Entry {
	e := &Entry{Value: value, Type: typ}
	s.Set(name, e)
	return e
}

// Subsection returns the child section called name, creating it when absent.
// A leaf stored under the same name is replaced in place.
func (s *Section) Subsection(name string) *Section {
	if n, ok := s.Get(name); ok {
		if sec, ok := n.(*Section); ok {
			return sec
		}
	}
	sec := NewSection()
	s.Set(name, sec)
	return sec
}

// Entry returns the leaf stored under name.
func (s *Section) Entry(name string) (*Entry, bool) {
	n, ok := s.Get(name)
	if !ok {
		return nil, false
	}
	e, ok := n.(*Entry)
	return e, ok
}

// All iterates over the children in insertion order.
func (s *Section) All() iter.Seq2[string, Node] {
	return func(yield func(string, Node) bool) {
		if s == nil {
			return
		}
		for _, key := range s.keys {
			if !yield(key, s.children[key]) {
				return
			}
		}
	}
}

// Lookup walks path through nested sections and returns the node at its end.
func (s *Section) Lookup(path ...string) (Node, bool) {
	var cur Node = s
	for _, name := range path {
		sec, ok := cur.(*Section)
		if !ok {
			return nil, false
		}
		cur, ok = sec.Get(name)
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone 深拷贝整棵树。
func (s *Section) Clone() *Section {
	if s == nil {
		return nil
	}
	out := &Section{
		keys:     append([]string(nil), s.keys...),
		children: make(map[string]Node, len(s.children)),
	}
	for key, n := range s.children {
		out.children[key] = CloneNode(n)
	}
	return out
}

// CloneNode 深拷贝单个节点。
func CloneNode(n Node) Node {
	switch v := n.(type) {
	case *Entry:
		cp := *v
		return &cp
	case *Section:
		return v.Clone()
	default:
		return n
	}
}
