package prmconfig

import (
	"fmt"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
)

// MergeSections merges several parameter trees with later trees overriding earlier ones.
// The inputs are not modified.
//
// Merge rules:
//   - Leaves: later value (and type) overwrites earlier, keeping the earlier position
//   - Sections: recursively merged
//   - Leaf vs section under the same name: later node replaces earlier in place
//   - Names only present in a later tree are appended in their own order
//
// This is the same rule the parser applies when a subsection is re-entered.
func MergeSections(sections ...*ast.Section) (*ast.Section, error) {
	if len(sections) == 0 {
		return nil, fmt.Errorf("no sections to merge")
	}

	result := ast.NewSection()
	for i, sec := range sections {
		if sec == nil {
			return nil, fmt.Errorf("section[%d] is nil", i)
		}
		deepMerge(result, sec)
	}
	return result, nil
}

// deepMerge folds override into base in place.
func deepMerge(base, override *ast.Section) {
	for key, overrideVal := range override.All() {
		baseVal, exists := base.Get(key)
		if !exists {
			base.Set(key, ast.CloneNode(overrideVal))
			continue
		}

		switch overrideVal := overrideVal.(type) {
		case *ast.Section:
			// 两边都是 section 时递归合并
			if baseSec, ok := baseVal.(*ast.Section); ok {
				deepMerge(baseSec, overrideVal)
			} else {
				base.Set(key, overrideVal.Clone())
			}
		default:
			base.Set(key, ast.CloneNode(overrideVal))
		}
	}
}
