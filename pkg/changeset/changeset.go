// Package changeset compares two parameter trees leaf by leaf.
package changeset

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
)

// PathSeparator joins section names in Change.String.
const PathSeparator = "/"

// VersionedConfig 记录参数树的版本元数据。
type VersionedConfig struct {
	VersionID string // usually the source path
	Checksum  string // hex sha256 of the raw file
	Timestamp time.Time
	Config    *ast.Section
}

// NewVersioned records root together with the checksum of the bytes it was parsed from.
func NewVersioned(id string, raw []byte, root *ast.Section, ts time.Time) *VersionedConfig {
	sum := sha256.Sum256(raw)
	return &VersionedConfig{
		VersionID: id,
		Checksum:  hex.EncodeToString(sum[:]),
		Timestamp: ts,
		Config:    root,
	}
}

// ShortChecksum returns the first 12 hex digits of the checksum.
func (v *VersionedConfig) ShortChecksum() string {
	if v == nil {
		return ""
	}
	if len(v.Checksum) > 12 {
		return v.Checksum[:12]
	}
	return v.Checksum
}

// ChangeSet 描述一次差异。
type ChangeSet struct {
	Base   *VersionedConfig
	Target *VersionedConfig
	Diff   *DiffResult
}

// Change is one leaf that differs. Old is nil for additions, New for removals.
type Change struct {
	Path []string
	Old  *ast.Entry
	New  *ast.Entry
}

func (c Change) String() string {
	return strings.Join(c.Path, PathSeparator)
}

// DiffResult lists changed leaves. Base order comes first, then leaves only
// present in the target, in target order. Empty sections carry no leaves and
// are not reported.
type DiffResult struct {
	Added   []Change
	Removed []Change
	Changed []Change
}

// Empty reports whether both trees hold the same leaves.
func (d *DiffResult) Empty() bool {
	return d == nil || len(d.Added)+len(d.Removed)+len(d.Changed) == 0
}

// Compute diffs base against target.
func Compute(base, target *VersionedConfig) *ChangeSet {
	var baseRoot, targetRoot *ast.Section
	if base != nil {
		baseRoot = base.Config
	}
	if target != nil {
		targetRoot = target.Config
	}
	return &ChangeSet{Base: base, Target: target, Diff: Diff(baseRoot, targetRoot)}
}

// Diff compares two trees. Either may be nil.
func Diff(base, target *ast.Section) *DiffResult {
	d := &DiffResult{}
	d.walk(nil, base, target)
	return d
}

func (d *DiffResult) walk(prefix []string, base, target *ast.Section) {
	for key, bn := range base.All() {
		path := appendPath(prefix, key)
		tn, ok := target.Get(key)
		if !ok {
			d.collect(path, bn, &d.Removed, false)
			continue
		}
		switch b := bn.(type) {
		case *ast.Entry:
			if t, isEntry := tn.(*ast.Entry); isEntry {
				if *b != *t {
					d.Changed = append(d.Changed, Change{Path: path, Old: b, New: t})
				}
				continue
			}
			// leaf 被 section 取代
			d.Removed = append(d.Removed, Change{Path: path, Old: b})
			d.collect(path, tn, &d.Added, true)
		case *ast.Section:
			if t, isSection := tn.(*ast.Section); isSection {
				d.walk(path, b, t)
				continue
			}
			d.collect(path, b, &d.Removed, false)
			d.collect(path, tn, &d.Added, true)
		}
	}
	for key, tn := range target.All() {
		if _, ok := base.Get(key); ok {
			continue
		}
		d.collect(appendPath(prefix, key), tn, &d.Added, true)
	}
}

// collect appends every leaf under n to out.
func (d *DiffResult) collect(path []string, n ast.Node, out *[]Change, added bool) {
	switch v := n.(type) {
	case *ast.Entry:
		c := Change{Path: path}
		if added {
			c.New = v
		} else {
			c.Old = v
		}
		*out = append(*out, c)
	case *ast.Section:
		for key, child := range v.All() {
			d.collect(appendPath(path, key), child, out, added)
		}
	}
}

func appendPath(prefix []string, key string) []string {
	path := make([]string, len(prefix)+1)
	copy(path, prefix)
	path[len(prefix)] = key
	return path
}
