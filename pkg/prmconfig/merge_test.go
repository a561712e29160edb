package prmconfig

import (
	"testing"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
)

func TestMergeSections_SimpleValues(t *testing.T) {
	base := ast.NewSection()
	base.SetEntry("Final time", "10", "")
	base.SetEntry("Time step", "0.1", "double")
	override := ast.NewSection()
	override.SetEntry("Final time", "20", "")

	result, err := MergeSections(base, override)
	if err != nil {
		t.Fatalf("MergeSections: %v", err)
	}

	if e, _ := result.Entry("Final time"); e == nil || e.Value != "20" {
		t.Errorf("Final time should be overridden, got %+v", e)
	}
	if e, _ := result.Entry("Time step"); e == nil || e.Value != "0.1" || e.Type != "double" {
		t.Errorf("Time step should be preserved, got %+v", e)
	}
	if got := result.Keys(); len(got) != 2 || got[0] != "Final time" || got[1] != "Time step" {
		t.Errorf("order changed: %v", got)
	}
}

func TestMergeSections_NestedSection(t *testing.T) {
	base := ast.NewSection()
	solver := base.Subsection("Solver")
	solver.SetEntry("Tolerance", "1e-8", "")
	solver.SetEntry("Max iterations", "100", "")

	override := ast.NewSection()
	override.Subsection("Solver").SetEntry("Tolerance", "1e-10", "")

	result, err := MergeSections(base, override)
	if err != nil {
		t.Fatalf("MergeSections: %v", err)
	}

	tol, ok := result.Lookup("Solver", "Tolerance")
	if !ok || tol.(*ast.Entry).Value != "1e-10" {
		t.Errorf("nested Tolerance should be overridden, got %+v", tol)
	}
	iters, ok := result.Lookup("Solver", "Max iterations")
	if !ok || iters.(*ast.Entry).Value != "100" {
		t.Errorf("Max iterations should be preserved, got %+v", iters)
	}
}

func TestMergeSections_AppendNewKeys(t *testing.T) {
	base := ast.NewSection()
	base.SetEntry("b", "1", "")
	override := ast.NewSection()
	override.SetEntry("a", "2", "")
	override.SetEntry("b", "3", "")

	result, err := MergeSections(base, override)
	if err != nil {
		t.Fatalf("MergeSections: %v", err)
	}
	if got := result.Keys(); len(got) != 2 || got[0] != "b" || got[1] != "a" {
		t.Errorf("expected [b a], got %v", got)
	}
}

func TestMergeSections_LeafReplacesSection(t *testing.T) {
	base := ast.NewSection()
	base.Subsection("Output").SetEntry("format", "vtu", "")
	base.SetEntry("tail", "x", "")
	override := ast.NewSection()
	override.SetEntry("Output", "none", "")

	result, err := MergeSections(base, override)
	if err != nil {
		t.Fatalf("MergeSections: %v", err)
	}
	e, ok := result.Entry("Output")
	if !ok || e.Value != "none" {
		t.Fatalf("Output should be a leaf now, got %+v", e)
	}
	if got := result.Keys(); got[0] != "Output" {
		t.Errorf("Output should keep its position, got %v", got)
	}
}

func TestMergeSections_InputsUntouched(t *testing.T) {
	base := ast.NewSection()
	base.Subsection("Solver").SetEntry("Tolerance", "1e-8", "")
	override := ast.NewSection()
	override.Subsection("Solver").SetEntry("Tolerance", "1e-10", "")

	if _, err := MergeSections(base, override); err != nil {
		t.Fatalf("MergeSections: %v", err)
	}
	tol, _ := base.Lookup("Solver", "Tolerance")
	if tol.(*ast.Entry).Value != "1e-8" {
		t.Errorf("base was mutated: %+v", tol)
	}
}

func TestMergeSections_Errors(t *testing.T) {
	if _, err := MergeSections(); err == nil {
		t.Error("expected error for empty input")
	}
	if _, err := MergeSections(ast.NewSection(), nil); err == nil {
		t.Error("expected error for nil section")
	}
}

func TestMergeSections_ResultIndependentOfOverride(t *testing.T) {
	base := ast.NewSection()
	base.SetEntry("dt", "0.1", "")
	override := ast.NewSection()
	override.SetEntry("dt", "0.2", "double")
	override.Subsection("Output").SetEntry("format", "vtu", "")

	merged, err := MergeSections(base, override)
	if err != nil {
		t.Fatalf("MergeSections: %v", err)
	}
	dt, _ := merged.Entry("dt")
	dt.Value = "9"
	merged.Subsection("Output").SetEntry("format", "gnuplot", "")

	if e, _ := override.Entry("dt"); e.Value != "0.2" {
		t.Errorf("override leaf was shared: %+v", e)
	}
	if f, _ := override.Lookup("Output", "format"); f.(*ast.Entry).Value != "vtu" {
		t.Errorf("override section was shared: %+v", f)
	}
}
