package simlog

import (
	"path"
	"path/filepath"

	ast "github.com/honeybbq/prmconfig/pkg/ast/prm"
)

// Column prefixes used by the spreadsheet row built from a simulation log.
const (
	CalculationColumn = "c:Calculation"
	ParameterPrefix   = "p:"
)

// Files kept next to a simulation log, relative to the simulation directory.
const (
	DescriptionFile  = "description.txt"
	ObservationsFile = "observations.txt"
)

// fileColumns lists the "file:" cells in row order with the path of each
// below the calculation directory. Header spellings are kept as spreadsheets
// already carry them.
var fileColumns = []struct {
	name string
	rel  []string
}{
	{"file:Description:", []string{DescriptionFile}},
	{"file:Observations:", []string{ObservationsFile}},
	{"file:Code:", []string{"code"}},
	{"file:vtk_files:", []string{"results", "vtk"}},
	{"file:Postprocess_files:", []string{"results", "postprocess"}},
	{"file:Images:", []string{"results", "images"}},
	{"file:Movies", []string{"results", "movies"}},
}

// Column is one cell of a spreadsheet row.
type Column struct {
	Name  string
	Value string
}

// CalculationName is the base name of the simulation directory.
func CalculationName(simDir string) string {
	return filepath.Base(filepath.Clean(simDir))
}

// Columns returns the row the spreadsheet appender builds from doc. When simDir
// is set the row starts with the calculation name and the "file:" cells, which
// hold slash separated paths rooted at "/<calculation>". One "p:<key>" column
// per top-level parameter follows. Nested sections have no value of their own
// and yield an empty cell.
func Columns(doc *Document, simDir string) []Column {
	params := doc.Parameters()
	cols := make([]Column, 0, params.Len()+len(fileColumns)+1)
	if simDir != "" {
		calc := CalculationName(simDir)
		cols = append(cols, Column{Name: CalculationColumn, Value: calc})
		for _, fc := range fileColumns {
			elems := append([]string{"/", calc}, fc.rel...)
			cols = append(cols, Column{Name: fc.name, Value: path.Join(elems...)})
		}
	}
	for key, n := range params.All() {
		var value string
		if e, ok := n.(*ast.Entry); ok {
			value = e.Value
		}
		cols = append(cols, Column{Name: ParameterPrefix + key, Value: value})
	}
	return cols
}
