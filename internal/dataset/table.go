// Package dataset supports the statistics coursework data: fetching a
// dataset from the Eurostat dissemination API and reshaping it with a
// small in-memory table (column drop/rename, keyed merges, grouped
// percent changes, covariance).
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ValuesColumn is the column name carrying observation values in a
// freshly fetched table; callers typically Rename it per indicator.
const ValuesColumn = "values"

// JoinKind selects the merge semantics.
type JoinKind string

const (
	JoinInner JoinKind = "inner"
	JoinLeft  JoinKind = "left"
	JoinOuter JoinKind = "outer"
)

// ErrUnknownColumn indicates a reference to a column not in the table.
var ErrUnknownColumn = errors.New("dataset: unknown column")

// ParseJoinKind validates a join kind string.
func ParseJoinKind(value string) (JoinKind, error) {
	switch JoinKind(strings.ToLower(strings.TrimSpace(value))) {
	case JoinInner:
		return JoinInner, nil
	case JoinLeft:
		return JoinLeft, nil
	case JoinOuter:
		return JoinOuter, nil
	default:
		return "", fmt.Errorf("dataset: join kind %q is not supported (inner, left, outer)", value)
	}
}

// Row maps column names to cells. Cells are strings for dimension
// columns and float64 for value columns; a missing cell is simply
// absent from the map.
type Row map[string]any

// Table is an ordered-column collection of rows.
type Table struct {
	// Label is the dataset title as reported by the source.
	Label   string
	columns []string
	rows    []Row
}

// NewTable creates an empty table with the given column order.
func NewTable(columns ...string) *Table {
	return &Table{columns: append([]string(nil), columns...)}
}

// Columns returns the column names in order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.columns {
		if col == name {
			return true
		}
	}
	return false
}

// AppendRow adds a row; cells referencing unknown columns are rejected.
func (t *Table) AppendRow(row Row) error {
	for col := range row {
		if !t.HasColumn(col) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	copied := make(Row, len(row))
	for col, cell := range row {
		copied[col] = cell
	}
	t.rows = append(t.rows, copied)
	return nil
}

// Cell returns the cell at the given row index and column, or nil when
// the cell is missing.
func (t *Table) Cell(index int, column string) any {
	if index < 0 || index >= len(t.rows) {
		return nil
	}
	return t.rows[index][column]
}

// Float returns the numeric cell at the given row and column, NaN when
// missing or non-numeric.
func (t *Table) Float(index int, column string) float64 {
	if v, ok := t.Cell(index, column).(float64); ok {
		return v
	}
	return math.NaN()
}

// Drop removes the named columns and their cells.
func (t *Table) Drop(columns ...string) error {
	for _, col := range columns {
		if !t.HasColumn(col) {
			return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
		}
	}
	dropped := make(map[string]bool, len(columns))
	for _, col := range columns {
		dropped[col] = true
	}
	var kept []string
	for _, col := range t.columns {
		if !dropped[col] {
			kept = append(kept, col)
		}
	}
	t.columns = kept
	for _, row := range t.rows {
		for col := range dropped {
			delete(row, col)
		}
	}
	return nil
}

// Rename changes a column name in place.
func (t *Table) Rename(old, new string) error {
	if !t.HasColumn(old) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, old)
	}
	if t.HasColumn(new) {
		return fmt.Errorf("dataset: column %q already exists", new)
	}
	for i, col := range t.columns {
		if col == old {
			t.columns[i] = new
		}
	}
	for _, row := range t.rows {
		if cell, ok := row[old]; ok {
			row[new] = cell
			delete(row, old)
		}
	}
	return nil
}

func (t *Table) keyOf(row Row, on []string) string {
	parts := make([]string, len(on))
	for i, col := range on {
		parts[i] = fmt.Sprintf("%v", row[col])
	}
	return strings.Join(parts, "\x1f")
}

// Merge joins two tables on the named key columns. Inner keeps keys
// present in both, left keeps all of t's rows, outer additionally
// appends unmatched rows from other. Key columns appear once; the
// non-key columns of both tables are unioned.
func (t *Table) Merge(other *Table, on []string, how JoinKind) (*Table, error) {
	if other == nil {
		return nil, errors.New("dataset: cannot merge with a nil table")
	}
	if len(on) == 0 {
		return nil, errors.New("dataset: merge requires at least one key column")
	}
	switch how {
	case JoinInner, JoinLeft, JoinOuter:
	default:
		return nil, fmt.Errorf("dataset: join kind %q is not supported", how)
	}
	for _, col := range on {
		if !t.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q in left table", ErrUnknownColumn, col)
		}
		if !other.HasColumn(col) {
			return nil, fmt.Errorf("%w: %q in right table", ErrUnknownColumn, col)
		}
	}

	keySet := make(map[string]bool, len(on))
	for _, col := range on {
		keySet[col] = true
	}
	var columns []string
	columns = append(columns, t.columns...)
	for _, col := range other.columns {
		if !keySet[col] && !t.HasColumn(col) {
			columns = append(columns, col)
		}
	}

	merged := NewTable(columns...)
	merged.Label = t.Label

	rightByKey := make(map[string][]Row)
	for _, row := range other.rows {
		key := other.keyOf(row, on)
		rightByKey[key] = append(rightByKey[key], row)
	}

	matched := make(map[string]bool)
	for _, left := range t.rows {
		key := t.keyOf(left, on)
		matches := rightByKey[key]
		if len(matches) == 0 {
			if how == JoinLeft || how == JoinOuter {
				if err := merged.AppendRow(left); err != nil {
					return nil, err
				}
			}
			continue
		}
		matched[key] = true
		for _, right := range matches {
			combined := make(Row, len(left)+len(right))
			for col, cell := range left {
				combined[col] = cell
			}
			for col, cell := range right {
				if keySet[col] {
					continue
				}
				combined[col] = cell
			}
			if err := merged.AppendRow(combined); err != nil {
				return nil, err
			}
		}
	}

	if how == JoinOuter {
		for _, right := range other.rows {
			key := other.keyOf(right, on)
			if matched[key] {
				continue
			}
			kept := make(Row, len(right))
			for col, cell := range right {
				if merged.HasColumn(col) {
					kept[col] = cell
				}
			}
			if err := merged.AppendRow(kept); err != nil {
				return nil, err
			}
		}
	}

	return merged, nil
}

// AddPctChange appends a column named col+"_pct" holding the percent
// change of col within each group, in row order. The first observation
// of each group has no previous value and gets NaN.
func (t *Table) AddPctChange(group, col string) error {
	if !t.HasColumn(group) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, group)
	}
	if !t.HasColumn(col) {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	target := col + "_pct"
	if t.HasColumn(target) {
		return fmt.Errorf("dataset: column %q already exists", target)
	}
	t.columns = append(t.columns, target)

	previous := make(map[string]float64)
	for _, row := range t.rows {
		groupKey := fmt.Sprintf("%v", row[group])
		value, ok := row[col].(float64)
		if !ok || math.IsNaN(value) {
			row[target] = math.NaN()
			continue
		}
		if prev, seen := previous[groupKey]; seen && prev != 0 {
			row[target] = (value/prev - 1) * 100
		} else {
			row[target] = math.NaN()
		}
		previous[groupKey] = value
	}
	return nil
}

// Covariance returns the sample covariance of two numeric columns over
// rows where both cells are present.
func (t *Table) Covariance(xcol, ycol string) (float64, error) {
	if !t.HasColumn(xcol) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, xcol)
	}
	if !t.HasColumn(ycol) {
		return 0, fmt.Errorf("%w: %q", ErrUnknownColumn, ycol)
	}

	var xs, ys []float64
	for _, row := range t.rows {
		x, okX := row[xcol].(float64)
		y, okY := row[ycol].(float64)
		if !okX || !okY || math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return 0, fmt.Errorf("dataset: covariance needs at least 2 complete observations, got %d", len(xs))
	}
	return stat.Covariance(xs, ys, nil), nil
}

// Head renders the first n rows for inspection.
func (t *Table) Head(n int) string {
	if n > len(t.rows) {
		n = len(t.rows)
	}
	var b strings.Builder
	b.WriteString(strings.Join(t.columns, "\t"))
	b.WriteString("\n")
	for i := 0; i < n; i++ {
		cells := make([]string, len(t.columns))
		for j, col := range t.columns {
			if cell, ok := t.rows[i][col]; ok {
				cells[j] = fmt.Sprintf("%v", cell)
			}
		}
		b.WriteString(strings.Join(cells, "\t"))
		b.WriteString("\n")
	}
	return b.String()
}
