package models

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Params holds named query parameters. Values are strings, numbers, dates or nil.
type Params map[string]any

// Clone returns a shallow copy of p with extra merged over it.
func (p Params) Clone(extra Params) Params {
	out := make(Params, len(p)+len(extra))
	for k, v := range p {
		out[k] = v
	}
	for k, v := range extra {
		out[k] = v
	}
	return out
}

// QueryResult is a tabular query result. Row order is meaningful and column
// lookups are case-insensitive. A QueryResult is shared through the cache and
// must be treated as read-only.
type QueryResult struct {
	index   map[string]int
	Columns []string
	Rows    [][]any
}

// NewQueryResult builds a QueryResult and its column index.
func NewQueryResult(columns []string, rows [][]any) *QueryResult {
	r := &QueryResult{Columns: columns, Rows: rows}
	r.index = make(map[string]int, len(columns))
	for i, c := range columns {
		key := strings.ToUpper(c)
		if _, dup := r.index[key]; !dup {
			r.index[key] = i
		}
	}
	return r
}

// Len returns the number of rows.
func (r *QueryResult) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Rows)
}

// Empty reports whether the result has no rows.
func (r *QueryResult) Empty() bool {
	return r.Len() == 0
}

// ColumnIndex returns the position of name, ignoring case.
func (r *QueryResult) ColumnIndex(name string) (int, bool) {
	if r == nil {
		return 0, false
	}
	if r.index == nil {
		for i, c := range r.Columns {
			if strings.EqualFold(c, name) {
				return i, true
			}
		}
		return 0, false
	}
	i, ok := r.index[strings.ToUpper(name)]
	return i, ok
}

// HasColumn reports whether name is present.
func (r *QueryResult) HasColumn(name string) bool {
	_, ok := r.ColumnIndex(name)
	return ok
}

// MissingColumns returns the names not present in the result, in input order.
func (r *QueryResult) MissingColumns(names ...string) []string {
	var missing []string
	for _, n := range names {
		if !r.HasColumn(n) {
			missing = append(missing, n)
		}
	}
	return missing
}

// Value returns the raw cell. ok is false when the row or column is absent.
func (r *QueryResult) Value(row int, col string) (any, bool) {
	i, ok := r.ColumnIndex(col)
	if !ok || row < 0 || row >= len(r.Rows) || i >= len(r.Rows[row]) {
		return nil, false
	}
	return r.Rows[row][i], true
}

// Float returns the cell as a number. ok is false for absent cells, NULL,
// NaN and values that do not parse as numbers.
func (r *QueryResult) Float(row int, col string) (float64, bool) {
	v, ok := r.Value(row, col)
	if !ok {
		return math.NaN(), false
	}
	return ToFloat(v)
}

// String returns the cell rendered as text; NULL renders as "".
func (r *QueryResult) String(row int, col string) string {
	v, ok := r.Value(row, col)
	if !ok {
		return ""
	}
	return ToString(v)
}

// Sum adds up every numeric cell of col, skipping NULLs.
func (r *QueryResult) Sum(col string) float64 {
	var total float64
	for i := range r.Len() {
		if v, ok := r.Float(i, col); ok {
			total += v
		}
	}
	return total
}

// ToFloat converts a scanned cell to float64. Drivers may hand back NUMBER
// columns as strings or byte slices.
func ToFloat(v any) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case nil:
		return math.NaN(), false
	case float64:
		f = n
	case float32:
		f = float64(n)
	case int:
		f = float64(n)
	case int32:
		f = float64(n)
	case int64:
		f = float64(n)
	case uint64:
		f = float64(n)
	case bool:
		if n {
			f = 1
		}
	case []byte:
		return parseFloat(string(n))
	case string:
		return parseFloat(n)
	default:
		return math.NaN(), false
	}
	if math.IsNaN(f) {
		return f, false
	}
	return f, true
}

func parseFloat(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) {
		return math.NaN(), false
	}
	return f, true
}

// ToString renders a scanned cell as display text.
func ToString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case []byte:
		return string(s)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case time.Time:
		if s.Hour() == 0 && s.Minute() == 0 && s.Second() == 0 && s.Nanosecond() == 0 {
			return s.Format(time.DateOnly)
		}
		return s.Format(time.DateTime)
	default:
		return fmt.Sprint(s)
	}
}
