package models

import (
	"errors"
	"math"
	"testing"
	"time"
)

func TestQueryResult_ColumnLookupIgnoresCase(t *testing.T) {
	r := NewQueryResult([]string{"total_credits", "USER_NAME"}, [][]any{{12.5, "alice"}})

	if !r.HasColumn("TOTAL_CREDITS") {
		t.Error("HasColumn(TOTAL_CREDITS) = false, want true")
	}
	if got := r.String(0, "user_name"); got != "alice" {
		t.Errorf("String(user_name) = %q, want %q", got, "alice")
	}
	if missing := r.MissingColumns("USER_NAME", "FOO", "BAR"); len(missing) != 2 || missing[0] != "FOO" {
		t.Errorf("MissingColumns() = %v, want [FOO BAR]", missing)
	}
}

func TestQueryResult_ZeroValueLookup(t *testing.T) {
	r := &QueryResult{Columns: []string{"Value"}, Rows: [][]any{{int64(3)}}}

	v, ok := r.Float(0, "VALUE")
	if !ok || v != 3 {
		t.Errorf("Float() = %v, %v; want 3, true", v, ok)
	}
}

func TestQueryResult_NilIsEmpty(t *testing.T) {
	var r *QueryResult
	if !r.Empty() {
		t.Error("nil result should be empty")
	}
	if _, ok := r.Float(0, "X"); ok {
		t.Error("Float on nil result should not be ok")
	}
}

func TestToFloat(t *testing.T) {
	tests := []struct {
		in     any
		want   float64
		wantOK bool
	}{
		{float64(1.5), 1.5, true},
		{int64(42), 42, true},
		{"1234.5", 1234.5, true},
		{[]byte(" 7 "), 7, true},
		{nil, 0, false},
		{"abc", 0, false},
		{math.NaN(), 0, false},
		{time.Now(), 0, false},
	}

	for _, tt := range tests {
		got, ok := ToFloat(tt.in)
		if ok != tt.wantOK {
			t.Errorf("ToFloat(%v) ok = %v, want %v", tt.in, ok, tt.wantOK)
			continue
		}
		if ok && got != tt.want {
			t.Errorf("ToFloat(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToString(t *testing.T) {
	day := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	ts := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{[]byte("y"), "y"},
		{2.5, "2.5"},
		{int64(9), "9"},
		{day, "2024-01-02"},
		{ts, "2024-01-02 03:04:05"},
	}

	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQueryResult_Sum(t *testing.T) {
	r := NewQueryResult([]string{"Q"}, [][]any{{600.0}, {nil}, {"1500"}})
	if got := r.Sum("q"); got != 2100 {
		t.Errorf("Sum() = %v, want 2100", got)
	}
}

func TestParams_Clone(t *testing.T) {
	base := Params{"start_date": "2024-01-01"}
	out := base.Clone(Params{"selected_user_name": "ALICE"})

	if len(base) != 1 {
		t.Errorf("base mutated: %v", base)
	}
	if out["selected_user_name"] != "ALICE" || out["start_date"] != "2024-01-01" {
		t.Errorf("Clone() = %v", out)
	}
}

func TestErrors(t *testing.T) {
	cause := errors.New("boom")
	var fetchErr error = &FetchError{QueryID: "TOP_10_USERS_BY_COST", Err: cause}

	if !errors.Is(fetchErr, cause) {
		t.Error("FetchError should unwrap to its cause")
	}
	if got := fetchErr.Error(); got != "failed to fetch TOP_10_USERS_BY_COST: boom" {
		t.Errorf("FetchError.Error() = %q", got)
	}

	shape := &DataShapeError{Subject: "bar chart 'Top Users'", Columns: []string{"FOO"}}
	if got := shape.Error(); got != "missing required columns for bar chart 'Top Users': FOO" {
		t.Errorf("DataShapeError.Error() = %q", got)
	}

	var cfgErr *ConfigurationError
	if _, err := ParseFormatKind("format_magic"); !errors.As(err, &cfgErr) {
		t.Errorf("ParseFormatKind() error = %v, want ConfigurationError", err)
	}
}

func TestParseFormatKind(t *testing.T) {
	tests := map[string]FormatKind{
		"number":                  FormatNumber,
		"Currency":                FormatCurrency,
		"format_percentage":       FormatPercentage,
		"format_bytes":            FormatBytes,
		"format_duration_seconds": FormatDuration,
		"signed_percentage":       FormatSignedPercentage,
	}

	for name, want := range tests {
		got, err := ParseFormatKind(name)
		if err != nil {
			t.Errorf("ParseFormatKind(%q) error: %v", name, err)
			continue
		}
		if got != want {
			t.Errorf("ParseFormatKind(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestChartKind_RequiredRoles(t *testing.T) {
	if roles := ChartBar.RequiredRoles(); len(roles) != 2 || roles[0] != RoleX {
		t.Errorf("bar roles = %v", roles)
	}
	if roles := ChartPie.RequiredRoles(); len(roles) != 2 || roles[1] != RoleValue {
		t.Errorf("pie roles = %v", roles)
	}
	if roles := ChartTable.RequiredRoles(); roles != nil {
		t.Errorf("table roles = %v, want none", roles)
	}
}
