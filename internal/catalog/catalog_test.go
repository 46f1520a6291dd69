package catalog

import (
	"strings"
	"testing"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

var knownParams = map[string]bool{
	"start_date":              true,
	"end_date":                true,
	"prev_start_date":         true,
	"prev_end_date":           true,
	"selected_user_name":      true,
	"selected_warehouse_name": true,
	ParamCreditPrice:          true,
	ParamLookbackDays:         true,
}

func TestDefault_EveryQueryHasBothDialects(t *testing.T) {
	c := Default()

	if got := len(c.IDs()); got != 23 {
		t.Errorf("catalog has %d queries, want 23", got)
	}

	for _, id := range c.IDs() {
		q, _ := c.Lookup(id)
		if len(q.Columns) == 0 {
			t.Errorf("%s: no declared columns", id)
		}
		if q.Description == "" {
			t.Errorf("%s: no description", id)
		}
		for _, d := range []Dialect{Snowflake, SQLite} {
			text, ok := q.Text(d)
			if !ok || strings.TrimSpace(text) == "" {
				t.Errorf("%s: missing %s SQL", id, d)
				continue
			}
			for _, name := range Placeholders(text) {
				if !knownParams[name] {
					t.Errorf("%s (%s): unknown parameter :%s", id, d, name)
				}
			}
		}
	}
}

func TestDefault_ColumnsAppearInSQL(t *testing.T) {
	c := Default()
	for _, id := range c.IDs() {
		q, _ := c.Lookup(id)
		for _, d := range []Dialect{Snowflake, SQLite} {
			text, _ := q.Text(d)
			for _, col := range q.Columns {
				if !strings.Contains(text, col) {
					t.Errorf("%s (%s): column %s not produced", id, d, col)
				}
			}
		}
	}
}

func TestLookup(t *testing.T) {
	c := Default()
	q, ok := c.Lookup(TotalCostAndCreditsOverview)
	if !ok {
		t.Fatal("Lookup(TOTAL_COST_AND_CREDITS_OVERVIEW) not found")
	}
	if !q.HasColumn("prev_total_credits") {
		t.Error("HasColumn should ignore case")
	}
	if _, ok := c.Lookup("NOPE"); ok {
		t.Error("Lookup(NOPE) should fail")
	}
}

func TestNew_Duplicate(t *testing.T) {
	if _, err := New(Query{ID: "A"}, Query{ID: "A"}); err == nil {
		t.Error("expected duplicate identifier error")
	}
	if _, err := New(Query{}); err == nil {
		t.Error("expected missing identifier error")
	}
}

func TestBind(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		params   models.Params
		want     string
		wantArgs []any
		wantErr  string
	}{
		{
			name:     "repeated names",
			query:    "SELECT * FROM t WHERE a >= :start AND b < :end OR c = :start",
			params:   models.Params{"start": "2024-01-01", "end": "2024-02-01"},
			want:     "SELECT * FROM t WHERE a >= ? AND b < ? OR c = ?",
			wantArgs: []any{"2024-01-01", "2024-02-01", "2024-01-01"},
		},
		{
			name:     "literals and casts untouched",
			query:    "SELECT ':skip', x::date, \"col:name\" FROM t WHERE y = :v",
			params:   models.Params{"v": 1},
			want:     "SELECT ':skip', x::date, \"col:name\" FROM t WHERE y = ?",
			wantArgs: []any{1},
		},
		{
			name:     "escaped quote",
			query:    "SELECT 'it''s :x' WHERE z = :z",
			params:   models.Params{"z": 2},
			want:     "SELECT 'it''s :x' WHERE z = ?",
			wantArgs: []any{2},
		},
		{
			name:     "comments",
			query:    "SELECT 1 -- :a\n/* :b */ WHERE c = :c",
			params:   models.Params{"c": 3},
			want:     "SELECT 1 -- :a\n/* :b */ WHERE c = ?",
			wantArgs: []any{3},
		},
		{
			name:     "nil binds null",
			query:    "WHERE name = :name",
			params:   models.Params{"name": nil},
			want:     "WHERE name = ?",
			wantArgs: []any{nil},
		},
		{
			name:    "missing",
			query:   "WHERE a = :a AND b = :b AND a2 = :a",
			params:  models.Params{},
			wantErr: "missing query parameters: a, b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args, err := Bind(tt.query, tt.params)
			if tt.wantErr != "" {
				if err == nil || err.Error() != tt.wantErr {
					t.Fatalf("Bind() error = %v, want %q", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Bind() error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Bind() = %q, want %q", got, tt.want)
			}
			if len(args) != len(tt.wantArgs) {
				t.Fatalf("args = %v, want %v", args, tt.wantArgs)
			}
			for i := range args {
				if args[i] != tt.wantArgs[i] {
					t.Errorf("args[%d] = %v, want %v", i, args[i], tt.wantArgs[i])
				}
			}
		})
	}
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("SELECT :a, ':b', :c, :a")
	if len(got) != 2 || got[0] != "a" || got[1] != "c" {
		t.Errorf("Placeholders() = %v, want [a c]", got)
	}
}
