package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
)

func sampleReport() *services.ViewReport {
	return &services.ViewReport{
		View:   dashboards.ViewWarehouse,
		Title:  "Warehouse Insights",
		Entity: "ETL_WH",
		Period: "2024-03-01 to 2024-03-31",
		Metrics: []models.MetricDisplay{
			{Label: "Total Credits", Value: "1,250.00", Delta: "+25.0%", Direction: models.DirectionUnfavorable},
			{Label: "Idle Time", Value: "N/A", Warning: "missing required columns"},
		},
		Charts: []models.ChartSpec{
			{
				Title: "Daily Credits", Kind: models.ChartLine, XAxisTitle: "Date", YAxisTitle: "Credits",
				Points: []models.Point{{Label: "2024-03-01", Value: 12.5}, {Label: "2024-03-02", Missing: true}},
			},
			{
				Title: "Queries by Type", Kind: models.ChartPie,
				Slices: []models.Slice{{Name: "SELECT", Value: 75, Share: 0.75}, {Name: "INSERT", Value: 25, Share: 0.25}},
			},
			{
				Title: "Top Queries", Kind: models.ChartTable,
				Columns: []string{"QUERY_ID", "CREDITS"}, Rows: [][]string{{"q1", "3.5"}},
			},
			{Title: "Queue Time", Kind: models.ChartBar, Empty: true, Message: "No data available for 'Queue Time' in the selected period."},
		},
		Recommendations: models.Recommendations{Items: []string{"Consider a shorter auto-suspend."}},
	}
}

func TestText(t *testing.T) {
	out := Text(sampleReport())

	for _, want := range []string{
		"Warehouse Insights: ETL_WH",
		"Period: 2024-03-01 to 2024-03-31",
		"1,250.00",
		"+25.0% (worse)",
		"Daily Credits [line]",
		"12.50",
		"75.0%",
		"QUERY_ID",
		"No data available for 'Queue Time'",
		"- Consider a shorter auto-suspend.",
		"! Idle Time: missing required columns",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("text report missing %q\n%s", want, out)
		}
	}
}

func TestText_Halted(t *testing.T) {
	r := &services.ViewReport{
		Title:   "Account Overview",
		Period:  "2024-03-01 to 2024-03-31",
		Halted:  true,
		Message: "Could not connect to Snowflake",
		Metrics: []models.MetricDisplay{{Label: "ignored"}},
	}
	out := Text(r)

	if !strings.Contains(out, "Could not connect to Snowflake") {
		t.Errorf("halted report should show the message:\n%s", out)
	}
	if strings.Contains(out, "ignored") {
		t.Error("halted report should not render metrics")
	}
}

func TestWrite_JSON(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleReport(), FormatJSON); err != nil {
		t.Fatalf("Write() failed: %v", err)
	}

	var decoded struct {
		View    string `json:"view"`
		Metrics []struct {
			Direction string `json:"direction"`
		} `json:"metrics"`
		Charts []struct {
			Kind string `json:"kind"`
		} `json:"charts"`
	}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if decoded.View != "warehouse" {
		t.Errorf("view = %q", decoded.View)
	}
	if decoded.Metrics[0].Direction != "unfavorable" {
		t.Errorf("direction = %q", decoded.Metrics[0].Direction)
	}
	if decoded.Charts[1].Kind != "pie" {
		t.Errorf("kind = %q", decoded.Charts[1].Kind)
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"xml", FormatText, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if err != nil {
				var vErr *models.ValidationError
				if !errors.As(err, &vErr) {
					t.Errorf("expected ValidationError, got %T", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
