package format

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

var nan = math.NaN()

func TestCurrency(t *testing.T) {
	tests := []struct {
		name     string
		value    float64
		decimals int
		want     string
	}{
		{"grouped", 1234.5, 2, "$1,234.50"},
		{"millions", 1234567.891, 2, "$1,234,567.89"},
		{"no decimals", 999.6, 0, "$1,000"},
		{"zero", 0, 2, "$0.00"},
		{"negative", -42.125, 2, "-$42.13"},
		{"beyond int64", 1e20, 2, "$100,000,000,000,000,000,000.00"},
		{"negative beyond int64", -1e19, 0, "-$10,000,000,000,000,000,000"},
		{"missing", nan, 2, NA},
		{"infinite", math.Inf(1), 2, NA},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Currency(tt.value, "$", tt.decimals); got != tt.want {
				t.Errorf("Currency(%v) = %q, want %q", tt.value, got, tt.want)
			}
		})
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		want     string
	}{
		{0.15, 1, "15.0%"},
		{0.35, 1, "35.0%"},
		{0.123456, 2, "12.35%"},
		{1, 0, "100%"},
		{0, 1, "0.0%"},
		{nan, 1, NA},
	}

	for _, tt := range tests {
		if got := Percentage(tt.value, tt.decimals); got != tt.want {
			t.Errorf("Percentage(%v, %d) = %q, want %q", tt.value, tt.decimals, got, tt.want)
		}
	}
}

func TestSignedPercentage(t *testing.T) {
	tests := []struct {
		value float64
		want  string
	}{
		{0.25, "+25.0%"},
		{-0.035, "-3.5%"},
		{0, "+0.0%"},
		{-0.0001, "+0.0%"},
		{12.5, "+1,250.0%"},
		{nan, NA},
	}

	for _, tt := range tests {
		if got := SignedPercentage(tt.value, 1); got != tt.want {
			t.Errorf("SignedPercentage(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestNumber(t *testing.T) {
	tests := []struct {
		value    float64
		decimals int
		prefix   string
		suffix   string
		want     string
	}{
		{1000, 0, "", "", "1,000"},
		{1234.5678, 3, "", "", "1,234.568"},
		{4321, 0, "", " min", "4,321 min"},
		{600, 0, "", " s", "600 s"},
		{9.3e18, 0, "", "", "9,300,000,000,000,000,000"},
		{nan, 0, "", " s", NA},
	}

	for _, tt := range tests {
		if got := Number(tt.value, tt.decimals, tt.prefix, tt.suffix); got != tt.want {
			t.Errorf("Number(%v) = %q, want %q", tt.value, got, tt.want)
		}
	}
}

func TestDuration(t *testing.T) {
	tests := []struct {
		seconds float64
		want    string
	}{
		{59.4, "59.4s"},
		{60, "1m 0s"},
		{95, "1m 35s"},
		{3661, "1h 1m 1s"},
		{3605, "1h 0m 5s"},
		{90061, "1d 1h 1m 1s"},
		{86400, "1d 0h 0m 0s"},
		{59.96, "1m 0s"},
		{0, "0.0s"},
		{nan, NA},
	}

	for _, tt := range tests {
		if got := Duration(tt.seconds, DefaultDurationDecimals); got != tt.want {
			t.Errorf("Duration(%v) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestDuration_BeyondInt64(t *testing.T) {
	got := Duration(1e20, DefaultDurationDecimals)
	if strings.Contains(got, "-") {
		t.Fatalf("Duration(1e20) = %q, want a positive duration", got)
	}
	if !strings.HasPrefix(got, "1157407407407407d ") {
		t.Errorf("Duration(1e20) = %q, want 1157407407407407 days", got)
	}
	if got := Duration(-1e20, DefaultDurationDecimals); !strings.HasPrefix(got, "-1157407407407407d ") {
		t.Errorf("Duration(-1e20) = %q", got)
	}
}

func TestBytes(t *testing.T) {
	got, err := BytesIn(1073741824, "GB", 2)
	if err != nil {
		t.Fatalf("BytesIn() error: %v", err)
	}
	if got != "1.00 GB" {
		t.Errorf("BytesIn(1 GiB) = %q, want %q", got, "1.00 GB")
	}

	if got := Bytes(1536, KB, 1); got != "1.5 KB" {
		t.Errorf("Bytes(1536, KB) = %q, want %q", got, "1.5 KB")
	}
	if got := Bytes(5*math.Pow(1024, 4), TB, 0); got != "5 TB" {
		t.Errorf("Bytes(5 TiB) = %q, want %q", got, "5 TB")
	}

	got, err = BytesIn(nan, "gb", 2)
	if err != nil || got != NA {
		t.Errorf("BytesIn(NaN) = %q, %v; want %q, nil", got, err, NA)
	}
}

func TestBytes_UnknownUnit(t *testing.T) {
	_, err := BytesIn(100, "XB", 2)
	if err == nil {
		t.Fatal("expected error for unknown unit")
	}

	var cfgErr *models.ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Errorf("error = %T, want *models.ConfigurationError", err)
	}

	// Fails even when there is nothing to render.
	if _, err := BytesIn(nan, "XB", 2); err == nil {
		t.Error("expected error for unknown unit with missing value")
	}
}

func TestDelta(t *testing.T) {
	tests := []struct {
		name      string
		current   float64
		previous  float64
		want      float64
		wantDefined bool
	}{
		{"increase", 1000, 800, 0.25, true},
		{"decrease", 50, 100, -0.5, true},
		{"unchanged", 7, 7, 0, true},
		{"both zero", 0, 0, 0, true},
		{"from zero", 5, 0, 0, false},
		{"missing current", nan, 5, 0, false},
		{"missing previous", 5, nan, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Delta(tt.current, tt.previous)
			if ok != tt.wantDefined {
				t.Fatalf("Delta(%v, %v) defined = %v, want %v", tt.current, tt.previous, ok, tt.wantDefined)
			}
			if ok && math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("Delta(%v, %v) = %v, want %v", tt.current, tt.previous, got, tt.want)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(3, 60); math.Abs(got-0.05) > 1e-12 {
		t.Errorf("Ratio(3, 60) = %v, want 0.05", got)
	}
	if got := Ratio(0, 0); got != 0 {
		t.Errorf("Ratio(0, 0) = %v, want 0", got)
	}
	if got := Ratio(nan, 4); !math.IsNaN(got) {
		t.Errorf("Ratio(NaN, 4) = %v, want NaN", got)
	}
}
