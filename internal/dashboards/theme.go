package dashboards

import (
	"regexp"
	"slices"

	"github.com/j-veylop/warehouse-finops-tui/internal/chart"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// DefaultChartHeight is the nominal chart height in pixels. The terminal
// renderer scales it to rows.
const DefaultChartHeight = 350

// pixelsPerRow converts the nominal height to terminal rows.
const pixelsPerRow = 25

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// Theme holds presentation settings shared by every view.
type Theme struct {
	PrimaryColor string
	Palette      []string
	ChartHeight  int
}

// DefaultTheme returns the built-in theme.
func DefaultTheme() Theme {
	return Theme{
		PrimaryColor: "#007BFF",
		Palette:      slices.Clone(chart.DefaultPalette),
		ChartHeight:  DefaultChartHeight,
	}
}

// ChartRows returns the chart height in terminal rows, capped to avail.
func (t Theme) ChartRows(avail int) int {
	rows := max(t.ChartHeight/pixelsPerRow, 4)
	if avail > 0 {
		rows = min(rows, avail)
	}
	return rows
}

// Validate checks the palette and height.
func (t Theme) Validate() error {
	if len(t.Palette) == 0 {
		return models.NewConfigurationError("theme", "empty chart palette")
	}
	for _, c := range append([]string{t.PrimaryColor}, t.Palette...) {
		if !hexColor.MatchString(c) {
			return models.NewConfigurationError("theme", "invalid color %q", c)
		}
	}
	if t.ChartHeight <= 0 {
		return models.NewConfigurationError("theme", "chart height must be positive")
	}
	return nil
}
