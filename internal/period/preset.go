package period

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// Preset is a selectable date range option.
type Preset int

const (
	// Last7Days covers the last 7 days including today.
	Last7Days Preset = iota
	// Last30Days covers the last 30 days including today.
	Last30Days
	// Last90Days covers the last 90 days including today.
	Last90Days
	// LastYear covers the last 365 days including today.
	LastYear
	// Custom is an explicit start and end date.
	Custom
)

const presetCount = 5

// String returns the display name for a preset.
func (p Preset) String() string {
	switch p {
	case Last7Days:
		return "Last 7 Days"
	case Last30Days:
		return "Last 30 Days"
	case Last90Days:
		return "Last 90 Days"
	case LastYear:
		return "Last 1 Year"
	case Custom:
		return "Custom Range"
	default:
		return "Unknown"
	}
}

// Days returns the preset length (0 for Custom).
func (p Preset) Days() int {
	switch p {
	case Last7Days:
		return 7
	case Last30Days:
		return 30
	case Last90Days:
		return 90
	case LastYear:
		return 365
	default:
		return 0
	}
}

// Next cycles to the next preset.
func (p Preset) Next() Preset {
	return (p + 1) % presetCount
}

// Prev cycles to the previous preset.
func (p Preset) Prev() Preset {
	return (p + presetCount - 1) % presetCount
}

// PresetForDays returns the preset of the given length, or Last30Days.
func PresetForDays(days int) Preset {
	for p := Last7Days; p < Custom; p++ {
		if p.Days() == days {
			return p
		}
	}
	return Last30Days
}

// ParseDate reads a calendar date in any common layout
// ("2024-01-31", "2024/01/31", "Jan 31, 2024", ...).
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, &models.ValidationError{Field: "date", Message: "date is required"}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, &models.ValidationError{Field: "date", Message: "cannot parse " + `"` + s + `"`}
	}
	return Day(t), nil
}

// Picker holds the selected range. Invalid custom selections are rejected
// and the last known good range stays in effect.
type Picker struct {
	now     func() time.Time
	current Range
	preset  Preset
}

// NewPicker starts on the given preset.
func NewPicker(preset Preset) *Picker {
	return newPickerAt(preset, time.Now)
}

func newPickerAt(preset Preset, now func() time.Time) *Picker {
	if preset == Custom {
		preset = Last30Days
	}
	return &Picker{now: now, preset: preset, current: Last(preset.Days(), now())}
}

// Range returns the selected range.
func (p *Picker) Range() Range {
	return p.current
}

// Preset returns the selected preset.
func (p *Picker) Preset() Preset {
	return p.preset
}

// Select switches preset. Selecting Custom keeps the current range until
// SetCustom supplies one.
func (p *Picker) Select(preset Preset) Range {
	p.preset = preset
	if preset != Custom {
		p.current = Last(preset.Days(), p.now())
	}
	return p.current
}

// SetCustom applies an explicit range. On a parse failure or an inverted
// range it returns a ValidationError and keeps the previous range.
func (p *Picker) SetCustom(start, end string) (Range, error) {
	s, err := ParseDate(start)
	if err != nil {
		return p.current, err
	}
	e, err := ParseDate(end)
	if err != nil {
		return p.current, err
	}
	r, err := New(s, e)
	if err != nil {
		return p.current, err
	}
	p.preset = Custom
	p.current = r
	return r, nil
}

// Roll moves a preset range forward when the calendar day has changed.
// It reports whether the range moved.
func (p *Picker) Roll() bool {
	if p.preset == Custom {
		return false
	}
	next := Last(p.preset.Days(), p.now())
	if next.Equal(p.current) {
		return false
	}
	p.current = next
	return true
}
