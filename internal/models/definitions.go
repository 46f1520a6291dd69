package models

import (
	"fmt"
	"strings"
)

// FormatKind selects how a metric value is rendered.
type FormatKind int

const (
	FormatNumber FormatKind = iota
	FormatCurrency
	FormatPercentage
	FormatSignedPercentage
	FormatBytes
	FormatDuration
)

var formatKindNames = map[FormatKind]string{
	FormatNumber:           "number",
	FormatCurrency:         "currency",
	FormatPercentage:       "percentage",
	FormatSignedPercentage: "signed_percentage",
	FormatBytes:            "bytes",
	FormatDuration:         "duration",
}

// formatter names used by older dashboard definitions.
var formatterAliases = map[string]FormatKind{
	"format_percentage":       FormatPercentage,
	"format_bytes":            FormatBytes,
	"format_duration_seconds": FormatDuration,
	"format_currency":         FormatCurrency,
}

func (k FormatKind) String() string {
	if name, ok := formatKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("FormatKind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k FormatKind) Valid() bool {
	_, ok := formatKindNames[k]
	return ok
}

// ParseFormatKind maps a kind or formatter name to a FormatKind.
func ParseFormatKind(name string) (FormatKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, v := range formatKindNames {
		if v == n {
			return k, nil
		}
	}
	if k, ok := formatterAliases[n]; ok {
		return k, nil
	}
	return 0, NewConfigurationError("formatter", "unknown formatter %q", name)
}

// FormatSpec describes how a scalar is rendered.
type FormatSpec struct {
	Prefix   string
	Suffix   string
	Symbol   string
	Unit     string
	Kind     FormatKind
	Decimals int
	// Scale multiplies the value before formatting; zero means 1.
	Scale float64
}

// Factor returns the effective scale multiplier.
func (s FormatSpec) Factor() float64 {
	if s.Scale == 0 {
		return 1
	}
	return s.Scale
}

// DefaultDeltaFormat renders period-over-period deltas.
var DefaultDeltaFormat = FormatSpec{Kind: FormatSignedPercentage, Decimals: 1}

// DerivationKind tells how a metric value is obtained from its result row.
type DerivationKind int

const (
	DerivationDirect DerivationKind = iota
	DerivationRatio
)

// Derivation describes a computed metric value.
type Derivation struct {
	Numerator   string
	Denominator string
	Kind        DerivationKind
}

// RatioOf derives a value as numerator / denominator.
func RatioOf(numerator, denominator string) Derivation {
	return Derivation{Kind: DerivationRatio, Numerator: numerator, Denominator: denominator}
}

// MetricDefinition declares a single metric card.
type MetricDefinition struct {
	Label       string
	QueryID     string
	ValueColumn string
	// DeltaColumn holds the previous-period baseline; empty disables the delta.
	DeltaColumn string
	HelpText    string
	Value       FormatSpec
	Delta       FormatSpec
	Derivation  Derivation
}

// ChartKind is the visual form of a chart.
type ChartKind int

const (
	ChartLine ChartKind = iota
	ChartBar
	ChartPie
	ChartTable
)

var chartKindNames = map[ChartKind]string{
	ChartLine:  "line",
	ChartBar:   "bar",
	ChartPie:   "pie",
	ChartTable: "table",
}

func (k ChartKind) String() string {
	if name, ok := chartKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ChartKind(%d)", int(k))
}

// MarshalText encodes the kind by name.
func (k ChartKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseChartKind maps "line", "bar", "pie" or "table" to a ChartKind.
func ParseChartKind(name string) (ChartKind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for k, v := range chartKindNames {
		if v == n {
			return k, nil
		}
	}
	return 0, NewConfigurationError("chart", "unknown chart kind %q", name)
}

// AxisRole names a logical chart axis.
type AxisRole string

const (
	RoleX     AxisRole = "x"
	RoleY     AxisRole = "y"
	RoleName  AxisRole = "name"
	RoleValue AxisRole = "value"
)

// RequiredRoles returns the axis roles a chart of kind k must map.
func (k ChartKind) RequiredRoles() []AxisRole {
	switch k {
	case ChartLine, ChartBar:
		return []AxisRole{RoleX, RoleY}
	case ChartPie:
		return []AxisRole{RoleName, RoleValue}
	default:
		return nil
	}
}

// ChartDefinition declares a single chart.
type ChartDefinition struct {
	Axes           map[AxisRole]string
	Title          string
	Description    string
	QueryID        string
	XAxisTitle     string
	YAxisTitle     string
	Kind           ChartKind
	SortDescending bool
}

// Column returns the column mapped to role.
func (d ChartDefinition) Column(role AxisRole) string {
	return d.Axes[role]
}
