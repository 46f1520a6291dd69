package models

// Direction classifies a period-over-period delta for the rendering layer.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionFavorable
	DirectionUnfavorable
	DirectionNeutral
)

func (d Direction) String() string {
	switch d {
	case DirectionFavorable:
		return "favorable"
	case DirectionUnfavorable:
		return "unfavorable"
	case DirectionNeutral:
		return "neutral"
	default:
		return "none"
	}
}

// MarshalText encodes the direction by name.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// MetricDisplay is a resolved metric card.
type MetricDisplay struct {
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Delta     string    `json:"delta,omitempty"`
	HelpText  string    `json:"help_text,omitempty"`
	Warning   string    `json:"warning,omitempty"`
	Direction Direction `json:"direction"`
}

// HasDelta reports whether a delta string was produced.
func (m MetricDisplay) HasDelta() bool {
	return m.Delta != ""
}

// Point is one x/y pair of a line or bar series.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	// Missing marks a NULL or non-numeric y value plotted as zero.
	Missing bool `json:"missing,omitempty"`
}

// Slice is one pie segment.
type Slice struct {
	Name  string  `json:"name"`
	Color string  `json:"color"`
	Value float64 `json:"value"`
	Share float64 `json:"share"`
}

// ChartSpec is a render-ready chart.
type ChartSpec struct {
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	XAxisTitle  string     `json:"x_axis_title,omitempty"`
	YAxisTitle  string     `json:"y_axis_title,omitempty"`
	Message     string     `json:"message,omitempty"`
	Points      []Point    `json:"points,omitempty"`
	Slices      []Slice    `json:"slices,omitempty"`
	Columns     []string   `json:"columns,omitempty"`
	Rows        [][]string `json:"rows,omitempty"`
	Warnings    []string   `json:"warnings,omitempty"`
	Kind        ChartKind  `json:"kind"`
	Empty       bool       `json:"empty,omitempty"`
}

// Recommendations is the output of one recommendation pass.
type Recommendations struct {
	Items    []string `json:"items"`
	Warnings []string `json:"warnings,omitempty"`
}

// Scope is the subject of a view.
type Scope int

const (
	ScopeAccount Scope = iota
	ScopeUser
	ScopeWarehouse
)

func (s Scope) String() string {
	switch s {
	case ScopeUser:
		return "user"
	case ScopeWarehouse:
		return "warehouse"
	default:
		return "account"
	}
}

// EntityParam returns the query parameter that carries the selected entity.
func (s Scope) EntityParam() string {
	switch s {
	case ScopeUser:
		return "selected_user_name"
	case ScopeWarehouse:
		return "selected_warehouse_name"
	default:
		return ""
	}
}
