// Package dashboards holds the metric and chart definitions of the three
// dashboard views.
package dashboards

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/chart"
	"github.com/j-veylop/warehouse-finops-tui/internal/metric"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// View identifies a dashboard.
type View int

const (
	ViewOverview View = iota
	ViewUser
	ViewWarehouse
)

// Views lists every view in tab order.
var Views = []View{ViewOverview, ViewUser, ViewWarehouse}

func (v View) String() string {
	switch v {
	case ViewOverview:
		return "overview"
	case ViewUser:
		return "user"
	case ViewWarehouse:
		return "warehouse"
	default:
		return fmt.Sprintf("View(%d)", int(v))
	}
}

// Title returns the heading shown for the view.
func (v View) Title() string {
	switch v {
	case ViewUser:
		return "User 360"
	case ViewWarehouse:
		return "Warehouse Insights"
	default:
		return "Account Overview"
	}
}

// Scope returns the recommendation and parameter scope of the view.
func (v View) Scope() models.Scope {
	switch v {
	case ViewUser:
		return models.ScopeUser
	case ViewWarehouse:
		return models.ScopeWarehouse
	default:
		return models.ScopeAccount
	}
}

// MarshalText encodes the view by name.
func (v View) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// ParseView maps a view name to a View. "user360" and "warehouses" are
// accepted as aliases.
func ParseView(name string) (View, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "overview", "account", "":
		return ViewOverview, nil
	case "user", "user360", "users":
		return ViewUser, nil
	case "warehouse", "warehouses":
		return ViewWarehouse, nil
	default:
		return 0, &models.ValidationError{Field: "view", Message: fmt.Sprintf("unknown view %q", name)}
	}
}

// Dashboard is the definition set of one view.
type Dashboard struct {
	Metrics []models.MetricDefinition
	Charts  []models.ChartDefinition
	View    View
}

// Set is the loaded definition set of every view.
type Set struct {
	dashboards map[View]*Dashboard
	Theme      Theme
}

// Get returns the dashboard of v.
func (s *Set) Get(v View) *Dashboard {
	return s.dashboards[v]
}

// QueryIDs returns the distinct query identifiers referenced by v, in
// definition order.
func (s *Set) QueryIDs(v View) []string {
	d := s.Get(v)
	if d == nil {
		return nil
	}

	seen := make(map[string]bool)
	var ids []string
	add := func(id string) {
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	for _, m := range d.Metrics {
		add(m.QueryID)
	}
	for _, c := range d.Charts {
		add(c.QueryID)
	}
	return ids
}

// Defaults returns the built-in definition set.
func Defaults() *Set {
	return &Set{
		Theme: DefaultTheme(),
		dashboards: map[View]*Dashboard{
			ViewOverview:  {View: ViewOverview, Metrics: overviewMetrics(), Charts: overviewCharts()},
			ViewUser:      {View: ViewUser, Metrics: userMetrics(), Charts: userCharts()},
			ViewWarehouse: {View: ViewWarehouse, Metrics: warehouseMetrics(), Charts: warehouseCharts()},
		},
	}
}

// Load returns the built-in set with the overrides file at path applied.
// An empty path loads the defaults. The result is validated against cat.
func Load(path string, cat *catalog.Catalog) (*Set, error) {
	set := Defaults()
	if path != "" {
		if err := set.applyFile(path); err != nil {
			return nil, err
		}
	}
	if err := set.Validate(cat); err != nil {
		return nil, err
	}
	return set, nil
}

// Validate checks every definition and that each referenced query exists
// in cat. All problems are reported together.
func (s *Set) Validate(cat *catalog.Catalog) error {
	var errs *multierror.Error

	// checkQuery reports an unknown query and columns the query does not
	// declare. Queries without declared columns are not column-checked.
	checkQuery := func(subject, id string, cols ...string) {
		if id == "" || cat == nil {
			return
		}
		q, ok := cat.Lookup(id)
		if !ok {
			errs = multierror.Append(errs, models.NewConfigurationError(subject, "unknown query %q", id))
			return
		}
		if len(q.Columns) == 0 {
			return
		}
		for _, col := range cols {
			if col != "" && !q.HasColumn(col) {
				errs = multierror.Append(errs, models.NewConfigurationError(subject, "query %s has no column %s", id, col))
			}
		}
	}

	for _, v := range Views {
		d := s.Get(v)
		if d == nil {
			errs = multierror.Append(errs, models.NewConfigurationError(v.String(), "view has no definitions"))
			continue
		}
		for _, m := range d.Metrics {
			if err := metric.Validate(m); err != nil {
				errs = multierror.Append(errs, err)
			}
			checkQuery(fmt.Sprintf("metric '%s'", m.Label), m.QueryID, metricColumns(m)...)
		}
		for _, c := range d.Charts {
			if err := chart.Validate(c); err != nil {
				errs = multierror.Append(errs, err)
			}
			checkQuery(fmt.Sprintf("chart '%s'", c.Title), c.QueryID, chartColumns(c)...)
		}
	}

	if err := s.Theme.Validate(); err != nil {
		errs = multierror.Append(errs, err)
	}
	return errs.ErrorOrNil()
}

func metricColumns(m models.MetricDefinition) []string {
	if m.Derivation.Kind == models.DerivationRatio {
		return []string{m.Derivation.Numerator, m.Derivation.Denominator}
	}
	return []string{m.ValueColumn, m.DeltaColumn}
}

func chartColumns(c models.ChartDefinition) []string {
	cols := make([]string, 0, len(c.Axes))
	for _, role := range c.Kind.RequiredRoles() {
		cols = append(cols, c.Column(role))
	}
	return cols
}
