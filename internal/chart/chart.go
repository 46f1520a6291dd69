// Package chart turns a chart definition and its query result into a
// render-ready chart specification.
package chart

import (
	"fmt"
	"slices"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// DefaultPalette assigns pie slice colors in order.
var DefaultPalette = []string{
	"#007BFF", "#28A745", "#FFC107", "#DC3545", "#6F42C1",
	"#17A2B8", "#FD7E14", "#E83E8C", "#6C757D", "#20C997",
}

// EmptyMessage is shown in place of a chart whose query returned no rows.
func EmptyMessage(title string) string {
	return fmt.Sprintf("No data available for '%s' in the selected period.", title)
}

// Resolver resolves charts with a fixed color palette.
type Resolver struct {
	palette []string
}

// NewResolver creates a resolver. An empty palette uses DefaultPalette.
func NewResolver(palette []string) *Resolver {
	if len(palette) == 0 {
		palette = DefaultPalette
	}
	return &Resolver{palette: palette}
}

// Resolve resolves def with the default palette.
func Resolve(def models.ChartDefinition, result *models.QueryResult) (models.ChartSpec, error) {
	return NewResolver(nil).Resolve(def, result)
}

// Resolve builds the chart for def. A missing axis mapping is a
// *models.ConfigurationError; columns absent from the result are a
// *models.DataShapeError. An empty result is not an error.
func (r *Resolver) Resolve(def models.ChartDefinition, result *models.QueryResult) (models.ChartSpec, error) {
	spec := models.ChartSpec{
		Title:       def.Title,
		Description: def.Description,
		XAxisTitle:  def.XAxisTitle,
		YAxisTitle:  def.YAxisTitle,
		Kind:        def.Kind,
	}

	if err := checkRoles(def); err != nil {
		return spec, err
	}

	if result.Empty() {
		spec.Empty = true
		spec.Message = EmptyMessage(def.Title)
		return spec, nil
	}

	if missing := result.MissingColumns(mappedColumns(def)...); len(missing) > 0 {
		return spec, &models.DataShapeError{
			Subject: fmt.Sprintf("%s chart '%s'", def.Kind, def.Title),
			Columns: missing,
		}
	}

	switch def.Kind {
	case models.ChartLine, models.ChartBar:
		spec.Points = points(def, result)
	case models.ChartPie:
		spec.Slices = r.pieSlices(def, result)
	case models.ChartTable:
		spec.Columns, spec.Rows = table(result)
	}

	return spec, nil
}

func checkRoles(def models.ChartDefinition) error {
	var missing []string
	for _, role := range def.Kind.RequiredRoles() {
		if def.Column(role) == "" {
			missing = append(missing, string(role))
		}
	}
	if len(missing) > 0 {
		return models.NewConfigurationError(
			fmt.Sprintf("%s chart '%s'", def.Kind, def.Title), "missing axis mapping for %s", strings.Join(missing, ", "))
	}
	return nil
}

func mappedColumns(def models.ChartDefinition) []string {
	roles := def.Kind.RequiredRoles()
	cols := make([]string, 0, len(roles))
	for _, role := range roles {
		cols = append(cols, def.Column(role))
	}
	return cols
}

// points maps every row to an x/y pair. Rows are never dropped: a NULL or
// non-numeric y is plotted as zero and flagged.
func points(def models.ChartDefinition, result *models.QueryResult) []models.Point {
	xCol, yCol := def.Column(models.RoleX), def.Column(models.RoleY)

	pts := make([]models.Point, result.Len())
	for i := range pts {
		v, ok := result.Float(i, yCol)
		if !ok {
			v = 0
		}
		pts[i] = models.Point{Label: result.String(i, xCol), Value: v, Missing: !ok}
	}

	if def.SortDescending {
		slices.SortStableFunc(pts, func(a, b models.Point) int {
			switch {
			case a.Value > b.Value:
				return -1
			case a.Value < b.Value:
				return 1
			default:
				return 0
			}
		})
	}
	return pts
}

func (r *Resolver) pieSlices(def models.ChartDefinition, result *models.QueryResult) []models.Slice {
	nameCol, valueCol := def.Column(models.RoleName), def.Column(models.RoleValue)

	out := make([]models.Slice, result.Len())
	var total float64
	for i := range out {
		v, ok := result.Float(i, valueCol)
		if !ok {
			v = 0
		}
		total += v
		out[i] = models.Slice{
			Name:  result.String(i, nameCol),
			Value: v,
			Color: r.palette[i%len(r.palette)],
		}
	}

	if total != 0 {
		for i := range out {
			out[i].Share = out[i].Value / total
		}
	}
	return out
}

func table(result *models.QueryResult) ([]string, [][]string) {
	cols := slices.Clone(result.Columns)
	rows := make([][]string, result.Len())
	for i, row := range result.Rows {
		cells := make([]string, len(cols))
		for j := range cells {
			if j < len(row) {
				cells[j] = models.ToString(row[j])
			}
		}
		rows[i] = cells
	}
	return cols, rows
}

// Validate checks def for mistakes that would otherwise surface at render
// time. All problems are reported together.
func Validate(def models.ChartDefinition) error {
	var errs *multierror.Error
	subject := fmt.Sprintf("chart '%s'", def.Title)

	if def.Title == "" {
		errs = multierror.Append(errs, models.NewConfigurationError(subject, "missing title"))
	}
	if def.QueryID == "" {
		errs = multierror.Append(errs, models.NewConfigurationError(subject, "missing query identifier"))
	}
	if _, err := models.ParseChartKind(def.Kind.String()); err != nil {
		errs = multierror.Append(errs, err)
	} else if err := checkRoles(def); err != nil {
		errs = multierror.Append(errs, err)
	}

	return errs.ErrorOrNil()
}
