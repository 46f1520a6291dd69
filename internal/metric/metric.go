// Package metric turns a metric definition and its query result into a
// display-ready metric card.
package metric

import (
	"fmt"
	"strconv"

	"github.com/hashicorp/go-multierror"

	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// Resolve builds the card for def from the first row of result. It never
// fails: missing data renders as N/A, and shape or formatter problems are
// reported in the card's Warning.
func Resolve(def models.MetricDefinition, result *models.QueryResult) models.MetricDisplay {
	d := models.MetricDisplay{
		Label:     def.Label,
		Value:     format.NA,
		HelpText:  def.HelpText,
		Direction: models.DirectionNone,
	}

	if result.Empty() {
		return d
	}
	if missing := result.MissingColumns(valueColumns(def)...); len(missing) > 0 {
		d.Warning = shapeWarning(def, missing)
		return d
	}

	value, raw := valueOf(def, result)
	if raw != "" {
		d.Value = raw
		return d
	}

	text, err := Render(def.Value, value)
	if err != nil {
		d.Value = rawString(value)
		d.Warning = err.Error()
		return d
	}
	d.Value = text

	if def.Derivation.Kind != models.DerivationDirect || def.DeltaColumn == "" || format.Missing(value) {
		return d
	}
	if !result.HasColumn(def.DeltaColumn) {
		d.Warning = shapeWarning(def, []string{def.DeltaColumn})
		return d
	}

	d.Delta, d.Direction, d.Warning = resolveDelta(def, value, result)
	return d
}

// valueColumns lists the columns def reads its value from.
func valueColumns(def models.MetricDefinition) []string {
	if def.Derivation.Kind == models.DerivationRatio {
		return []string{def.Derivation.Numerator, def.Derivation.Denominator}
	}
	return []string{def.ValueColumn}
}

func shapeWarning(def models.MetricDefinition, missing []string) string {
	return (&models.DataShapeError{Subject: "metric '" + def.Label + "'", Columns: missing}).Error()
}

// valueOf extracts the metric value. A non-numeric, non-NULL cell is
// returned as raw text instead.
func valueOf(def models.MetricDefinition, result *models.QueryResult) (float64, string) {
	if def.Derivation.Kind == models.DerivationRatio {
		num, _ := result.Float(0, def.Derivation.Numerator)
		den, _ := result.Float(0, def.Derivation.Denominator)
		return format.Ratio(num, den), ""
	}

	v, ok := result.Float(0, def.ValueColumn)
	if !ok {
		if cell, _ := result.Value(0, def.ValueColumn); cell != nil {
			return v, models.ToString(cell)
		}
	}
	return v, ""
}

// resolveDelta renders the change against the baseline column. A delta
// spec that fails to render falls back to DefaultDeltaFormat and the
// failure is returned as a warning.
func resolveDelta(def models.MetricDefinition, value float64, result *models.QueryResult) (string, models.Direction, string) {
	baseline, _ := result.Float(0, def.DeltaColumn)
	delta, ok := format.Delta(value, baseline)
	if !ok {
		return format.NA, models.DirectionNone, ""
	}

	spec := def.Delta
	if spec == (models.FormatSpec{}) {
		spec = models.DefaultDeltaFormat
	}
	var warning string
	text, err := Render(spec, delta)
	if err != nil {
		warning = err.Error()
		text, _ = Render(models.DefaultDeltaFormat, delta)
	}
	return text, DirectionOf(delta, true), warning
}

// DirectionOf classifies a delta. Every tracked metric is a cost or a
// duration, so any increase is unfavorable.
func DirectionOf(delta float64, ok bool) models.Direction {
	switch {
	case !ok || format.Missing(delta):
		return models.DirectionNone
	case delta > 0:
		return models.DirectionUnfavorable
	case delta < 0:
		return models.DirectionFavorable
	default:
		return models.DirectionNeutral
	}
}

func rawString(v float64) string {
	if format.Missing(v) {
		return format.NA
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Validate checks def for mistakes that would otherwise surface at render
// time. All problems are reported together.
func Validate(def models.MetricDefinition) error {
	var errs *multierror.Error
	subject := fmt.Sprintf("metric '%s'", def.Label)
	fail := func(msg string, args ...any) {
		errs = multierror.Append(errs, models.NewConfigurationError(subject, msg, args...))
	}

	if def.Label == "" {
		fail("missing label")
	}
	if def.QueryID == "" {
		fail("missing query identifier")
	}

	switch def.Derivation.Kind {
	case models.DerivationDirect:
		if def.ValueColumn == "" {
			fail("missing value column")
		}
	case models.DerivationRatio:
		if def.Derivation.Numerator == "" || def.Derivation.Denominator == "" {
			fail("ratio needs a numerator and a denominator")
		}
		if def.DeltaColumn != "" {
			fail("derived metrics have no delta")
		}
	default:
		fail("unknown derivation %d", def.Derivation.Kind)
	}

	if err := checkSpec(def.Value); err != nil {
		errs = multierror.Append(errs, err)
	}
	if def.Delta != (models.FormatSpec{}) {
		if err := checkSpec(def.Delta); err != nil {
			errs = multierror.Append(errs, err)
		}
	}

	return errs.ErrorOrNil()
}
