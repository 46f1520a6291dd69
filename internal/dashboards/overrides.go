package dashboards

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// overridesFile is the YAML layout of DASHBOARDS_PATH. A view listed in
// the file replaces the built-in metrics and charts it names; extra_charts
// are appended.
type overridesFile struct {
	Theme *themeOverride          `yaml:"theme"`
	Views map[string]viewOverride `yaml:"views"`
}

type themeOverride struct {
	PrimaryColor string   `yaml:"primary_color"`
	ChartColors  []string `yaml:"chart_colors"`
	ChartHeight  int      `yaml:"chart_height"`
}

type viewOverride struct {
	Metrics     []metricEntry `yaml:"metrics"`
	Charts      []chartEntry  `yaml:"charts"`
	ExtraCharts []chartEntry  `yaml:"extra_charts"`
}

type formatEntry struct {
	Kind     string  `yaml:"kind"`
	Prefix   string  `yaml:"prefix"`
	Suffix   string  `yaml:"suffix"`
	Symbol   string  `yaml:"symbol"`
	Unit     string  `yaml:"unit"`
	Decimals int     `yaml:"decimals"`
	Scale    float64 `yaml:"scale"`
}

type metricEntry struct {
	Label    string `yaml:"label"`
	QueryID  string `yaml:"query_id"`
	ValueCol string `yaml:"value_col"`
	DeltaCol string `yaml:"delta_col"`
	HelpText string `yaml:"help_text"`
	// Formatter is a shorthand for format.kind.
	Formatter string       `yaml:"formatter"`
	Format    formatEntry  `yaml:"format"`
	Delta     *formatEntry `yaml:"delta_format"`
	Ratio     *struct {
		Numerator   string `yaml:"numerator"`
		Denominator string `yaml:"denominator"`
	} `yaml:"ratio"`
}

type chartEntry struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	QueryID     string `yaml:"query_id"`
	ChartType   string `yaml:"chart_type"`
	XCol        string `yaml:"x_col"`
	YCol        string `yaml:"y_col"`
	NameCol     string `yaml:"name_col"`
	ValueCol    string `yaml:"value_col"`
	XAxisTitle  string `yaml:"x_axis_title"`
	YAxisTitle  string `yaml:"y_axis_title"`
	SortDesc    bool   `yaml:"sort_desc"`
}

func (s *Set) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read dashboards file: %w", err)
	}
	return s.apply(data)
}

// apply merges YAML overrides into s.
func (s *Set) apply(data []byte) error {
	var file overridesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return models.NewConfigurationError("dashboards file", "invalid YAML: %v", err)
	}

	if t := file.Theme; t != nil {
		if t.PrimaryColor != "" {
			s.Theme.PrimaryColor = t.PrimaryColor
		}
		if len(t.ChartColors) > 0 {
			s.Theme.Palette = t.ChartColors
		}
		if t.ChartHeight != 0 {
			s.Theme.ChartHeight = t.ChartHeight
		}
	}

	for name, ov := range file.Views {
		v, err := ParseView(name)
		if err != nil {
			return models.NewConfigurationError("dashboards file", "unknown view %q", name)
		}
		d := s.Get(v)

		if ov.Metrics != nil {
			metrics := make([]models.MetricDefinition, 0, len(ov.Metrics))
			for _, e := range ov.Metrics {
				m, err := e.definition()
				if err != nil {
					return err
				}
				metrics = append(metrics, m)
			}
			d.Metrics = metrics
		}

		if ov.Charts != nil {
			d.Charts = nil
		}
		for _, e := range append(ov.Charts, ov.ExtraCharts...) {
			c, err := e.definition()
			if err != nil {
				return err
			}
			d.Charts = append(d.Charts, c)
		}
	}
	return nil
}

func (f formatEntry) spec(subject string) (models.FormatSpec, error) {
	spec := models.FormatSpec{
		Prefix:   f.Prefix,
		Suffix:   f.Suffix,
		Symbol:   f.Symbol,
		Unit:     f.Unit,
		Decimals: f.Decimals,
		Scale:    f.Scale,
	}
	if f.Kind != "" {
		kind, err := models.ParseFormatKind(f.Kind)
		if err != nil {
			return spec, models.NewConfigurationError(subject, "unknown formatter %q", f.Kind)
		}
		spec.Kind = kind
	}
	return spec, nil
}

func (e metricEntry) definition() (models.MetricDefinition, error) {
	subject := fmt.Sprintf("metric '%s'", e.Label)
	m := models.MetricDefinition{
		Label:       e.Label,
		QueryID:     e.QueryID,
		ValueColumn: e.ValueCol,
		DeltaColumn: e.DeltaCol,
		HelpText:    e.HelpText,
	}

	f := e.Format
	if f.Kind == "" {
		f.Kind = e.Formatter
	}
	value, err := f.spec(subject)
	if err != nil {
		return m, err
	}
	m.Value = value

	if e.Delta != nil {
		if m.Delta, err = e.Delta.spec(subject); err != nil {
			return m, err
		}
	}
	if e.Ratio != nil {
		m.Derivation = models.RatioOf(e.Ratio.Numerator, e.Ratio.Denominator)
	}
	return m, nil
}

func (e chartEntry) definition() (models.ChartDefinition, error) {
	kind, err := models.ParseChartKind(e.ChartType)
	if err != nil {
		return models.ChartDefinition{}, models.NewConfigurationError(
			fmt.Sprintf("chart '%s'", e.Title), "unknown chart type %q", e.ChartType)
	}

	c := models.ChartDefinition{
		Title:          e.Title,
		Description:    e.Description,
		QueryID:        e.QueryID,
		Kind:           kind,
		XAxisTitle:     e.XAxisTitle,
		YAxisTitle:     e.YAxisTitle,
		SortDescending: e.SortDesc,
	}
	switch kind {
	case models.ChartLine, models.ChartBar:
		c.Axes = axes(e.XCol, e.YCol)
	case models.ChartPie:
		c.Axes = pieAxes(e.NameCol, e.ValueCol)
	}
	return c, nil
}
