package services

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/chart"
	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/format"
	"github.com/j-veylop/warehouse-finops-tui/internal/insights"
	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
	"github.com/j-veylop/warehouse-finops-tui/internal/metric"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
)

var titleCase = cases.Title(language.English)

// ViewRequest selects what to render.
type ViewRequest struct {
	Range period.Range
	// Entity is the selected user or warehouse name.
	Entity string
	View   dashboards.View
}

// ViewReport is one rendered dashboard view.
type ViewReport struct {
	RenderedAt      time.Time              `json:"rendered_at"`
	Range           period.Range           `json:"-"`
	RenderID        string                 `json:"render_id"`
	Title           string                 `json:"title"`
	Entity          string                 `json:"entity,omitempty"`
	Period          string                 `json:"period"`
	Message         string                 `json:"message,omitempty"`
	Metrics         []models.MetricDisplay `json:"metrics,omitempty"`
	Charts          []models.ChartSpec     `json:"charts,omitempty"`
	Recommendations models.Recommendations `json:"recommendations"`
	View            dashboards.View        `json:"view"`
	// Halted is set when nothing could be rendered; Message says why.
	Halted bool `json:"halted,omitempty"`
}

// Entities is the selectable user or warehouse list.
type Entities struct {
	Names []string
	// Warning is set when the list is empty.
	Warning string
}

// fetchTask is one query a view needs.
type fetchTask struct {
	params  models.Params
	queryID string
}

// Renderer builds view reports from definitions and fetched results.
type Renderer struct {
	fetcher    insights.Fetcher
	dashboards *dashboards.Set
	charts     *chart.Resolver
	insights   *insights.Engine
	now        func() time.Time
}

// NewRenderer creates a renderer fetching through f.
func NewRenderer(f insights.Fetcher, set *dashboards.Set) *Renderer {
	return &Renderer{
		fetcher:    f,
		dashboards: set,
		charts:     chart.NewResolver(set.Theme.Palette),
		insights:   insights.NewEngine(f),
		now:        time.Now,
	}
}

// SelectionPrompt is shown on an entity view with nothing selected.
func SelectionPrompt(scope models.Scope) string {
	return fmt.Sprintf("Please select a %s to view their FinOps insights.", scope)
}

func selection(req ViewRequest) insights.Selection {
	return insights.Selection{Range: req.Range, Entity: req.Entity, Scope: req.View.Scope()}
}

// metricParams are sent to metric queries: both periods and the entity.
func metricParams(req ViewRequest) models.Params {
	p := req.Range.Params()
	if key := req.View.Scope().EntityParam(); key != "" {
		p[key] = req.Entity
	}
	return p
}

// chartParams are sent to chart queries: the current period only.
func chartParams(req ViewRequest) models.Params {
	p := req.Range.CurrentParams()
	if key := req.View.Scope().EntityParam(); key != "" {
		p[key] = req.Entity
	}
	return p
}

// plan lists the queries a render of req runs for its metrics and charts.
func (r *Renderer) plan(req ViewRequest) []fetchTask {
	d := r.dashboards.Get(req.View)
	var tasks []fetchTask
	seen := make(map[string]bool)

	add := func(id, kind string, params models.Params) {
		if seen[id+"|"+kind] {
			return
		}
		seen[id+"|"+kind] = true
		tasks = append(tasks, fetchTask{queryID: id, params: params})
	}
	for _, m := range d.Metrics {
		add(m.QueryID, "metric", metricParams(req))
	}
	for _, c := range d.Charts {
		add(c.QueryID, "chart", chartParams(req))
	}
	return tasks
}

// Render runs the metrics, then the charts, then the recommendations of
// req.View. Each fetch is isolated: a failure degrades its own slot and
// the rest of the view still renders.
func (r *Renderer) Render(ctx context.Context, req ViewRequest) *ViewReport {
	report := &ViewReport{
		RenderID:   uuid.NewString(),
		View:       req.View,
		Title:      req.View.Title(),
		Range:      req.Range,
		Period:     req.Range.String(),
		Entity:     req.Entity,
		RenderedAt: r.now(),
	}
	log := logger.With("render_id", report.RenderID, "view", req.View, "entity", req.Entity)

	if req.View.Scope() != models.ScopeAccount && req.Entity == "" {
		report.Message = SelectionPrompt(req.View.Scope())
		return report
	}

	d := r.dashboards.Get(req.View)
	start := time.Now()

	// Metrics and charts sharing a query reuse one result per parameter set.
	results := make(map[string]*models.QueryResult)
	errs := make(map[string]error)
	fetchWith := func(kind string, params models.Params) func(string) (*models.QueryResult, error) {
		return func(id string) (*models.QueryResult, error) {
			key := id + "|" + kind
			if res, ok := results[key]; ok {
				return res, nil
			}
			if err, ok := errs[key]; ok {
				return nil, err
			}
			res, err := r.fetcher.Execute(ctx, id, params)
			if err != nil {
				log.Warn("query failed", "query_id", id, "error", err)
				errs[key] = err
				return nil, err
			}
			results[key] = res
			return res, nil
		}
	}
	fetchMetric := fetchWith("metric", metricParams(req))
	fetchChart := fetchWith("chart", chartParams(req))

	for _, def := range d.Metrics {
		res, err := fetchMetric(def.QueryID)
		if err != nil {
			report.Metrics = append(report.Metrics, models.MetricDisplay{
				Label:     def.Label,
				Value:     format.NA,
				HelpText:  def.HelpText,
				Warning:   fmt.Sprintf("Could not load %s: %v", def.Label, err),
				Direction: models.DirectionNone,
			})
			continue
		}
		report.Metrics = append(report.Metrics, metric.Resolve(def, res))
	}

	for _, def := range d.Charts {
		report.Charts = append(report.Charts, r.renderChart(def, fetchChart))
	}

	report.Recommendations = r.insights.Evaluate(ctx, selection(req))

	log.Debug("view rendered", "metrics", len(report.Metrics), "charts", len(report.Charts),
		"duration", time.Since(start))
	return report
}

func (r *Renderer) renderChart(def models.ChartDefinition, fetch func(string) (*models.QueryResult, error)) models.ChartSpec {
	res, err := fetch(def.QueryID)
	if err != nil {
		return models.ChartSpec{
			Title:       def.Title,
			Description: def.Description,
			Kind:        def.Kind,
			Empty:       true,
			Message:     fmt.Sprintf("Could not load '%s'.", def.Title),
			Warnings:    []string{err.Error()},
		}
	}

	spec, err := r.charts.Resolve(def, res)
	if err != nil {
		spec.Empty = true
		spec.Message = err.Error()
		spec.Warnings = append(spec.Warnings, err.Error())
	}
	return spec
}

// ListEntities returns the active users or warehouses of the lookback
// window, unique and sorted.
func (r *Renderer) ListEntities(ctx context.Context, scope models.Scope, lookbackDays int) (Entities, error) {
	var id, col string
	switch scope {
	case models.ScopeUser:
		id, col = catalog.ListActiveUsersByCost, "USER_NAME"
	case models.ScopeWarehouse:
		id, col = catalog.ListActiveWarehousesByCost, "WAREHOUSE_NAME"
	default:
		return Entities{}, fmt.Errorf("scope %s has no entities", scope)
	}

	res, err := r.fetcher.Execute(ctx, id, models.Params{catalog.ParamLookbackDays: lookbackDays})
	if err != nil {
		return Entities{}, fmt.Errorf("failed to load %ss: %w", scope, err)
	}
	if missing := res.MissingColumns(col); !res.Empty() && len(missing) > 0 {
		return Entities{}, &models.DataShapeError{Subject: titleCase.String(scope.String()) + " list", Columns: missing}
	}

	var names []string
	for i := range res.Len() {
		if name := strings.TrimSpace(res.String(i, col)); name != "" {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	names = slices.Compact(names)

	out := Entities{Names: names}
	if len(names) == 0 {
		out.Warning = fmt.Sprintf("No active %ss found in the last %d days.", scope, lookbackDays)
	}
	return out, nil
}

// prefetchTasks lists the queries that do not depend on an entity: the
// whole overview, the account recommendations and both entity lists.
func (r *Renderer) prefetchTasks(rng period.Range, lookbackDays int) []fetchTask {
	req := ViewRequest{View: dashboards.ViewOverview, Range: rng}
	tasks := r.plan(req)
	lookback := models.Params{catalog.ParamLookbackDays: lookbackDays}
	return append(tasks,
		fetchTask{queryID: catalog.WarehouseIdleSummary, params: rng.CurrentParams()},
		fetchTask{queryID: catalog.ListActiveUsersByCost, params: lookback},
		fetchTask{queryID: catalog.ListActiveWarehousesByCost, params: lookback.Clone(nil)},
	)
}
