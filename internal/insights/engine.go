// Package insights evaluates cost-optimization rules and produces
// plain-text advisories.
package insights

import (
	"context"
	"fmt"

	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
)

// NoRecommendations is returned alone when no rule fires.
const NoRecommendations = "No specific recommendations at this time for the selected criteria. Keep monitoring!"

// Fetcher runs named queries.
type Fetcher interface {
	Execute(ctx context.Context, queryID string, params models.Params) (*models.QueryResult, error)
}

// Selection is what the recommendations are computed for.
type Selection struct {
	Range period.Range
	// Entity names the selected user or warehouse; empty for the account scope.
	Entity string
	Scope  models.Scope
}

// params returns the current and previous range parameters plus the entity.
func (s Selection) params() models.Params {
	return s.withEntity(s.Range.Params())
}

// currentParams returns the current range parameters plus the entity.
func (s Selection) currentParams() models.Params {
	return s.withEntity(s.Range.CurrentParams())
}

func (s Selection) withEntity(p models.Params) models.Params {
	if key := s.Scope.EntityParam(); key != "" {
		p[key] = s.Entity
	}
	return p
}

// rule is one independent check. subject names the data it reads in
// fetch warnings.
type rule struct {
	eval    func(ctx context.Context, f Fetcher, sel Selection) ([]string, error)
	name    string
	subject string
	scope   models.Scope
}

// Engine runs the rule battery.
type Engine struct {
	fetcher Fetcher
	rules   []rule
}

// NewEngine creates an engine that fetches through f.
func NewEngine(f Fetcher) *Engine {
	return &Engine{fetcher: f, rules: defaultRules()}
}

// Evaluate runs every rule that applies to sel's scope, in order. A rule
// whose data cannot be fetched adds a warning and the battery continues.
func (e *Engine) Evaluate(ctx context.Context, sel Selection) models.Recommendations {
	var out models.Recommendations

	for _, r := range e.rules {
		if r.scope != sel.Scope {
			continue
		}
		if sel.Scope != models.ScopeAccount && sel.Entity == "" {
			continue
		}

		items, err := r.eval(ctx, e.fetcher, sel)
		if err != nil {
			logger.Warn("recommendation rule failed", "rule", r.name, "scope", sel.Scope, "error", err)
			out.Warnings = append(out.Warnings,
				fmt.Sprintf("Could not fetch %s for recommendations: %v", r.subject, err))
			continue
		}
		out.Items = append(out.Items, items...)
	}

	if len(out.Items) == 0 {
		out.Items = []string{NoRecommendations}
	}
	return out
}
