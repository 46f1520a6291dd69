// Package warehouse executes catalog queries against the configured backend.
package warehouse

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/j-veylop/warehouse-finops-tui/internal/cache"
	"github.com/j-veylop/warehouse-finops-tui/internal/catalog"
	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
)

// Default executor parameters.
const (
	DefaultCreditPrice  = 2.0
	DefaultLookbackDays = 90
)

// ErrUnknownQuery is wrapped by Execute when the catalog has no such query.
var ErrUnknownQuery = errors.New("unknown query identifier")

// Querier is the subset of *sql.DB the executor needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Options configures an Executor.
type Options struct {
	Cache        cache.Cache
	Dialect      catalog.Dialect
	TTL          time.Duration
	CreditPrice  float64
	LookbackDays int
}

// Executor runs catalog queries and caches their results.
type Executor struct {
	db       Querier
	catalog  *catalog.Catalog
	cache    cache.Cache
	defaults models.Params
	group    singleflight.Group
	dialect  catalog.Dialect
	ttl      time.Duration
}

// NewExecutor creates an executor over db.
func NewExecutor(db Querier, cat *catalog.Catalog, opts Options) *Executor {
	if opts.Cache == nil {
		opts.Cache = cache.Nop{}
	}
	if opts.TTL <= 0 {
		opts.TTL = cache.DefaultTTL
	}
	if opts.CreditPrice <= 0 {
		opts.CreditPrice = DefaultCreditPrice
	}
	if opts.LookbackDays <= 0 {
		opts.LookbackDays = DefaultLookbackDays
	}
	if opts.Dialect == "" {
		opts.Dialect = catalog.Snowflake
	}

	return &Executor{
		db:      db,
		catalog: cat,
		cache:   opts.Cache,
		dialect: opts.Dialect,
		ttl:     opts.TTL,
		defaults: models.Params{
			catalog.ParamCreditPrice:  opts.CreditPrice,
			catalog.ParamLookbackDays: opts.LookbackDays,
		},
	}
}

// Dialect returns the SQL dialect the executor queries with.
func (e *Executor) Dialect() catalog.Dialect {
	return e.dialect
}

// Execute runs the query registered under id with params. Every failure is
// reported as a *models.FetchError.
func (e *Executor) Execute(ctx context.Context, id string, params models.Params) (*models.QueryResult, error) {
	all := e.defaults.Clone(params)
	key := cacheKey(id, all)

	if r, ok := e.cache.Get(key); ok {
		logger.Debug("query cache hit", "query_id", id)
		return r, nil
	}

	v, err, _ := e.group.Do(key, func() (any, error) {
		r, err := e.run(ctx, id, all)
		if err != nil {
			return nil, err
		}
		e.cache.Put(key, r, e.ttl)
		return r, nil
	})
	if err != nil {
		return nil, &models.FetchError{QueryID: id, Err: err}
	}
	return v.(*models.QueryResult), nil
}

// Flush drops every cached result.
func (e *Executor) Flush() {
	e.cache.Flush()
}

func (e *Executor) run(ctx context.Context, id string, params models.Params) (*models.QueryResult, error) {
	q, ok := e.catalog.Lookup(id)
	if !ok {
		return nil, ErrUnknownQuery
	}

	text, ok := q.Text(e.dialect)
	if !ok || strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("no %s SQL for query", e.dialect)
	}

	query, args, err := catalog.Bind(text, params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}

	logger.Debug("query executed",
		"query_id", id,
		"dialect", e.dialect,
		"rows", result.Len(),
		"duration", time.Since(start),
	)
	return result, nil
}

// cacheKey builds a stable key from id and the sorted parameters.
func cacheKey(id string, params models.Params) string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	slices.Sort(names)

	var b strings.Builder
	b.WriteString(id)
	for _, k := range names {
		fmt.Fprintf(&b, "|%s=%v", k, params[k])
	}
	return b.String()
}
