package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"

	"github.com/j-veylop/warehouse-finops-tui/internal/config"
	"github.com/j-veylop/warehouse-finops-tui/internal/dashboards"
	"github.com/j-veylop/warehouse-finops-tui/internal/db"
	"github.com/j-veylop/warehouse-finops-tui/internal/logger"
	"github.com/j-veylop/warehouse-finops-tui/internal/models"
	"github.com/j-veylop/warehouse-finops-tui/internal/period"
	"github.com/j-veylop/warehouse-finops-tui/internal/report"
	"github.com/j-veylop/warehouse-finops-tui/internal/services"
	"github.com/j-veylop/warehouse-finops-tui/internal/warehouse"
)

const batchTimeout = 10 * time.Minute

// options defines the top-level command line options.
type options struct {
	Version bool `short:"v" long:"version" description:"display the version and exit"`
}

// reportCommand renders one view to stdout.
type reportCommand struct {
	out io.Writer

	View   string `long:"view" description:"view to render (overview, user, warehouse)" default:"overview"`
	Entity string `long:"entity" description:"user or warehouse name; defaults to the first active one"`
	Days   int    `long:"days" description:"render the last N days (default DEFAULT_RANGE_DAYS)"`
	Start  string `long:"start" description:"custom range start date"`
	End    string `long:"end" description:"custom range end date"`
	JSON   bool   `long:"json" description:"write the report as JSON"`
}

// importCommand loads a CSV export into the local usage mirror.
type importCommand struct {
	out io.Writer

	Table string `long:"table" description:"mirror table to load" required:"true"`
	Args  struct {
		File string `positional-arg-name:"FILE" description:"CSV export to import"`
	} `positional-args:"yes" required:"yes"`
}

// newParser builds the command line parser. Without a subcommand the
// interactive dashboard runs.
func newParser(opts *options) *flags.Parser {
	parser := flags.NewParser(opts, flags.Default)
	parser.Name = "finops"
	parser.SubcommandsOptional = true
	parser.LongDescription = "Cost and usage dashboard over Snowflake ACCOUNT_USAGE.\n\n" +
		"Configuration is read from .env files, the environment and the Snowflake\n" +
		"connection file (SNOWFLAKE_CONNECTION_FILE)."

	_, _ = parser.AddCommand("report",
		"Render a view to stdout",
		"Renders one dashboard view for a date range as text or JSON and exits.",
		&reportCommand{out: os.Stdout})
	_, _ = parser.AddCommand("import",
		"Import a CSV export into the local mirror",
		"Loads a CSV export of an ACCOUNT_USAGE view into the SQLite mirror at DATABASE_PATH.\n"+
			"Tables: "+strings.Join(db.Tables, ", "),
		&importCommand{out: os.Stdout})
	return parser
}

// selectRange resolves the range flags. Explicit dates win over --days.
func (c *reportCommand) selectRange(defaultDays int, now time.Time) (period.Range, error) {
	if c.Start != "" || c.End != "" {
		start, err := period.ParseDate(c.Start)
		if err != nil {
			return period.Range{}, err
		}
		end, err := period.ParseDate(c.End)
		if err != nil {
			return period.Range{}, err
		}
		return period.New(start, end)
	}
	days := c.Days
	if days == 0 {
		days = defaultDays
	}
	if days < 0 {
		return period.Range{}, &models.ValidationError{Field: "days", Message: "must be positive"}
	}
	return period.Last(days, now), nil
}

// Execute implements flags.Commander.
func (c *reportCommand) Execute(_ []string) error {
	view, err := dashboards.ParseView(c.View)
	if err != nil {
		return err
	}
	f := report.FormatText
	if c.JSON {
		f = report.FormatJSON
	}

	cfg, err := loadBatchConfig()
	if err != nil {
		return err
	}
	rng, err := c.selectRange(cfg.DefaultRangeDays, time.Now())
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	mgr, err := services.NewManager(ctx, cfg)
	if err != nil {
		return err
	}
	defer mgr.Close()

	entity, err := c.resolveEntity(ctx, mgr, view)
	if err != nil {
		return err
	}

	r := mgr.RenderView(ctx, services.ViewRequest{View: view, Range: rng, Entity: entity})
	if err := report.Write(c.out, r, f); err != nil {
		return err
	}
	if r.Halted {
		return fmt.Errorf("%s could not be rendered", r.Title)
	}
	return nil
}

// resolveEntity picks the first active user or warehouse when none was
// given, matching the interactive default.
func (c *reportCommand) resolveEntity(ctx context.Context, mgr *services.Manager, view dashboards.View) (string, error) {
	if view.Scope() == models.ScopeAccount || c.Entity != "" || !mgr.Connected() {
		return c.Entity, nil
	}
	entities, err := mgr.ListEntities(ctx, view.Scope())
	if err != nil {
		return "", err
	}
	if len(entities.Names) == 0 {
		return "", nil
	}
	logger.Info("Defaulting entity", "scope", view.Scope().String(), "entity", entities.Names[0])
	return entities.Names[0], nil
}

// Execute implements flags.Commander.
func (c *importCommand) Execute(_ []string) error {
	cfg, err := loadBatchConfig()
	if err != nil {
		return err
	}

	f, err := os.Open(c.Args.File)
	if err != nil {
		return err
	}
	defer f.Close()

	b, err := warehouse.OpenSQLite(cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer b.Close()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	n, err := b.Mirror.ImportCSV(ctx, c.Table, f)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.out, "Imported %d rows into %s (%s)\n", n, c.Table, b.Source); err != nil {
		return err
	}

	counts, err := b.Mirror.TableCounts(ctx)
	if err != nil {
		return err
	}
	for _, table := range db.Tables {
		if _, err := fmt.Fprintf(c.out, "  %-28s %d rows\n", table, counts[table]); err != nil {
			return err
		}
	}

	latest, err := b.Mirror.LatestActivity(ctx)
	if err != nil {
		return err
	}
	if !latest.IsZero() {
		_, err = fmt.Fprintf(c.out, "Latest query: %s\n", latest.Format(time.DateTime))
	}
	return err
}

// loadBatchConfig loads configuration and logs to stderr.
func loadBatchConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if _, err := logger.Setup(logger.Options{Level: cfg.LogLevel, File: cfg.LogFile}); err != nil {
		return nil, err
	}
	return cfg, nil
}
