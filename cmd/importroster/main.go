package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"roster-sync/internal/app"
	"roster-sync/internal/concurrency"
	"roster-sync/internal/config"
	"roster-sync/internal/export"
	"roster-sync/internal/logger"
	rsync "roster-sync/internal/sync"
)

func main() {
	var (
		inPath      = flag.String("in", "", "roster csv to import (ID,NAME,AGE,IS_ACTIVE)")
		dryRun      = flag.Bool("dry-run", false, "print the plan without sending anything")
		workers     = flag.Int("workers", 0, "parallel requests (default IMPORT_WORKERS)")
		backend     = flag.String("backend", "", "remote backend: http or memory (default ROSTER_BACKEND)")
		showMetrics = flag.Bool("metrics", false, "print sync metrics to stderr on exit")
	)
	flag.Parse()

	if *inPath == "" {
		log.Fatal("missing -in")
	}

	rootCtx, rootCancel := context.WithTimeout(context.Background(), time.Hour)
	defer rootCancel()

	appLog := logger.NewFromEnv()
	cfg, err := config.Load(appLog)
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}
	if *workers <= 0 {
		*workers = cfg.ImportWorkers
	}

	a, err := app.New(cfg, appLog, app.Options{})
	if err != nil {
		log.Fatal(err)
	}

	res, err := importRoster(rootCtx, a, *inPath, importOptions{
		DryRun:  *dryRun,
		Workers: *workers,
		Out:     os.Stdout,
	})
	if *showMetrics {
		if err := a.WriteMetrics(os.Stderr); err != nil {
			log.Printf("WARN: metrics: %v", err)
		}
	}
	if err != nil {
		log.Fatal(err)
	}
	if *dryRun {
		return
	}

	log.Printf("import done: created=%d updated=%d failed=%d", res.Created, res.Updated, len(res.Errors))
	for _, e := range res.Errors {
		log.Printf("WARN: %v", e)
	}
	if len(res.Errors) > 0 {
		os.Exit(1)
	}
}

type importOptions struct {
	DryRun  bool
	Workers int
	Out     io.Writer
}

func importRoster(ctx context.Context, a *app.App, inPath string, opts importOptions) (rsync.ApplyResult, error) {
	rows, err := export.ReadRosterFile(inPath)
	if err != nil {
		return rsync.ApplyResult{}, fmt.Errorf("read %s: %w", inPath, err)
	}
	if err := a.Engine.Load(ctx); err != nil {
		return rsync.ApplyResult{}, err
	}

	plan := rsync.PlanImport(rows, a.Engine.Roster().Snapshot(), export.FirstDataLine)
	printPlan(opts.Out, plan)
	if opts.DryRun || plan.Empty() {
		return rsync.ApplyResult{}, nil
	}

	return a.Engine.Apply(ctx, plan, concurrency.Options{MaxWorkers: opts.Workers}), nil
}

func printPlan(w io.Writer, p rsync.Plan) {
	fmt.Fprintf(w, "plan: create=%d update=%d unchanged=%d invalid=%d\n",
		len(p.Create), len(p.Update), p.Unchanged, len(p.Invalid))
	for _, d := range p.Create {
		fmt.Fprintf(w, "  + %s (age %d, active %d)\n", d.Name, d.Age, d.IsActive)
	}
	for _, d := range p.Update {
		fmt.Fprintf(w, "  ~ #%d %s (age %d, active %d)\n", d.ID, d.Name, d.Age, d.IsActive)
	}
	for _, r := range p.Invalid {
		fmt.Fprintf(w, "  ! line %d: %v\n", r.Line, r.Err)
	}
}
