package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"roster-sync/internal/app"
	"roster-sync/internal/config"
	"roster-sync/internal/domain"
	"roster-sync/internal/draft"
	"roster-sync/internal/logger"
	"roster-sync/internal/notify"
	"roster-sync/internal/session"
	rsync "roster-sync/internal/sync"
	"roster-sync/internal/testserver"
)

const usageText = `usage: rosterctl [flags] <command> [command flags]

commands:
  list                                     print the roster
  add    -name N [-age A] [-active]        create an employee
  edit   -id ID [-name N] [-age A] [-active true|false]
  delete -id ID [-yes]                     delete after confirmation
  serve  [-addr :3000]                     run a local in-memory /Employee server

flags:
`

var errFailed = errors.New("request failed")

func main() {
	var (
		backend     = flag.String("backend", "", "remote backend: http or memory (default ROSTER_BACKEND)")
		seed        = flag.Bool("seed", false, "seed the memory backend (and serve) with a sample employee")
		showMetrics = flag.Bool("metrics", false, "print sync metrics to stderr on exit")
	)
	flag.Usage = func() {
		fmt.Fprint(flag.CommandLine.Output(), usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	appLog := logger.NewFromEnv()
	cfg, err := config.Load(appLog)
	if err != nil {
		log.Fatal(err)
	}
	if *backend != "" {
		cfg.Backend = *backend
	}

	var seedRecords []domain.Employee
	if *seed {
		seedRecords = []domain.Employee{app.SampleEmployee}
	}

	if flag.NArg() > 0 && flag.Arg(0) == "serve" {
		if err := serve(ctx, cfg, seedRecords, flag.Args()[1:]); err != nil {
			log.Fatal(err)
		}
		return
	}

	c := &cli{in: bufio.NewReader(os.Stdin), out: os.Stdout, notes: &notify.Recorder{}}
	a, err := app.New(cfg, appLog, app.Options{
		Notifier: notify.Multi{&notify.Writer{W: os.Stdout}, c.notes},
		Seed:     seedRecords,
	})
	if err != nil {
		log.Fatal(err)
	}

	runErr := c.run(ctx, a, flag.Args())
	if *showMetrics {
		if err := a.WriteMetrics(os.Stderr); err != nil {
			log.Printf("WARN: metrics: %v", err)
		}
	}
	if errors.Is(runErr, flag.ErrHelp) {
		flag.Usage()
		os.Exit(2)
	}
	if runErr != nil {
		log.Fatal(runErr)
	}
}

type cli struct {
	in    *bufio.Reader
	out   io.Writer
	notes *notify.Recorder
}

func (c *cli) run(ctx context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		return flag.ErrHelp
	}
	s := session.New(ctx, a.Engine, nil)

	switch args[0] {
	case "list":
		return c.list(s)
	case "add":
		return c.add(s, args[1:])
	case "edit":
		return c.edit(s, args[1:])
	case "delete":
		return c.delete(s, args[1:])
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

// settle waits for dispatched calls and reports whether any of them failed.
func (c *cli) settle(s *session.Session, before int) error {
	s.Wait()
	if c.notes.Count(notify.KindFailure) > before {
		return errFailed
	}
	return nil
}

func (c *cli) load(s *session.Session) error {
	before := c.notes.Count(notify.KindFailure)
	s.Start()
	return c.settle(s, before)
}

func (c *cli) list(s *session.Session) error {
	if err := c.load(s); err != nil {
		return err
	}
	return printRoster(c.out, s.View().Roster)
}

func (c *cli) add(s *session.Session, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(c.out)
	name := fs.String("name", "", "employee name (at least 2 characters)")
	age := fs.String("age", "", "age, 0-120 (larger values are clamped)")
	active := fs.Bool("active", false, "mark the employee active")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s.StartAdd()
	fields := [][2]string{
		{draft.FieldName, *name},
		{draft.FieldAge, *age},
		{draft.FieldIsActive, strconv.FormatBool(*active)},
	}
	if err := applyFields(s, draft.Add, fields); err != nil {
		return err
	}

	before := c.notes.Count(notify.KindFailure)
	if err := s.SubmitAdd(); err != nil {
		return err
	}
	return c.settle(s, before)
}

func (c *cli) edit(s *session.Session, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ContinueOnError)
	fs.SetOutput(c.out)
	id := fs.Int("id", 0, "employee id")
	name := fs.String("name", "", "new name")
	age := fs.String("age", "", "new age")
	active := fs.String("active", "", "true or false")
	if err := fs.Parse(args); err != nil {
		return err
	}

	rec, err := c.find(s, *id)
	if err != nil {
		return err
	}
	s.OpenEdit(rec)

	var fields [][2]string
	if *name != "" {
		fields = append(fields, [2]string{draft.FieldName, *name})
	}
	if *age != "" {
		fields = append(fields, [2]string{draft.FieldAge, *age})
	}
	if *active != "" {
		fields = append(fields, [2]string{draft.FieldIsActive, *active})
	}
	if len(fields) == 0 {
		return errors.New("edit: nothing to change")
	}
	if err := applyFields(s, draft.Edit, fields); err != nil {
		return err
	}

	before := c.notes.Count(notify.KindFailure)
	if err := s.SubmitEdit(); err != nil {
		return err
	}
	return c.settle(s, before)
}

func (c *cli) delete(s *session.Session, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ContinueOnError)
	fs.SetOutput(c.out)
	id := fs.Int("id", 0, "employee id")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if _, err := c.find(s, *id); err != nil {
		return err
	}

	var confirm rsync.Confirmer = promptConfirmer{in: c.in, out: c.out}
	if *yes {
		confirm = rsync.Answer(true)
	}

	before := c.notes.Count(notify.KindFailure)
	err := s.ConfirmDelete(*id, confirm)
	if errors.Is(err, rsync.ErrNotConfirmed) {
		fmt.Fprintln(c.out, "delete canceled")
		return nil
	}
	if err != nil {
		return err
	}
	return c.settle(s, before)
}

func (c *cli) find(s *session.Session, id int) (domain.Employee, error) {
	if id <= 0 {
		return domain.Employee{}, errors.New("-id is required")
	}
	if err := c.load(s); err != nil {
		return domain.Employee{}, err
	}
	rec, ok := s.View().RosterByID(id)
	if !ok {
		return domain.Employee{}, fmt.Errorf("employee %d not found", id)
	}
	return rec, nil
}

func applyFields(s *session.Session, form draft.Form, fields [][2]string) error {
	for _, f := range fields {
		if err := s.FieldChanged(form, f[0], f[1]); err != nil {
			return err
		}
	}
	return nil
}

func printRoster(w io.Writer, records []domain.Employee) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "no employees")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tAGE\tACTIVE")
	for _, e := range records {
		active := "no"
		if e.Active() {
			active = "yes"
		}
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", e.ID, e.Name, e.Age, active)
	}
	return tw.Flush()
}

// promptConfirmer asks on the terminal; anything but y/yes declines.
type promptConfirmer struct {
	in  *bufio.Reader
	out io.Writer
}

func (p promptConfirmer) Confirm(_ context.Context, prompt string) (bool, error) {
	fmt.Fprintf(p.out, "%s [y/N] ", prompt)
	line, err := p.in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func serve(ctx context.Context, cfg config.Config, seed []domain.Employee, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	addr := fs.String("addr", ":3000", "listen address")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ts := testserver.NewUnstarted(seed...)
	ts.Collection.WithLatency(cfg.MemoryLatency)
	srv := &http.Server{
		Addr:              *addr,
		Handler:           ts.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serving /Employee on %s (%d seeded)", *addr, len(seed))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
