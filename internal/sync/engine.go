package sync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"roster-sync/internal/domain"
	"roster-sync/internal/draft"
	"roster-sync/internal/logger"
	"roster-sync/internal/metrics"
	"roster-sync/internal/notify"
	"roster-sync/internal/remote"
	"roster-sync/internal/roster"
)

// State is the lifecycle of the list fetch.
type State int

const (
	IdleEmpty State = iota
	Loading
	IdleWithData
)

func (s State) String() string {
	switch s {
	case Loading:
		return "loading"
	case IdleWithData:
		return "idle"
	default:
		return "empty"
	}
}

const (
	opLoad   = "load"
	opCreate = "create"
	opUpdate = "update"
	opDelete = "delete"
)

type Options struct {
	Notifier notify.Notifier
	Logger   logger.Logger
	Metrics  *metrics.Recorder
}

// Engine bridges confirmed intents to the remote collection and reconciles
// results into the roster. After every successful mutation it re-reads the
// whole collection instead of patching the roster locally, so server-assigned
// fields are never guessed.
//
// Calls are independent: nothing is queued or serialized. Two mutations in
// flight each trigger their own reload and the roster reflects whichever
// reload lands last.
type Engine struct {
	remote   remote.Collection
	roster   *roster.Store
	drafts   *draft.Store
	notifier notify.Notifier
	log      logger.Logger
	metrics  *metrics.Recorder

	mu       sync.Mutex
	inflight int
}

func NewEngine(c remote.Collection, r *roster.Store, d *draft.Store, opts Options) *Engine {
	if opts.Notifier == nil {
		opts.Notifier = notify.Discard{}
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Engine{
		remote:   c,
		roster:   r,
		drafts:   d,
		notifier: opts.Notifier,
		log:      opts.Logger,
		metrics:  opts.Metrics,
	}
}

func (e *Engine) Roster() *roster.Store { return e.roster }
func (e *Engine) Drafts() *draft.Store  { return e.drafts }

// State reports Loading while any list fetch is in flight.
func (e *Engine) State() State {
	e.mu.Lock()
	inflight := e.inflight
	e.mu.Unlock()

	switch {
	case inflight > 0:
		return Loading
	case e.roster.Len() > 0:
		return IdleWithData
	default:
		return IdleEmpty
	}
}

// Load reads the full collection. On failure the roster keeps whatever it
// had and a *RemoteReadError is returned.
func (e *Engine) Load(ctx context.Context) error {
	log := e.log.With("op", opLoad, "requestId", uuid.NewString())

	e.mu.Lock()
	e.inflight++
	e.mu.Unlock()
	defer func() {
		e.mu.Lock()
		e.inflight--
		e.mu.Unlock()
	}()

	start := time.Now()
	list, err := e.remote.List(ctx)
	if err != nil {
		e.metrics.Observe(opLoad, metrics.OutcomeFailure, time.Since(start))
		rerr := &RemoteReadError{Detail: detailOf(err), Err: err}
		log.InternalError("load employees failed", err, "kept", e.roster.Len())
		e.notifier.Failure(ctx, "Employees could not be loaded", rerr.Detail)
		return rerr
	}

	if dropped := e.roster.SetAll(list); dropped > 0 {
		log.Warn("duplicate employee ids in list response", "dropped", dropped)
	}
	e.metrics.Observe(opLoad, metrics.OutcomeSuccess, time.Since(start))
	log.Debug("employees loaded", "count", len(list), "elapsed", time.Since(start))
	return nil
}

// Create sends the add-draft without an id. The caller validates first;
// the engine does not re-check.
func (e *Engine) Create(ctx context.Context, d domain.Draft) error {
	log := e.log.With("op", opCreate, "requestId", uuid.NewString())

	start := time.Now()
	created, err := e.remote.Create(ctx, d.Employee())
	if err != nil {
		return e.writeFailed(ctx, log, opCreate, 0, start, err, "Employee could not be created")
	}
	e.metrics.Observe(opCreate, metrics.OutcomeSuccess, time.Since(start))
	log.Info("employee created", "id", created.ID)

	e.reload(ctx, log)
	e.notifier.Success(ctx, "Employee created")
	e.drafts.StartAdd()
	return nil
}

// Update sends the full edit-draft to the record it shadows. On failure the
// edit surface stays open so the user can retry or cancel.
func (e *Engine) Update(ctx context.Context, d domain.Draft) error {
	if d.ID == 0 {
		e.metrics.Reject(opUpdate)
		return ErrMissingID
	}
	log := e.log.With("op", opUpdate, "requestId", uuid.NewString(), "id", d.ID)

	start := time.Now()
	if _, err := e.remote.Update(ctx, d.Employee()); err != nil {
		return e.writeFailed(ctx, log, opUpdate, d.ID, start, err, "Employee could not be updated")
	}
	e.metrics.Observe(opUpdate, metrics.OutcomeSuccess, time.Since(start))
	log.Info("employee updated")

	e.reload(ctx, log)
	e.notifier.Success(ctx, "Employee updated")
	e.drafts.CloseEditFor(d.ID)
	return nil
}

// Delete asks confirm before anything else; a declined or failed
// confirmation returns ErrNotConfirmed and issues no remote call.
func (e *Engine) Delete(ctx context.Context, id int, confirm Confirmer) error {
	if confirm == nil {
		e.metrics.Reject(opDelete)
		return ErrNotConfirmed
	}
	ok, err := confirm.Confirm(ctx, fmt.Sprintf("Are you sure you want to delete employee %d?", id))
	if err != nil {
		e.metrics.Reject(opDelete)
		return fmt.Errorf("%w: %w", ErrNotConfirmed, err)
	}
	if !ok {
		e.metrics.Reject(opDelete)
		return ErrNotConfirmed
	}
	log := e.log.With("op", opDelete, "requestId", uuid.NewString(), "id", id)

	start := time.Now()
	if err := e.remote.Delete(ctx, id); err != nil {
		return e.writeFailed(ctx, log, opDelete, id, start, err, "Employee could not be deleted")
	}
	e.metrics.Observe(opDelete, metrics.OutcomeSuccess, time.Since(start))
	log.Info("employee deleted")

	e.reload(ctx, log)
	e.notifier.Success(ctx, "Employee deleted")
	return nil
}

// reload refreshes after a confirmed mutation. Its failure is reported by
// Load itself and does not turn the mutation into a failure.
func (e *Engine) reload(ctx context.Context, log logger.Logger) {
	if err := e.Load(ctx); err != nil {
		log.Warn("reload after mutation failed, roster is stale", "err", err)
	}
}

func (e *Engine) writeFailed(ctx context.Context, log logger.Logger, op string, id int, start time.Time, err error, message string) error {
	e.metrics.Observe(op, metrics.OutcomeFailure, time.Since(start))
	werr := &RemoteWriteError{Op: op, ID: id, Detail: detailOf(err), Err: err}
	if rejectedByServer(err) {
		log.BusinessError(op+" employee rejected", err, "detail", werr.Detail)
	} else {
		log.InternalError(op+" employee failed", err)
	}
	e.notifier.Failure(ctx, message, werr.Detail)
	return werr
}
