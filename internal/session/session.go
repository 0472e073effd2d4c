// Package session is the boundary the presentation layer talks to. It turns
// user intents into draft edits and sync engine calls and renders the two
// stores into a View. Remote calls run in the background: an intent handler
// returns as soon as the call is dispatched.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"roster-sync/internal/domain"
	"roster-sync/internal/draft"
	rsync "roster-sync/internal/sync"
	"roster-sync/internal/validate"
)

var ErrEditClosed = errors.New("session: no edit in progress")

// View is everything a renderer needs.
type View struct {
	Roster        []domain.Employee
	AddDraft      domain.Draft
	EditDraft     domain.Draft
	Loading       bool
	State         rsync.State
	EditVisible   bool
	CanSubmitAdd  bool
	CanSubmitEdit bool
}

// RosterByID finds a record in the rendered roster.
func (v View) RosterByID(id int) (domain.Employee, bool) {
	for _, e := range v.Roster {
		if e.ID == id {
			return e, true
		}
	}
	return domain.Employee{}, false
}

type Renderer interface {
	Render(View)
}

type RenderFunc func(View)

func (f RenderFunc) Render(v View) { f(v) }

type Session struct {
	engine   *rsync.Engine
	ctx      context.Context
	renderer Renderer

	renderMu sync.Mutex
	wg       sync.WaitGroup
}

// New binds a session to engine. Dispatched calls inherit ctx values but not
// its cancellation: once issued, a request runs to completion.
func New(ctx context.Context, engine *rsync.Engine, renderer Renderer) *Session {
	return &Session{
		engine:   engine,
		ctx:      context.WithoutCancel(ctx),
		renderer: renderer,
	}
}

func (s *Session) View() View {
	forms := s.engine.Drafts().Snapshot()
	state := s.engine.State()
	return View{
		Roster:        s.engine.Roster().Snapshot(),
		AddDraft:      forms.Add,
		EditDraft:     forms.Edit,
		Loading:       state == rsync.Loading,
		State:         state,
		EditVisible:   forms.EditVisible,
		CanSubmitAdd:  validate.IsValid(forms.Add),
		CanSubmitEdit: validate.IsValid(forms.Edit),
	}
}

func (s *Session) render() {
	if s.renderer == nil {
		return
	}
	s.renderMu.Lock()
	defer s.renderMu.Unlock()
	s.renderer.Render(s.View())
}

// dispatch runs call in the background and renders on completion.
func (s *Session) dispatch(call func(ctx context.Context) error) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		_ = call(s.ctx)
		s.render()
	}()
	s.render()
}

// Wait blocks until every dispatched call has completed.
func (s *Session) Wait() {
	s.wg.Wait()
}

// Start issues the initial list fetch.
func (s *Session) Start() {
	s.dispatch(s.engine.Load)
}

func (s *Session) Refresh() {
	s.dispatch(s.engine.Load)
}

func (s *Session) FieldChanged(form draft.Form, field, value string) error {
	if err := s.engine.Drafts().UpdateField(form, field, value); err != nil {
		return err
	}
	s.render()
	return nil
}

// StartAdd clears the add form.
func (s *Session) StartAdd() {
	s.engine.Drafts().StartAdd()
	s.render()
}

// SubmitAdd validates the add-draft and dispatches the create. An invalid
// draft returns a *validate.ValidationError and nothing is sent.
func (s *Session) SubmitAdd() error {
	d := s.engine.Drafts().Add()
	if err := validate.Check(d); err != nil {
		return err
	}
	s.dispatch(func(ctx context.Context) error {
		return s.engine.Create(ctx, d)
	})
	return nil
}

func (s *Session) OpenEdit(rec domain.Employee) {
	s.engine.Drafts().StartEdit(rec)
	s.render()
}

func (s *Session) SubmitEdit() error {
	forms := s.engine.Drafts().Snapshot()
	if !forms.EditVisible {
		return ErrEditClosed
	}
	d := forms.Edit
	if err := validate.Check(d); err != nil {
		return err
	}
	s.dispatch(func(ctx context.Context) error {
		return s.engine.Update(ctx, d)
	})
	return nil
}

// CloseEdit hides the edit surface. A pending update is not canceled.
func (s *Session) CloseEdit() {
	s.engine.Drafts().CancelEdit()
	s.render()
}

// ConfirmDelete resolves confirm synchronously, then dispatches the delete.
// A declined confirmation returns rsync.ErrNotConfirmed and sends nothing.
func (s *Session) ConfirmDelete(id int, confirm rsync.Confirmer) error {
	if confirm == nil {
		return rsync.ErrNotConfirmed
	}
	ok, err := confirm.Confirm(s.ctx, deletePrompt(id, s.engine.Roster()))
	if err != nil {
		return fmt.Errorf("%w: %w", rsync.ErrNotConfirmed, err)
	}
	if !ok {
		return rsync.ErrNotConfirmed
	}
	s.dispatch(func(ctx context.Context) error {
		return s.engine.Delete(ctx, id, rsync.Answer(true))
	})
	return nil
}

type rosterLookup interface {
	Get(id int) (domain.Employee, bool)
}

func deletePrompt(id int, r rosterLookup) string {
	if e, ok := r.Get(id); ok {
		return "Are you sure you want to delete " + e.Name + "?"
	}
	return "Are you sure you want to delete this employee?"
}
