package draft

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"roster-sync/internal/domain"
	"roster-sync/internal/validate"
)

// Form selects which draft an edit applies to.
type Form int

const (
	Add Form = iota
	Edit
)

func (f Form) String() string {
	switch f {
	case Add:
		return "add"
	case Edit:
		return "edit"
	default:
		return fmt.Sprintf("form(%d)", int(f))
	}
}

const (
	FieldName     = "name"
	FieldAge      = "age"
	FieldIsActive = "isActive"
)

var ErrUnknownField = errors.New("draft: unknown field")

// Store holds the add-form and edit-form values, independent of the roster.
type Store struct {
	mu          sync.Mutex
	add         domain.Draft
	edit        domain.Draft
	editVisible bool
}

func NewStore() *Store {
	return &Store{add: domain.EmptyDraft(), edit: domain.EmptyDraft()}
}

// StartAdd resets the add-draft.
func (s *Store) StartAdd() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add = domain.EmptyDraft()
}

// StartEdit copies rec into the edit-draft and shows the edit surface.
func (s *Store) StartEdit(rec domain.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edit = domain.DraftFrom(rec)
	s.editVisible = true
}

// CancelEdit hides the edit surface. Field values stay; the next StartEdit
// overwrites them.
func (s *Store) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editVisible = false
}

// CloseEditFor closes the edit surface only while it still shadows id, so a
// late completion does not clobber an edit the user opened since.
func (s *Store) CloseEditFor(id int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.edit.ID != id {
		return false
	}
	s.editVisible = false
	s.edit = domain.EmptyDraft()
	return true
}

// UpdateField merges one raw input value into the selected draft.
// Other fields keep their prior values.
func (s *Store) UpdateField(form Form, field, raw string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	d, err := s.draftPtr(form)
	if err != nil {
		return err
	}

	switch field {
	case FieldName:
		d.Name = raw
	case FieldAge:
		age, err := parseAge(raw)
		if err != nil {
			return err
		}
		d.Age = age
	case FieldIsActive:
		d.IsActive = checkbox(raw)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	return nil
}

func (s *Store) draftPtr(form Form) (*domain.Draft, error) {
	switch form {
	case Add:
		return &s.add, nil
	case Edit:
		return &s.edit, nil
	default:
		return nil, fmt.Errorf("draft: unknown %s", form)
	}
}

// Forms is a consistent copy of both drafts and the edit-surface flag.
type Forms struct {
	Add         domain.Draft
	Edit        domain.Draft
	EditVisible bool
}

// Snapshot reads everything under one lock, so EditVisible always matches
// the Edit it was taken with.
func (s *Store) Snapshot() Forms {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Forms{Add: s.add, Edit: s.edit, EditVisible: s.editVisible}
}

func (s *Store) Add() domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add
}

func (s *Store) Edit() domain.Draft {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.edit
}

func (s *Store) EditVisible() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editVisible
}

// parseAge coerces numeric input. Only the upper bound is clamped: a negative
// value passes through and is left for the validator to reject.
func parseAge(raw string) (int, error) {
	v := strings.TrimSpace(raw)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("draft: age %q is not a number: %w", raw, err)
	}
	return min(n, validate.MaxAge), nil
}

func checkbox(raw string) int {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "on", "yes", "checked":
		return 1
	default:
		return 0
	}
}
