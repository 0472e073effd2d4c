package draft

import (
	"errors"
	"testing"

	"roster-sync/internal/domain"
	"roster-sync/internal/validate"
)

func TestStartAddResets(t *testing.T) {
	s := NewStore()
	if err := s.UpdateField(Add, FieldName, "Jo"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	s.StartAdd()

	if got := s.Add(); got != domain.EmptyDraft() {
		t.Errorf("Expected empty add-draft, got %+v", got)
	}
}

func TestStartEditIsIdempotent(t *testing.T) {
	s := NewStore()
	rec := domain.Employee{ID: 7, Name: "Joan", Age: 31, IsActive: 1}

	s.StartEdit(rec)
	first := s.Edit()
	s.StartEdit(rec)
	second := s.Edit()

	if first != second {
		t.Errorf("Expected same edit-draft, got %+v and %+v", first, second)
	}
	if first.ID != 7 {
		t.Errorf("Expected edit-draft to carry id 7, got %d", first.ID)
	}
	if !s.EditVisible() {
		t.Error("Expected edit surface to be visible")
	}
}

func TestUpdateFieldPartial(t *testing.T) {
	s := NewStore()
	s.StartEdit(domain.Employee{ID: 3, Name: "Ana", Age: 40, IsActive: 1})

	if err := s.UpdateField(Edit, FieldName, "Anabel"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	want := domain.Draft{ID: 3, Name: "Anabel", Age: 40, IsActive: 1}
	if got := s.Edit(); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}
	if got := s.Add(); got != domain.EmptyDraft() {
		t.Errorf("Expected add-draft untouched, got %+v", got)
	}
}

func TestUpdateFieldAge(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
	}{
		{"30", 30},
		{" 42 ", 42},
		{"", 0},
		{"120", 120},
		{"150", 120},
		{"-5", -5},
	}

	for _, tc := range testCases {
		s := NewStore()
		if err := s.UpdateField(Add, FieldAge, tc.raw); err != nil {
			t.Fatalf("UpdateField(age, %q) returned %v", tc.raw, err)
		}
		if got := s.Add().Age; got != tc.expected {
			t.Errorf("UpdateField(age, %q) stored %d, want %d", tc.raw, got, tc.expected)
		}
	}
}

func TestClampedAgePassesValidation(t *testing.T) {
	s := NewStore()
	_ = s.UpdateField(Add, FieldName, "Jo")
	_ = s.UpdateField(Add, FieldAge, "150")

	if !validate.IsValid(s.Add()) {
		t.Errorf("Expected clamped draft %+v to be valid", s.Add())
	}
}

func TestUpdateFieldAgeNotANumber(t *testing.T) {
	s := NewStore()
	_ = s.UpdateField(Add, FieldAge, "33")

	if err := s.UpdateField(Add, FieldAge, "abc"); err == nil {
		t.Fatal("Expected error for non-numeric age")
	}
	if got := s.Add().Age; got != 33 {
		t.Errorf("Expected prior age 33 to be kept, got %d", got)
	}
}

func TestUpdateFieldCheckbox(t *testing.T) {
	testCases := []struct {
		raw      string
		expected int
	}{
		{"true", 1},
		{"on", 1},
		{"1", 1},
		{"checked", 1},
		{"false", 0},
		{"0", 0},
		{"", 0},
	}

	s := NewStore()
	for _, tc := range testCases {
		if err := s.UpdateField(Add, FieldIsActive, tc.raw); err != nil {
			t.Fatalf("UpdateField(isActive, %q) returned %v", tc.raw, err)
		}
		if got := s.Add().IsActive; got != tc.expected {
			t.Errorf("UpdateField(isActive, %q) stored %d, want %d", tc.raw, got, tc.expected)
		}
	}
}

func TestUpdateFieldUnknown(t *testing.T) {
	s := NewStore()
	err := s.UpdateField(Add, "salary", "10")
	if !errors.Is(err, ErrUnknownField) {
		t.Errorf("Expected ErrUnknownField, got %v", err)
	}

	if err := s.UpdateField(Form(9), FieldName, "Jo"); err == nil {
		t.Error("Expected error for unknown form")
	}
}

func TestCancelEditKeepsValues(t *testing.T) {
	s := NewStore()
	s.StartEdit(domain.Employee{ID: 1, Name: "Joe", Age: 45, IsActive: 1})

	s.CancelEdit()

	if s.EditVisible() {
		t.Error("Expected edit surface hidden")
	}
	if s.Edit().Name != "Joe" {
		t.Errorf("Expected values kept after cancel, got %+v", s.Edit())
	}
}

func TestCloseEditForOnlyMatchingID(t *testing.T) {
	s := NewStore()
	s.StartEdit(domain.Employee{ID: 2, Name: "Bo", Age: 20})

	if s.CloseEditFor(1) {
		t.Error("Expected no close for a different id")
	}
	if !s.EditVisible() {
		t.Error("Expected edit surface to stay open")
	}

	if !s.CloseEditFor(2) {
		t.Error("Expected close for matching id")
	}
	if s.EditVisible() || s.Edit() != domain.EmptyDraft() {
		t.Errorf("Expected closed and reset edit, got visible=%v %+v", s.EditVisible(), s.Edit())
	}
}

func TestSnapshotIsConsistent(t *testing.T) {
	s := NewStore()
	rec := domain.Employee{ID: 5, Name: "Bo", Age: 20, IsActive: 1}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 2000; i++ {
			s.StartEdit(rec)
			s.CloseEditFor(rec.ID)
		}
	}()

	for {
		select {
		case <-done:
			return
		default:
		}
		f := s.Snapshot()
		if f.EditVisible != (f.Edit.ID == rec.ID) {
			t.Fatalf("Inconsistent snapshot: visible=%v edit=%+v", f.EditVisible, f.Edit)
		}
	}
}

func TestSnapshot(t *testing.T) {
	s := NewStore()
	_ = s.UpdateField(Add, FieldName, "Jo")
	s.StartEdit(domain.Employee{ID: 2, Name: "Ann", Age: 30})

	f := s.Snapshot()
	if f.Add.Name != "Jo" || f.Edit.ID != 2 || !f.EditVisible {
		t.Errorf("Unexpected snapshot %+v", f)
	}
}
