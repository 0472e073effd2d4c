package domain

import (
	"reflect"
	"testing"
)

func TestDraftFromEmployee(t *testing.T) {
	e := Employee{ID: 7, Name: "Joan", Age: 31, IsActive: 1}

	d := DraftFrom(e)
	if d.ID != 7 || d.Name != "Joan" || d.Age != 31 || d.IsActive != 1 {
		t.Errorf("Expected draft to mirror employee, got %+v", d)
	}

	if !reflect.DeepEqual(d.Employee(), e) {
		t.Errorf("Expected round trip to give %+v, got %+v", e, d.Employee())
	}
}

func TestEmptyDraft(t *testing.T) {
	d := EmptyDraft()
	if d != (Draft{}) {
		t.Errorf("Expected zero draft, got %+v", d)
	}
}

func TestEmployeeActive(t *testing.T) {
	if !(Employee{IsActive: 1}).Active() {
		t.Error("Expected IsActive=1 to be active")
	}
	if (Employee{IsActive: 0}).Active() {
		t.Error("Expected IsActive=0 to be inactive")
	}
}
