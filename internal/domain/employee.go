package domain

// Employee is a roster record as the remote collection returns it.
// ID is assigned by the server; IsActive is stored as 0/1, not as a bool,
// because that is what the collection speaks on the wire.
type Employee struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Age      int    `json:"age"`
	IsActive int    `json:"isActive"`
}

// Active reports whether the record is flagged active.
func (e Employee) Active() bool {
	return e.IsActive == 1
}

// Draft is an unconfirmed, locally edited candidate record.
// ID is zero for an add-draft and the shadowed record id for an edit-draft.
type Draft struct {
	ID       int
	Name     string
	Age      int
	IsActive int
}

// DraftFrom copies a confirmed record into an edit-draft.
func DraftFrom(e Employee) Draft {
	return Draft{ID: e.ID, Name: e.Name, Age: e.Age, IsActive: e.IsActive}
}

// Employee turns the draft into the record shape sent to the remote.
func (d Draft) Employee() Employee {
	return Employee{ID: d.ID, Name: d.Name, Age: d.Age, IsActive: d.IsActive}
}

// EmptyDraft is the add-form starting state.
func EmptyDraft() Draft {
	return Draft{Name: "", Age: 0, IsActive: 0}
}
