package sync

import (
	"context"
	gosync "sync"

	"roster-sync/internal/domain"
	"roster-sync/internal/remote"
)

type fakeCollection struct {
	mu       gosync.Mutex
	records  []domain.Employee
	nextID   int
	errs     map[string]error
	calls    map[string]int
	listGate chan struct{}
}

func newFakeCollection(nextID int, seed ...domain.Employee) *fakeCollection {
	return &fakeCollection{
		records: append([]domain.Employee(nil), seed...),
		nextID:  nextID,
		errs:    map[string]error{},
		calls:   map[string]int{},
	}
}

func (f *fakeCollection) fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errs[op] = err
}

func (f *fakeCollection) count(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

func (f *fakeCollection) enter(op string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[op]++
	return f.errs[op]
}

func (f *fakeCollection) List(ctx context.Context) ([]domain.Employee, error) {
	if err := f.enter("list"); err != nil {
		return nil, err
	}
	if f.listGate != nil {
		<-f.listGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Employee(nil), f.records...), nil
}

func (f *fakeCollection) Create(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if err := f.enter("create"); err != nil {
		return domain.Employee{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = f.nextID
	f.nextID++
	f.records = append(f.records, e)
	return e, nil
}

func (f *fakeCollection) Update(ctx context.Context, e domain.Employee) (domain.Employee, error) {
	if err := f.enter("update"); err != nil {
		return domain.Employee{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == e.ID {
			f.records[i] = e
			return e, nil
		}
	}
	return domain.Employee{}, remote.ErrNotFound
}

func (f *fakeCollection) Delete(ctx context.Context, id int) error {
	if err := f.enter("delete"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.records {
		if f.records[i].ID == id {
			f.records = append(f.records[:i:i], f.records[i+1:]...)
			return nil
		}
	}
	return remote.ErrNotFound
}
