package sync

import (
	"context"
	"fmt"
	"strings"

	"roster-sync/internal/concurrency"
	"roster-sync/internal/domain"
	"roster-sync/internal/validate"
)

// InvalidRow is an import row rejected before planning.
type InvalidRow struct {
	Line  int
	Draft domain.Draft
	Err   error
}

// Plan is what an import would change against the current roster.
type Plan struct {
	Create    []domain.Draft
	Update    []domain.Draft
	Unchanged int
	Invalid   []InvalidRow
}

func (p Plan) Empty() bool {
	return len(p.Create) == 0 && len(p.Update) == 0
}

// PlanImport compares import rows with the current roster:
// - create: no id, or an id the roster does not know (the server assigns ids)
// - update: known id whose fields differ
// Rows failing validation land in Invalid. A repeated id keeps its first row.
// Line numbers start at firstLine.
func PlanImport(rows []domain.Draft, current []domain.Employee, firstLine int) Plan {
	byID := make(map[int]domain.Employee, len(current))
	for _, e := range current {
		byID[e.ID] = e
	}

	var p Plan
	seen := map[int]bool{}
	for i, r := range rows {
		r.Name = strings.TrimSpace(r.Name)
		if err := validate.Check(r); err != nil {
			p.Invalid = append(p.Invalid, InvalidRow{Line: firstLine + i, Draft: r, Err: err})
			continue
		}
		if r.ID != 0 {
			if seen[r.ID] {
				p.Invalid = append(p.Invalid, InvalidRow{Line: firstLine + i, Draft: r, Err: fmt.Errorf("duplicate id %d", r.ID)})
				continue
			}
			seen[r.ID] = true
		}

		cur, ok := byID[r.ID]
		switch {
		case r.ID == 0 || !ok:
			r.ID = 0
			p.Create = append(p.Create, r)
		case needsUpdate(r, cur):
			p.Update = append(p.Update, r)
		default:
			p.Unchanged++
		}
	}
	return p
}

func needsUpdate(d domain.Draft, e domain.Employee) bool {
	return d.Name != e.Name || d.Age != e.Age || d.IsActive != e.IsActive
}

// ApplyResult counts what an import actually changed.
type ApplyResult struct {
	Created int
	Updated int
	Errors  []error
}

// Apply runs the plan through the engine with bounded parallelism. Every
// mutation goes through the same path as an interactive one, reload included.
func (e *Engine) Apply(ctx context.Context, p Plan, opts concurrency.Options) ApplyResult {
	type job struct {
		create bool
		draft  domain.Draft
	}
	jobs := make([]job, 0, len(p.Create)+len(p.Update))
	for _, d := range p.Create {
		jobs = append(jobs, job{create: true, draft: d})
	}
	for _, d := range p.Update {
		jobs = append(jobs, job{draft: d})
	}

	results := make([]bool, len(jobs))
	errs := concurrency.ForEach(ctx, jobs, opts, func(ctx context.Context, i int, j job) error {
		var err error
		if j.create {
			err = e.Create(ctx, j.draft)
		} else {
			err = e.Update(ctx, j.draft)
		}
		if err == nil {
			results[i] = true
		}
		return err
	})

	res := ApplyResult{Errors: errs}
	for i, ok := range results {
		if !ok {
			continue
		}
		if jobs[i].create {
			res.Created++
		} else {
			res.Updated++
		}
	}
	return res
}
