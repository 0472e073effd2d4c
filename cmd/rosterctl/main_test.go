package main

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"roster-sync/internal/app"
	"roster-sync/internal/config"
	"roster-sync/internal/domain"
	"roster-sync/internal/notify"
	"roster-sync/internal/validate"
)

func newTestCLI(t *testing.T, stdin string, seed ...domain.Employee) (*cli, *app.App, *bytes.Buffer) {
	t.Helper()
	out := &bytes.Buffer{}
	c := &cli{in: bufio.NewReader(strings.NewReader(stdin)), out: out, notes: &notify.Recorder{}}
	a, err := app.New(config.Config{Backend: config.BackendMemory}, nil, app.Options{
		Notifier: notify.Multi{&notify.Writer{W: out}, c.notes},
		Seed:     seed,
	})
	if err != nil {
		t.Fatalf("app.New: %v", err)
	}
	return c, a, out
}

func roster(t *testing.T, a *app.App) []domain.Employee {
	t.Helper()
	got, err := a.Collection.List(context.Background())
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	return got
}

func TestList(t *testing.T) {
	c, a, out := newTestCLI(t, "", app.SampleEmployee)

	if err := c.run(context.Background(), a, []string{"list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("Expected header and one row, got %q", out.String())
	}
	if fields := strings.Fields(lines[1]); strings.Join(fields, " ") != "1 Joe 45 yes" {
		t.Errorf("Unexpected row %q", lines[1])
	}
}

func TestListEmpty(t *testing.T) {
	c, a, out := newTestCLI(t, "")
	if err := c.run(context.Background(), a, []string{"list"}); err != nil {
		t.Fatalf("list: %v", err)
	}
	if strings.TrimSpace(out.String()) != "no employees" {
		t.Errorf("Unexpected output %q", out.String())
	}
}

func TestAdd(t *testing.T) {
	c, a, out := newTestCLI(t, "", app.SampleEmployee)

	err := c.run(context.Background(), a, []string{"add", "-name", "Jo", "-age", "150", "-active"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	got := roster(t, a)
	want := domain.Employee{ID: 2, Name: "Jo", Age: 120, IsActive: 1}
	if len(got) != 2 || got[1] != want {
		t.Errorf("Expected %+v appended, got %v", want, got)
	}
	if !strings.Contains(out.String(), "ok: ") {
		t.Errorf("Expected a success line, got %q", out.String())
	}
}

func TestAddRejectsShortName(t *testing.T) {
	c, a, _ := newTestCLI(t, "")

	err := c.run(context.Background(), a, []string{"add", "-name", "J"})
	var verr *validate.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected validation error, got %v", err)
	}
	if len(roster(t, a)) != 0 {
		t.Error("Expected nothing created")
	}
}

func TestAddRejectsNonNumericAge(t *testing.T) {
	c, a, _ := newTestCLI(t, "")
	if err := c.run(context.Background(), a, []string{"add", "-name", "Jo", "-age", "old"}); err == nil {
		t.Error("Expected age parse error")
	}
}

func TestEdit(t *testing.T) {
	c, a, _ := newTestCLI(t, "", app.SampleEmployee)

	err := c.run(context.Background(), a, []string{"edit", "-id", "1", "-name", "Joey", "-active", "false"})
	if err != nil {
		t.Fatalf("edit: %v", err)
	}
	want := domain.Employee{ID: 1, Name: "Joey", Age: 45, IsActive: 0}
	if got := roster(t, a); len(got) != 1 || got[0] != want {
		t.Errorf("Expected %+v, got %v", want, got)
	}
}

func TestEditErrors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"Missing id", []string{"edit", "-name", "Joey"}},
		{"Unknown id", []string{"edit", "-id", "9", "-name", "Joey"}},
		{"Nothing to change", []string{"edit", "-id", "1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, a, _ := newTestCLI(t, "", app.SampleEmployee)
			if err := c.run(context.Background(), a, tc.args); err == nil {
				t.Error("Expected error")
			}
			if got := roster(t, a); got[0] != app.SampleEmployee {
				t.Errorf("Expected record untouched, got %+v", got[0])
			}
		})
	}
}

func TestDeleteConfirmation(t *testing.T) {
	testCases := []struct {
		name      string
		stdin     string
		args      []string
		remaining int
	}{
		{"Confirmed", "y\n", []string{"delete", "-id", "1"}, 0},
		{"Declined", "n\n", []string{"delete", "-id", "1"}, 1},
		{"No answer", "", []string{"delete", "-id", "1"}, 1},
		{"Skip prompt", "", []string{"delete", "-id", "1", "-yes"}, 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			c, a, out := newTestCLI(t, tc.stdin, app.SampleEmployee)
			if err := c.run(context.Background(), a, tc.args); err != nil {
				t.Fatalf("delete: %v", err)
			}
			if got := len(roster(t, a)); got != tc.remaining {
				t.Errorf("Expected %d remaining, got %d", tc.remaining, got)
			}
			if tc.remaining == 1 && !strings.Contains(out.String(), "delete canceled") {
				t.Errorf("Expected cancel message, got %q", out.String())
			}
		})
	}
}

func TestDeletePromptNamesEmployee(t *testing.T) {
	c, a, out := newTestCLI(t, "yes\n", app.SampleEmployee)
	if err := c.run(context.Background(), a, []string{"delete", "-id", "1"}); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !strings.Contains(out.String(), "Are you sure you want to delete Joe? [y/N]") {
		t.Errorf("Expected prompt, got %q", out.String())
	}
}

func TestRunUnknownCommand(t *testing.T) {
	c, a, _ := newTestCLI(t, "")
	if err := c.run(context.Background(), a, []string{"purge"}); err == nil {
		t.Error("Expected error for unknown command")
	}
}
