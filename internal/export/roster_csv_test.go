package export

import (
	"bytes"
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"roster-sync/internal/domain"
)

func TestWriteRosterCSV(t *testing.T) {
	records := []domain.Employee{
		{ID: 1, Name: "Joe", Age: 45, IsActive: 1},
		{ID: 7, Name: "Smith, Jo", Age: 30, IsActive: 0},
		{ID: 9, Name: "Multi\nLine", Age: 22, IsActive: 1},
	}

	var buf bytes.Buffer
	if err := WriteRosterCSV(&buf, records); err != nil {
		t.Fatalf("WriteRosterCSV() error = %v", err)
	}

	want := "ID,NAME,AGE,IS_ACTIVE\r\n" +
		"1,Joe,45,1\r\n" +
		"7,\"Smith, Jo\",30,0\r\n" +
		"9,Multi Line,22,1\r\n"
	if buf.String() != want {
		t.Errorf("Unexpected CSV:\n%q\nwant\n%q", buf.String(), want)
	}
}

func TestWriteRosterCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRosterCSV(&buf, nil); err != nil {
		t.Fatalf("WriteRosterCSV() error = %v", err)
	}
	if buf.String() != "ID,NAME,AGE,IS_ACTIVE\r\n" {
		t.Errorf("Expected header only, got %q", buf.String())
	}
}

func TestRosterFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "roster.csv")
	records := []domain.Employee{
		{ID: 1, Name: "Joe", Age: 45, IsActive: 1},
		{ID: 2, Name: "Ann", Age: 0, IsActive: 0},
	}
	if err := WriteRosterFile(path, records); err != nil {
		t.Fatalf("WriteRosterFile() error = %v", err)
	}

	got, err := ReadRosterFile(path)
	if err != nil {
		t.Fatalf("ReadRosterFile() error = %v", err)
	}
	want := []domain.Draft{domain.DraftFrom(records[0]), domain.DraftFrom(records[1])}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRosterFile() = %+v, want %+v", got, want)
	}
}

func TestReadRosterCSV(t *testing.T) {
	input := "\ufeffname, age ,is_active,id\n" +
		"Jo,30,true,\n" +
		"Joe,45,1,1\n" +
		"Ann,,,\n"

	got, err := ReadRosterCSV(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadRosterCSV() error = %v", err)
	}
	want := []domain.Draft{
		{ID: 0, Name: "Jo", Age: 30, IsActive: 1},
		{ID: 1, Name: "Joe", Age: 45, IsActive: 1},
		{ID: 0, Name: "Ann", Age: 0, IsActive: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ReadRosterCSV() = %+v, want %+v", got, want)
	}
}

func TestReadRosterCSVErrors(t *testing.T) {
	testCases := []struct {
		name          string
		input         string
		errorContains string
	}{
		{"Missing name column", "ID,AGE\n1,2\n", "missing column NAME"},
		{"Bad age", "NAME,AGE\nJo,30\nJoe,old\n", "line 3: AGE"},
		{"Bad id", "ID,NAME\nx,Jo\n", "line 2: ID"},
		{"Bad flag", "NAME,IS_ACTIVE\nJo,maybe\n", "line 2: IS_ACTIVE"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ReadRosterCSV(strings.NewReader(tc.input))
			if err == nil || !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("Expected error containing %q, got %v", tc.errorContains, err)
			}
		})
	}

	_, err := ReadRosterCSV(strings.NewReader("ID\n"))
	if !errors.Is(err, ErrMissingColumn) {
		t.Errorf("Expected ErrMissingColumn, got %v", err)
	}
}

func TestReadRosterCSVEmptyInput(t *testing.T) {
	got, err := ReadRosterCSV(strings.NewReader(""))
	if err != nil || got != nil {
		t.Errorf("Expected no rows and no error, got %v %v", got, err)
	}
}
