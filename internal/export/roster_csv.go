package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"roster-sync/internal/domain"
)

// Keep header order EXACT; ReadRosterCSV accepts any order.
var rosterHeader = []string{"ID", "NAME", "AGE", "IS_ACTIVE"}

// FirstDataLine is the file line of the first record after the header.
const FirstDataLine = 2

var ErrMissingColumn = errors.New("export: missing column")

// WriteRosterCSV writes one row per employee, in slice order.
func WriteRosterCSV(w io.Writer, records []domain.Employee) error {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true

	if err := cw.Write(rosterHeader); err != nil {
		return err
	}
	for _, e := range records {
		row := []string{
			strconv.Itoa(e.ID),
			cleanField(e.Name),
			strconv.Itoa(e.Age),
			strconv.Itoa(e.IsActive),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteRosterFile creates path (and its directory) and writes the roster.
func WriteRosterFile(path string, records []domain.Employee) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteRosterCSV(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// ReadRosterCSV parses a roster file into drafts. Row i of the result came
// from file line FirstDataLine+i. An empty ID cell means a new employee.
// NAME is required; missing AGE or IS_ACTIVE columns read as zero.
func ReadRosterCSV(r io.Reader) ([]domain.Draft, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	cols := indexHeader(header)
	if _, ok := cols["NAME"]; !ok {
		return nil, fmt.Errorf("%w NAME", ErrMissingColumn)
	}

	var out []domain.Draft
	for line := FirstDataLine; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return out, err
		}

		d, err := parseRow(row, cols)
		if err != nil {
			return out, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, d)
	}
}

// ReadRosterFile opens path and parses it with ReadRosterCSV.
func ReadRosterFile(path string) ([]domain.Draft, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRosterCSV(f)
}

func indexHeader(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToUpper(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func parseRow(row []string, cols map[string]int) (domain.Draft, error) {
	cell := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var d domain.Draft
	var err error
	if d.ID, err = atoiOrZero(cell("ID")); err != nil {
		return d, fmt.Errorf("ID: %w", err)
	}
	d.Name = cell("NAME")
	if d.Age, err = atoiOrZero(cell("AGE")); err != nil {
		return d, fmt.Errorf("AGE: %w", err)
	}
	if d.IsActive, err = parseActive(cell("IS_ACTIVE")); err != nil {
		return d, fmt.Errorf("IS_ACTIVE: %w", err)
	}
	return d, nil
}

func atoiOrZero(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func parseActive(s string) (int, error) {
	switch strings.ToLower(s) {
	case "", "0", "false", "no":
		return 0, nil
	case "1", "true", "yes":
		return 1, nil
	default:
		return 0, fmt.Errorf("invalid flag %q", s)
	}
}

// avoid newlines in cells
func cleanField(s string) string {
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
