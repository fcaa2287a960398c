package names

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"certinator/internal/domain"
)

// DefaultColumn is the header the names are read from.
const DefaultColumn = "Name"

// Load reads the names column of a CSV list. Rows whose value is empty after
// trimming are dropped and every other column is ignored.
func Load(r io.Reader, column string) ([]string, error) {
	if column == "" {
		column = DefaultColumn
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, invalid(fmt.Errorf("%w: file is empty, expected a %q header", domain.ErrMissingColumn, column))
	}
	if err != nil {
		return nil, invalid(fmt.Errorf("read header: %w", err))
	}

	idx := -1
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		if h == column {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, invalid(fmt.Errorf("%w: your CSV must have a column header exactly named %q", domain.ErrMissingColumn, column))
	}

	var out []string
	for line := 2; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, invalid(fmt.Errorf("line %d: %w", line, err))
		}
		if idx >= len(row) {
			continue
		}
		if name := strings.TrimSpace(row[idx]); name != "" {
			out = append(out, name)
		}
	}

	if len(out) == 0 {
		return nil, invalid(domain.ErrNoNames)
	}
	return out, nil
}

func invalid(err error) error {
	return &domain.ValidationError{Input: "names list", Err: err}
}
