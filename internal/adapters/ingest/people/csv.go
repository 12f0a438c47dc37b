package people

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"peoplestats/internal/core/stats"
	perr "peoplestats/internal/platform/errors"
)

const (
	colSiblings  = "siblings"
	colFood      = "favourite_food"
	colTimezone  = "birth_timezone"
	colTimestamp = "birth_timestamp"
	colFirstName = "first_name"
	colLastName  = "last_name"
	colName      = "name"
)

var requiredColumns = []string{colSiblings, colFood, colTimezone, colTimestamp}

// columns maps a normalized header name to its index
type columns map[string]int

func headerColumns(header []string) columns {
	cols := make(columns, len(header))
	for i, h := range header {
		k := strings.ToLower(strings.TrimSpace(h))
		if _, dup := cols[k]; !dup {
			cols[k] = i
		}
	}
	return cols
}

// cell returns the trimmed value; ok is false when the column is absent or the row is short
func (c columns) cell(row []string, name string) (string, bool) {
	i, ok := c[name]
	if !ok || i >= len(row) {
		return "", false
	}
	return strings.TrimSpace(row[i]), true
}

func readCSV(r io.Reader) ([]stats.Person, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, perr.Parsef("csv: missing header row")
	}
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "csv: read header")
	}
	cols := headerColumns(header)
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			return nil, perr.WithField(perr.Parsef("csv: header is missing column %q", name), name)
		}
	}

	var out []stats.Person
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, perr.Wrap(err, perr.ErrorCodeParse, "csv: malformed row")
		}
		line, _ := cr.FieldPos(0)
		rec, err := cols.record(row)
		if err == nil {
			var p stats.Person
			if p, err = rec.person(); err == nil {
				out = append(out, p)
				continue
			}
		}
		return nil, at(err, "line %d", line)
	}
	return out, nil
}

// record maps one row onto the wire schema; blank numeric cells stay unset for validation
func (c columns) record(row []string) (record, error) {
	var rec record
	for _, name := range requiredColumns {
		if _, ok := c.cell(row, name); !ok {
			return rec, perr.WithField(perr.Parsef("row has no value for %s", name), name)
		}
	}

	var err error
	if rec.Siblings, err = c.integer(row, colSiblings); err != nil {
		return rec, err
	}
	if rec.BirthTimestamp, err = c.integer(row, colTimestamp); err != nil {
		return rec, err
	}
	rec.FavouriteFood, _ = c.cell(row, colFood)
	rec.BirthTimezone, _ = c.cell(row, colTimezone)

	first, okFirst := c.cell(row, colFirstName)
	last, okLast := c.cell(row, colLastName)
	if !okFirst && !okLast {
		if full, ok := c.cell(row, colName); ok {
			first, last, _ = strings.Cut(full, " ")
			last = strings.TrimSpace(last)
		}
	}
	rec.FirstName, rec.LastName = first, last
	return rec, nil
}

func (c columns) integer(row []string, name string) (*Int, error) {
	s, _ := c.cell(row, name)
	if s == "" {
		return nil, nil
	}
	v, err := parseInt(s)
	if err != nil {
		return nil, perr.WithField(perr.Wrapf(err, perr.ErrorCodeParse, "%s", name), name)
	}
	n := Int(v)
	return &n, nil
}

// at prefixes err with a position while keeping its code and field
func at(err error, format string, a ...any) error {
	e, ok := perr.As(err)
	if !ok {
		return perr.Wrapf(err, perr.ErrorCodeParse, format, a...)
	}
	return perr.WithField(perr.Wrapf(err, e.Code(), format, a...), e.Field())
}
