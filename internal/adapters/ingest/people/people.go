// Package people decodes person records from plain CSV or JSON input
//
// Both decoders map into one wire schema that is validated before a record is
// handed to the aggregator. Any malformed row aborts the whole read.
package people

import (
	"io"

	"peoplestats/internal/core/format"
	"peoplestats/internal/core/stats"
	perr "peoplestats/internal/platform/errors"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Read decodes every record from r; f must be format.CSV or format.JSON
func Read(r io.Reader, f format.Format) ([]stats.Person, error) {
	src := utf8Input(r)
	var (
		out []stats.Person
		err error
	)
	switch f {
	case format.CSV:
		out, err = readCSV(src)
	case format.JSON:
		out, err = readJSON(src)
	default:
		return nil, perr.InvalidArgf("people: cannot decode %s input, decompress first", f)
	}
	if err != nil {
		return nil, perr.WithOp(err, "people.read."+f.String())
	}
	return out, nil
}

// utf8Input strips a leading UTF-8 byte order mark
func utf8Input(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
