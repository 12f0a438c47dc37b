package people

import (
	"bytes"
	"io"

	"peoplestats/internal/core/stats"
	perr "peoplestats/internal/platform/errors"

	"github.com/goccy/go-json"
)

// readJSON decodes the whole array in one pass; unknown fields are ignored
func readJSON(r io.Reader) ([]stats.Person, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeIO, "json: read input")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, perr.Parsef("json: empty input")
	}
	if data[0] != '[' {
		return nil, perr.Parsef("json: top level must be an array of objects")
	}

	var recs []record
	if err := json.Unmarshal(data, &recs); err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeParse, "json: decode")
	}

	out := make([]stats.Person, 0, len(recs))
	for i, rec := range recs {
		p, err := rec.person()
		if err != nil {
			return nil, at(err, "record %d", i)
		}
		out = append(out, p)
	}
	return out, nil
}
