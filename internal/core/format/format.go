// Package format classifies input files by extension
package format

import (
	"os"
	"path/filepath"
	"strings"

	perr "peoplestats/internal/platform/errors"
)

// Format is the input file type derived once from the path
type Format uint8

const (
	// Unknown is the zero value and never returned alongside a nil error
	Unknown Format = iota
	// CSV is a plain comma separated file
	CSV
	// JSON is a plain JSON array file
	JSON
	// CSVGz is a gzip-compressed CSV file
	CSVGz
	// JSONGz is a gzip-compressed JSON file
	JSONGz
)

// String returns the extension form used in messages (csv, json, csv.gz, json.gz)
func (f Format) String() string {
	switch f {
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case CSVGz:
		return "csv.gz"
	case JSONGz:
		return "json.gz"
	default:
		return "unknown"
	}
}

// Compressed reports whether the file must go through gunzip first
func (f Format) Compressed() bool { return f == CSVGz || f == JSONGz }

// Plain returns the format of the decompressed payload (CSVGz -> CSV)
func (f Format) Plain() Format {
	switch f {
	case CSVGz:
		return CSV
	case JSONGz:
		return JSON
	default:
		return f
	}
}

// Supported lists every format in the order used by the usage message
func Supported() []Format { return []Format{CSV, JSON, JSONGz, CSVGz} }

// Extension returns the lower-cased text after the last dot of the base name
// A leading dot does not start an extension, so ".csv" has none
func Extension(name string) string {
	base := filepath.Base(name)
	i := strings.LastIndex(base, ".")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(base[i+1:])
}

// Classify applies the extension rules to a file name without touching the filesystem
func Classify(name string) (Format, error) {
	switch ext := Extension(name); ext {
	case "csv":
		return CSV, nil
	case "json":
		return JSON, nil
	case "gz":
		lower := strings.ToLower(filepath.Base(name))
		switch {
		case strings.HasSuffix(lower, "csv.gz"):
			return CSVGz, nil
		case strings.HasSuffix(lower, "json.gz"):
			return JSONGz, nil
		}
		return Unknown, perr.WithField(perr.Unsupportedf("unsupported gzip payload in %s", filepath.Base(name)), "path")
	case "":
		return Unknown, perr.WithField(perr.Unsupportedf("no file extension on %s", filepath.Base(name)), "path")
	default:
		return Unknown, perr.WithField(perr.Unsupportedf("unsupported file extension %q", ext), "path")
	}
}

// statFn is a seam for tests
var statFn = os.Stat

// Detect checks that path is an existing regular file and classifies it
// A missing file yields ErrorCodeNotFound; everything else unsupported yields ErrorCodeUnsupported
func Detect(path string) (Format, error) {
	fi, err := statFn(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Unknown, perr.WithField(perr.Wrapf(err, perr.ErrorCodeNotFound, "file does not exist: %s", path), "path")
		}
		return Unknown, perr.WithField(perr.Wrapf(err, perr.ErrorCodeIO, "stat %s", path), "path")
	}
	if !fi.Mode().IsRegular() {
		return Unknown, perr.WithField(perr.Unsupportedf("%s is not a regular file", path), "path")
	}
	return Classify(path)
}
