package people

import (
	"bytes"
	"strconv"
	"strings"

	"peoplestats/internal/core/stats"
	perr "peoplestats/internal/platform/errors"
	"peoplestats/internal/platform/validate"
)

// Int is an integer that also accepts a quoted numeric string on the wire
type Int int64

// UnmarshalJSON accepts 12, "12" and " 12 "
func (n *Int) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) >= 2 && b[0] == '"' && b[len(b)-1] == '"' {
		b = b[1 : len(b)-1]
	}
	v, err := parseInt(string(b))
	if err != nil {
		return err
	}
	*n = Int(v)
	return nil
}

func parseInt(s string) (int64, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, perr.Parsef("%q is not an integer", s)
	}
	return v, nil
}

// record is the explicit wire schema shared by the csv and json decoders
type record struct {
	FirstName      string `json:"first_name"`
	LastName       string `json:"last_name"`
	Siblings       *Int   `json:"siblings" validate:"required,min=0"`
	FavouriteFood  string `json:"favourite_food" validate:"required,notblank"`
	BirthTimezone  string `json:"birth_timezone" validate:"required,notblank"`
	BirthTimestamp *Int   `json:"birth_timestamp" validate:"required"`
}

// person validates the record and converts it
func (r record) person() (stats.Person, error) {
	if err := validate.Struct(r); err != nil {
		return stats.Person{}, err
	}
	return stats.Person{
		FirstName:      r.FirstName,
		LastName:       r.LastName,
		Siblings:       int(*r.Siblings),
		FavouriteFood:  r.FavouriteFood,
		BirthTimezone:  strings.TrimSpace(r.BirthTimezone),
		BirthTimestamp: int64(*r.BirthTimestamp),
	}, nil
}
