// Package stats aggregates person records into the report figures
//
// One State belongs to one run. Records are folded in one at a time with Observe
// and the State is read once with Finalize.
package stats

import (
	"math"
	"sort"
	"time"

	"peoplestats/internal/core/zone"
)

// TopFoods is how many foods the report lists
const TopFoods = 3

// Person is one input record after schema validation
type Person struct {
	FirstName      string
	LastName       string
	Siblings       int
	FavouriteFood  string
	BirthTimezone  string
	BirthTimestamp int64 // epoch milliseconds, may be negative
}

// FoodCount is one row of the favourite food ranking
type FoodCount struct {
	Name  string
	Count int
}

// Report is the finalized result of one run
type Report struct {
	Records         int
	SiblingSum      int64
	AverageSiblings int
	TopFoods        []FoodCount
	Months          [12]int // index 0 is January
}

// Month returns the count for m
func (r Report) Month(m time.Month) int { return r.Months[m-1] }

// State holds the running totals
type State struct {
	records    int
	siblingSum int64
	foods      map[string]int
	months     [12]int
	zones      *zone.Resolver
}

// NewState returns an empty state with its own zone cache
func NewState() *State {
	return &State{
		foods: make(map[string]int),
		zones: zone.NewResolver(),
	}
}

// Observe folds one record into the totals
// The birth month is resolved first so a bad zone leaves the state untouched
func (s *State) Observe(p Person) error {
	m, err := s.zones.MonthOf(p.BirthTimestamp, p.BirthTimezone)
	if err != nil {
		return err
	}
	s.records++
	s.siblingSum += int64(p.Siblings)
	s.foods[p.FavouriteFood]++
	s.months[m-1]++
	return nil
}

// Records returns the number of observed records
func (s *State) Records() int { return s.records }

// Zones returns how many distinct zone identifiers were resolved
func (s *State) Zones() int { return s.zones.Len() }

// Finalize computes the report; an empty state yields zero averages and no foods
func (s *State) Finalize() Report {
	return Report{
		Records:         s.records,
		SiblingSum:      s.siblingSum,
		AverageSiblings: Average(s.siblingSum, s.records),
		TopFoods:        Top(s.foods, TopFoods),
		Months:          s.months,
	}
}

// Average returns sum/count rounded half away from zero; zero records average to 0
func Average(sum int64, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(count)))
}

// Top ranks foods by count descending, ties by name ascending, and keeps at most n
func Top(foods map[string]int, n int) []FoodCount {
	out := make([]FoodCount, 0, len(foods))
	for name, c := range foods {
		out = append(out, FoodCount{Name: name, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// DistinctFoods returns how many different foods were seen
func (s *State) DistinctFoods() int { return len(s.foods) }
