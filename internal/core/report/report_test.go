package report

import (
	"errors"
	"strings"
	"testing"

	"peoplestats/internal/core/stats"
)

func TestString_FullReport(t *testing.T) {
	r := stats.Report{
		AverageSiblings: 2,
		TopFoods:        []stats.FoodCount{{Name: "Pizza", Count: 74}, {Name: "Meatballs", Count: 36}, {Name: "Ice Cream", Count: 33}},
		Months:          [12]int{654, 45, 38, 28, 11, 16, 13, 7, 32, 5, 30, 31},
	}
	want := "Average siblings: 2\n" +
		"Three favourite foods: Pizza(74) Meatballs(36) Ice Cream(33)\n" +
		"Birth Months: January (654), February (45), March (38), April (28), May (11), June (16), " +
		"July (13), August (7), September (32), October (5), November (30), December (31)\n"
	if got := String(r); got != want {
		t.Fatalf("String() =\n%s\nwant\n%s", got, want)
	}
}

func TestString_SparseReport(t *testing.T) {
	r := stats.Report{
		AverageSiblings: 0,
		TopFoods:        []stats.FoodCount{{Name: "Tacos", Count: 1}},
		Months:          [12]int{11: 1},
	}
	out := String(r)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("want 3 lines, got %d: %q", len(lines), out)
	}
	if lines[1] != "Three favourite foods: Tacos(1)" {
		t.Fatalf("foods line = %q", lines[1])
	}
	if !strings.HasPrefix(lines[2], "Birth Months: January (0), February (0)") || !strings.HasSuffix(lines[2], "December (1)") {
		t.Fatalf("months line = %q", lines[2])
	}
}

func TestString_Empty(t *testing.T) {
	out := String(stats.Report{})
	if !strings.HasPrefix(out, "Average siblings: 0\nThree favourite foods: \n") {
		t.Fatalf("empty report = %q", out)
	}
}

type failWriter struct{}

func (failWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestRender_WriteError(t *testing.T) {
	if err := Render(failWriter{}, stats.Report{}); err == nil {
		t.Fatalf("expected write error")
	}
}
