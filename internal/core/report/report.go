// Package report renders the fixed three line summary
package report

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"peoplestats/internal/core/stats"
)

// Done is printed after a successful report
const Done = "The End of Application, Thanks!"

// Render writes the three report lines to w
func Render(w io.Writer, r stats.Report) error {
	var b bytes.Buffer
	b.WriteString("Average siblings: ")
	b.WriteString(strconv.Itoa(r.AverageSiblings))
	b.WriteByte('\n')

	b.WriteString("Three favourite foods: ")
	foods := make([]string, 0, len(r.TopFoods))
	for _, f := range r.TopFoods {
		foods = append(foods, f.Name+"("+strconv.Itoa(f.Count)+")")
	}
	b.WriteString(strings.Join(foods, " "))
	b.WriteByte('\n')

	b.WriteString("Birth Months: ")
	for m := time.January; m <= time.December; m++ {
		if m > time.January {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, "%s (%d)", m, r.Month(m))
	}
	b.WriteByte('\n')

	_, err := w.Write(b.Bytes())
	return err
}

// String returns the rendered report
func String(r stats.Report) string {
	var b strings.Builder
	_ = Render(&b, r)
	return b.String()
}
