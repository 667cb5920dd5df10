package view

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/aussiebroadwan/backoffice/pkg/crmsdk"
)

// RenderTable writes rows under headers as aligned columns.
func RenderTable(w io.Writer, headers []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, row := range rows {
		cells := make([]string, len(headers))
		for i := range cells {
			if i < len(row) {
				cells[i] = clean(row[i])
			}
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	if len(rows) == 0 {
		fmt.Fprintln(tw, "(no results)")
	}
	return tw.Flush()
}

// clean keeps a cell on one line.
func clean(s string) string {
	s = strings.ReplaceAll(s, "\t", " ")
	s = strings.ReplaceAll(s, "\r", "")
	return strings.ReplaceAll(s, "\n", " ")
}

// PagerLine summarises a page envelope.
func PagerLine[T any](p *crmsdk.Page[T]) string {
	pages := max(p.TotalPages, 1)
	return fmt.Sprintf("Page %d of %d (%d total)", p.Page, pages, p.Total)
}

// Money formats an amount with two decimals and thousands separators.
func Money(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}

	s := strconv.FormatFloat(v, 'f', 2, 64)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + "." + frac
	if neg {
		return "-" + out
	}
	return out
}
