package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// Wages file columns.
const (
	ColMedianWage    = "Median Annual Wage"
	ColPercentChange = "Percent Change"
)

// Wage is one row of the wages table.
type Wage struct {
	Code          string
	MedianAnnual  int
	PercentChange int
}

// WriteWages writes the tab-separated wages table.
func WriteWages(path string, wages []Wage) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		cw.Comma = '\t'
		if err := cw.Write([]string{ColCode, ColMedianWage, ColPercentChange}); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, wg := range wages {
			row := []string{wg.Code, FormatUSD(wg.MedianAnnual), strconv.Itoa(wg.PercentChange)}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write %s: %w", wg.Code, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// FormatUSD renders whole dollars with thousands separators: $55,000.
func FormatUSD(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}
	s := strconv.Itoa(n)
	out := make([]byte, 0, len(s)+len(s)/3)
	for i := range len(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	return sign + "$" + string(out)
}
