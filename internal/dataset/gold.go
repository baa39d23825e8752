package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// Gold CSV columns beyond the O*NET ones.
const (
	ColSkills         = "Skills"
	ColEducationLevel = "Education_Level"
	ColCombinedText   = "combined_text"
)

// GoldHeader is the header row of the cleaned dataset.
var GoldHeader = []string{
	ColCode, ColTitle, ColDescription, ColSkills, ColJobZone, ColEducationLevel, ColCombinedText,
}

// WriteGold writes records as the cleaned CSV. Nothing is left at path if
// writing fails.
func WriteGold(path string, records []occupation.Record) error {
	return writeAtomic(path, func(w io.Writer) error {
		cw := csv.NewWriter(w)
		if err := cw.Write(GoldHeader); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
		for _, r := range records {
			row := []string{
				r.Code, r.Title, r.Description, r.Skills,
				strconv.Itoa(r.JobZone), r.EducationLevel, r.SearchText,
			}
			if err := cw.Write(row); err != nil {
				return fmt.Errorf("write %s: %w", r.Code, err)
			}
		}
		cw.Flush()
		return cw.Error()
	})
}

// ReadGold loads the cleaned CSV in row order. A zone that does not parse
// is returned as occupation.UnknownJobZone so callers can apply their own
// default. Numeric zones are kept as written, even outside 1..5. An empty
// combined_text is rebuilt from the other fields.
func ReadGold(path string) ([]occupation.Record, error) {
	t, err := readTable(path, ',')
	if err != nil {
		return nil, err
	}
	cols := make([]int, len(GoldHeader))
	for i, name := range GoldHeader {
		if cols[i], err = t.col(name); err != nil {
			return nil, err
		}
	}

	out := make([]occupation.Record, 0, len(t.rows))
	for _, row := range t.rows {
		zone, ok := occupation.ParseJobZone(field(row, cols[4]))
		if !ok {
			zone = occupation.UnknownJobZone
		}
		r := occupation.Record{
			Code:           field(row, cols[0]),
			Title:          field(row, cols[1]),
			Description:    field(row, cols[2]),
			Skills:         field(row, cols[3]),
			JobZone:        zone,
			EducationLevel: field(row, cols[5]),
			SearchText:     field(row, cols[6]),
		}
		if r.SearchText == "" {
			r.SearchText = occupation.SearchText(r.Title, r.EducationLevel, r.Skills, r.Description)
		}
		out = append(out, r)
	}
	return out, nil
}
