package dataset

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// Skill importance filter.
const (
	ImportanceScale    = "IM"
	MinSkillImportance = 3.0
	skillSeparator     = ", "
)

// Occupation is one row of the O*NET occupation file.
type Occupation struct {
	Code        string
	Title       string
	Description string
}

// ReadOccupations loads the tab-separated occupation file in file order.
func ReadOccupations(path string) ([]Occupation, error) {
	t, err := readTable(path, '\t')
	if err != nil {
		return nil, err
	}
	code, err := t.col(ColCode)
	if err != nil {
		return nil, err
	}
	title, err := t.col(ColTitle)
	if err != nil {
		return nil, err
	}
	desc, err := t.col(ColDescription)
	if err != nil {
		return nil, err
	}

	out := make([]Occupation, 0, len(t.rows))
	for _, row := range t.rows {
		c := field(row, code)
		if c == "" {
			continue
		}
		out = append(out, Occupation{Code: c, Title: field(row, title), Description: field(row, desc)})
	}
	return out, nil
}

// ReadSkills loads the skills file and returns, per code, the names of
// important skills (scale IM, value >= 3.0) joined with ", " in file order.
func ReadSkills(path string) (map[string]string, error) {
	t, err := readTable(path, '\t')
	if err != nil {
		return nil, err
	}
	cols := make([]int, 4)
	for i, name := range []string{ColCode, ColElementName, ColScaleID, ColDataValue} {
		if cols[i], err = t.col(name); err != nil {
			return nil, err
		}
	}

	grouped := make(map[string][]string)
	for n, row := range t.rows {
		if field(row, cols[2]) != ImportanceScale {
			continue
		}
		v, err := strconv.ParseFloat(field(row, cols[3]), 64)
		if err != nil {
			return nil, fmt.Errorf("skills row %d: data value: %w", n+2, err)
		}
		if v < MinSkillImportance {
			continue
		}
		c := field(row, cols[0])
		grouped[c] = append(grouped[c], field(row, cols[1]))
	}

	out := make(map[string]string, len(grouped))
	for c, names := range grouped {
		out[c] = strings.Join(names, skillSeparator)
	}
	return out, nil
}

// ReadJobZones loads the job zones file. Rows with an unparseable zone are
// skipped; the first row for a code wins.
func ReadJobZones(path string) (map[string]int, error) {
	t, err := readTable(path, '\t')
	if err != nil {
		return nil, err
	}
	code, err := t.col(ColCode)
	if err != nil {
		return nil, err
	}
	zone, err := t.col(ColJobZone)
	if err != nil {
		return nil, err
	}

	out := make(map[string]int, len(t.rows))
	for _, row := range t.rows {
		c := field(row, code)
		if _, seen := out[c]; seen {
			continue
		}
		z, ok := occupation.ParseJobZone(field(row, zone))
		if !ok {
			continue
		}
		out[c] = z
	}
	return out, nil
}
