// Package occupation models a cleaned O*NET occupation record.
package occupation

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// Job zone bounds and preparation defaults.
const (
	MinJobZone     = 1
	MaxJobZone     = 5
	DefaultJobZone = 1
	DefaultSkills  = "General Skills"

	// UnknownJobZone marks a zone that was missing or did not parse.
	UnknownJobZone = 0

	// MaxDescriptionLen bounds the description stored in vector payloads.
	MaxDescriptionLen = 400
)

var educationLabels = map[int]string{
	1: "Entry Level",
	2: "High School",
	3: "Associate/Vocational",
	4: "Bachelor's Degree",
	5: "Master's or Higher",
}

// EducationLabel returns the human-readable label for a job zone, or "" for
// zones outside 1..5.
func EducationLabel(zone int) string {
	return educationLabels[zone]
}

// ValidJobZone reports whether zone is within 1..5.
func ValidJobZone(zone int) bool {
	return zone >= MinJobZone && zone <= MaxJobZone
}

// ParseJobZone parses an integer or integral float ("3", "3.0").
func ParseJobZone(s string) (int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	if z, err := strconv.Atoi(s); err == nil {
		return z, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != float64(int(f)) {
		return 0, false
	}
	return int(f), true
}

// Record is one cleaned occupation row. Records are immutable once built.
type Record struct {
	Code           string
	Title          string
	Description    string
	Skills         string
	JobZone        int
	EducationLevel string
	SearchText     string
}

// New builds a Record, applying the preparation defaults: empty skills
// become "General Skills" and a zone outside 1..5 becomes 1.
func New(code, title, description, skills string, zone int) Record {
	if strings.TrimSpace(skills) == "" {
		skills = DefaultSkills
	}
	if !ValidJobZone(zone) {
		zone = DefaultJobZone
	}
	label := EducationLabel(zone)
	return Record{
		Code:           code,
		Title:          title,
		Description:    description,
		Skills:         skills,
		JobZone:        zone,
		EducationLevel: label,
		SearchText:     SearchText(title, label, skills, description),
	}
}

// SearchText concatenates the labelled fields embedded for an occupation.
func SearchText(title, education, skills, description string) string {
	var b strings.Builder
	b.Grow(len(title) + len(education) + len(skills) + len(description) + 48)
	b.WriteString("Job Title: ")
	b.WriteString(title)
	b.WriteString(". Education: ")
	b.WriteString(education)
	b.WriteString(". Skills: ")
	b.WriteString(skills)
	b.WriteString(". Description: ")
	b.WriteString(description)
	return b.String()
}

// ShortDescription returns the description cut to MaxDescriptionLen runes.
func (r Record) ShortDescription() string {
	return Truncate(r.Description, MaxDescriptionLen)
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
