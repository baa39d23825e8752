package db

import (
	"strconv"

	"github.com/kailas-cloud/careerdex/internal/domain/occupation"
)

// Payload field names shared by every backend.
const (
	FieldTitle       = "title"
	FieldCode        = "soc_code"
	FieldEducation   = "education"
	FieldJobZone     = "job_zone"
	FieldDescription = "description"
	FieldVector      = "vector"
)

// Point pairs a vector with its occupation payload. ID is the row position
// in the cleaned dataset.
type Point struct {
	ID      uint64
	Vector  []float32
	Payload Payload
}

// Payload is the metadata stored next to each vector.
type Payload struct {
	Title       string
	Code        string
	Education   string
	JobZone     int
	Description string
}

// NewPoint builds the point for the record at row id.
func NewPoint(id uint64, vec []float32, r occupation.Record) Point {
	return Point{
		ID:     id,
		Vector: vec,
		Payload: Payload{
			Title:       r.Title,
			Code:        r.Code,
			Education:   r.EducationLevel,
			JobZone:     r.JobZone,
			Description: r.ShortDescription(),
		},
	}
}

// Fields flattens the payload into string fields.
func (p Payload) Fields() map[string]string {
	return map[string]string{
		FieldTitle:       p.Title,
		FieldCode:        p.Code,
		FieldEducation:   p.Education,
		FieldJobZone:     strconv.Itoa(p.JobZone),
		FieldDescription: p.Description,
	}
}

// PayloadFromFields is the inverse of Fields. An unparseable zone is 0.
func PayloadFromFields(f map[string]string) Payload {
	zone, _ := strconv.Atoi(f[FieldJobZone])
	return Payload{
		Title:       f[FieldTitle],
		Code:        f[FieldCode],
		Education:   f[FieldEducation],
		JobZone:     zone,
		Description: f[FieldDescription],
	}
}
