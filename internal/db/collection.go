package db

import (
	"errors"
	"fmt"
)

// DistanceMetric used by vector similarity queries.
type DistanceMetric string

const (
	// DistanceCosine is cosine distance.
	DistanceCosine DistanceMetric = "COSINE"
	// DistanceL2 is Euclidean distance.
	DistanceL2 DistanceMetric = "L2"
	// DistanceIP is inner product distance.
	DistanceIP DistanceMetric = "IP"
)

// CollectionDefinition describes a vector collection and the numeric payload
// fields that must be range-filterable.
type CollectionDefinition struct {
	Name           string
	Dimensions     int
	Distance       DistanceMetric
	NumericIndexes []string
}

// Validate checks that the definition is well-formed.
func (d *CollectionDefinition) Validate() error {
	if d.Name == "" {
		return errors.New("collection name is required")
	}
	if !IsValidIdentifier(d.Name) {
		return errors.New("collection name contains invalid characters")
	}
	if d.Dimensions <= 0 {
		return fmt.Errorf("collection %s requires positive dimensions", d.Name)
	}
	switch d.Distance {
	case DistanceCosine, DistanceL2, DistanceIP:
	default:
		return fmt.Errorf("unsupported distance %q", d.Distance)
	}
	seen := make(map[string]bool, len(d.NumericIndexes))
	for _, f := range d.NumericIndexes {
		if !IsValidIdentifier(f) {
			return fmt.Errorf("invalid numeric index field %q", f)
		}
		if seen[f] {
			return errors.New("duplicate numeric index field: " + f)
		}
		seen[f] = true
	}
	return nil
}

// CollectionBuilder is a fluent builder for collection definitions.
type CollectionBuilder struct {
	def CollectionDefinition
}

// NewCollection starts building a collection definition with cosine distance.
func NewCollection(name string) *CollectionBuilder {
	return &CollectionBuilder{def: CollectionDefinition{Name: name, Distance: DistanceCosine}}
}

// Vector sets the dimensionality and distance metric.
func (b *CollectionBuilder) Vector(dim int, distance DistanceMetric) *CollectionBuilder {
	b.def.Dimensions = dim
	b.def.Distance = distance
	return b
}

// Numeric adds a range-filterable integer payload index.
func (b *CollectionBuilder) Numeric(field string) *CollectionBuilder {
	b.def.NumericIndexes = append(b.def.NumericIndexes, field)
	return b
}

// Build validates and returns the collection definition.
func (b *CollectionBuilder) Build() (*CollectionDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	def := b.def
	return &def, nil
}

// MustBuild calls Build and panics on error.
func (b *CollectionBuilder) MustBuild() *CollectionDefinition {
	def, err := b.Build()
	if err != nil {
		panic(err)
	}
	return def
}

// IsValidIdentifier returns true if s matches [a-zA-Z0-9_:-]+.
func IsValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == ':' || r == '-'
		if !isAlpha && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}
