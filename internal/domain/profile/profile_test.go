package profile

import (
	"errors"
	"testing"

	"github.com/kailas-cloud/careerdex/internal/domain"
)

func TestSearchQuery(t *testing.T) {
	p := Profile{Interests: "helping people", Skills: "communication"}
	want := "helping people. My skills are: communication."
	if got := p.SearchQuery(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestValidate(t *testing.T) {
	for level := 1; level <= 5; level++ {
		p := Profile{EducationLevelID: level, Age: 25}
		if err := p.Validate(); err != nil {
			t.Errorf("level %d: unexpected error %v", level, err)
		}
	}

	for _, p := range []Profile{
		{EducationLevelID: 0},
		{EducationLevelID: 6},
		{EducationLevelID: 3, Age: -1},
	} {
		if err := p.Validate(); !errors.Is(err, domain.ErrInvalidProfile) {
			t.Errorf("%+v: expected ErrInvalidProfile, got %v", p, err)
		}
	}
}
