package rules

import (
	"strings"

	"github.com/anjiri1684/torah_tutor/models"
)

// Viewer is the person browsing. An empty Gender means unknown.
type Viewer struct {
	Gender string
}

// Candidate is a teacher, course or study partner being considered for display.
type Candidate struct {
	Gender    string
	Audiences []string
}

func normalizeGender(g string) string {
	switch strings.ToLower(strings.TrimSpace(g)) {
	case models.GenderMale:
		return models.GenderMale
	case models.GenderFemale:
		return models.GenderFemale
	default:
		return ""
	}
}

func ownAudience(gender string) string {
	switch gender {
	case models.GenderMale:
		return models.AudienceMen
	case models.GenderFemale:
		return models.AudienceWomen
	}
	return ""
}

// IsVisible reports whether candidate may be shown to viewer. Missing gender
// on either side fails open. Children's and mixed-audience offerings are
// visible to everyone; otherwise the candidate must share the viewer's gender
// or explicitly address the viewer's audience.
func IsVisible(viewer Viewer, candidate Candidate) bool {
	vg := normalizeGender(viewer.Gender)
	cg := normalizeGender(candidate.Gender)
	if vg == "" || cg == "" {
		return true
	}
	if vg == cg {
		return true
	}
	own := ownAudience(vg)
	for _, a := range candidate.Audiences {
		switch strings.ToLower(strings.TrimSpace(a)) {
		case models.AudienceChildren, models.AudienceGeneral, models.AudienceAdults:
			return true
		case own:
			return true
		}
	}
	return false
}

// FilterVisible keeps the items whose candidate view is visible to viewer,
// preserving order.
func FilterVisible[T any](viewer Viewer, items []T, candidate func(T) Candidate) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if IsVisible(viewer, candidate(it)) {
			out = append(out, it)
		}
	}
	return out
}

// ViewerOf builds a Viewer from a possibly anonymous profile.
func ViewerOf(p *models.Profile) Viewer {
	if p == nil {
		return Viewer{}
	}
	return Viewer{Gender: p.GenderValue()}
}

func ProfileCandidate(p models.Profile) Candidate {
	return Candidate{Gender: p.GenderValue(), Audiences: p.Audiences}
}

// CourseCandidate takes its gender from the owning teacher and its audience
// from the course itself.
func CourseCandidate(c models.Course) Candidate {
	cand := Candidate{Audiences: []string{c.Audience}}
	if c.Teacher != nil {
		cand.Gender = c.Teacher.GenderValue()
	}
	return cand
}
