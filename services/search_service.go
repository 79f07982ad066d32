package services

import (
	"context"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/google/uuid"
)

// SearchQuery narrows every search surface. Viewer is nil for anonymous
// browsing, which sees everything the gender filter fails open on.
type SearchQuery struct {
	Viewer   *models.Profile
	Subject  string
	Language string
	Limit    int
	Offset   int
}

// SearchResults is the combined search page: teachers, courses and study
// partners matching the same query.
type SearchResults struct {
	Teachers []models.Profile `json:"teachers"`
	Courses  []models.Course  `json:"courses"`
	Partners []models.Profile `json:"partners"`
}

// page cuts one page out of already filtered results. Paging happens after
// the gender filter so hidden rows never shorten a page.
func page[T any](items []T, q SearchQuery) []T {
	if q.Offset > 0 {
		if q.Offset >= len(items) {
			return items[:0]
		}
		items = items[q.Offset:]
	}
	if q.Limit > 0 && q.Limit < len(items) {
		items = items[:q.Limit]
	}
	return items
}

// SearchTeachers lists approved teachers visible to the viewer.
func (s *Services) SearchTeachers(ctx context.Context, q SearchQuery) ([]models.Profile, error) {
	teachers, err := s.store.ListProfiles(ctx, ProfileFilter{
		Role:           models.RoleTeacher,
		ApprovalStatus: []string{models.ApprovalApproved},
		Subject:        q.Subject,
		Language:       q.Language,
	})
	if err != nil {
		return nil, err
	}
	listed := teachers[:0]
	for _, t := range teachers {
		if rules.IsListedTeacher(t) {
			listed = append(listed, t)
		}
	}
	return page(rules.FilterVisible(rules.ViewerOf(q.Viewer), listed, rules.ProfileCandidate), q), nil
}

// SearchCourses lists active courses of approved teachers visible to the viewer.
func (s *Services) SearchCourses(ctx context.Context, q SearchQuery) ([]models.Course, error) {
	courses, err := s.store.ListCourses(ctx, CourseFilter{Subject: q.Subject, ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	listed := make([]models.Course, 0, len(courses))
	for _, c := range courses {
		if c.Teacher == nil || !rules.IsListedTeacher(*c.Teacher) {
			continue
		}
		listed = append(listed, c)
	}
	return page(rules.FilterVisible(rules.ViewerOf(q.Viewer), listed, rules.CourseCandidate), q), nil
}

// SearchPartners lists other students to study with.
func (s *Services) SearchPartners(ctx context.Context, q SearchQuery) ([]models.Profile, error) {
	students, err := s.store.ListProfiles(ctx, ProfileFilter{
		Role:     models.RoleStudent,
		Subject:  q.Subject,
		Language: q.Language,
	})
	if err != nil {
		return nil, err
	}
	var self uuid.UUID
	if q.Viewer != nil {
		self = q.Viewer.ID
	}
	others := make([]models.Profile, 0, len(students))
	for _, p := range students {
		if p.ID != self {
			others = append(others, p)
		}
	}
	return page(rules.FilterVisible(rules.ViewerOf(q.Viewer), others, rules.ProfileCandidate), q), nil
}

func (s *Services) SearchAll(ctx context.Context, q SearchQuery) (SearchResults, error) {
	var (
		res SearchResults
		err error
	)
	if res.Teachers, err = s.SearchTeachers(ctx, q); err != nil {
		return SearchResults{}, err
	}
	if res.Courses, err = s.SearchCourses(ctx, q); err != nil {
		return SearchResults{}, err
	}
	if res.Partners, err = s.SearchPartners(ctx, q); err != nil {
		return SearchResults{}, err
	}
	return res, nil
}
