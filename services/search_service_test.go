package services_test

import (
	"testing"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(profiles []models.Profile) []uuid.UUID {
	out := make([]uuid.UUID, len(profiles))
	for i, p := range profiles {
		out[i] = p.ID
	}
	return out
}

func TestSearchTeachersAppliesGenderFilter(t *testing.T) {
	f := newFixture(t)
	viewer := f.student(models.GenderFemale)
	menOnly := f.teacher(models.GenderMale, models.ApprovalApproved, models.AudienceMen)
	children := f.teacher(models.GenderMale, models.ApprovalApproved, models.AudienceChildren)
	woman := f.teacher(models.GenderFemale, models.ApprovalApproved)
	f.teacher(models.GenderFemale, models.ApprovalPending)

	got, err := f.svc.SearchTeachers(f.ctx, services.SearchQuery{Viewer: &viewer})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{children.ID, woman.ID}, ids(got))
	assert.NotContains(t, ids(got), menOnly.ID)

	anonymous, err := f.svc.SearchTeachers(f.ctx, services.SearchQuery{})
	require.NoError(t, err)
	assert.Len(t, anonymous, 3, "unknown viewer gender fails open, unlisted teachers never show")
}

// Every search surface must agree with rules.IsVisible for the same pair.
func TestSearchSurfacesAgree(t *testing.T) {
	f := newFixture(t)
	viewer := f.student(models.GenderMale)

	type pair struct {
		teacher models.Profile
		course  models.Course
	}
	var pairs []pair
	for _, tc := range []struct {
		gender   string
		audience string
	}{
		{models.GenderFemale, models.AudienceWomen},
		{models.GenderFemale, models.AudienceMen},
		{models.GenderFemale, models.AudienceChildren},
		{models.GenderFemale, models.AudienceGeneral},
		{models.GenderMale, models.AudienceWomen},
		{"", models.AudienceWomen},
	} {
		teacher := f.teacher(tc.gender, models.ApprovalApproved, tc.audience)
		c := models.Course{
			TeacherID: teacher.ID, Title: "Course", Subject: "Torah", Audience: tc.audience,
			SessionDurationMinutes: 60, TotalSessions: 1, MaxStudents: 1, IsActive: true,
		}
		require.NoError(t, f.store.CreateCourse(f.ctx, &c))
		pairs = append(pairs, pair{teacher, c})
	}

	res, err := f.svc.SearchAll(f.ctx, services.SearchQuery{Viewer: &viewer})
	require.NoError(t, err)

	teacherIDs := ids(res.Teachers)
	courseIDs := make([]uuid.UUID, len(res.Courses))
	for i, c := range res.Courses {
		courseIDs[i] = c.ID
	}
	for _, p := range pairs {
		want := rules.IsVisible(rules.ViewerOf(&viewer), rules.ProfileCandidate(p.teacher))
		assert.Equal(t, want, contains(teacherIDs, p.teacher.ID), "teacher audience %v", p.teacher.Audiences)
		assert.Equal(t, want, contains(courseIDs, p.course.ID), "course audience %s", p.course.Audience)
	}
}

func contains(list []uuid.UUID, id uuid.UUID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func TestSearchPartnersExcludesSelf(t *testing.T) {
	f := newFixture(t)
	viewer := f.student(models.GenderFemale)
	sister := f.student(models.GenderFemale)
	brother := f.student(models.GenderMale)
	unknown := f.student("")

	got, err := f.svc.SearchPartners(f.ctx, services.SearchQuery{Viewer: &viewer})
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{sister.ID, unknown.ID}, ids(got))
	assert.NotContains(t, ids(got), brother.ID)
}

func TestSearchCoursesHidesUnlistedAndInactive(t *testing.T) {
	f := newFixture(t)
	listed := f.teacher("", models.ApprovalApproved)
	pending := f.teacher("", models.ApprovalPending)
	visible := f.course(listed, "Torah", true)
	f.course(pending, "Torah", true)
	hidden := f.course(listed, "Torah", true)
	hidden.IsActive = false
	require.NoError(t, f.store.UpdateCourse(f.ctx, &hidden))

	got, err := f.svc.SearchCourses(f.ctx, services.SearchQuery{Subject: "torah"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, visible.ID, got[0].ID)

	_, err = f.svc.GetCourse(f.ctx, nil, hidden.ID)
	assert.ErrorIs(t, err, services.ErrNotFound)
	owned, err := f.svc.GetCourse(f.ctx, &listed, hidden.ID)
	require.NoError(t, err)
	assert.False(t, owned.IsActive)
}

func TestSearchPagesAfterGenderFilter(t *testing.T) {
	f := newFixture(t)
	viewer := f.student(models.GenderFemale)
	base := testNow.Add(-time.Hour)
	teacherAt := func(gender string, minute int, audiences ...string) models.Profile {
		rate := int64(2000)
		return f.profile(models.Profile{
			Role:           models.RoleTeacher,
			Gender:         strp(gender),
			ApprovalStatus: strp(models.ApprovalApproved),
			Audiences:      audiences,
			Subjects:       []string{"Torah"},
			HourlyRate:     &rate,
			CreatedAt:      base.Add(time.Duration(minute) * time.Minute),
		})
	}
	teacherAt(models.GenderMale, 0, models.AudienceMen)
	teacherAt(models.GenderMale, 1, models.AudienceMen)
	first := teacherAt(models.GenderFemale, 2)
	second := teacherAt(models.GenderFemale, 3)

	for name, tt := range map[string]struct {
		limit, offset int
		want          []uuid.UUID
	}{
		"first page":   {1, 0, []uuid.UUID{first.ID}},
		"second page":  {1, 1, []uuid.UUID{second.ID}},
		"past the end": {1, 2, []uuid.UUID{}},
		"unbounded":    {0, 0, []uuid.UUID{first.ID, second.ID}},
	} {
		t.Run(name, func(t *testing.T) {
			got, err := f.svc.SearchTeachers(f.ctx, services.SearchQuery{Viewer: &viewer, Limit: tt.limit, Offset: tt.offset})
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}
