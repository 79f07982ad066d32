package services_test

import (
	"sync"
	"testing"
	"time"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookTrialWithinQuota(t *testing.T) {
	f := newFixture(t)
	student := f.profile(models.Profile{
		Role:             models.RoleStudent,
		Gender:           strp(models.GenderFemale),
		TrialLessonsUsed: 1,
		MaxTrialLessons:  models.DefaultMaxTrialLessons,
	})
	teacher := f.teacher(models.GenderFemale, models.ApprovalApproved)
	course := f.course(teacher, "Torah", true)

	res, err := f.svc.BookTrial(f.ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.Decision{Allowed: true, Reason: rules.ReasonOK}, res.Decision)
	require.NotNil(t, res.Session)
	assert.Equal(t, models.SessionTrial, res.Session.SessionType)
	assert.Equal(t, models.SessionScheduled, res.Session.Status)
	assert.Equal(t, testNow.AddDate(0, 0, 1), res.Session.SessionDate)

	updated, err := f.store.GetProfile(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TrialLessonsUsed)

	other := f.course(f.teacher(models.GenderFemale, models.ApprovalApproved), "Mishnah", true)
	res, err = f.svc.BookTrial(f.ctx, student.ID, other.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.Decision{Reason: rules.ReasonQuotaExhausted}, res.Decision)
	assert.Nil(t, res.Session)

	sessions, err := f.svc.MySessions(f.ctx, updated, "")
	require.NoError(t, err)
	assert.Len(t, sessions, 1)
}

func TestBookTrialDenials(t *testing.T) {
	f := newFixture(t)
	student := f.student("")
	listed := f.teacher("", models.ApprovalApproved)
	pending := f.teacher("", models.ApprovalPending)

	noTrial := f.course(listed, "Talmud", false)
	unlisted := f.course(pending, "Talmud", true)
	inactive := f.course(listed, "Halacha", true)
	inactive.IsActive = false
	require.NoError(t, f.store.UpdateCourse(f.ctx, &inactive))

	for name, tt := range map[string]struct {
		course models.Course
		want   rules.TrialReason
	}{
		"trial not offered":  {noTrial, rules.ReasonTrialNotOffered},
		"teacher not listed": {unlisted, rules.ReasonCourseUnavailable},
		"course inactive":    {inactive, rules.ReasonCourseUnavailable},
	} {
		t.Run(name, func(t *testing.T) {
			res, err := f.svc.BookTrial(f.ctx, student.ID, tt.course.ID)
			require.NoError(t, err)
			assert.False(t, res.Decision.Allowed)
			assert.Equal(t, tt.want, res.Decision.Reason)
		})
	}

	p, err := f.store.GetProfile(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Zero(t, p.TrialLessonsUsed)
}

func TestBookTrialOncePerTeacherAndSubject(t *testing.T) {
	f := newFixture(t)
	student := f.profile(models.Profile{Role: models.RoleStudent, MaxTrialLessons: 5})
	teacher := f.teacher("", models.ApprovalApproved)
	first := f.course(teacher, "Torah", true)
	second := f.course(teacher, " torah ", true)
	otherSubject := f.course(teacher, "Hebrew", true)

	res, err := f.svc.BookTrial(f.ctx, student.ID, first.ID)
	require.NoError(t, err)
	assert.True(t, res.Decision.Allowed)

	res, err = f.svc.BookTrial(f.ctx, student.ID, second.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.ReasonAlreadyUsedForSubject, res.Decision.Reason)

	decision, err := f.svc.TrialEligibility(f.ctx, student.ID, otherSubject.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.Decision{Allowed: true, Reason: rules.ReasonOK}, decision)
}

func TestBookTrialClaimsSponsoredSeatFirst(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	teacher := f.teacher("", models.ApprovalApproved)
	course := f.course(teacher, "Torah", true)
	_, err := f.svc.CreateSponsorship(f.ctx, admin.ID, services.SponsorshipInput{
		CourseID: course.ID, DonorName: "Friends of the Yeshiva", Amount: 50000, Seats: 1,
	})
	require.NoError(t, err)

	first := f.student("")
	decision, err := f.svc.TrialEligibility(f.ctx, first.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.ReasonSponsored, decision.Reason)

	res, err := f.svc.BookTrial(f.ctx, first.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.Decision{Allowed: true, Reason: rules.ReasonSponsored}, res.Decision)
	require.NotNil(t, res.Enrollment)
	assert.Equal(t, models.EnrollmentSponsored, res.Enrollment.Source)
	assert.Nil(t, res.Session)

	p, err := f.store.GetProfile(f.ctx, first.ID)
	require.NoError(t, err)
	assert.Zero(t, p.TrialLessonsUsed, "a sponsored seat does not spend a trial")

	second := f.student("")
	res, err = f.svc.BookTrial(f.ctx, second.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.ReasonOK, res.Decision.Reason, "seats exhausted, falls through to the trial path")

	sps, err := f.svc.ListSponsorships(f.ctx, &course.ID)
	require.NoError(t, err)
	require.Len(t, sps, 1)
	assert.Equal(t, 1, sps[0].SeatsUsed)
}

func TestConcurrentTrialBookingsRespectQuota(t *testing.T) {
	f := newFixture(t)
	student := f.student("")

	courses := make([]models.Course, 8)
	for i := range courses {
		courses[i] = f.course(f.teacher("", models.ApprovalApproved), "Torah", true)
	}

	var wg sync.WaitGroup
	results := make([]services.TrialResult, len(courses))
	for i, c := range courses {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.BookTrial(f.ctx, student.ID, c.ID)
			assert.NoError(t, err)
			results[i] = res
		}()
	}
	wg.Wait()

	booked := 0
	for _, r := range results {
		if r.Decision.Allowed {
			booked++
		} else {
			assert.Equal(t, rules.ReasonQuotaExhausted, r.Decision.Reason)
		}
	}
	assert.Equal(t, models.DefaultMaxTrialLessons, booked)

	p, err := f.store.GetProfile(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMaxTrialLessons, p.TrialLessonsUsed)

	trials, err := f.store.ListSessions(f.ctx, services.SessionFilter{StudentID: &student.ID})
	require.NoError(t, err)
	assert.Len(t, trials, models.DefaultMaxTrialLessons)
}

func TestBookTrialRequiresStudent(t *testing.T) {
	f := newFixture(t)
	teacher := f.teacher("", models.ApprovalApproved)
	course := f.course(teacher, "Torah", true)

	_, err := f.svc.BookTrial(f.ctx, teacher.ID, course.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)
}

func TestBookTrialHiddenCourseIsUnavailable(t *testing.T) {
	f := newFixture(t)
	student := f.student(models.GenderFemale)
	teacher := f.teacher(models.GenderMale, models.ApprovalApproved, models.AudienceMen)
	course := f.course(teacher, "Gemara", true)
	course.Audience = models.AudienceMen
	require.NoError(t, f.store.UpdateCourse(f.ctx, &course))

	_, err := f.svc.GetCourse(f.ctx, &student, course.ID)
	require.ErrorIs(t, err, services.ErrNotFound)

	decision, err := f.svc.TrialEligibility(f.ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.ReasonCourseUnavailable, decision.Reason)

	res, err := f.svc.BookTrial(f.ctx, student.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, rules.Decision{Reason: rules.ReasonCourseUnavailable}, res.Decision)
	assert.Nil(t, res.Session)

	sessions, err := f.store.ListSessions(f.ctx, services.SessionFilter{StudentID: &student.ID})
	require.NoError(t, err)
	assert.Empty(t, sessions)
	p, err := f.store.GetProfile(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Zero(t, p.TrialLessonsUsed)
}

func TestTrialBookedEmailsEscapeUserText(t *testing.T) {
	f := newFixture(t)
	student := f.profile(models.Profile{Role: models.RoleStudent, FullName: `Dina <img src=x onerror=alert(1)>`, MaxTrialLessons: 2})
	teacher := f.teacher("", models.ApprovalApproved)
	course := f.course(teacher, "Torah", true)
	course.Title = `<script>alert("x")</script> Parsha`
	require.NoError(t, f.store.UpdateCourse(f.ctx, &course))

	res, err := f.svc.BookTrial(f.ctx, student.ID, course.ID)
	require.NoError(t, err)
	require.True(t, res.Decision.Allowed)

	require.Eventually(t, func() bool { return len(f.notes.emails()) == 2 }, time.Second, 5*time.Millisecond)
	for _, e := range f.notes.emails() {
		assert.NotContains(t, e.HTML, "<script>", e.To)
		assert.NotContains(t, e.HTML, "<img", e.To)
		assert.Contains(t, e.HTML, "&lt;script&gt;", e.To)
	}
}
