package services_test

import (
	"testing"

	"github.com/anjiri1684/torah_tutor/models"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateSponsorshipValidates(t *testing.T) {
	f := newFixture(t)
	admin := f.admin()
	c := f.course(f.teacher(models.GenderMale, models.ApprovalApproved), "Talmud", true)

	cases := []struct {
		name string
		in   services.SponsorshipInput
		err  error
	}{
		{"no seats", services.SponsorshipInput{CourseID: c.ID, DonorName: "Kehilla", Seats: 0}, services.ErrInvalidInput},
		{"no donor", services.SponsorshipInput{CourseID: c.ID, DonorName: " ", Seats: 2}, services.ErrInvalidInput},
		{"unknown course", services.SponsorshipInput{CourseID: uuid.New(), DonorName: "Kehilla", Seats: 2}, services.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateSponsorship(f.ctx, admin.ID, tc.in)
			assert.ErrorIs(t, err, tc.err)
		})
	}

	sp, err := f.svc.CreateSponsorship(f.ctx, admin.ID, services.SponsorshipInput{CourseID: c.ID, DonorName: " Kehilla ", Amount: 50000, Seats: 3})
	require.NoError(t, err)
	assert.Equal(t, "Kehilla", sp.DonorName)
	assert.True(t, sp.IsActive)

	list, err := f.svc.ListSponsorships(f.ctx, &c.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestEnrollStudent(t *testing.T) {
	f := newFixture(t)
	owner := f.teacher(models.GenderMale, models.ApprovalApproved)
	other := f.teacher(models.GenderMale, models.ApprovalApproved)
	student := f.student(models.GenderMale)
	c := f.course(owner, "Gemara", false)

	_, err := f.svc.EnrollStudent(f.ctx, other, c.ID, student.ID)
	assert.ErrorIs(t, err, services.ErrForbidden)

	_, err = f.svc.EnrollStudent(f.ctx, owner, c.ID, other.ID)
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	e, err := f.svc.EnrollStudent(f.ctx, owner, c.ID, student.ID)
	require.NoError(t, err)
	assert.Equal(t, models.EnrollmentDirect, e.Source)

	_, err = f.svc.EnrollStudent(f.ctx, f.admin(), c.ID, student.ID)
	assert.ErrorIs(t, err, services.ErrConflict)

	mine, err := f.svc.MyEnrollments(f.ctx, student.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
}
