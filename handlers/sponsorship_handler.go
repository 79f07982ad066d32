package handlers

import (
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CreateSponsorshipRequest struct {
	CourseID  uuid.UUID `json:"course_id" validate:"required"`
	DonorName string    `json:"donor_name" validate:"required"`
	Amount    int64     `json:"amount" validate:"min=0"`
	Seats     int       `json:"seats" validate:"required,min=1"`
}

type EnrollStudentRequest struct {
	StudentID uuid.UUID `json:"student_id" validate:"required"`
}

func CreateSponsorship(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateSponsorshipRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	sp, err := svc.CreateSponsorship(c.UserContext(), adminID, services.SponsorshipInput{
		CourseID:  req.CourseID,
		DonorName: req.DonorName,
		Amount:    req.Amount,
		Seats:     req.Seats,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(sp)
}

func ListSponsorships(c *fiber.Ctx) error {
	var courseID *uuid.UUID
	if raw := c.Query("course_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("invalid course_id")
		}
		courseID = &id
	}
	list, err := svc.ListSponsorships(c.UserContext(), courseID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(list)
}

// EnrollStudent enrolls a student directly, outside the sponsorship flow.
func EnrollStudent(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	var req EnrollStudentRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	e, err := svc.EnrollStudent(c.UserContext(), actor, courseID, req.StudentID)
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(e)
}

func GetMyEnrollments(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	list, err := svc.MyEnrollments(c.UserContext(), studentID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(list)
}
