package handlers

import (
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title                  string `json:"title" validate:"required"`
	Description            string `json:"description"`
	Subject                string `json:"subject" validate:"required"`
	Audience               string `json:"audience" validate:"omitempty,oneof=children women men general adults"`
	AgeRange               string `json:"age_range"`
	Price                  int64  `json:"price" validate:"min=0"`
	SessionDurationMinutes int    `json:"session_duration_minutes" validate:"omitempty,min=15,max=240"`
	TotalSessions          int    `json:"total_sessions" validate:"omitempty,min=1"`
	MaxStudents            int    `json:"max_students" validate:"omitempty,min=1"`
	IsTrialAvailable       *bool  `json:"is_trial_available"`
}

type UpdateCourseRequest struct {
	Title                  *string `json:"title" validate:"omitempty,min=1"`
	Description            *string `json:"description"`
	Subject                *string `json:"subject" validate:"omitempty,min=1"`
	Audience               *string `json:"audience" validate:"omitempty,oneof=children women men general adults"`
	AgeRange               *string `json:"age_range"`
	Price                  *int64  `json:"price" validate:"omitempty,min=0"`
	SessionDurationMinutes *int    `json:"session_duration_minutes" validate:"omitempty,min=15,max=240"`
	TotalSessions          *int    `json:"total_sessions" validate:"omitempty,min=1"`
	MaxStudents            *int    `json:"max_students" validate:"omitempty,min=1"`
	IsTrialAvailable       *bool   `json:"is_trial_available"`
	IsActive               *bool   `json:"is_active"`
}

type ReapplyRequest struct {
	Notes string `json:"notes"`
}

func CreateCourse(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req CreateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	course, err := svc.CreateCourse(c.UserContext(), teacherID, services.CourseInput{
		Title:                  req.Title,
		Description:            req.Description,
		Subject:                req.Subject,
		Audience:               req.Audience,
		AgeRange:               req.AgeRange,
		Price:                  req.Price,
		SessionDurationMinutes: req.SessionDurationMinutes,
		TotalSessions:          req.TotalSessions,
		MaxStudents:            req.MaxStudents,
		IsTrialAvailable:       req.IsTrialAvailable,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(course)
}

// UpdateCourse is shared by the owning teacher and admins.
func UpdateCourse(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	var req UpdateCourseRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	course, err := svc.UpdateCourse(c.UserContext(), actor, courseID, services.CourseUpdate{
		Title:                  req.Title,
		Description:            req.Description,
		Subject:                req.Subject,
		Audience:               req.Audience,
		AgeRange:               req.AgeRange,
		Price:                  req.Price,
		SessionDurationMinutes: req.SessionDurationMinutes,
		TotalSessions:          req.TotalSessions,
		MaxStudents:            req.MaxStudents,
		IsTrialAvailable:       req.IsTrialAvailable,
		IsActive:               req.IsActive,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(course)
}

func DeactivateCourse(c *fiber.Ctx) error {
	actor, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	if err := svc.DeactivateCourse(c.UserContext(), actor, courseID); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func GetMyCourses(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	courses, err := svc.TeacherCourses(c.UserContext(), teacherID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(courses)
}

// ReapplyForApproval puts a rejected teacher back in the approval queue.
func ReapplyForApproval(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req ReapplyRequest
	if len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	p, err := svc.Reapply(c.UserContext(), teacherID, req.Notes)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}

func GetMyApprovalHistory(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	audits, err := svc.ApprovalHistory(c.UserContext(), teacherID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(audits)
}

func GetMyPayments(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	payments, err := svc.MyPayments(c.UserContext(), teacherID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(payments)
}
