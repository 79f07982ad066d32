package handlers

import (
	"time"

	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ScheduleSessionRequest struct {
	CourseID    uuid.UUID `json:"course_id" validate:"required"`
	StudentID   uuid.UUID `json:"student_id" validate:"required"`
	SessionDate time.Time `json:"session_date" validate:"required"`
	MeetingLink string    `json:"meeting_link" validate:"omitempty,url"`
}

type MeetingLinkRequest struct {
	MeetingLink string `json:"meeting_link" validate:"required,url"`
}

func ScheduleSession(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req ScheduleSessionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	session, err := svc.ScheduleSession(c.UserContext(), teacherID, services.ScheduleInput{
		CourseID:    req.CourseID,
		StudentID:   req.StudentID,
		SessionDate: req.SessionDate,
		MeetingLink: req.MeetingLink,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(session)
}

func AddMeetingLink(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "sessionId")
	if err != nil {
		return err
	}
	var req MeetingLinkRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	session, err := svc.SetMeetingLink(c.UserContext(), teacherID, sessionID, req.MeetingLink)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(session)
}

func CompleteSession(c *fiber.Ctx) error {
	teacherID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "sessionId")
	if err != nil {
		return err
	}
	session, err := svc.CompleteSession(c.UserContext(), teacherID, sessionID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(session)
}

func CancelSession(c *fiber.Ctx) error {
	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	sessionID, err := paramID(c, "sessionId")
	if err != nil {
		return err
	}
	session, err := svc.CancelSession(c.UserContext(), userID, sessionID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(session)
}

func GetMySessions(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	sessions, err := svc.MySessions(c.UserContext(), user, c.Query("status"))
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(sessions)
}
