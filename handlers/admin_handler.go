package handlers

import (
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/gofiber/fiber/v2"
)

type ApplicationDecisionRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject reopen"`
	Notes  string `json:"notes"`
}

type ChangeRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=student teacher admin"`
}

func ListApplications(c *fiber.Ctx) error {
	queue, err := svc.ApprovalQueue(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(queue)
}

func ManageApplication(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	teacherID, err := paramID(c, "teacherId")
	if err != nil {
		return err
	}
	var req ApplicationDecisionRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := svc.DecideApproval(c.UserContext(), adminID, teacherID, rules.ApprovalAction(req.Action), req.Notes)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}

func GetApplicationHistory(c *fiber.Ctx) error {
	teacherID, err := paramID(c, "teacherId")
	if err != nil {
		return err
	}
	audits, err := svc.ApprovalHistory(c.UserContext(), teacherID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(audits)
}

func GetAllUsers(c *fiber.Ctx) error {
	limit, offset := page(c)
	users, err := svc.ListUsers(c.UserContext(), c.Query("role"), limit, offset)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(users)
}

func ChangeUserRole(c *fiber.Ctx) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	var req ChangeRoleRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	p, err := svc.ChangeRole(c.UserContext(), userID, req.Role)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}

func AdminDeleteUser(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	userID, err := paramID(c, "userId")
	if err != nil {
		return err
	}
	if err := svc.DeleteUser(c.UserContext(), adminID, userID); err != nil {
		return respond(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
