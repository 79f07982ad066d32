package handlers

import (
	"github.com/anjiri1684/torah_tutor/rules"
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type SalarySettingsRequest struct {
	TeacherShareBps int `json:"teacher_share_bps" validate:"min=0,max=10000"`
	AdminShareBps   int `json:"admin_share_bps" validate:"min=0,max=10000"`
}

type GeneratePaymentsRequest struct {
	Month string `json:"month" validate:"required,datetime=2006-01"`
}

func GetSalarySettings(c *fiber.Ctx) error {
	split, err := svc.CurrentSplit(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(fiber.Map{"teacher_share_bps": split.TeacherBps, "admin_share_bps": split.AdminBps})
}

// UpdateSalarySettings appends a new split. Payments already generated keep
// the split they were created with.
func UpdateSalarySettings(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req SalarySettingsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	settings, err := svc.UpdateSalarySettings(c.UserContext(), adminID, rules.Split{
		TeacherBps: req.TeacherShareBps,
		AdminBps:   req.AdminShareBps,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(settings)
}

func GetSalaryHistory(c *fiber.Ctx) error {
	history, err := svc.SalaryHistory(c.UserContext())
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(history)
}

func GeneratePayments(c *fiber.Ctx) error {
	var req GeneratePaymentsRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	summary, err := svc.GenerateMonthlyPayments(c.UserContext(), req.Month)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(summary)
}

func AdminGetPayments(c *fiber.Ctx) error {
	f := services.PaymentFilter{Month: c.Query("month"), Status: c.Query("status")}
	if raw := c.Query("teacher_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return badRequest("invalid teacher_id")
		}
		f.TeacherID = &id
	}
	payments, err := svc.ListPayments(c.UserContext(), f)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(payments)
}

func ProcessPayment(c *fiber.Ctx) error {
	adminID, err := currentUserID(c)
	if err != nil {
		return err
	}
	paymentID, err := paramID(c, "paymentId")
	if err != nil {
		return err
	}
	p, err := svc.ProcessPayment(c.UserContext(), adminID, paymentID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}
