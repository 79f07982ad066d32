package handlers

import (
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
)

type UpdateProfileRequest struct {
	FullName   *string  `json:"full_name" validate:"omitempty,min=3"`
	Gender     *string  `json:"gender" validate:"omitempty,oneof=male female"`
	Bio        *string  `json:"bio"`
	Subjects   []string `json:"subjects" validate:"omitempty,dive,required"`
	Languages  []string `json:"languages" validate:"omitempty,dive,required"`
	Audiences  []string `json:"audiences" validate:"omitempty,dive,oneof=children women men general adults"`
	HourlyRate *int64   `json:"hourly_rate" validate:"omitempty,min=0"`
}

func GetMyProfile(c *fiber.Ctx) error {
	p, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(p)
}

func UpdateMyProfile(c *fiber.Ctx) error {
	id, err := currentUserID(c)
	if err != nil {
		return err
	}
	var req UpdateProfileRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	p, err := svc.UpdateOwnProfile(c.UserContext(), id, services.ProfileUpdate{
		FullName:   req.FullName,
		Gender:     req.Gender,
		Bio:        req.Bio,
		Subjects:   req.Subjects,
		Languages:  req.Languages,
		Audiences:  req.Audiences,
		HourlyRate: req.HourlyRate,
	})
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(p)
}
