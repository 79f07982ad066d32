package handlers

import "github.com/gofiber/fiber/v2"

// GetCourse hides courses the viewer may not see behind a 404.
func GetCourse(c *fiber.Ctx) error {
	viewer, err := currentUser(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	course, err := svc.GetCourse(c.UserContext(), &viewer, courseID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(course)
}

func GetTrialEligibility(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	decision, err := svc.TrialEligibility(c.UserContext(), studentID, courseID)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(decision)
}

// BookTrial answers 201 when a session or sponsored enrollment was created
// and 200 with the denial reason otherwise.
func BookTrial(c *fiber.Ctx) error {
	studentID, err := currentUserID(c)
	if err != nil {
		return err
	}
	courseID, err := paramID(c, "courseId")
	if err != nil {
		return err
	}
	res, err := svc.BookTrial(c.UserContext(), studentID, courseID)
	if err != nil {
		return respond(c, err)
	}
	if !res.Decision.Allowed {
		return c.JSON(res)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
