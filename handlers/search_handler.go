package handlers

import (
	"github.com/anjiri1684/torah_tutor/services"
	"github.com/gofiber/fiber/v2"
)

func searchQuery(c *fiber.Ctx) (services.SearchQuery, error) {
	viewer, err := currentUser(c)
	if err != nil {
		return services.SearchQuery{}, err
	}
	limit, offset := page(c)
	return services.SearchQuery{
		Viewer:   &viewer,
		Subject:  c.Query("subject"),
		Language: c.Query("language"),
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func Search(c *fiber.Ctx) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}
	res, err := svc.SearchAll(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(res)
}

func SearchTeachers(c *fiber.Ctx) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}
	teachers, err := svc.SearchTeachers(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(teachers)
}

func SearchCourses(c *fiber.Ctx) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}
	courses, err := svc.SearchCourses(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(courses)
}

func SearchPartners(c *fiber.Ctx) error {
	q, err := searchQuery(c)
	if err != nil {
		return err
	}
	partners, err := svc.SearchPartners(c.UserContext(), q)
	if err != nil {
		return respond(c, err)
	}
	return c.JSON(partners)
}
