package server

import (
	"murmur/internal/models"

	"github.com/gofiber/fiber/v2"
)

// RatePost handles POST /api/posts/:id/rating
func (s *Server) RatePost(c *fiber.Ctx) error {
	caller, err := s.caller(c)
	if err != nil {
		return nil
	}
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Value int `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewBadInputError("Invalid request body", err.Error()))
	}

	rating, err := s.ratingService.RatePost(c.Context(), caller.ID, id, req.Value)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

// GetPostRating handles GET /api/posts/:id/rating
func (s *Server) GetPostRating(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	rating, err := s.ratingService.AverageRating(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(rating)
}
