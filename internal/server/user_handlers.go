package server

import (
	"murmur/internal/auth"
	"murmur/internal/models"
	"murmur/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetMyProfile handles GET /api/users/me
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	caller, err := s.caller(c)
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), caller.ID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// UpdateMyProfile handles PUT /api/users/me
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	caller, err := s.caller(c)
	if err != nil {
		return nil
	}

	var req struct {
		Username string `json:"username"`
		Bio      string `json:"bio"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c,
			models.NewBadInputError("Invalid request body", err.Error()))
	}

	user, err := s.userService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		Caller:   caller,
		Username: req.Username,
		Bio:      req.Bio,
	})
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetAllUsers handles GET /api/users
func (s *Server) GetAllUsers(c *fiber.Ctx) error {
	p := parsePagination(c, 20)

	users, err := s.userService.ListUsers(c.Context(), p.Limit, p.Offset)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(users)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.GetUserByID(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUserPosts handles GET /api/users/:id/posts
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	p := parsePagination(c, 20)

	posts, err := s.postService.GetUserPosts(c.Context(), id, p.Limit, p.Offset, s.viewerID(c))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(posts)
}

// PromoteToAdmin handles POST /api/users/:id/promote-admin
func (s *Server) PromoteToAdmin(c *fiber.Ctx) error {
	return s.setRole(c, models.RoleAdmin)
}

// DemoteFromAdmin handles POST /api/users/:id/demote-admin
func (s *Server) DemoteFromAdmin(c *fiber.Ctx) error {
	return s.setRole(c, models.RoleUser)
}

func (s *Server) setRole(c *fiber.Ctx, role models.Role) error {
	caller, err := s.caller(c)
	if err != nil {
		return nil
	}
	if err := auth.RequireAdmin(&caller); err != nil {
		return models.RespondWithError(c, err)
	}

	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userService.SetRole(c.Context(), caller, id, role)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}
