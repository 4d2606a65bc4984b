package server

import (
	"strconv"

	"lumen/internal/models"

	"github.com/gofiber/fiber/v2"
)

// FollowUser handles POST /api/users/:id/follow
func (s *Server) FollowUser(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.graphService.Follow(c.UserContext(), viewerID, targetID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Followed"})
}

// UnfollowUser handles DELETE /api/users/:id/follow
func (s *Server) UnfollowUser(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	if err := s.graphService.Unfollow(c.UserContext(), viewerID, targetID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Unfollowed"})
}

// GetFollowers handles GET /api/users/followers
func (s *Server) GetFollowers(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)

	followers, err := s.graphService.Followers(c.UserContext(), viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(followers)
}

// GetFollowing handles GET /api/users/following
func (s *Server) GetFollowing(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)

	following, err := s.graphService.Following(c.UserContext(), viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(following)
}

// GetSuggestions handles GET /api/users/suggestions
func (s *Server) GetSuggestions(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)

	suggestions, err := s.userService.Suggestions(c.UserContext(), viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(suggestions)
}

// SearchUsers handles GET /api/users/search?query=...
func (s *Server) SearchUsers(c *fiber.Ctx) error {
	results, err := s.userService.Search(c.UserContext(), c.Query("query"))
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(results)
}

// GetSidebar handles GET /api/users/sidebar
func (s *Server) GetSidebar(c *fiber.Ctx) error {
	viewerID := c.Locals("userID").(uint)

	peers, err := s.userService.Sidebar(c.UserContext(), viewerID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(peers)
}

// GetUserProfile handles GET /api/users/:id
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	targetID, err := parseIDParam(c, "id")
	if err != nil {
		return models.RespondWithError(c, err)
	}

	user, err := s.userService.GetUser(c.UserContext(), targetID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// GetUserByHandle handles GET /api/users/handle/:handle
func (s *Server) GetUserByHandle(c *fiber.Ctx) error {
	handle := c.Params("handle")
	if handle == "" {
		return models.RespondWithError(c, models.NewValidationError("Handle is required"))
	}

	user, err := s.userService.GetUserByHandle(c.UserContext(), handle)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(user)
}

// parseIDParam parses a numeric path parameter.
func parseIDParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("Invalid " + name + " parameter")
	}
	return uint(id), nil
}
