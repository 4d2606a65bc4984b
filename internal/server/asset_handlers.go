package server

import (
	"strings"

	"lumen/internal/models"

	"github.com/gofiber/fiber/v2"
)

// GetAsset handles GET /api/assets/:file, where file is
// `<hash>.webp`. Stored assets are immutable, so clients may cache
// them indefinitely.
func (s *Server) GetAsset(c *fiber.Ctx) error {
	hash := strings.TrimSuffix(c.Params("file"), ".webp")

	asset, fullPath, err := s.assetStore.ResolveForServing(c.UserContext(), hash)
	if err != nil {
		return models.RespondWithError(c, err)
	}

	c.Set(fiber.HeaderContentType, asset.ContentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	return c.SendFile(fullPath)
}
