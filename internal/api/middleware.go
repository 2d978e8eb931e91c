package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// AuthRequired accepts a bearer token or the auth cookie and stores the user id in locals.
func (handler *Handler) AuthRequired(c *fiber.Ctx) error {
	tokenValue := bearerToken(c.Get(fiber.HeaderAuthorization))
	if tokenValue == "" {
		tokenValue = strings.TrimSpace(c.Cookies(authCookieName))
	}
	if tokenValue == "" {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	userID, err := handler.tokens.Parse(tokenValue)
	if err != nil {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}
	if _, err := handler.users.FindByID(userID); err != nil {
		return handler.fail(c, fiber.StatusUnauthorized, "unauthorized")
	}

	c.Locals(contextUserIDKey, userID)
	return c.Next()
}

func (handler *Handler) LanguageMiddleware(c *fiber.Ctx) error {
	language := handler.i18n.DetectFromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage))
	if explicit := strings.TrimSpace(c.Query(languageQueryParam)); explicit != "" {
		language = handler.i18n.NormalizeLanguage(explicit)
	}
	c.Locals(contextLanguageKey, language)
	c.Set(fiber.HeaderContentLanguage, language)
	return c.Next()
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
