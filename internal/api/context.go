package api

import "github.com/gofiber/fiber/v2"

const (
	authCookieName     = "vitalcheck_token"
	languageQueryParam = "lang"
	contextUserIDKey   = "current_user_id"
	contextLanguageKey = "current_language"
)

func currentUserID(c *fiber.Ctx) (uint, bool) {
	userID, ok := c.Locals(contextUserIDKey).(uint)
	return userID, ok && userID != 0
}

func currentLanguage(c *fiber.Ctx) string {
	language, _ := c.Locals(contextLanguageKey).(string)
	return language
}
