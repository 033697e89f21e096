package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/TimKoenig/FolioDesk/internal/pkg/session"
	"github.com/TimKoenig/FolioDesk/internal/pkg/usercontext"
)

// UserContextMiddleware resolves the session into a request-scoped user
// context. This centralizes session handling so controllers only ever read
// usercontext.GetUserContext(c).
func UserContextMiddleware(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		c.Locals(usercontext.ContextKey, usercontext.UserContext{})
		return c.Next()
	}

	userID, ok := sess.Get(usercontext.KeyUserID).(uint)
	if !ok || userID == 0 {
		c.Locals(usercontext.ContextKey, usercontext.UserContext{})
		return c.Next()
	}

	username, _ := sess.Get(usercontext.KeyUsername).(string)
	isAdmin, _ := sess.Get(usercontext.KeyIsAdmin).(bool)

	c.Locals(usercontext.ContextKey, usercontext.UserContext{
		UserID:     userID,
		Username:   username,
		IsLoggedIn: true,
		IsAdmin:    isAdmin,
	})
	return c.Next()
}
