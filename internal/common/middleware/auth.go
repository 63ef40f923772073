package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	initdata "github.com/telegram-mini-apps/init-data-golang"
)

// UserCtxKey is the gin context key holding the authenticated Telegram user.
const UserCtxKey = "user"

// TelegramAuth validates Telegram Mini App init-data from the "init_data"
// header and stores the parsed user in the context.
func TelegramAuth(botToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("init_data")
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized: Telegram Init Data required"})
			return
		}

		if botToken == "" {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "init-data validation is not configured"})
			return
		}

		// Expiration check disabled; sessions are bounded by the Mini App itself.
		if err := initdata.Validate(raw, botToken, time.Duration(0)); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid init_data"})
			return
		}

		parsed, err := initdata.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid init_data format"})
			return
		}

		c.Set(UserCtxKey, parsed.User)
		c.Next()
	}
}
