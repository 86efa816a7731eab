package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	// SessionCookie 会话Cookie名
	SessionCookie = "banneradmin_sid"
	sessionKey    = "sid"
	maxSessionLen = 64
)

// Session 为每个浏览器分配会话ID
func Session(newID func() string, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		sid, err := c.Cookie(SessionCookie)
		if err != nil || !validSessionID(sid) {
			sid = newID()
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(SessionCookie, sid, 0, "/", "", secure, true)
		}
		c.Set(sessionKey, sid)
		c.Next()
	}
}

// SessionID 当前请求的会话ID
func SessionID(c *gin.Context) string {
	return c.GetString(sessionKey)
}

// 会话ID会拼进Redis键，只接受字母和数字
func validSessionID(sid string) bool {
	if sid == "" || len(sid) > maxSessionLen {
		return false
	}
	for _, r := range sid {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
