package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/shelfshare/shelfshare/internal/server/session"
)

const identityKey = "identity"

// authMiddleware resolves the bearer token into an identity once and stores
// it on the request context.
func (s *Server) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))

		resolver := session.NewResolver(token, s.secretKey,
			s.repomanager.Users(s.db), s.repomanager.Sessions(s.db))

		identity, err := resolver.Resolve(c.Request.Context())
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthenticated"})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimPrefix(header, prefix)
}

// currentUserID returns the resolved requester. The auth middleware
// guarantees it is set on protected routes.
func currentUserID(c *gin.Context) int64 {
	identity := c.MustGet(identityKey).(*session.Identity)
	return identity.UserID
}
