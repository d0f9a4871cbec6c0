package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"vintervu/internal/dto"
	"vintervu/internal/service"
)

// EmailKey is the gin context key carrying the authenticated identity.
const EmailKey = "authEmail"

// RequireAuth validates the Authorization bearer token and stores the
// token's email in the request context for handlers downstream.
func RequireAuth(auth service.AuthService) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		token, ok := bearerToken(ctx.GetHeader("Authorization"))
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing or malformed Authorization header"})
			return
		}
		email, err := auth.ParseToken(token)
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		ctx.Set(EmailKey, email)
		ctx.Next()
	}
}

// Email returns the authenticated email set by RequireAuth.
func Email(ctx *gin.Context) string {
	return ctx.GetString(EmailKey)
}

func bearerToken(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}
