package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// TokenSubjectKey holds the verified token subject in the gin context.
const TokenSubjectKey = "token_subject"

// JWTAuth rejects requests without a valid HS256 bearer token. An empty
// issuer skips the iss check.
func JWTAuth(secret, issuer string) gin.HandlerFunc {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	parser := jwt.NewParser(opts...)
	key := []byte(secret)

	return func(c *gin.Context) {
		raw, ok := strings.CutPrefix(c.GetHeader("Authorization"), "Bearer ")
		if !ok || raw == "" {
			respondError(c, http.StatusUnauthorized, "unauthorized", "bearer token required")
			return
		}

		claims := &jwt.RegisteredClaims{}
		_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
			return key, nil
		})
		if err != nil {
			slog.WarnContext(c.Request.Context(), "rejected bearer token",
				slog.String("path", c.Request.URL.Path),
				slog.String("error", err.Error()),
			)
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid or expired token")
			return
		}

		c.Set(TokenSubjectKey, claims.Subject)
		c.Next()
	}
}
