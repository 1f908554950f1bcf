package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simple-microservice/internal/service"
)

const (
	authClaimsKey  = "auth_claims"
	accessTokenKey = "auth_access_token"
)

// TokenAuthMiddleware protege endpoints con un bearer token.
//
//	sin header o sin token   -> 401
//	token rechazado          -> 403
//	falla interna            -> 500 (logueada)
//	token valido             -> claims y token crudo en el contexto
func TokenAuthMiddleware(logger *zap.Logger, codec *service.TokenCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		if codec == nil {
			logger.Error("token codec not configured", zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		claims, err := verifyToken(codec, token)
		if err != nil {
			if service.IsTokenRejected(err) {
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid token"})
				return
			}
			logger.Error("token verification failed", zap.Error(err), zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.Set(authClaimsKey, claims)
		c.Set(accessTokenKey, token)
		c.Next()
	}
}

// bearerToken extrae el token de "Bearer <token>".
func bearerToken(header string) (string, bool) {
	fields := strings.Fields(header)
	if len(fields) < 2 || !strings.EqualFold(fields[0], "bearer") {
		return "", false
	}
	return fields[1], true
}

func verifyToken(codec *service.TokenCodec, token string) (claims service.Claims, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("token verification panic: %v", r)
		}
	}()
	return codec.Verify(token)
}

// GetAuthClaims obtiene los claims verificados desde el contexto.
func GetAuthClaims(c *gin.Context) (service.Claims, bool) {
	val, ok := c.Get(authClaimsKey)
	if !ok {
		return service.Claims{}, false
	}
	claims, ok := val.(service.Claims)
	return claims, ok
}

// GetAccessToken obtiene el token crudo presentado por el cliente.
func GetAccessToken(c *gin.Context) (string, bool) {
	val, ok := c.Get(accessTokenKey)
	if !ok {
		return "", false
	}
	token, ok := val.(string)
	return token, ok && token != ""
}
