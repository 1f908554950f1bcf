package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"simple-microservice/internal/service"
)

// StoreStatus expone el estado de conexion del almacenamiento.
type StoreStatus interface {
	Connected() bool
}

// NewAuthRouter configura las rutas del servicio auth.
func NewAuthRouter(logger *zap.Logger, authH *AuthHandler, codec *service.TokenCodec, store StoreStatus) *gin.Engine {
	r := newEngine(logger, store)
	requireToken := TokenAuthMiddleware(logger, codec)

	r.POST("/login", authH.Login)
	r.POST("/validate", requireToken, authH.Validate)
	r.DELETE("/logout", requireToken, authH.Logout)

	return r
}

// NewUserRouter configura las rutas del servicio de perfiles.
func NewUserRouter(logger *zap.Logger, userH *UserHandler, codec *service.TokenCodec, store StoreStatus) *gin.Engine {
	r := newEngine(logger, store)
	requireToken := TokenAuthMiddleware(logger, codec)

	r.POST("/sign-up", userH.SignUp)
	r.GET("/get-profile", requireToken, userH.GetProfile)

	return r
}

func newEngine(logger *zap.Logger, store StoreStatus) *gin.Engine {
	r := gin.New()

	// Middlewares basicos: logging, recovery y JSON content-type.
	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())
	r.GET("/healthz", healthHandler(store))

	return r
}

func healthHandler(store StoreStatus) gin.HandlerFunc {
	return func(c *gin.Context) {
		if store == nil || !store.Connected() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"store": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"store": "connected"})
	}
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
