package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/dilkhush-raj/hrms/internal/config"
	"github.com/dilkhush-raj/hrms/internal/http/handler"
	httpmiddleware "github.com/dilkhush-raj/hrms/internal/http/middleware"
	"github.com/dilkhush-raj/hrms/internal/middleware"
)

// NewRouter wires Gin routes and middleware.
func NewRouter(cfg config.Config, authHandler *handler.AuthHandler, verifyHandler *handler.VerifyHandler, authMiddleware *httpmiddleware.Auth, rateLimiter *middleware.RateLimiter) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(httpmiddleware.RequestLogger(nil))
	if rateLimiter != nil {
		r.Use(rateLimiter.Handler())
	}
	r.Use(middleware.CORS(cfg))
	r.Use(otelgin.Middleware(cfg.ServiceName))

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "pong"})
	})

	auth := r.Group("/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)

		auth.POST("/logout", authMiddleware.RequireSession, authHandler.Logout)
		auth.GET("/check-auth", authMiddleware.RequireSession, authHandler.CheckAuth)
		auth.POST("/update-role", authMiddleware.RequireSession, authHandler.UpdateRole)
		auth.POST("/delete", authMiddleware.RequireSession, authHandler.Delete)
		auth.POST("/change-password", authMiddleware.RequireSession, authHandler.ChangePassword)
	}

	verify := r.Group("/verify")
	{
		verify.POST("/send", verifyHandler.Send)
		verify.POST("/resend", verifyHandler.Send)
		verify.POST("/otp", verifyHandler.Verify)
	}

	return r
}
