// Package http wires the gin router, handlers, and middleware around the
// authentication engine.
package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/gin-gonic/gin"

	aegis "github.com/aegisauth/aegis"
	"github.com/aegisauth/aegis/internal/config"
	"github.com/aegisauth/aegis/internal/http/handlers"
	"github.com/aegisauth/aegis/internal/http/middleware"
)

type Dependencies struct {
	Engine  *aegis.Engine
	Config  *config.Config
	Logger  *slog.Logger
	Metrics nethttp.Handler
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(deps.Logger))
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(deps.Config.AllowedOrigins))

	cookies := handlers.NewCookieWriter(deps.Config.IsProd())
	authHandler := handlers.NewAuthHandler(deps.Engine, cookies)
	userHandler := handlers.NewUserHandler(deps.Engine)

	router.GET("/healthz", handlers.Health)
	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	api := router.Group("/api")

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/send-reset-otp", authHandler.SendResetOTP)
	auth.POST("/reset-password", authHandler.ResetPassword)

	authGuarded := auth.Group("")
	authGuarded.Use(middleware.Guard(deps.Engine))
	authGuarded.POST("/send-verify-otp", authHandler.SendVerifyOTP)
	authGuarded.POST("/verify-account", authHandler.VerifyAccount)
	authGuarded.GET("/is-auth", authHandler.IsAuth)

	user := api.Group("/user")
	user.Use(middleware.Guard(deps.Engine))
	user.GET("/data", userHandler.Data)

	return router
}
