package app

import (
	"net/http"

	"github.com/Crapteep/automation-hub/internal/auth"
	"github.com/Crapteep/automation-hub/internal/cache"
	"github.com/Crapteep/automation-hub/internal/config"
	"github.com/Crapteep/automation-hub/internal/handlers"
	"github.com/Crapteep/automation-hub/internal/password"
	"github.com/Crapteep/automation-hub/internal/repo"
	"github.com/Crapteep/automation-hub/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Setup composes the object graph once and registers all routes.
// Constructor injection end to end; no container, no globals.
func Setup(r *gin.Engine, cfg config.Config, log *logrus.Logger, db *pgxpool.Pool, rdb *redis.Client) {
	r.GET("/", rootHandler(cfg))
	r.GET("/health", healthHandler(cfg))

	hasher := password.NewHasher(cfg.Auth.BcryptCost)
	tokens := auth.NewTokenService([]byte(cfg.Auth.SecretKey), cfg.Auth.AccessTokenTTL.Duration())
	userRepo := repo.NewPGUserRepo(db)
	userCache := cache.NewUserCache(rdb, cfg.Redis.DefaultTTL.Duration())
	userSvc := service.NewUserService(userRepo, userCache, hasher, cfg.Auth.Reserved(), log)
	authSvc := service.NewAuthService(userRepo, hasher, tokens, log)

	authHandler := handlers.NewAuthHandler(authSvc, log)
	userHandler := handlers.NewUserHandler(userSvc, log)

	api := r.Group("/api/v1")
	registerAuthRoutes(api, authHandler)
	registerUserRoutes(api, userHandler, tokens, userSvc)
}

func rootHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Accounts API",
			"version": cfg.App.Version,
			"env":     cfg.App.Env,
			"api":     "/api/v1",
			"health":  "/health",
		})
	}
}

func healthHandler(cfg config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "env": cfg.App.Env})
	}
}

func registerAuthRoutes(api *gin.RouterGroup, h *handlers.AuthHandler) {
	api.POST("/login/access-token", h.Login)
	api.POST("/logout", h.Logout)
	api.POST("/token/refresh", h.RefreshToken)
	api.POST("/login/verify", h.VerifyLogin)
	api.POST("/password/forgot", h.ForgotPassword)
	api.POST("/password/reset", h.ResetPassword)
}

func registerUserRoutes(api *gin.RouterGroup, h *handlers.UserHandler, tokens *auth.TokenService, users auth.UserLoader) {
	protected := api.Group("/users", auth.RequireUser(tokens, users))

	protected.GET("/me", h.Me)
	protected.PATCH("/me", h.UpdateMe)
	protected.DELETE("/me", h.DeactivateMe)
	protected.POST("/me/change-password", h.ChangeMyPassword)

	admin := protected.Group("", auth.RequireSuperuser())
	admin.POST("", h.Create)
	admin.GET("", h.List)
	admin.GET("/:id", h.GetByID)
	admin.PATCH("/:id", h.UpdateByAdmin)
	admin.DELETE("/:id", h.Delete)
}
