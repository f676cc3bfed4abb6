package router

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rubenatello/dignov2/internal/config"
	"github.com/rubenatello/dignov2/internal/handler"
	"gorm.io/gorm"
)

// SetupRouter wires the gin engine, middleware and the API routes.
func SetupRouter(gdb *gorm.DB, cfg config.AppConfig, log zerolog.Logger) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(handler.RequestLogger(log))

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("digno_session", store))

	api := handler.NewAPI(gdb, cfg, log)
	r.Use(api.ResolveUser())

	r.Static(cfg.UploadURLPath, cfg.UploadDir)

	root := r.Group("/api")
	{
		root.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		auth := root.Group("/auth")
		{
			auth.POST("/login", api.Login)
			auth.POST("/logout", api.Logout)
			auth.POST("/register", api.Register)
			auth.GET("/me", api.RequireAuth(), api.Me)
		}

		articles := root.Group("/articles")
		{
			articles.GET("", api.ListArticles)
			articles.POST("", api.RequireWriteAccess(), api.CreateArticle)
			articles.GET("/featured", api.FeaturedArticles)
			articles.GET("/breaking", api.BreakingArticles)
			articles.GET("/exists", api.ArticleExists)
			articles.GET("/by-id", api.GetArticleByID)
			articles.GET("/analytics/top-viewed", api.TopViewedArticles)
			articles.GET("/analytics/trending", api.TrendingArticles)
			articles.GET("/analytics/tags", api.TagFrequency)

			articles.GET("/:slug", api.GetArticle)
			articles.PUT("/:slug", api.RequireWriteAccess(), api.UpdateArticle)
			articles.PATCH("/:slug", api.RequireWriteAccess(), api.UpdateArticle)
			articles.DELETE("/:slug", api.RequireWriteAccess(), api.DeleteArticle)

			articles.POST("/:slug/like", api.RequireAuth(), api.LikeArticle)
			articles.DELETE("/:slug/like", api.RequireAuth(), api.UnlikeArticle)

			articles.GET("/:slug/comments", api.ListComments)
			articles.POST("/:slug/comments", api.RequireAuth(), api.CreateComment)
			articles.POST("/:slug/comments/:id/reply", api.RequireAuth(), api.ReplyToComment)
			articles.POST("/:slug/comments/:id/like", api.RequireAuth(), api.LikeComment)
			articles.DELETE("/:slug/comments/:id/like", api.RequireAuth(), api.UnlikeComment)
		}

		images := root.Group("/images")
		{
			images.GET("", api.ListImages)
			images.POST("", api.RequireWriteAccess(), api.UploadImage)
			images.GET("/recent", api.RecentImages)
			images.GET("/:id", api.GetImage)
			images.PATCH("/:id", api.RequireWriteAccess(), api.UpdateImage)
			images.DELETE("/:id", api.RequireWriteAccess(), api.DeleteImage)
			images.POST("/:id/usage", api.RequireWriteAccess(), api.IncrementImageUsage)
		}

		root.GET("/tags", api.ListTags)
		root.GET("/tags/suggest", api.SuggestTags)
		root.POST("/donate", api.Donate)

		users := root.Group("/users", api.RequireUserAdmin())
		{
			users.GET("", api.ListUsers)
			users.PATCH("/:id/role", api.SetUserRole)
		}
	}

	return r
}
