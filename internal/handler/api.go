package handler

import (
	"github.com/rs/zerolog"
	"github.com/rubenatello/dignov2/internal/config"
	"github.com/rubenatello/dignov2/internal/service"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	log        zerolog.Logger
	users      *service.UserService
	articles   *service.ArticleService
	tags       *service.TagService
	images     *service.ImageService
	engagement *service.EngagementService
	analytics  *service.AnalyticsService
	donations  *service.DonationService
	jwtSecret  []byte
	uploadDir  string
	uploadURL  string
}

// NewAPI constructs a handler set with shared services.
func NewAPI(gdb *gorm.DB, cfg config.AppConfig, log zerolog.Logger) *API {
	tagService := service.NewTagService(gdb)

	return &API{
		log:        log.With().Str("component", "api").Logger(),
		users:      service.NewUserService(gdb),
		articles:   service.NewArticleService(gdb, tagService).WithRecentListCap(cfg.RecentListCap),
		tags:       tagService,
		images:     service.NewImageService(gdb),
		engagement: service.NewEngagementService(gdb),
		analytics:  service.NewAnalyticsService(gdb),
		donations:  service.NewDonationService(gdb),
		jwtSecret:  []byte(cfg.JWTSecret),
		uploadDir:  cfg.UploadDir,
		uploadURL:  cfg.UploadURLPath,
	}
}
