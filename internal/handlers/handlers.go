package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"wcmap/api/internal/cache"
	"wcmap/api/internal/config"
	"wcmap/api/internal/geo"
	"wcmap/api/internal/middleware"
	"wcmap/api/internal/repository"
	"wcmap/api/internal/service"
)

type HandlerSet struct {
	log       zerolog.Logger
	cfg       *config.AppConfig
	db        *pgxpool.Pool
	cache     *redis.Client
	auth      *service.AuthService
	locations *service.LocationService
	ratings   *service.RatingService
	requests  *service.RequestService
	accounts  *service.AccountAdminService
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cacheClient *redis.Client, cfg *config.AppConfig) HandlerSet {
	accountRepo := repository.NewAccountRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	locationRepo := repository.NewLocationRepository(db)
	ratingRepo := repository.NewRatingRepository(db)
	requestRepo := repository.NewRequestRepository(db)

	cacheStore := cache.NewStore(cacheClient)
	fence := geo.Fence{
		MinLat: cfg.Geofence.MinLat,
		MaxLat: cfg.Geofence.MaxLat,
		MinLng: cfg.Geofence.MinLng,
		MaxLng: cfg.Geofence.MaxLng,
	}

	return HandlerSet{
		log:       log,
		cfg:       cfg,
		db:        db,
		cache:     cacheClient,
		auth:      service.NewAuthService(accountRepo, sessionRepo, cfg.Security.SuperAdminEmail, cfg.Security.SessionTTL, log),
		locations: service.NewLocationService(locationRepo, cacheStore, log),
		ratings:   service.NewRatingService(ratingRepo, locationRepo, cacheStore, log),
		requests:  service.NewRequestService(requestRepo, fence, cacheStore, log),
		accounts:  service.NewAccountAdminService(accountRepo, log),
	}
}

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	router.POST("/register", h.RegisterAccount)
	router.POST("/login", h.Login)
	router.GET("/locations", h.ListLocations)
	router.GET("/locations/:id/ratings", middleware.OptionalAuth(h.auth), h.ListLocationRatings)

	authed := router.Group("")
	authed.Use(middleware.RequireAuth(h.auth))
	{
		authed.POST("/logout", h.Logout)
		authed.GET("/me", h.Me)
		authed.POST("/locations/:id/ratings", h.CreateRating)
		authed.PUT("/ratings/:id", h.UpdateRating)
		authed.POST("/requests", h.SubmitRequest)
		authed.GET("/requests/mine", h.ListMyRequests)
		authed.PUT("/requests/:id", h.EditRequest)
		authed.DELETE("/requests/:id", h.WithdrawRequest)
	}

	admin := router.Group("")
	admin.Use(middleware.RequireAuth(h.auth), middleware.RequireAdmin())
	{
		admin.GET("/requests", h.ListPendingRequests)
		admin.POST("/requests/:id/approve", h.ApproveRequest)
		admin.POST("/requests/:id/reject", h.RejectRequest)
		admin.DELETE("/locations/:id", h.DeleteLocation)
		admin.PUT("/admin/locations/:id", h.UpdateLocation)
		admin.GET("/admin/ratings", h.AdminListRatings)
		admin.PUT("/admin/ratings/:id", h.AdminUpdateRating)
		admin.DELETE("/admin/ratings/:id", h.AdminDeleteRating)
		admin.GET("/admin/accounts", h.ListAccounts)
		admin.POST("/admin/accounts/:id/password", h.ResetAccountPassword)
		admin.PUT("/admin/accounts/:id/role", h.SetAccountRole)
		admin.DELETE("/admin/accounts/:id", h.DeleteAccount)
	}
}
