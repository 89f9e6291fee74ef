package main

import (
	appcontext "github.com/formadoc/FormaSign/internal/app_context"
	"github.com/formadoc/FormaSign/internal/auth"
	"github.com/formadoc/FormaSign/internal/cache"
	"github.com/formadoc/FormaSign/internal/config"
	"github.com/formadoc/FormaSign/internal/controller"
	"github.com/formadoc/FormaSign/internal/database"
	"github.com/formadoc/FormaSign/internal/env"
	filestorage "github.com/formadoc/FormaSign/internal/file_storage"
	"github.com/formadoc/FormaSign/internal/middleware"
	ratelimiter "github.com/formadoc/FormaSign/internal/rate_limiter"
	"github.com/formadoc/FormaSign/internal/repository"
	"github.com/formadoc/FormaSign/internal/route"
	"github.com/formadoc/FormaSign/internal/signature"
	"github.com/formadoc/FormaSign/internal/util"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// this function run before main
func init() {
	env.LoadEnv(".env")
}

func main() {
	cfg := config.GetConfig()

	logger := util.NewLogger(cfg.ENV)
	logger.Debugf("Configuration: %+v \n", cfg)

	db, err := database.ConnectReturnGormDB(cfg.DB)
	if err != nil {
		logger.Panic(err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		logger.Panic(err)
	}
	defer sqlDb.Close()
	logger.Info("Database connected \n")

	s3, err := filestorage.NewMinioClient(&cfg.Minio)
	if err != nil {
		logger.Error("Error connecting to minio")
		logger.Panic(err)
	}
	storage := filestorage.NewObjectStorage(s3, &cfg.Minio, logger)

	mirror, err := cache.OpenMirror(cfg.Mirror.PATH, logger)
	if err != nil {
		logger.Error("Error opening local mirror")
		logger.Panic(err)
	}
	urlCache := cache.NewURLCache(nil)

	// Custom validation
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := v.RegisterValidation("strNotEmpty", util.StrNotEmpty); err != nil {
			return
		}
	}

	rateLimiter := ratelimiter.NewRateLimiter(cfg.RateLimiter, logger)
	jwtService := auth.NewJwt(cfg.Auth, logger)
	repo := repository.NewRepository(db, logger)

	buckets := signature.Buckets{
		Signatures:  cfg.Minio.BUCKET,
		LegacySeals: cfg.Minio.LEGACY_SEAL_BUCKET,
	}
	resolver := signature.NewResolver(repo, storage, buckets, urlCache, mirror, logger)
	persister := signature.NewPersister(repo, storage, buckets, urlCache, mirror, logger)
	sharer := signature.NewSharer(resolver, repo, logger)

	app := appcontext.Application{
		Config:     &cfg,
		Repository: repo,
		Logger:     logger,
		JWTService: jwtService,
		S3:         s3,
		Storage:    storage,
		Cache:      urlCache,
		Mirror:     mirror,
		Resolver:   resolver,
		Persister:  persister,
		Sharer:     sharer,
	}

	_middleware := middleware.NewMiddleware(&app, rateLimiter)

	if cfg.ENV == "production" {
		logger.Info("Running in production mode")
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"*"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "X-Requested-With", "Accept"}
	r.Use(cors.New(corsConfig))
	r.Use(_middleware.RateLimiterMiddleware)

	_controller := controller.NewController(&app)

	r.GET("/", _controller.Index.Index)

	rApi := r.Group("/api")

	route.V1_Signatures(rApi, _controller.Signature, _middleware)
	route.V1_Agreements(rApi, _controller.Agreement, _middleware)

	if err := r.Run("0.0.0.0:" + app.Config.Port); err != nil {
		logger.Panic("Error running server: %v \n", err)
	}
}
