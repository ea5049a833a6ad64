package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"rihla/internal/config"
	"rihla/internal/database"
	"rihla/internal/middleware"
	"rihla/internal/modules/auth"
	"rihla/internal/modules/crm"
	"rihla/internal/modules/distribution"
	"rihla/internal/modules/lead"
	"rihla/internal/modules/provider"
	"rihla/internal/notification"
	jwtsvc "rihla/internal/pkg/jwt"
	"rihla/internal/repository"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", "rihla-api").Logger()
	if cfg.Server.Env == "development" {
		log = log.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET is empty")
	}

	db, err := database.Connect(cfg.Database.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("migration failed")
	}

	tokens := jwtsvc.New(cfg.JWT.Secret, cfg.JWT.TTL)

	hub := notification.NewHub()
	dispatcher := notification.NewDispatcher(db, hub, log, 256)
	dispatcher.Start()
	defer dispatcher.Stop()

	distCfg := distribution.DefaultConfig()
	distCfg.MaxProviders = cfg.Distribution.MaxProviders
	distService := distribution.NewService(db, distCfg, dispatcher, log)
	distHandler := distribution.NewHandler(distService)

	leadService := lead.NewService(db, distService, log)
	leadHandler := lead.NewHandler(leadService)

	authService := auth.NewService(db, tokens, log)
	authHandler := auth.NewHandler(authService)

	providerService := provider.NewService(db, log)
	providerHandler := provider.NewHandler(providerService)

	crmService := crm.NewService(db, log)
	crmHandler := crm.NewHandler(crmService)

	notifService := notification.NewService(repository.NewNotificationRepository(db))
	notifHandler := notification.NewHandler(notifService, hub)

	if cfg.Server.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")
	{
		authHandler.RegisterRoutes(v1)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware(tokens))

		providerGroup := protected.Group("/provider")
		providerGroup.Use(middleware.ProviderOnly())

		admin := protected.Group("/admin")
		admin.Use(middleware.AdminOnly())

		leadHandler.RegisterRoutes(protected, admin)
		distHandler.RegisterRoutes(providerGroup, admin)
		crmHandler.RegisterRoutes(providerGroup)
		providerHandler.RegisterRoutes(protected, providerGroup, admin)
		notifHandler.RegisterRoutes(protected)
	}

	log.Info().Str("port", cfg.Server.Port).Msg("starting api server")
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
