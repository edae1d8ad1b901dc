package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"server/internal/adapter/repo"
	"server/internal/http/handlers"
	"server/internal/http/httpapi"
	"server/internal/infra"
	"server/internal/infra/geoip"
	"server/internal/middleware"
	"server/internal/providers/daraja"
	"server/internal/providers/imagehost"
	"server/internal/providers/youtube"
	"server/internal/storage"
)

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx := context.Background()
	dbpool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect database")
	}
	defer dbpool.Close()

	sqlRunner := infra.NewSQLRunner(dbpool, logger)

	fileStore, err := storage.NewFileStore(cfg.StorageDir)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to prepare upload storage")
	}

	countryResolver, err := geoip.NewResolver(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip database unavailable, locale falls back to headers")
	}
	var countryLookup middleware.CountryLookup
	if countryResolver != nil {
		countryLookup = countryResolver.CountryCode
	}

	payments := daraja.NewClient(daraja.Options{
		ConsumerKey:    cfg.DarajaConsumerKey,
		ConsumerSecret: cfg.DarajaConsumerSecret,
		Passkey:        cfg.DarajaPasskey,
		Shortcode:      cfg.DarajaShortcode,
		BaseURL:        cfg.DarajaBaseURL,
		CallbackURL:    cfg.CallbackBaseURL + "/api/donations/callback",
		Logger:         &logger,
		RequestTimeout: cfg.GatewayTimeout,
	})
	if !payments.HasCredentials() {
		logger.Warn().Msg("payment gateway credentials missing, donations disabled")
	}

	images := imagehost.NewClient(imagehost.Options{
		CloudName:      cfg.ImageHostCloudName,
		APIKey:         cfg.ImageHostAPIKey,
		APISecret:      cfg.ImageHostAPISecret,
		Folder:         cfg.ImageUploadFolder,
		Logger:         &logger,
		RequestTimeout: cfg.GatewayTimeout,
	})
	if !images.HasCredentials() {
		logger.Warn().Msg("image host credentials missing, uploads use local storage")
	}

	broadcast := youtube.NewClient(youtube.Options{
		APIKey:         cfg.YouTubeAPIKey,
		BaseURL:        cfg.YouTubeBaseURL,
		Logger:         &logger,
		RequestTimeout: cfg.GatewayTimeout,
	})

	app := &handlers.App{
		Logger: &logger,
		Cfg:    cfg,

		Users:         repo.NewUserRepository(sqlRunner),
		Donations:     repo.NewDonationRepository(sqlRunner),
		Appointments:  repo.NewAppointmentRepository(sqlRunner),
		Feed:          repo.NewFeedRepository(sqlRunner),
		Testimonials:  repo.NewTestimonialRepository(sqlRunner),
		Events:        repo.NewEventRepository(sqlRunner),
		Livestreams:   repo.NewLivestreamRepository(sqlRunner),
		Notifications: repo.NewNotificationRepository(sqlRunner),

		Payments:  payments,
		Images:    images,
		Broadcast: broadcast,
		Files:     fileStore,
	}

	router := httpapi.NewRouter(app, httpapi.Options{
		JWTSecret:       cfg.JWTSecret,
		CORSOrigins:     cfg.CORSAllowedOrigins,
		DefaultLocale:   cfg.DefaultLocale,
		CountryLookup:   countryLookup,
		RateLimitPerMin: cfg.RateLimitPerMin,
		StaticDir:       fileStore.BasePath(),
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	if closer, ok := countryResolver.(interface{ Close() error }); ok && closer != nil {
		_ = closer.Close()
	}
	logger.Info().Msg("server stopped")
}
