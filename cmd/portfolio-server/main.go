// Command portfolio-server runs the portfolio backend: MongoDB persistence,
// Redis response caching, newsletter dispatch over SMTP, and Cloudinary
// media storage behind a gin HTTP API.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/RxRakari/main-portfolio-sub001/pkg/api"
	"github.com/RxRakari/main-portfolio-sub001/pkg/cache"
	"github.com/RxRakari/main-portfolio-sub001/pkg/config"
	"github.com/RxRakari/main-portfolio-sub001/pkg/logging"
	"github.com/RxRakari/main-portfolio-sub001/pkg/mailer"
	"github.com/RxRakari/main-portfolio-sub001/pkg/media"
	"github.com/RxRakari/main-portfolio-sub001/pkg/newsletter"
	"github.com/RxRakari/main-portfolio-sub001/pkg/ratelimit"
	"github.com/RxRakari/main-portfolio-sub001/pkg/store"
)

const (
	mongoConnectTimeout = 10 * time.Second
	shutdownTimeout     = 15 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	logger := logging.Setup(logging.Config{
		Level:  logging.LogLevel(cfg.LogLevel),
		Pretty: cfg.LogPretty,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// MongoDB is the primary store; without it there is nothing to serve.
	connectCtx, cancel := context.WithTimeout(ctx, mongoConnectTimeout)
	mongoClient, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.MongoURI))
	cancel()
	if err != nil {
		return fmt.Errorf("mongodb connect: %w", err)
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			logger.Warn().Err(err).Msg("MongoDB disconnect failed")
		}
	}()

	repos := store.NewMongo(mongoClient.Database(cfg.MongoDatabase))
	if err := repos.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("mongodb indexes: %w", err)
	}
	logger.Info().Str("database", cfg.MongoDatabase).Msg("MongoDB connected")

	// Redis backs the response cache and the rate limiter. An unreachable
	// store degrades both instead of blocking startup.
	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	cacheClient := cache.New(redisClient, logging.NewLogger("cache"),
		cache.WithOpTimeout(cfg.CacheOpTimeout))
	if err := cacheClient.Connect(ctx); err != nil {
		logger.Warn().Err(err).Msg("Cache store unavailable, serving uncached")
	}
	defer cacheClient.Close()

	var sender mailer.Sender
	if cfg.SMTPHost != "" {
		sender, err = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.MailFrom,
		})
		if err != nil {
			return fmt.Errorf("smtp: %w", err)
		}
	} else {
		logger.Warn().Msg("SMTP not configured, email delivery disabled")
		sender = mailer.Disabled{}
	}

	var uploader *media.Uploader
	if cfg.CloudinaryURL != "" {
		uploader, err = media.New(cfg.CloudinaryURL, cfg.MediaFolder, logging.NewLogger("media"))
		if err != nil {
			return fmt.Errorf("media: %w", err)
		}
	} else {
		logger.Warn().Msg("Cloudinary not configured, media uploads disabled")
	}

	newsletterSvc := newsletter.New(repos.Subscribers, sender, cfg.BaseURL,
		logging.NewLogger("newsletter"))

	server := api.NewServer(api.Deps{
		Blogs:        repos.Blogs,
		Projects:     repos.Projects,
		Gallery:      repos.Gallery,
		Testimonials: repos.Testimonials,
		Experience:   repos.Experience,
		Contacts:     repos.Contacts,
		Subscribers:  repos.Subscribers,

		Cache:       cacheClient,
		Invalidator: cache.NewInvalidator(cacheClient, logging.NewLogger("cache")),
		Newsletter:  newsletterSvc,
		Media:       uploader,
		Limiter: ratelimit.NewLimiter(redisClient, cfg.RateLimit, cfg.RateLimitWindow,
			logging.NewLogger("ratelimit")),
		Sender: sender,

		JWTSecret:     cfg.JWTSecret,
		AdminUser:     cfg.AdminUser,
		AdminPassword: cfg.AdminPassword,
		OwnerEmail:    cfg.OwnerEmail,

		Logger: logging.NewLogger("api"),
	})

	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: server.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", httpServer.Addr).Msg("Server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	logger.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn().Err(err).Msg("HTTP shutdown incomplete")
	}

	// Let in-flight newsletter dispatches and notifications finish.
	server.WaitBackground()
	return nil
}
