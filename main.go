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

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"codelegends_gateway/apiclient"
	"codelegends_gateway/cache"
	"codelegends_gateway/config"
	"codelegends_gateway/db"
	"codelegends_gateway/handlers"
	"codelegends_gateway/learning"
	"codelegends_gateway/logger"
	"codelegends_gateway/middleware"
	"codelegends_gateway/progress"
	"codelegends_gateway/routes"
	"codelegends_gateway/session"
	"codelegends_gateway/tags"
)

var rootCmd = &cobra.Command{
	Use:           "codelegends",
	Short:         "Code Legends web gateway",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	serveApp  string
	serveAddr string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the learner app API and the content hub API",
	RunE:  runServe,
}

func main() {
	serveCmd.Flags().StringVar(&serveApp, "app", "", "Apps to serve: all, learner or hub (default APP_MODE)")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default :$PORT)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(certificateCmd)
	rootCmd.AddCommand(slugCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveApp != "" {
		cfg.AppMode = serveApp
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	addr := serveAddr
	if addr == "" {
		addr = ":" + cfg.ServerPort
	}

	log, err := logger.New(logger.Options{Mode: cfg.LogMode, Redact: cfg.LogRedaction, HashSalt: cfg.LogHashSalt})
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	api, err := apiclient.New(apiclient.Options{BaseURL: cfg.APIURL, Timeout: cfg.APITimeout, Logger: log})
	if err != nil {
		return err
	}

	var checks []handlers.Check

	var store session.Store = session.NewMemoryStore()
	if cfg.SessionStore == "postgres" {
		database, err := db.Initialize(ctx, db.Config{
			Host:     cfg.DBHost,
			Port:     cfg.DBPort,
			User:     cfg.DBUser,
			Password: cfg.DBPassword,
			DBName:   cfg.DBName,
		})
		if err != nil {
			return err
		}
		defer database.Close()
		pg := db.NewSessionStore(database)
		store = pg
		checks = append(checks, handlers.Check{Name: "Database", Ping: database.PingContext})
		go sweepSessions(ctx, pg, cfg.SessionTTL, log)
	}

	var (
		c       cache.Cache      = cache.NewMemory()
		tracker progress.Tracker = progress.NewMemoryTracker()
	)
	if cfg.RedisAddr != "" {
		rdb, err := cache.Dial(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rdb.Close()
		c = cache.NewRedis(rdb, "codelegends:")
		tracker = progress.NewRedisTracker(rdb, cfg.RedisChannel, log)
		checks = append(checks, handlers.Check{Name: "Redis", Ping: func(ctx context.Context) error { return rdb.Ping(ctx).Err() }})
	}

	sessions := session.NewManager(api, store, log, session.Options{
		TTL:            cfg.SessionTTL,
		MeSyncInterval: cfg.MeSyncInterval,
		RefreshSkew:    cfg.RefreshSkew,
	})

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.AttachRequestID())
	r.Use(middleware.RequestLogger(log))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	routes.SetupRoutes(r, routes.Deps{
		API:          api,
		Sessions:     sessions,
		Learning:     learning.NewService(api, c, tracker, log, cfg.RoadmapCacheTTL),
		Tracker:      tracker,
		Tags:         tags.NewSearcher(api, c, log, cfg.TagCacheTTL),
		Log:          log,
		SessionTTL:   cfg.SessionTTL,
		CookieSecure: cfg.CookieSecure,
		Health:       checks,
	}, cfg.ServesLearner(), cfg.ServesHub())

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening", "addr", addr, "app", cfg.AppMode, "api", api.BaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}

// sweepSessions deletes postgres sessions older than ttl once an hour.
func sweepSessions(ctx context.Context, store *db.SessionStore, ttl time.Duration, log *logger.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			n, err := store.DeleteExpired(ctx, now.Add(-ttl))
			if err != nil {
				log.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("expired sessions removed", "count", n)
			}
		}
	}
}
