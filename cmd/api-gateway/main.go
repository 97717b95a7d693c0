package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/formdesk-api/api/swagger"
	"github.com/noah-isme/formdesk-api/internal/handler"
	"github.com/noah-isme/formdesk-api/internal/middleware"
	"github.com/noah-isme/formdesk-api/internal/models"
	"github.com/noah-isme/formdesk-api/internal/repository"
	"github.com/noah-isme/formdesk-api/internal/service"
	"github.com/noah-isme/formdesk-api/pkg/cache"
	"github.com/noah-isme/formdesk-api/pkg/config"
	"github.com/noah-isme/formdesk-api/pkg/database"
	"github.com/noah-isme/formdesk-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/formdesk-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/formdesk-api/pkg/middleware/requestid"
	"github.com/noah-isme/formdesk-api/pkg/token"
)

// @title Formdesk API
// @version 1.0.0
// @description Bank form intake and admin review
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

const shutdownTimeout = 10 * time.Second

type submissionStore interface {
	GetByID(ctx context.Context, id string) (*models.Submission, error)
	ListByAccount(ctx context.Context, filter models.SubmissionFilter) ([]models.Submission, int, error)
	Append(ctx context.Context, sub *models.Submission) error
	Update(ctx context.Context, id string, mutate repository.SubmissionMutation) (*models.Submission, error)
}

type auditStore interface {
	Append(ctx context.Context, entry *models.AuditEntry) error
	ListBySubmission(ctx context.Context, submissionID string) ([]models.AuditEntry, error)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if err := run(cfg, logr); err != nil {
		logr.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, logr *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	checks := map[string]handler.ReadinessCheck{}

	store, audit, db, err := openStore(cfg, logr)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		checks["database"] = func(ctx context.Context) error { return database.Ping(ctx, db) }
	}

	if cfg.Store.SeedDemo {
		n, err := repository.Seed(ctx, store, repository.DemoSubmissions())
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		logr.Info("demo submissions seeded", zap.Int("inserted", n))
	}

	metrics := service.NewMetricsService()

	cacheRepo, closeCache, err := openCache(cfg, logr)
	if err != nil {
		return err
	}
	defer closeCache()
	if redisRepo, ok := cacheRepo.(*repository.CacheRepository); ok {
		checks["redis"] = redisRepo.Ping
	}
	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Cache.TTL, logr, cfg.Cache.Enabled)

	codec, err := newCodec(cfg.Token)
	if err != nil {
		return err
	}
	if cfg.Token.Mode == config.TokenModeLegacy {
		logr.Warn("legacy token mode enabled; tokens are not signed")
	}

	validate := validator.New()
	authSvc := service.NewAuthService(adminCredentials(cfg.Admins), codec, validate, logr, metrics)
	intakeSvc := service.NewIntakeService(store, cacheSvc, metrics, logr)
	searchSvc := service.NewSubmissionService(store, cacheSvc, validate, logr)
	annotationSvc := service.NewAnnotationService(store, audit, cacheSvc, metrics, validate, logr, service.AnnotationConfig{
		Latency: cfg.Annotation.Latency,
	})
	var exportSvc *service.ExportService
	if cfg.Features.Exports {
		exportSvc = service.NewExportService(store, metrics, logr)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	if cfg.Features.Metrics {
		r.Use(middleware.Metrics(metrics))
	}

	handler.Register(r, handler.Routes{
		Prefix:        cfg.APIPrefix,
		Auth:          authSvc,
		AuthHandler:   handler.NewAuthHandler(authSvc),
		Submissions:   handler.NewSubmissionHandler(intakeSvc, searchSvc, annotationSvc, exportSvc),
		Forms:         handler.NewFormHandler(),
		Metrics:       handler.NewMetricsHandler(metrics, checks),
		EnableMetrics: cfg.Features.Metrics,
		EnableExports: cfg.Features.Exports,
		LegacyAliases: cfg.Features.LegacyAliases,
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logr.Info("server starting", zap.String("addr", srv.Addr), zap.String("env", cfg.Env), zap.String("store", cfg.Store.Driver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func openStore(cfg *config.Config, logr *zap.Logger) (submissionStore, auditStore, *sqlx.DB, error) {
	if cfg.Store.Driver != config.StorePostgres {
		return repository.NewMemorySubmissionRepository(), repository.NewMemoryAuditRepository(), nil, nil
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("connect postgres: %w", err)
	}
	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db, logr); err != nil {
			_ = db.Close()
			return nil, nil, nil, err
		}
	}
	return repository.NewSubmissionRepository(db), repository.NewAuditRepository(db), db, nil
}

// openCache prefers Redis and falls back to the in-process LRU when no host is configured.
func openCache(cfg *config.Config, logr *zap.Logger) (service.CacheRepository, func(), error) {
	client, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		return nil, nil, err
	}
	if client == nil {
		logr.Info("redis not configured, using in-process cache", zap.Int("size", cfg.Cache.LocalSize))
		return repository.NewLocalCacheRepository(cfg.Cache.LocalSize, cfg.Cache.TTL), func() {}, nil
	}
	repo := repository.NewCacheRepository(client, logr)
	return repo, func() { _ = repo.Close() }, nil
}

func newCodec(cfg config.TokenConfig) (token.Codec, error) {
	if cfg.Mode == config.TokenModeLegacy {
		return token.NewLegacyCodec(cfg.Expiration, nil), nil
	}
	return token.NewJWTCodec(cfg.Secret, cfg.Expiration, cfg.Issuer, nil)
}

func adminCredentials(users []config.AdminUser) []models.AdminCredential {
	out := make([]models.AdminCredential, 0, len(users))
	for _, u := range users {
		out = append(out, models.AdminCredential{
			ID:       u.ID,
			Username: u.Username,
			Password: u.Password,
			Name:     u.Name,
			Role:     models.AdminRole(u.Role),
		})
	}
	return out
}
