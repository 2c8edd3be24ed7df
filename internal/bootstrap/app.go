package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"bookstore-admin/internal/assets"
	"bookstore-admin/internal/books"
	"bookstore-admin/internal/forms"
	"bookstore-admin/internal/queue"
	"bookstore-admin/internal/services/health"
	"bookstore-admin/internal/shared/config"
	"bookstore-admin/internal/shared/server"
	"bookstore-admin/internal/shared/server/middleware"
	"bookstore-admin/internal/shared/storage/db"
	"bookstore-admin/internal/shared/storage/object"
	localstore "bookstore-admin/internal/shared/storage/object/local"
	s3store "bookstore-admin/internal/shared/storage/object/s3"
	"bookstore-admin/internal/shared/telemetry"
	"bookstore-admin/internal/submission"
)

const defaultRegion = "us-east-1"

// App holds shared dependencies and the wired router.
type App struct {
	Config        config.Config
	Router        *gin.Engine
	DB            *sql.DB
	Store         object.ObjectStore
	Queue         queue.Client
	Orphans       submission.OrphanReporter
	AssetsRepo    assets.Repo
	BooksRepo     books.Repo
	AssetsService *assets.Service
	BooksService  *books.Service
	Forms         *forms.Store
	AssetsHandler *assets.Handler
	BooksHandler  *books.Handler
	FormsHandler  *forms.Handler
	Health        *health.Service
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	if strings.TrimSpace(cfg.AWSRegion) == "" {
		cfg.AWSRegion = defaultRegion
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	queueClient, err := buildQueue(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
		Queue:  queueClient,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        app.Config,
		AssetsHandler: app.AssetsHandler,
		BooksHandler:  app.BooksHandler,
		FormsHandler:  app.FormsHandler,
		Health:        app.Health,
		RateLimiter:   middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// RunBackground starts the form-session janitor. It returns when ctx is done.
func (a *App) RunBackground(ctx context.Context) {
	interval := a.Config.FormSessionTTL / 4
	if interval <= 0 || interval > 5*time.Minute {
		interval = 5 * time.Minute
	}
	a.Forms.Run(ctx, interval)
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "error": err})
			return nil, nil
		}
		return nil, err
	}

	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildQueue(ctx context.Context, cfg config.Config) (queue.Client, error) {
	if strings.TrimSpace(cfg.CatalogQueueURL) == "" {
		return nil, nil
	}
	return queue.NewSQSClient(ctx, cfg.AWSRegion, cfg.CatalogQueueURL)
}

func buildServices(app *App) {
	if app.DB != nil {
		app.AssetsRepo = &assets.PGRepo{DB: app.DB}
		app.BooksRepo = &books.PGRepo{DB: app.DB}
	} else {
		app.AssetsRepo = assets.NewMemoryRepo()
		app.BooksRepo = books.NewMemoryRepo()
	}

	app.AssetsService = &assets.Service{
		Store:            app.Store,
		Repo:             app.AssetsRepo,
		MaxImageBytes:    app.Config.MaxImageBytes,
		MaxDocumentBytes: app.Config.MaxDocumentBytes,
	}
	app.BooksService = &books.Service{
		Repo:   app.BooksRepo,
		Assets: app.AssetsService,
	}

	if app.Queue != nil {
		app.Orphans = &queue.OrphanReporter{Client: app.Queue}
	} else {
		app.Orphans = forms.DirectOrphans{Assets: app.AssetsService}
	}

	app.Forms = forms.NewStore(app.Config.FormSessionTTL, forms.InProcessDeps(app.AssetsService, app.BooksService, app.Orphans))

	var dbPinger health.Pinger
	if app.DB != nil {
		dbPinger = app.DB
	}
	app.Health = health.NewService(dbPinger, health.PingFunc(app.Store.Ping))

	maxAttachment := app.Config.MaxDocumentBytes
	if app.Config.MaxImageBytes > maxAttachment {
		maxAttachment = app.Config.MaxImageBytes
	}
	app.AssetsHandler = assets.NewHandler(app.AssetsService)
	app.BooksHandler = books.NewHandler(app.BooksService)
	app.FormsHandler = forms.NewHandler(app.Forms, maxAttachment)
}
