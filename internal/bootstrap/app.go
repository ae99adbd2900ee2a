package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"profile-backend/internal/experiences"
	"profile-backend/internal/export"
	"profile-backend/internal/friends"
	"profile-backend/internal/media"
	"profile-backend/internal/messages"
	"profile-backend/internal/profiles"
	"profile-backend/internal/services/health"
	"profile-backend/internal/shared/config"
	"profile-backend/internal/shared/server"
	"profile-backend/internal/shared/storage/db"
	"profile-backend/internal/shared/storage/object"
	localstore "profile-backend/internal/shared/storage/object/local"
	s3store "profile-backend/internal/shared/storage/object/s3"
	"profile-backend/internal/shared/telemetry"
	"profile-backend/profiledoc/model"
)

// App holds shared dependencies and the HTTP router.
type App struct {
	Config config.Config
	Router *gin.Engine
	DB     *sql.DB
	Store  object.ObjectStore

	Media       *media.Service
	Profiles    *profiles.Service
	Experiences *experiences.Service
	Friends     *friends.Service
	Messages    *messages.Service
	Export      *export.Pipeline
}

// Build prepares dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
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

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config: cfg,
		Health: health.NewService(sqlDB),
		Handlers: []server.RouteRegistrar{
			media.NewHandler(app.Media),
			profiles.NewHandler(app.Profiles),
			experiences.NewHandler(app.Experiences),
			friends.NewHandler(app.Friends),
			messages.NewHandler(app.Messages),
			export.NewHandler(app.Export),
		},
	})

	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Info("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Error("bootstrap.db_connect_failed", map[string]any{"error": err.Error(), "fallback": "memory"})
			return nil, nil
		}
		return nil, err
	}

	if isDevLike(cfg.Env) {
		if err := db.RunMigrations(ctx, sqlDB); err != nil {
			return nil, err
		}
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

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

func buildServices(app *App) {
	var (
		profileRepo    profiles.Repo
		experienceRepo experiences.Repo
		friendRepo     friends.Repo
		messageRepo    messages.Repo
	)
	if app.DB != nil {
		profileRepo = &profiles.PGRepo{DB: app.DB}
		experienceRepo = &experiences.PGRepo{DB: app.DB}
		friendRepo = &friends.PGRepo{DB: app.DB}
		messageRepo = &messages.PGRepo{DB: app.DB}
	} else {
		profileRepo = profiles.NewMemoryRepo()
		experienceRepo = experiences.NewMemoryRepo()
		friendRepo = friends.NewMemoryRepo()
		messageRepo = messages.NewMemoryRepo()
	}

	cfg := app.Config
	app.Media = media.NewService(app.Store, cfg.MediaBaseURL, cfg.UploadMaxBytes)
	app.Profiles = profiles.NewService(profileRepo, app.Media)
	app.Experiences = experiences.NewService(experienceRepo, app.Profiles, app.Media)
	app.Friends = friends.NewService(friendRepo, app.Profiles)
	app.Profiles.Friends = app.Friends
	app.Messages = messages.NewService(messageRepo, app.Profiles)

	exportCfg := ExportConfig(cfg)
	app.Export = export.NewPipeline(
		profileReader{svc: app.Profiles},
		experienceLister{repo: experienceRepo},
		export.NewSourceFetcher(app.Store, exportCfg),
		exportCfg,
	)
}

// ExportConfig maps application settings onto the export pipeline.
func ExportConfig(cfg config.Config) export.Config {
	return export.Config{
		ProfileTimeout:    cfg.Export.ProfileTimeout,
		ExperienceTimeout: cfg.Export.ExperienceTimeout,
		ImageTimeout:      cfg.Export.ImageTimeout,
		MaxImageBytes:     cfg.Export.MaxImageBytes,
		Filename:          cfg.Export.Filename,
		MediaBaseURL:      cfg.MediaBaseURL,
	}
}

// profileReader adapts the profiles service to the export pipeline.
type profileReader struct {
	svc *profiles.Service
}

func (r profileReader) GetProfile(ctx context.Context, id string) (model.ProfileRecord, error) {
	p, err := r.svc.Get(ctx, id)
	if err != nil {
		if errors.Is(err, profiles.ErrNotFound) {
			return model.ProfileRecord{}, export.ErrProfileNotFound
		}
		return model.ProfileRecord{}, err
	}
	return model.ProfileRecord{
		ID:      p.ID,
		Name:    p.Name,
		Surname: p.Surname,
		Bio:     p.Bio,
		Image:   p.Image,
	}, nil
}

// experienceLister reads experiences straight from the repository; the
// profile lookup runs alongside it.
type experienceLister struct {
	repo experiences.Repo
}

func (l experienceLister) ListExperiences(ctx context.Context, profileID string) ([]model.ExperienceRecord, error) {
	items, err := l.repo.List(ctx, profileID)
	if err != nil {
		return nil, err
	}
	out := make([]model.ExperienceRecord, 0, len(items))
	for _, e := range items {
		out = append(out, model.ExperienceRecord{
			ID:          e.ID,
			ProfileID:   e.ProfileID,
			Role:        e.Role,
			Company:     e.Company,
			Description: e.Description,
			Area:        e.Area,
			StartDate:   e.StartDate,
			EndDate:     e.EndDate,
		})
	}
	return out, nil
}
