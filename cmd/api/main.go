package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/magazyn/magazyn/internal/application/auth"
	appinv "github.com/magazyn/magazyn/internal/application/inventory"
	"github.com/magazyn/magazyn/internal/domain/repository"
	"github.com/magazyn/magazyn/internal/infrastructure/memory"
	infrapdf "github.com/magazyn/magazyn/internal/infrastructure/pdf"
	"github.com/magazyn/magazyn/internal/infrastructure/postgres"
	infras3 "github.com/magazyn/magazyn/internal/infrastructure/s3"
	httpRouter "github.com/magazyn/magazyn/internal/interfaces/http"
	"github.com/magazyn/magazyn/internal/task"
	"github.com/magazyn/magazyn/pkg/config"
	"github.com/magazyn/magazyn/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.DB.Driver).
		Str("images", cfg.Storage.Provider).
		Msg("iniciando aplicación")
	if cfg.JWT.DevSecret {
		log.Warn().Msg("JWT_SECRET no definido: se usa el secreto público de desarrollo, no apto para producción")
	}

	ctx := context.Background()

	var (
		userRepo repository.UserRepository
		itemRepo repository.ItemRepository
	)
	switch cfg.DB.Driver {
	case config.StorePostgres:
		if cfg.DB.AutoMigrate {
			applied, err := postgres.Migrate(cfg.DB.ConnectionString())
			if err != nil {
				log.Fatal().Err(err).Msg("migraciones")
			}
			log.Info().Bool("applied", applied).Msg("migraciones verificadas")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		userRepo = postgres.NewUserRepository(pool)
		itemRepo = postgres.NewItemRepository(pool)
	default:
		dir, err := memory.NewUserDirectory(auth.DefaultSeed(), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal().Err(err).Msg("directorio de usuarios")
		}
		userRepo = dir
		itemRepo = memory.NewItemRepository()
		log.Warn().Msg("STORE_DRIVER=memory: el catálogo se pierde al reiniciar")
	}

	var images repository.ImageStore
	switch cfg.Storage.Provider {
	case config.ImageStoreS3:
		s3Store, err := infras3.NewImageStore(ctx, cfg.Storage)
		if err != nil {
			log.Fatal().Err(err).Msg("almacenamiento S3")
		}
		images = s3Store
	default:
		images = memory.NewImageStore()
	}

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	}, log.Named("auth"))

	// PDF: reporte de inventario para administradores
	reportGenerator := infrapdf.NewReportGenerator(cfg.App.Name)
	itemUC := appinv.NewItemUseCase(itemRepo, images, reportGenerator, cfg.Storage.ImageMaxBytes, log.Named("inventory"))

	watcher := task.NewStockWatcher(itemUC, cfg.Tasks.StockWatchCron, log)
	if err := watcher.Start(); err != nil {
		log.Fatal().Err(err).Msg("stock watcher")
	}

	app := httpRouter.NewApp(httpRouter.AppConfig{
		Name:          cfg.App.Name,
		ReadTimeout:   cfg.HTTP.ReadTimeout,
		ImageMaxBytes: cfg.Storage.ImageMaxBytes,
		DocsPath:      cfg.App.DocsPath,
		Log:           log.Named("http"),
	})
	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:    authUC,
		ItemUC:    itemUC,
		JWTSecret: cfg.JWT.Secret,
		Log:       log,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	watcher.Stop()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
