// seed carga el directorio de usuarios en PostgreSQL (passwords hasheados con bcrypt)
// y, opcionalmente, artículos de demostración.
//
// Uso: seed [--items N]
// Usa la misma configuración que el servidor (DATABASE_URL o DB_*).
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/urfave/cli/v2"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/magazyn/magazyn/internal/application/auth"
	"github.com/magazyn/magazyn/internal/domain/entity"
	"github.com/magazyn/magazyn/internal/infrastructure/postgres"
	"github.com/magazyn/magazyn/pkg/config"
	"github.com/magazyn/magazyn/pkg/logger"
)

func main() {
	app := &cli.App{
		Name:  "seed",
		Usage: "semilla del directorio de usuarios de magazyn",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "items", Usage: "artículos de demostración a generar", Value: 0},
			&cli.IntFlag{Name: "cost", Usage: "costo bcrypt", Value: bcrypt.DefaultCost},
		},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "seed: %v\n", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
	ctx := c.Context

	if _, err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		return err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	defer pool.Close()
	runner := postgres.NewTxRunner(pool)

	users, err := auth.HashSeed(auth.DefaultSeed(), c.Int("cost"))
	if err != nil {
		return err
	}
	if err := postgres.SeedUsers(ctx, runner, users); err != nil {
		return err
	}
	log.Info().Int("users", len(users)).Msg("directorio cargado")

	if n := c.Int("items"); n > 0 {
		if err := seedItems(ctx, runner, n, users[0].ID); err != nil {
			return err
		}
		log.Info().Int("items", n).Msg("artículos de demostración cargados")
	}
	return nil
}

// seedItems genera artículos con datos aleatorios; los códigos llevan prefijo DEMO-.
func seedItems(ctx context.Context, runner *postgres.TxRunner, n int, createdBy int64) error {
	categories := entity.Categories()
	units := entity.Units()
	title := cases.Title(language.Polish)
	run := newRunID()
	return runner.Run(ctx, func(q postgres.Querier) error {
		repo := postgres.NewItemRepository(q)
		for i := 0; i < n; i++ {
			price := decimal.NewFromFloat(gofakeit.Price(1, 500)).Round(2)
			item := &entity.Item{
				Name:        title.String(gofakeit.Noun()) + " " + gofakeit.LetterN(3),
				Code:        demoCode(run, i),
				Description: gofakeit.Sentence(6),
				Category:    categories[gofakeit.Number(0, len(categories)-1)],
				Quantity:    gofakeit.Number(0, 40),
				Unit:        units[gofakeit.Number(0, len(units)-1)],
				SalePrice:   &price,
				CreatedBy:   createdBy,
			}
			if err := repo.Create(ctx, item); err != nil {
				return fmt.Errorf("artículo %s: %w", item.Code, err)
			}
		}
		return nil
	})
}

// newRunID prefijo por ejecución: los códigos no chocan con ejecuciones anteriores.
func newRunID() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// demoCode código único dentro de una ejecución.
func demoCode(run string, i int) string {
	return fmt.Sprintf("DEMO-%s-%04d", run, i+1)
}
