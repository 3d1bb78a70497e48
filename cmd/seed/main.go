package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/stationeryworks/stationery-backend/internal/catalog"
	"github.com/stationeryworks/stationery-backend/pkg/config"
	"github.com/stationeryworks/stationery-backend/pkg/db"
	pkgerrors "github.com/stationeryworks/stationery-backend/pkg/errors"
	"github.com/stationeryworks/stationery-backend/pkg/logger"
	"github.com/stationeryworks/stationery-backend/pkg/migrate"
)

func strPtr(s string) *string { return &s }

// seed loads a small demo catalog for local development. Reruns are safe:
// duplicate names come back as conflicts and are skipped.
func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	if cfg.App.IsProd() {
		logg.Error(context.Background(), "refusing to seed a production database", nil)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	svc, err := catalog.NewService(catalog.NewRepository(dbClient.DB()))
	if err != nil {
		logg.Error(ctx, "failed to create catalog service", err)
		os.Exit(1)
	}

	categories := []catalog.CategoryInput{
		{Name: "Notebooks", Description: strPtr("Ruled, unruled and long books")},
		{Name: "Writing Instruments", Description: strPtr("Pens, pencils and refills")},
		{Name: "Office Supplies", Description: strPtr("Files, folders and desk items")},
	}
	for _, input := range categories {
		if _, err := svc.CreateCategory(ctx, input); err != nil && !isConflict(err) {
			logg.Error(ctx, "failed to seed category", err)
			os.Exit(1)
		}
	}

	brands := []catalog.BrandInput{
		{Name: "Classmate"},
		{Name: "Cello"},
		{Name: "Apsara"},
	}
	for _, input := range brands {
		if _, err := svc.CreateBrand(ctx, input); err != nil && !isConflict(err) {
			logg.Error(ctx, "failed to seed brand", err)
			os.Exit(1)
		}
	}

	products := []catalog.ProductInput{
		{
			CategoryCode: "CAT001", BrandCode: "BRD001",
			Name: "Classmate Single Line Notebook 172p",
			MRP:  decimal.NewFromInt(60), Price: decimal.NewFromInt(48),
			PackSize: 12, UOM: "DOZEN", MinOrderQty: 5, Stock: 400,
			IsFeatured: true,
		},
		{
			CategoryCode: "CAT002", BrandCode: "BRD002",
			Name: "Cello Butterflow Ball Pen Blue",
			MRP:  decimal.NewFromInt(10), Price: decimal.NewFromInt(7),
			PackSize: 50, UOM: "BOX", MinOrderQty: 2, Stock: 1000,
			IsFeatured: true,
		},
		{
			CategoryCode: "CAT002", BrandCode: "BRD003",
			Name: "Apsara Platinum Extra Dark Pencil",
			MRP:  decimal.NewFromInt(5), Price: decimal.NewFromInt(3),
			PackSize: 100, UOM: "BOX", MinOrderQty: 1, Stock: 2500,
		},
	}
	for _, input := range products {
		if _, err := svc.CreateProduct(ctx, input); err != nil && !isConflict(err) {
			logg.Error(ctx, "failed to seed product", err)
			os.Exit(1)
		}
	}

	logg.Info(ctx, "catalog seed complete")
}

func isConflict(err error) bool {
	if appErr := pkgerrors.As(err); appErr != nil {
		return appErr.Code() == pkgerrors.CodeConflict
	}
	return false
}
