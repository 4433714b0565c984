package main

import (
	"net/http"

	"github.com/joho/godotenv"

	"github.com/lunamart/catalog-service/app/auth"
	"github.com/lunamart/catalog-service/app/catalog"
	"github.com/lunamart/catalog-service/app/products"
	"github.com/lunamart/catalog-service/config"
	"github.com/lunamart/catalog-service/models"
	"github.com/lunamart/catalog-service/pkg/logx"
	"github.com/lunamart/catalog-service/server"
	"github.com/lunamart/catalog-service/uploads"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logx.Warn().Err(err).Msg("could not load .env file")
	}

	cfg, err := config.Load()
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to load config")
	}
	logx.Init(cfg.IsProduction())

	db, err := models.Open(cfg.Database)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to open database")
	}

	if err := models.ImportLegacyCatalog(db, cfg.LegacyCatalog); err != nil {
		logx.Fatal().Err(err).Str("path", cfg.LegacyCatalog).Msg("failed to import legacy catalog")
	}

	imageStore, err := uploads.NewStore(cfg.PublicDir)
	if err != nil {
		logx.Fatal().Err(err).Msg("failed to set up uploads directory")
	}

	repo := models.NewCatalogRepository(db)
	srv := server.New(
		catalog.NewCatalogHandler(repo),
		products.NewProductsHandler(repo, imageStore),
		auth.NewAuthHandler(cfg.AdminSecret),
		cfg.PublicDir,
		imageStore.Dir(),
	)

	logx.Info().Str("addr", cfg.Addr).Str("driver", cfg.Database.Driver).Msg("catalog service listening")
	if err := http.ListenAndServe(cfg.Addr, srv); err != nil {
		logx.Fatal().Err(err).Msg("server stopped")
	}
}
