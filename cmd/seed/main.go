package main

import (
	"context"
	"errors"
	"time"

	"github.com/elwarcha/gallery/internal/cache"
	"github.com/elwarcha/gallery/internal/config"
	"github.com/elwarcha/gallery/internal/constants"
	"github.com/elwarcha/gallery/internal/logger"
	"github.com/elwarcha/gallery/internal/models"
	"github.com/elwarcha/gallery/internal/repository"
	"github.com/elwarcha/gallery/internal/service"

	"gorm.io/gorm"
)

type seedPainting struct {
	input  service.PaintingInput
	artist string
	style  string
	tech   string
}

func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	defer logger.Sync()
	stdLog := logger.StdLogger()

	db, err := models.OpenDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}, false)
	if err != nil {
		stdLog.Fatalf("open database: %v", err)
	}
	if err := models.AutoMigrate(db); err != nil {
		stdLog.Fatalf("migrate database: %v", err)
	}
	if err := models.EnsureAdmin(db, cfg.Admin.Email, cfg.Admin.Password); err != nil {
		stdLog.Fatalf("ensure admin: %v", err)
	}

	store := cache.New(&cfg.Redis)
	defer store.Close()
	retry := models.NewRetryPolicy(cfg.Database.Retry.MaxRetries, cfg.Database.Retry.BaseDelay())
	paintingRepo := repository.NewPaintingRepository(db)
	taxonomyRepo := repository.NewTaxonomyRepository(db)
	catalog := service.NewCatalogService(paintingRepo, taxonomyRepo, store, cfg.Catalog, retry)
	catalogAdmin := service.NewCatalogAdminService(db, paintingRepo, taxonomyRepo, catalog, retry)
	discountRepo := repository.NewDiscountRepository(db)
	discounts := service.NewDiscountAdminService(discountRepo, service.NewDiscountService(discountRepo, retry), retry)

	ctx := context.Background()
	artists := map[string]uint{}
	for _, name := range []string{"Farid Belkahia", "Chaïbia Tallal", "Mohamed Melehi"} {
		id, err := findOrCreate(db, &models.Artist{}, name, func() (uint, error) {
			created, err := catalogAdmin.CreateArtist(ctx, service.TaxonomyInput{Name: name})
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
		if err != nil {
			stdLog.Fatalf("seed artist %s: %v", name, err)
		}
		artists[name] = id
	}
	styles := map[string]uint{}
	for _, name := range []string{"Abstrait", "Figuratif", "Calligraphie"} {
		id, err := findOrCreate(db, &models.Style{}, name, func() (uint, error) {
			created, err := catalogAdmin.CreateStyle(ctx, service.TaxonomyInput{Name: name})
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
		if err != nil {
			stdLog.Fatalf("seed style %s: %v", name, err)
		}
		styles[name] = id
	}
	techniques := map[string]uint{}
	for _, name := range []string{"Huile sur toile", "Acrylique", "Technique mixte"} {
		id, err := findOrCreate(db, &models.Technique{}, name, func() (uint, error) {
			created, err := catalogAdmin.CreateTechnique(ctx, service.TaxonomyInput{Name: name})
			if err != nil {
				return 0, err
			}
			return created.ID, nil
		})
		if err != nil {
			stdLog.Fatalf("seed technique %s: %v", name, err)
		}
		techniques[name] = id
	}

	for _, item := range seedPaintings() {
		var count int64
		if err := db.Model(&models.Painting{}).Where("title = ?", item.input.Title).Count(&count).Error; err != nil {
			stdLog.Fatalf("check painting %s: %v", item.input.Title, err)
		}
		if count > 0 {
			logger.Infow("seed_painting_exists", "title", item.input.Title)
			continue
		}
		input := item.input
		input.ArtistID = artists[item.artist]
		styleID, techID := styles[item.style], techniques[item.tech]
		input.StyleID = &styleID
		input.TechniqueID = &techID
		painting, err := catalogAdmin.CreatePainting(ctx, input)
		if err != nil {
			stdLog.Fatalf("seed painting %s: %v", input.Title, err)
		}
		logger.Infow("seed_painting_created", "painting_id", painting.ID, "title", painting.Title)
	}

	startsAt := time.Now().UTC()
	endsAt := startsAt.AddDate(0, 3, 0)
	_, err = discounts.Create(ctx, service.DiscountInput{Code: "BIENVENUE10", Percent: 10, StartsAt: &startsAt, EndsAt: &endsAt})
	switch {
	case err == nil:
		logger.Infow("seed_discount_created", "code", "BIENVENUE10")
	case errors.Is(err, service.ErrDiscountExists):
		logger.Infow("seed_discount_exists", "code", "BIENVENUE10")
	default:
		stdLog.Fatalf("seed discount: %v", err)
	}

	logger.Infow("seed_done")
}

// findOrCreate returns the id of the named row of model, creating it when
// missing.
func findOrCreate(db *gorm.DB, model interface{}, name string, create func() (uint, error)) (uint, error) {
	var ids []uint
	if err := db.Model(model).Where("LOWER(name) = LOWER(?)", name).Limit(1).Pluck("id", &ids).Error; err != nil {
		return 0, err
	}
	if len(ids) > 0 {
		return ids[0], nil
	}
	return create()
}

func seedPaintings() []seedPainting {
	available := true
	return []seedPainting{
		{
			input: service.PaintingInput{
				Title:       "Médina au crépuscule",
				Description: "Les ruelles de Fès sous une lumière d'ambre.",
				Kind:        constants.PaintingKindUnique,
				PriceMAD:    8500,
				WidthCm:     80,
				HeightCm:    100,
				Orientation: constants.OrientationPortrait,
				Available:   &available,
				Images:      []service.PaintingImageInput{{URL: "https://cdn.elwarcha.ma/paintings/medina.jpg"}},
			},
			artist: "Farid Belkahia", style: "Figuratif", tech: "Huile sur toile",
		},
		{
			input: service.PaintingInput{
				Title:         "Vagues de l'Atlas",
				Description:   "Rythmes et couleurs inspirés des montagnes.",
				Kind:          constants.PaintingKindRecreatable,
				PriceMAD:      3200,
				WidthCm:       60,
				HeightCm:      60,
				Orientation:   constants.OrientationSquare,
				Available:     &available,
				LeadTimeWeeks: "3 à 4 semaines",
				Images:        []service.PaintingImageInput{{URL: "https://cdn.elwarcha.ma/paintings/atlas.jpg"}},
				RecreationOptions: []service.RecreationOptionInput{
					{WidthCm: 40, HeightCm: 40, PriceMAD: 1800},
					{WidthCm: 100, HeightCm: 100, PriceMAD: 5200},
				},
			},
			artist: "Mohamed Melehi", style: "Abstrait", tech: "Acrylique",
		},
		{
			input: service.PaintingInput{
				Title:       "Lettres du désert",
				Description: "Calligraphie libre sur fond ocre.",
				Kind:        constants.PaintingKindRecreatable,
				PriceMAD:    2400,
				WidthCm:     70,
				HeightCm:    50,
				Orientation: constants.OrientationLandscape,
				Available:   &available,
				Images:      []service.PaintingImageInput{{URL: "https://cdn.elwarcha.ma/paintings/lettres.jpg"}},
				RecreationOptions: []service.RecreationOptionInput{
					{WidthCm: 35, HeightCm: 25, PriceMAD: 1200},
				},
			},
			artist: "Chaïbia Tallal", style: "Calligraphie", tech: "Technique mixte",
		},
	}
}
