package app

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/phenrril/cabinetry/internal/adapters/httpserver"
	"github.com/phenrril/cabinetry/internal/adapters/repo/postgres"
	"github.com/phenrril/cabinetry/internal/config"
	"github.com/phenrril/cabinetry/internal/domain"
	"github.com/phenrril/cabinetry/internal/usecase"
)

type App struct {
	DB        *gorm.DB
	Config    *config.Config
	CatalogUC *usecase.CatalogUC
	ProjectUC *usecase.ProjectUC
	GridUC    *usecase.GridUC
}

func NewApp(db *gorm.DB, cfg *config.Config) *App {
	catalogRepo := postgres.NewCatalogRepo(db)
	projectRepo := postgres.NewProjectRepo(db)
	roomRepo := postgres.NewRoomRepo(db)
	cabinetRepo := postgres.NewCabinetRepo(db)
	custRepo := postgres.NewCustomerRepo(db)

	app := &App{DB: db, Config: cfg}
	app.CatalogUC = &usecase.CatalogUC{Types: catalogRepo}
	app.ProjectUC = &usecase.ProjectUC{
		Projects:  projectRepo,
		Rooms:     roomRepo,
		Cabinets:  cabinetRepo,
		Catalog:   catalogRepo,
		Customers: custRepo,
	}
	app.GridUC = &usecase.GridUC{
		Catalog:      catalogRepo,
		Rooms:        roomRepo,
		Cabinets:     cabinetRepo,
		WriteTimeout: cfg.Grid.WriteTimeout,
	}
	return app
}

func (a *App) HTTPHandler() http.Handler {
	return httpserver.New(a.Config, a.CatalogUC, a.ProjectUC, a.GridUC)
}

func (a *App) MigrateAndSeed(ctx context.Context) error {
	if err := a.DB.WithContext(ctx).AutoMigrate(
		&domain.Customer{}, &domain.CabinetType{}, &domain.Project{}, &domain.Room{}, &domain.Wall{}, &domain.Cabinet{},
	); err != nil {
		return err
	}

	_ = a.DB.Exec("CREATE UNIQUE INDEX IF NOT EXISTS idx_cabinet_types_name_lower ON cabinet_types (lower(name))").Error
	_ = a.DB.Exec("CREATE INDEX IF NOT EXISTS idx_cabinets_wall_x ON cabinets (wall_id, grid_start_x)").Error
	_ = a.DB.Exec("UPDATE projects SET status = 'draft' WHERE status IS NULL OR status = ''").Error

	n, err := a.CatalogUC.Seed(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		log.Info().Int("tipos", n).Msg("catálogo inicial cargado")
	}
	return nil
}

// StartSweeper cierra periódicamente las sesiones de grilla inactivas hasta que ctx termine.
func (a *App) StartSweeper(ctx context.Context) {
	interval := a.Config.Grid.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				a.GridUC.Sweep(a.Config.Grid.SessionIdleTimeout)
			}
		}
	}()
}
