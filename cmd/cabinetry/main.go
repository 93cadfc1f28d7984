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

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/phenrril/cabinetry/internal/adapters/spreadsheet"
	"github.com/phenrril/cabinetry/internal/app"
	"github.com/phenrril/cabinetry/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cabinetry",
		Short:         "Servicio de diseño de muebles de cocina por pared",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd(), newMigrateCmd(), newExportCutListCmd())
	return root
}

func setup() (*config.Config, *app.App, error) {
	cfg := config.Load()
	setupLogger(cfg.Logging)
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	db, err := gorm.Open(postgres.Open(cfg.Database.DSNString()), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, nil, fmt.Errorf("conectar a la base: %w", err)
	}
	return cfg, app.NewApp(db, cfg), nil
}

func setupLogger(c config.LoggingConfig) {
	zerolog.TimeFieldFormat = time.RFC3339
	if c.Pretty {
		zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen})
	}
	lvl, err := zerolog.ParseLevel(c.Level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func fail(err error) error {
	zlog.Error().Err(err).Msg("cabinetry")
	return err
}

func newServeCmd() *cobra.Command {
	var skipMigrate bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Levanta la API HTTP y el canal websocket de grilla",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, application, err := setup()
			if err != nil {
				return fail(err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !skipMigrate {
				if err := application.MigrateAndSeed(ctx); err != nil {
					return fail(fmt.Errorf("migrar: %w", err))
				}
			}
			application.StartSweeper(ctx)

			server := &http.Server{
				Addr:         ":" + cfg.Server.Port,
				Handler:      application.HTTPHandler(),
				ReadTimeout:  cfg.Server.ReadTimeout,
				WriteTimeout: cfg.Server.WriteTimeout,
				IdleTimeout:  cfg.Server.IdleTimeout,
			}
			errCh := make(chan error, 1)
			go func() {
				zlog.Info().Str("addr", server.Addr).Str("env", cfg.Server.Environment).Msg("servidor escuchando")
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case err := <-errCh:
				if err != nil {
					return fail(err)
				}
			case <-ctx.Done():
			}
			zlog.Info().Msg("apagando servidor")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "no correr AutoMigrate al iniciar")
	return cmd
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Crea/actualiza las tablas y carga el catálogo inicial",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, application, err := setup()
			if err != nil {
				return fail(err)
			}
			if err := application.MigrateAndSeed(cmd.Context()); err != nil {
				return fail(err)
			}
			zlog.Info().Msg("migración completa")
			return nil
		},
	}
}

func newExportCutListCmd() *cobra.Command {
	var projectID, out string
	cmd := &cobra.Command{
		Use:   "export-cutlist",
		Short: "Exporta el cut list de un proyecto a xlsx",
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(projectID)
			if err != nil {
				return fail(fmt.Errorf("--project inválido: %w", err))
			}
			_, application, err := setup()
			if err != nil {
				return fail(err)
			}
			p, rows, err := application.ProjectUC.CutList(cmd.Context(), id)
			if err != nil {
				return fail(err)
			}
			if out == "" {
				out = "cutlist-" + id.String()[:8] + ".xlsx"
			}
			f, err := os.Create(out)
			if err != nil {
				return fail(err)
			}
			defer f.Close()
			if err := spreadsheet.WriteCutList(f, p, rows); err != nil {
				return fail(err)
			}
			zlog.Info().Str("project", p.Name).Int("filas", len(rows)).Str("out", out).Msg("cut list exportado")
			return nil
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "id del proyecto")
	cmd.Flags().StringVarP(&out, "out", "o", "", "archivo de salida")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}
