package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"

	"github.com/scicatproject/sciwyrm/internal/api"
	"github.com/scicatproject/sciwyrm/internal/config"
	"github.com/scicatproject/sciwyrm/internal/logging"
	"github.com/scicatproject/sciwyrm/internal/notebook"
	"github.com/scicatproject/sciwyrm/internal/schema"
	"github.com/scicatproject/sciwyrm/internal/services"
	"github.com/scicatproject/sciwyrm/internal/template"
	"github.com/scicatproject/sciwyrm/internal/tls"
)

func main() {
	logger := logging.NewLogger()

	settingsFile := flag.String("settings", "", "Path to JSON settings file")
	flag.Parse()

	cfg, err := config.LoadConfig(*settingsFile)
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		log.Fatalf("configuration loading failed: %v", err)
	}
	logger.Info("configuration loaded",
		"template_dir", cfg.TemplateDir,
		"address", cfg.Server.Address,
		"tls", cfg.TLS.Enable,
	)

	// Wire the rendering pipeline. Components get their collaborators
	// explicitly so tests can assemble them against a different root.
	store := template.NewStore(logger)
	validator := schema.NewValidator()
	renderer := notebook.NewRenderer(store, logger)
	svc := services.NewNotebookService(store, validator, renderer, cfg.TemplateDir, logger)

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(otelecho.Middleware("sciwyrm"))

	handler := api.NewHandler(svc, logger)
	handler.Register(e)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      e,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("server starting", "address", cfg.Server.Address, "tls", cfg.TLS.Enable)
		if cfg.TLS.Enable {
			if cfg.TLS.CertFile == "" || cfg.TLS.KeyFile == "" {
				logger.Error("TLS enabled but cert/key file not provided")
				serverErrors <- server.ListenAndServe()
				return
			}
			if _, err := os.Stat(cfg.TLS.CertFile); os.IsNotExist(err) {
				if len(cfg.TLS.Hostnames) > 0 {
					if err := tls.GenerateSelfSignedCert(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.Hostnames); err != nil {
						logger.Error("failed to generate self-signed cert", "error", err)
					}
				}
			}
			serverErrors <- server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			serverErrors <- server.ListenAndServe()
		}
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			log.Fatalf("server error: %v", err)
		}
	case sig := <-shutdown:
		logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.WriteTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("server shutdown error", "error", err)
			if err := server.Close(); err != nil {
				logger.Error("server close error", "error", err)
			}
		}

		logger.Info("server stopped gracefully")
	}
}
