package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sttgateway/internal/admission"
	"sttgateway/internal/api"
	"sttgateway/internal/config"
	"sttgateway/internal/engine"
	"sttgateway/internal/models"
	"sttgateway/internal/registry"
	"sttgateway/internal/scheduler"
	"sttgateway/internal/service"
	"sttgateway/pkg/logger"

	docs "sttgateway/api-docs"

	"github.com/gin-gonic/gin"
)

// Version information (set by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// @title Speech-to-Text Gateway API
// @version 1.0
// @description Admission, scheduling and model hot-swap surface for a local ASR gateway fronting FunASR and MLX back-ends.
// @termsOfService http://swagger.io/terms/

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @BasePath /
func main() {
	var showVersion = flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("sttgateway %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		os.Exit(0)
	}

	log.Println("starting up...")

	log.Println("loading configuration...")
	cfg := config.Load()

	logger.Init(cfg.LogLevel)
	logger.Info("starting sttgateway", "version", version, "commit", commit)

	reg := registry.Default()
	initialSpec, err := reg.ResolveInitial(cfg.ModelID, models.EngineKind(cfg.EngineType))
	if err != nil {
		log.Fatalf("resolving initial model %q: %v", cfg.ModelID, err)
	}

	factory := engine.NewFactory(cfg)
	sched := scheduler.New(scheduler.Config{
		QueueCapacity: cfg.MaxQueueSize,
		Factory:       factory,
		Registry:      reg,
		InitialSpec:   initialSpec,
	})

	log.Println("loading initial model (this can take tens of seconds)...")
	bootstrapCtx, cancelBootstrap := context.WithTimeout(context.Background(), 5*time.Minute)
	if err := sched.Bootstrap(bootstrapCtx); err != nil {
		cancelBootstrap()
		log.Fatalf("failed to load initial model: %v", err)
	}
	cancelBootstrap()
	log.Println("initial model loaded")

	validator := admission.New(reg)
	files := service.NewFileService()
	handler := api.NewHandler(cfg, validator, sched, files)

	docs.SwaggerInfo.Host = cfg.Host + ":" + cfg.Port
	router := api.SetupRoutes(handler, cfg)

	srv := &http.Server{
		Addr:    cfg.Host + ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("listening on %s:%s", cfg.Host, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("failed to start server:", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("HTTP server forced to shutdown: %v", err)
	}

	if err := sched.Shutdown(ctx); err != nil {
		log.Printf("scheduler shutdown: %v", err)
	}

	log.Println("server exited")
}
