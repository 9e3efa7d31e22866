package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RocketSloth/LabBuddy/internal/application"
	appanalysis "github.com/RocketSloth/LabBuddy/internal/application/analysis"
	appcheckins "github.com/RocketSloth/LabBuddy/internal/application/checkins"
	applabs "github.com/RocketSloth/LabBuddy/internal/application/labs"
	appmeds "github.com/RocketSloth/LabBuddy/internal/application/medications"
	approfiles "github.com/RocketSloth/LabBuddy/internal/application/profiles"
	appreports "github.com/RocketSloth/LabBuddy/internal/application/reports"
	"github.com/RocketSloth/LabBuddy/internal/config"
	domanalysis "github.com/RocketSloth/LabBuddy/internal/domain/analysis"
	domcheckins "github.com/RocketSloth/LabBuddy/internal/domain/checkins"
	"github.com/RocketSloth/LabBuddy/internal/domain/faults"
	domlabs "github.com/RocketSloth/LabBuddy/internal/domain/labs"
	dommeds "github.com/RocketSloth/LabBuddy/internal/domain/medications"
	domprofiles "github.com/RocketSloth/LabBuddy/internal/domain/profiles"
	openaiClient "github.com/RocketSloth/LabBuddy/internal/infra/ai/openai"
	mysqlp "github.com/RocketSloth/LabBuddy/internal/infra/db/mysql"
	postgresp "github.com/RocketSloth/LabBuddy/internal/infra/db/postgres"
	"github.com/RocketSloth/LabBuddy/internal/infra/httpserver"
	minioStore "github.com/RocketSloth/LabBuddy/internal/infra/storage"
	"github.com/RocketSloth/LabBuddy/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	ctx := context.Background()

	// connect DB; mysql is the default, postgres is opt-in per config.
	// every repo follows the selected driver, the two dialects are not mixable
	var (
		db             *sql.DB
		analysisRepo   domanalysis.Repository
		labRepo        domlabs.Repository
		faultRepo      faults.Repository
		catalogRepo    domlabs.Catalog
		checkinRepo    domcheckins.Repository
		medicationRepo dommeds.Repository
		profileRepo    domprofiles.Repository
	)
	switch cfg.Database.Driver {
	case "postgres":
		db, err = postgresp.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			log.Fatalf("postgres connect error: %v", err)
		}
		analysisRepo = postgresp.NewAnalysisRepository(db)
		labRepo = postgresp.NewLabRepository(db)
		faultRepo = postgresp.NewFaultRepository(db)
		catalogRepo = postgresp.NewCatalogRepository(db)
		checkinRepo = postgresp.NewCheckinRepository(db)
		medicationRepo = postgresp.NewMedicationRepository(db)
		profileRepo = postgresp.NewProfileRepository(db)
	default:
		db, err = mysqlp.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			log.Fatalf("mysql connect error: %v", err)
		}
		analysisRepo = mysqlp.NewAnalysisRepository(db)
		labRepo = mysqlp.NewLabRepository(db)
		faultRepo = mysqlp.NewFaultRepository(db)
		catalogRepo = mysqlp.NewCatalogRepository(db)
		checkinRepo = mysqlp.NewCheckinRepository(db)
		medicationRepo = mysqlp.NewMedicationRepository(db)
		profileRepo = mysqlp.NewProfileRepository(db)
	}
	defer db.Close()

	// init openai provider
	ai := openaiClient.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.MaxTokens)

	clock := application.SystemClock{}

	// init services
	analysisSvc := &appanalysis.Service{
		Repo:     analysisRepo,
		Profiles: profileRepo,
		Faults:   faultRepo,
		AI:       ai,
		Clock:    clock,
	}
	watcher := &appanalysis.Watcher{
		Repo:     analysisRepo,
		Interval: time.Duration(cfg.Analysis.PollIntervalSeconds) * time.Second,
		MaxPolls: cfg.Analysis.MaxPolls,
	}
	labsSvc := &applabs.Service{Repo: labRepo, Catalog: catalogRepo, Clock: clock}
	checkinsSvc := &appcheckins.Service{Repo: checkinRepo, Clock: clock}
	medsSvc := &appmeds.Service{Repo: medicationRepo, Clock: clock}
	profilesSvc := &approfiles.Service{Repo: profileRepo, Clock: clock}

	// init minio; exports are optional, skip when not configured
	var reportsSvc *appreports.Service
	if cfg.Minio.Endpoint != "" {
		store, err := minioStore.New(ctx,
			cfg.Minio.Endpoint,
			cfg.Minio.Region,
			cfg.Minio.BucketName,
			cfg.Minio.AccessKey,
			cfg.Minio.SecretKey,
			cfg.Minio.UseSSL,
		)
		if err != nil {
			log.Fatalf("minio init error: %v", err)
		}
		reportsSvc = &appreports.Service{
			Labs:      labRepo,
			Analyses:  analysisRepo,
			Artifacts: store,
			Clock:     clock,
		}
	}

	// init router
	mux := chi.NewRouter()
	mux.Mount("/", httpserver.NewRouter(httpserver.Deps{
		Analyses:    analysisSvc,
		Watcher:     watcher,
		Labs:        labsSvc,
		Checkins:    checkinsSvc,
		Medications: medsSvc,
		Profiles:    profilesSvc,
		Reports:     reportsSvc,
		APIKeys:     cfg.Auth.APIKeys,
		Health: map[string]middleware.HealthChecker{
			"database": &middleware.DatabaseHealthChecker{DB: db},
		},
	}))

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		log.Printf("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		log.Printf("shutdown error: %v", err)
	}
}
