package app

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/edugrade/auto-grader/grading-service/internal/batch"
	"github.com/edugrade/auto-grader/grading-service/internal/config"
	"github.com/edugrade/auto-grader/grading-service/internal/delivery/httpd"
	"github.com/edugrade/auto-grader/grading-service/internal/extractor"
	"github.com/edugrade/auto-grader/grading-service/internal/llm"
	"github.com/edugrade/auto-grader/grading-service/internal/normalizer"
	"github.com/edugrade/auto-grader/grading-service/internal/parser"
	"github.com/edugrade/auto-grader/grading-service/internal/repository"
	"github.com/edugrade/auto-grader/grading-service/internal/service"
	"github.com/edugrade/auto-grader/grading-service/internal/storage"
	"github.com/edugrade/auto-grader/grading-service/internal/worker"
	"github.com/edugrade/auto-grader/grading-service/internal/worker/queue"
)

type App struct {
	server           *http.Server
	logger           zerolog.Logger
	config           *config.Config
	db               *sql.DB
	pool             *worker.Pool
	correctionWorker worker.CorrectionWorker
	rabbitMQRepo     repository.RabbitMQRepository
}

func New(cfg *config.Config, log zerolog.Logger, db *sql.DB) (*App, error) {
	rabbitMQRepo, err := repository.NewRabbitMQRepository(cfg.RabbitMQ.URL, log)
	if err != nil {
		return nil, err
	}

	if err := rabbitMQRepo.SetupQueue(
		cfg.RabbitMQ.Exchange,
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.RoutingKey,
	); err != nil {
		return nil, err
	}

	rabbitMQPublisher := queue.NewRabbitMQPublisher(rabbitMQRepo.Channel(), log)
	rabbitMQConsumer := queue.NewRabbitMQConsumer(
		rabbitMQRepo.Channel(),
		cfg.RabbitMQ.QueueName,
		cfg.RabbitMQ.ConsumerTag,
		cfg.RabbitMQ.PrefetchCount,
		log,
	)

	reportRepo := repository.NewReportRepository(db, log)
	documentRepo := repository.NewDocumentRepository(db, log)

	minioStorage, err := storage.NewMinIOStorage(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	var ocrClient extractor.OCRClient
	if cfg.OCR.Enabled {
		ocrClient = extractor.NewHTTPOCRClient(
			cfg.OCR.URL,
			cfg.OCR.Timeout,
			cfg.OCR.RetryCount,
			cfg.OCR.RetryDelay,
			log,
		)
	}

	textExtractor := extractor.New(ocrClient, cfg.OCR.Language, log)
	docParser := parser.New(cfg.Correction.DefaultPoints)
	llmFactory := llm.NewFactory(cfg.LLM, log)
	resultNormalizer := normalizer.New(log)

	pool := worker.NewPool(cfg.Correction.MaxWorkers, log)

	runner, err := batch.NewRunner(pool, resultNormalizer, cfg.Correction.CacheSize, log)
	if err != nil {
		return nil, err
	}

	correctionService := service.NewCorrectionService(
		reportRepo,
		minioStorage,
		textExtractor,
		llmFactory,
		runner,
		rabbitMQPublisher,
		log,
		service.CorrectionConfig{
			DefaultLanguage: cfg.Correction.Language,
			DefaultBackend:  cfg.LLM.Backend,
			Exchange:        cfg.RabbitMQ.Exchange,
		},
	)

	documentService := service.NewDocumentService(
		documentRepo,
		minioStorage,
		textExtractor,
		docParser,
		log,
	)

	analyzerService := service.NewAnalyzerService(
		documentRepo,
		llmFactory,
		log,
		cfg.Correction.Language,
		cfg.LLM.Backend,
	)

	reportService := service.NewReportService(reportRepo, log)

	correctionWorker := worker.NewCorrectionWorker(
		pool,
		rabbitMQConsumer,
		correctionService,
		log,
	)

	handler := httpd.NewHandler(
		correctionService,
		documentService,
		analyzerService,
		reportService,
		log,
	)

	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(120 * time.Second))

	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   cfg.CORS.AllowedMethods,
		AllowedHeaders:   cfg.CORS.AllowedHeaders,
		ExposedHeaders:   cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}))

	handler.RegisterRoutes(router)

	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return &App{
		server:           server,
		logger:           log,
		config:           cfg,
		db:               db,
		pool:             pool,
		correctionWorker: correctionWorker,
		rabbitMQRepo:     rabbitMQRepo,
	}, nil
}

func (a *App) Run() error {
	a.pool.Start()

	ctx := context.Background()
	if err := a.correctionWorker.Start(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to start correction worker")
		return err
	}

	a.logger.Info().Msgf("Starting grading service on %s", a.config.Server.Address)
	return a.server.ListenAndServe()
}

func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info().Msg("Shutting down grading service...")

	if err := a.correctionWorker.Stop(); err != nil {
		a.logger.Error().Err(err).Msg("Failed to stop correction worker")
	}

	a.pool.Stop()

	if a.rabbitMQRepo != nil {
		if err := a.rabbitMQRepo.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close RabbitMQ connection")
		}
	}

	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close database connection")
		}
	}

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		return err
	}

	a.logger.Info().Msg("Grading service stopped")
	return nil
}
