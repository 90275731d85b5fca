package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"google.golang.org/api/option"
	"gorm.io/gorm"

	"github.com/yoockh/aieta/config"
	"github.com/yoockh/aieta/internal/api/handlers"
	"github.com/yoockh/aieta/internal/api/routes"
	"github.com/yoockh/aieta/internal/cache"
	"github.com/yoockh/aieta/internal/logger"
	"github.com/yoockh/aieta/internal/oracle"
	"github.com/yoockh/aieta/internal/providers/llm"
	"github.com/yoockh/aieta/internal/providers/stt"
	"github.com/yoockh/aieta/internal/providers/tts"
	mongorepo "github.com/yoockh/aieta/internal/repositories/mongo"
	pgrepo "github.com/yoockh/aieta/internal/repositories/postgres"
	"github.com/yoockh/aieta/internal/services"
	"github.com/yoockh/aieta/internal/storage"
	"github.com/yoockh/aieta/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("config error: %v", err)
	}
	log := logger.New(cfg.LogLevel)

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Init MongoDB
	mc, err := config.NewMongo(ctx, cfg)
	if err != nil {
		log.Fatalf("MongoDB init error: %v", err)
	}
	defer func() { _ = mc.Disconnect(context.Background()) }()
	db := mc.Database(cfg.MongoDB)
	if err := config.EnsureMongoIndexes(ctx, db); err != nil {
		log.WithError(err).Warn("mongo index creation failed")
	}
	log.Info("MongoDB connected")

	// Init PostgreSQL (optional)
	pg, err := config.NewPostgres(cfg)
	if err != nil {
		log.Fatalf("PostgreSQL init error: %v", err)
	}
	if pg != nil {
		if err := config.AutoMigrate(pg); err != nil {
			log.Fatalf("PostgreSQL migrate error: %v", err)
		}
		log.Info("PostgreSQL connected")
	}

	// Init Redis (optional)
	rdb, err := config.NewRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Redis init error: %v", err)
	}
	if rdb != nil {
		defer func() { _ = rdb.Close() }()
		log.Info("Redis connected")
	}

	var gopts []option.ClientOption
	if cfg.CredentialsFile != "" {
		gopts = append(gopts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	gemini, err := llm.NewVertexGemini(ctx, cfg.GCPProject, cfg.GCPLocation, cfg.GeminiModel, gopts...)
	if err != nil {
		log.Fatalf("Vertex AI init error: %v", err)
	}
	model := llm.NewLimited(gemini, cfg.LLMRatePerSec, cfg.LLMBurst)
	defer func() { _ = model.Close() }()

	prompts, err := oracle.DefaultPrompts()
	if err != nil {
		log.Fatalf("prompt templates: %v", err)
	}
	orc := oracle.New(model, prompts, cfg.QuestionCount)

	var synth tts.Provider
	ttsReady := true
	if g, err := tts.NewGoogleTTS(ctx, gopts...); err != nil {
		log.WithError(err).Warn("text-to-speech unavailable")
		synth = tts.Unavailable{}
		ttsReady = false
	} else {
		defer func() { _ = g.Close() }()
		synth = g
	}

	var speech stt.Provider
	if g, err := stt.NewGoogleSpeech(ctx, gopts...); err != nil {
		log.WithError(err).Warn("speech-to-text unavailable")
	} else {
		defer func() { _ = g.Close() }()
		speech = g
	}

	var uploader storage.Uploader
	if cfg.ReportBucket != "" {
		u, err := storage.NewGCSUploader(ctx, cfg.ReportBucket, cfg.ReportPublic, gopts...)
		if err != nil {
			log.WithError(err).Warn("report upload disabled")
		} else {
			defer func() { _ = u.Close() }()
			uploader = u
		}
	}

	var audioCache cache.Cache = cache.NewMemory()
	var queue services.JobQueue
	if rdb != nil {
		audioCache = cache.NewRedisCache(rdb)
		queue = &workers.RedisQueue{Redis: rdb, Stream: workers.DefaultStream}
	}

	// repositories
	candidateRepo := mongorepo.NewCandidateRepo(db)
	templateRepo := mongorepo.NewTemplateRepo(db)
	prepRepo := mongorepo.NewPreprocessingRepo(db)
	sessionRepo := mongorepo.NewSessionRepo(db)
	legacyRepo := mongorepo.NewLegacyRepo(db)
	audioStore := mongorepo.NewAudioStore(db)

	answerLogs, codingRepo := postgresRepos(pg)
	if codingRepo == nil {
		codingRepo = mongorepo.NewCodingRepo(db)
	}

	var runner services.CodeRunner
	if cfg.CodeRunnerEnabled {
		runner = &services.ExecRunner{Interpreter: cfg.CodeRunner, Timeout: cfg.CodeRunnerTimeout}
	}

	// services
	candidateSvc := services.NewCandidateService(candidateRepo)
	templateSvc := services.NewTemplateService(candidateRepo, templateRepo, prepRepo, orc, log)
	evaluationSvc := services.NewEvaluationService(orc, orc, answerLogs, log)
	sessionSvc := services.NewSessionService(sessionRepo, legacyRepo, cfg.MongoDB, log)
	speechSvc := services.NewSpeechService(prepRepo, audioStore, synth, audioCache, cfg.TTSCacheTTL, log)
	preprocessSvc := services.NewPreprocessService(prepRepo, audioStore, synth, queue, log)
	reportSvc := services.NewReportService(legacyRepo, cfg.ReportsDir, uploader, log)
	codingSvc := services.NewCodingService(codingRepo, runner)
	transcriptionSvc := services.NewTranscriptionService(speech)

	if rdb != nil {
		pool := &workers.PreprocessWorkerPool{
			Redis:      rdb,
			Preprocess: preprocessSvc,
			NumWorkers: cfg.PreprocessWorkers,
			Logger:     log,
		}
		if err := pool.Start(ctx); err != nil {
			log.Fatalf("preprocess workers: %v", err)
		}
	}

	deps := routes.Deps{
		Candidate:  handlers.NewCandidateHandler(candidateSvc, sessionSvc),
		Interview:  handlers.NewInterviewHandler(templateSvc, sessionSvc),
		Answer:     handlers.NewAnswerHandler(evaluationSvc),
		TTS:        handlers.NewTTSHandler(speechSvc),
		STT:        handlers.NewSTTHandler(transcriptionSvc),
		Coding:     handlers.NewCodingHandler(codingSvc),
		Preprocess: handlers.NewPreprocessHandler(preprocessSvc),
		Report:     handlers.NewReportHandler(reportSvc),
		Health:     handlers.NewHealthHandler(config.Version, mongoPinger(mc), ttsReady),

		Logger:         log,
		AllowedOrigins: cfg.AllowedOrigins,
		RequestTimeout: cfg.RequestTimeout,
	}
	if rdb != nil {
		deps.WS = handlers.NewWSHandler(preprocessSvc, &workers.StatusBus{Redis: rdb}, cfg.AllowedOrigins)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           routes.NewRouter(deps),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("graceful shutdown failed")
	}
}

// postgresRepos returns untyped nils when postgres is not configured so the
// services see a nil interface.
func postgresRepos(pg *gorm.DB) (pgrepo.AnswerLogRepository, pgrepo.CodingRepository) {
	if pg == nil {
		return nil, nil
	}
	return pgrepo.NewAnswerLogRepo(pg), pgrepo.NewCodingRepo(pg)
}

func mongoPinger(mc *mongo.Client) handlers.Pinger {
	return func(ctx context.Context) error { return mc.Ping(ctx, nil) }
}
