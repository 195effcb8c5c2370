package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"lifeos-backend/internal/audiostore"
	"lifeos-backend/internal/cache"
	"lifeos-backend/internal/config"
	"lifeos-backend/internal/llm"
	"lifeos-backend/internal/repository"
	"lifeos-backend/internal/router"
	"lifeos-backend/internal/service"
	"lifeos-backend/internal/transcriber"
	"lifeos-backend/internal/tts"
	"lifeos-backend/internal/websocket"

	"github.com/spf13/cobra"
)

// vendorTimeout bounds a single outbound call to any AI vendor.
const vendorTimeout = 60 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	setupCtx, cancelSetup := context.WithTimeout(ctx, 30*time.Second)
	client, err := connectCouch(setupCtx, cfg.Database.URL, cfg.Database.Name)
	cancelSetup()
	if err != nil {
		return err
	}
	defer client.Close()
	logger.Info("Connected to CouchDB", "prefix", cfg.Database.Name)

	userRepo := repository.NewUserRepository(client, cfg.Database.Name)
	noteRepo := repository.NewNoteRepository(client, cfg.Database.Name)
	taskRepo := repository.NewTaskRepository(client, cfg.Database.Name)
	transcriptRepo := repository.NewTranscriptRepository(client, cfg.Database.Name)

	transcriptCache, closeCache := openCache(ctx, cfg.Cache, logger)
	defer closeCache()

	httpClient := &http.Client{Timeout: vendorTimeout}
	transcriberClient := transcriber.NewClient(cfg.Transcription.BaseURL, cfg.Transcription.APIKey, httpClient)
	llmClient := llm.NewClient(cfg.LLM.BaseURL, cfg.LLM.APIKey, cfg.LLM.Model, httpClient)
	ttsClient := tts.NewClient(cfg.TTS.BaseURL, cfg.TTS.APIKey, httpClient)

	audioStore, err := openAudioStore(ctx, cfg, transcriberClient)
	if err != nil {
		return err
	}

	wsManager := websocket.NewManager(websocket.Config{
		MaxConnPerUser: cfg.WebSocket.MaxConnPerUser,
		WriteWait:      cfg.WebSocket.WriteWait,
		PongWait:       cfg.WebSocket.PongWait,
		PingPeriod:     cfg.WebSocket.PingPeriod,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
	})
	go wsManager.Run(ctx)

	learningService := service.NewLearningService(llmClient)

	handler := router.New(router.Deps{
		Auth:  service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.Expiration),
		Notes: service.NewNoteService(noteRepo, wsManager),
		Tasks: service.NewTaskService(taskRepo, learningService, wsManager),
		Transcription: service.NewTranscriptionService(transcriberClient, transcriptCache, transcriptRepo, audioStore, service.TranscriptionConfig{
			PollInterval: cfg.Transcription.PollInterval,
			MaxWait:      cfg.Transcription.Timeout,
			CacheTTL:     cfg.Cache.TTL,
		}),
		Speech:    service.NewSpeechService(ttsClient),
		Learning:  learningService,
		WebSocket: wsManager,
		Logger:    logger,
		CORS: router.CORS{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
		},
		MaxUploadBytes: cfg.Server.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 15 * time.Second,
		// uploads wait on the transcription poll loop
		WriteTimeout: cfg.Transcription.Timeout + vendorTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("Starting LifeOS backend", "addr", srv.Addr, "env", cfg.Server.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	logger.Info("Server stopped gracefully")
	return nil
}

// openCache returns nil only when caching is disabled or misconfigured. An unreachable
// redis keeps the client: lookups fail as misses until it comes back.
func openCache(ctx context.Context, cfg config.CacheConfig, logger *slog.Logger) (service.Cache, func()) {
	noop := func() {}
	if !cfg.Enabled {
		return nil, noop
	}

	rc, err := cache.NewRedisCache(cfg.URL)
	if err != nil {
		logger.Warn("Cache disabled", "error", err)
		return nil, noop
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rc.Ping(pingCtx); err != nil {
		logger.Warn("Redis unreachable, transcripts uncached until it recovers", "error", err)
	} else {
		logger.Info("Transcript cache enabled")
	}

	return rc, func() { _ = rc.Close() }
}

func openAudioStore(ctx context.Context, cfg *config.Config, uploader audiostore.Uploader) (service.AudioStore, error) {
	if !cfg.UseS3() {
		return audiostore.NewVendorStore(uploader), nil
	}

	store, err := audiostore.NewS3Store(ctx, audiostore.S3Config{
		Endpoint:  cfg.Storage.Endpoint,
		Region:    cfg.Storage.Region,
		Bucket:    cfg.Storage.Bucket,
		AccessKey: cfg.Storage.AccessKey,
		SecretKey: cfg.Storage.SecretKey,
	})
	if err != nil {
		return nil, err
	}
	slog.Info("Audio uploads go to S3", "bucket", cfg.Storage.Bucket)
	return store, nil
}
