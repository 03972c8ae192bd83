package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/abhisek/linguo/internal/config"
	"github.com/abhisek/linguo/internal/conversation"
	"github.com/abhisek/linguo/internal/lesson"
	"github.com/abhisek/linguo/internal/llm"
	"github.com/abhisek/linguo/internal/sessionstore"
	"github.com/abhisek/linguo/internal/speech"
	"github.com/abhisek/linguo/internal/store"
	"github.com/abhisek/linguo/internal/transport/rest"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the tutor API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	cfg := config.Load()
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		cfg.DBPath = p
	}

	if err := cfg.LLM.Validate(); err != nil {
		return fmt.Errorf("llm configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := store.EnsureDir(cfg.DBPath); err != nil {
		return fmt.Errorf("prepare database dir: %w", err)
	}
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	provider, err := llm.NewProvider(ctx, cfg.LLM, st.EventRepo())
	if err != nil {
		return err
	}

	sessions, err := buildSessionStore(ctx, cfg)
	if err != nil {
		return err
	}

	svc, err := conversation.NewService(provider, sessions, st.AssessmentRepo(), conversation.Config{
		TargetLanguage: cfg.TargetLanguage,
		LessonID:       cfg.LessonID,
		Lesson:         lesson.DefaultConfig(),
	})
	if err != nil {
		return err
	}

	transcriber, synthesizer := buildSpeech(cfg)

	handler, err := rest.NewHandler(svc, transcriber, synthesizer, rest.Config{
		StaticDir:     cfg.StaticDir,
		AllowedOrigin: cfg.AllowedOrigin,
	})
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("linguo listening on %s (provider: %s, model: %s)",
			cfg.Addr, cfg.LLM.Provider, provider.ModelID())
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Println("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func buildSessionStore(ctx context.Context, cfg config.Config) (sessionstore.Store, error) {
	if cfg.RedisAddr == "" {
		return sessionstore.NewMemoryStore(), nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis at %s: %w", cfg.RedisAddr, err)
	}
	return sessionstore.NewRedisStore(client, cfg.SessionTTL), nil
}

// buildSpeech wires the speech clients when their API keys are configured.
// Either may be absent; the API then degrades to text-only.
func buildSpeech(cfg config.Config) (speech.Transcriber, speech.Synthesizer) {
	var transcriber speech.Transcriber
	var synthesizer speech.Synthesizer

	if cfg.Sarvam.APIKey != "" {
		c, err := speech.NewSarvamClient(cfg.Sarvam)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: speech-to-text disabled: %v\n", err)
		} else {
			transcriber = c
		}
	}
	if cfg.ElevenLabs.APIKey != "" {
		c, err := speech.NewElevenLabsClient(cfg.ElevenLabs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: text-to-speech disabled: %v\n", err)
		} else {
			synthesizer = c
		}
	}
	return transcriber, synthesizer
}
