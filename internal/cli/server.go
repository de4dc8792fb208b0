package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trivia-ladder-service/internal/app"
	"trivia-ladder-service/internal/config"
	"trivia-ladder-service/internal/domain"
	"trivia-ladder-service/internal/infra/memory"
	pgstore "trivia-ladder-service/internal/infra/postgres"
	redisinfra "trivia-ladder-service/internal/infra/redis"
	transport "trivia-ladder-service/internal/transport/http"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
)

// NewServeCmd builds the CLI subcommand to start the server.
func NewServeCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the trivia ladder server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServer(cmd.Context(), *configPath, *port)
		},
	}
}

func runServer(ctx context.Context, configPath, portFlag string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}

	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, 10*time.Minute)
	sessionTTL := config.TTLDuration(cfg.Session.TTL, 24*time.Hour)

	var quizzes app.QuizRepository
	var sessions app.SessionRepository
	if redisClient != nil {
		var loader redisinfra.QuizLoader = memory.NewStaticQuizLoader(demoQuizzes())
		if pool != nil {
			loader = pgstore.NewQuizStore(pool)
		}
		quizzes = redisinfra.NewQuizCache(redisClient, loader, quizTTL)
		sessions = redisinfra.NewSessionStore(redisClient, sessionTTL)
	} else {
		var loader memory.QuizLoader = memory.NewStaticQuizLoader(demoQuizzes())
		if pool != nil {
			loader = pgstore.NewQuizStore(pool)
		}
		quizzes = memory.NewQuizCache(loader, quizTTL)
		sessions = memory.NewSessionStore()
	}

	service := app.NewGameService(sessions, quizzes)
	wsHandler := transport.NewWSHandler(service)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	mux.HandleFunc("/ws", wsHandler.ServeWS)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting trivia ladder service on :%s", finalPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Println("shutting down server...")
	case <-ctx.Done():
		log.Println("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// demoQuizzes provides built-in quiz data for running without Postgres.
func demoQuizzes() map[string]domain.Quiz {
	quiz, err := demoQuiz()
	if err != nil {
		log.Printf("demo quiz invalid: %v", err)
		return map[string]domain.Quiz{}
	}
	return map[string]domain.Quiz{quiz.ID: quiz}
}
