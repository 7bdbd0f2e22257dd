package cli

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"quizboard/internal/app"
	"quizboard/internal/config"
	"quizboard/internal/infra/memory"
	pgstore "quizboard/internal/infra/postgres"
	infraredis "quizboard/internal/infra/redis"
	transport "quizboard/internal/transport/http"
)

// defaultResultsTTL matches the client poll interval for the results endpoint.
const defaultResultsTTL = 5 * time.Second

const defaultQuizTTL = 10 * time.Minute

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the quizboard server",
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
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return err
		}
	}

	var pool *pgxpool.Pool
	if cfg.Postgres.URL != "" {
		pool, err = pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
	}

	var (
		quizzes   app.QuizStore
		players   app.PlayerStore
		responses app.ResponseStore
	)
	if pool != nil {
		quizzes = pgstore.NewQuizStore(pool)
		players = pgstore.NewPlayerStore(pool)
		responses = pgstore.NewResponseStore(pool)
	} else {
		log.Printf("postgres not configured, using in-memory stores")
		quizzes = memory.NewQuizStore()
		players = memory.NewPlayerStore()
		responses = memory.NewResponseStore()
	}

	quizTTL := config.TTLDuration(cfg.Quiz.TTL, defaultQuizTTL)
	resultsTTL := config.TTLDuration(cfg.Leaderboard.TTL, defaultResultsTTL)

	var results app.ResultsCache
	if redisClient != nil {
		quizzes = infraredis.NewQuizCache(redisClient, quizzes, quizTTL)
		results = infraredis.NewResultsCache(redisClient, resultsTTL)
	} else {
		quizzes = memory.NewQuizCache(quizzes, quizTTL)
		results = memory.NewResultsCache(resultsTTL)
	}

	service := app.NewQuizService(quizzes, players, responses, results)
	handler := transport.NewHandler(service)

	mux := http.NewServeMux()
	handler.Register(mux)

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Printf("starting quizboard on :%s", finalPort)
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
