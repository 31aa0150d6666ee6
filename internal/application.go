package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/tictactoe-minimax/internal/config"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/repository/storage"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/service"
	"github.com/rocketscienceinc/tictactoe-minimax/internal/usecase"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/rest"
	"github.com/rocketscienceinc/tictactoe-minimax/transport/websocket"
)

var ErrAddrNotFound = errors.New("redis address string is empty")

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	redisAddrString := conf.Redis.GetRedisAddr()
	if redisAddrString == "" {
		return ErrAddrNotFound
	}

	redisStorage, err := storage.NewRedisStorage(ctx, redisAddrString)
	if err != nil {
		return fmt.Errorf("could not connect to redis storage: %w", err)
	}

	defer func() {
		if err = redisStorage.Close(); err != nil {
			log.Error("could not close redis storage", "error", err)
		}
	}()

	leaderboardRepo, closeLeaderboard, err := newLeaderboardRepository(ctx, conf, redisStorage)
	if err != nil {
		return err
	}

	defer closeLeaderboard()

	playerService := service.NewPlayerService(repository.NewPlayerRepository(redisStorage))
	gameService := service.NewGameService(repository.NewGameRepository(redisStorage))
	botService := service.NewBotService(logger, conf.Bot.ThinkDelay)
	leaderboardService := service.NewLeaderboardService(leaderboardRepo, conf.Leaderboard.TopLimit)

	gamePlayService := service.NewGamePlayService(logger, playerService, gameService, botService, leaderboardService)
	gameUseCase := usecase.NewGameUseCase(playerService, gamePlayService, leaderboardService)

	// run HTTP server
	httpErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting HTTP server", "port", conf.HTTPPort)
		if httpErr := rest.New(logger, gameUseCase).Start(ctx, conf.HTTPPort); httpErr != nil {
			httpErrCh <- httpErr
		}
	}()

	// run Websocket server
	wsErrCh := make(chan error, 1)
	go func() {
		log.Info("Starting WebSocket server", "port", conf.SocketPort)
		if wsErr := websocket.New(logger, gameUseCase).Start(ctx, conf.SocketPort); wsErr != nil {
			wsErrCh <- wsErr
		}
	}()

	select {
	case err = <-httpErrCh:
		return fmt.Errorf("HTTP server error: %w", err)
	case err = <-wsErrCh:
		return fmt.Errorf("WebSocket server error: %w", err)
	case <-ctx.Done():
		log.Info("Application context canceled, shutting down")
		return nil
	}
}

// newLeaderboardRepository - picks the score storage configured for the leaderboard.
func newLeaderboardRepository(ctx context.Context, conf *config.Config, client *redis.Client) (repository.LeaderboardRepository, func(), error) {
	if conf.Leaderboard.Storage != config.LeaderboardSQLite {
		return repository.NewRedisLeaderboardRepository(client), func() {}, nil
	}

	sqliteStorage, err := storage.NewSQLiteStorage(conf.Leaderboard.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("could not open sqlite storage: %w", err)
	}

	if err = sqliteStorage.Init(ctx); err != nil {
		_ = sqliteStorage.Close()
		return nil, nil, fmt.Errorf("could not init sqlite storage: %w", err)
	}

	closeFn := func() {
		_ = sqliteStorage.Close()
	}

	return repository.NewSQLiteLeaderboardRepository(sqliteStorage.Connection), closeFn, nil
}
