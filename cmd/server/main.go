package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"math/rand"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/cbodonnell/mafia/pkg/api"
	"github.com/cbodonnell/mafia/pkg/config"
	"github.com/cbodonnell/mafia/pkg/game"
	"github.com/cbodonnell/mafia/pkg/game/votes"
	"github.com/cbodonnell/mafia/pkg/log"
	"github.com/cbodonnell/mafia/pkg/network"
	"github.com/cbodonnell/mafia/pkg/queue"
	"github.com/cbodonnell/mafia/pkg/repositories"
	"github.com/cbodonnell/mafia/pkg/state"
	"github.com/cbodonnell/mafia/pkg/stores"
	"github.com/cbodonnell/mafia/pkg/version"
	"github.com/cbodonnell/mafia/pkg/workers"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(fmt.Sprintf("Failed to load .env file: %v", err))
	}

	cfg, err := config.Load()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	flag.IntVar(&cfg.APIPort, "api-port", cfg.APIPort, "HTTP API port to listen on")
	flag.IntVar(&cfg.WSPort, "ws-port", cfg.WSPort, "WebSocket port to listen on")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.StringVar(&cfg.DatabaseURL, "database-url", cfg.DatabaseURL, "Database URL (sqlite://, postgresql:// or memory://)")
	flag.BoolVar(&cfg.ForcedTieBreak, "forced-tiebreak", cfg.ForcedTieBreak, "Break tied votes at random instead of blocking")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}

	logger := log.New(os.Stdout, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	log.Info("Starting mafia server version %s", version.Get())
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repository, err := newRepository(ctx, cfg)
	if err != nil {
		panic(err.Error())
	}
	defer repository.Close(context.Background())

	playerStore := stores.NewPlayerStore(repository)
	roleConfigStore := stores.NewRoleConfigStore(repository)

	commandQueue := queue.NewInMemoryQueue(queue.QueueBufferSize)
	stateManager := state.NewInMemoryStateManager()

	saveRosterChannelSize := 100
	saveRosterChan := make(chan workers.SaveRosterRequest, saveRosterChannelSize)

	saveRosterWorker := workers.NewSaveRosterWorker(workers.NewSaveRosterWorkerOptions{
		PlayerSaver:    playerStore,
		SaveRosterChan: saveRosterChan,
		StateManager:   stateManager,
		Interval:       cfg.SaveInterval,
	})
	go saveRosterWorker.Start(ctx)

	clientManager := network.NewClientManager()
	networkManager := network.NewNetworkManager(network.NewNetworkManagerOptions{
		ClientManager: clientManager,
		MessageQueue:  commandQueue,
		StateManager:  stateManager,
		WSPort:        cfg.WSPort,
	})
	networkManager.Start(ctx)

	serverMessageChannelSize := 100
	serverMessageChan := make(chan workers.ServerMessage, serverMessageChannelSize)

	serverMessageWorker := workers.NewServerMessageWorker(workers.NewServerMessageWorkerOptions{
		Sender:            networkManager,
		ServerMessageChan: serverMessageChan,
	})
	go serverMessageWorker.Start(ctx)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	apiServer := api.NewAPIServer(api.NewAPIServerOptions{
		Port:         cfg.APIPort,
		Players:      playerStore,
		RoleConfigs:  roleConfigStore,
		CommandQueue: commandQueue,
		StateManager: stateManager,
		Rand:         rand.New(rand.NewSource(seed)),
	})
	go apiServer.Start()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := apiServer.Stop(shutdownCtx); err != nil {
			log.Error("Failed to stop API server: %v", err)
		}
	}()

	machineOptions := game.NewMachineOptions{}
	if cfg.ForcedTieBreak {
		log.Info("Tied votes will be broken at random")
		machineOptions.TieBreaker = votes.NewRandomTieBreaker(seed)
	}

	gameManager := game.NewGameManager(game.NewGameManagerOptions{
		CommandQueue:      commandQueue,
		StateManager:      stateManager,
		Machine:           game.NewMachine(machineOptions),
		SaveRosterChan:    saveRosterChan,
		ServerMessageChan: serverMessageChan,
		GameLoopInterval:  cfg.LoopInterval,
	})

	log.Info("Starting game manager")
	if err := gameManager.Start(ctx); err != nil {
		panic(fmt.Sprintf("Failed to start game manager: %v", err))
	}
	log.Info("Shutting down")
}

func newRepository(ctx context.Context, cfg *config.Config) (repositories.Repository, error) {
	scheme, location, err := cfg.Database()
	if err != nil {
		return nil, fmt.Errorf("failed to parse database url: %v", err)
	}

	switch scheme {
	case "sqlite":
		repository, err := repositories.NewSQLiteRepository(ctx, location, filepath.Join(cfg.MigrationsDir, "sqlite"))
		if err != nil {
			return nil, fmt.Errorf("failed to create SQLite repository: %v", err)
		}
		log.Info("Using SQLite database %s", location)
		return repository, nil
	case "postgresql":
		repository, err := repositories.NewPostgresRepository(ctx, location, filepath.Join(cfg.MigrationsDir, "postgres"))
		if err != nil {
			return nil, fmt.Errorf("failed to create Postgres repository: %v", err)
		}
		return repository, nil
	default:
		log.Warn("Using in-memory database, nothing will survive a restart")
		return repositories.NewInMemoryRepository(), nil
	}
}
