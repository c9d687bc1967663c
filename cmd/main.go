package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"

	"gitlab.com/fcv-2025.net/executor/internal/adapter/procfs"
	"gitlab.com/fcv-2025.net/executor/internal/adapter/redis/nodeport"
	"gitlab.com/fcv-2025.net/executor/internal/adapter/toolchain"
	"gitlab.com/fcv-2025.net/executor/internal/adapter/workspace"
	"gitlab.com/fcv-2025.net/executor/internal/config"
	"gitlab.com/fcv-2025.net/executor/internal/core/services/execution"
	"gitlab.com/fcv-2025.net/executor/internal/core/services/node"
	logger2 "gitlab.com/fcv-2025.net/executor/internal/global/logger"
	"gitlab.com/fcv-2025.net/executor/internal/heartbeatengine"
	http2 "gitlab.com/fcv-2025.net/executor/internal/http"
)

func main() {
	InitReader()
	// Set up graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sysCfg := config.NewSystemConfig()
	logger2.Configure(sysCfg.DebugMode)
	logger := logger2.Logger
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting code execution service", "nodeId", sysCfg.NodeCfg.ID)

	// SECONDARY PORTS
	workspaces, err := workspace.NewManager(sysCfg.ExecutorCfg.WorkspaceDir, logger)
	if err != nil {
		logger.Error("Failed to set up workspace root", "error", err)
		os.Exit(1)
	}
	compiler, err := toolchain.NewCommandCompiler(sysCfg.ExecutorCfg.CompileCommand, sysCfg.ExecutorCfg.CompileTimeout, logger)
	if err != nil {
		logger.Error("Invalid compile command", "error", err)
		os.Exit(1)
	}
	probe, err := procfs.NewProbe()
	if err != nil {
		logger.Error("Failed to set up memory probe", "error", err)
		os.Exit(1)
	}

	//services
	monitor := execution.NewMemoryMonitor(probe, sysCfg.ExecutorCfg.MemoryPollInterval, logger)
	supervisor := execution.NewSupervisor(monitor, sysCfg.ExecutorCfg.OutputLimitBytes, sysCfg.ExecutorCfg.IOGracePeriod, logger)
	executionSvc := execution.NewExecutionService(workspaces, compiler, supervisor, sysCfg.ExecutorCfg.MaxConcurrent, logger)

	ctxBg, cancelBg := context.WithCancel(context.Background())
	defer cancelBg()

	var (
		nodeSvc         node.INodeService
		heartbeatEngine *heartbeatengine.HeartbeatEngine
	)
	if sysCfg.RedisConfig.Url != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     sysCfg.RedisConfig.Url,
			Password: sysCfg.RedisConfig.Password,
			DB:       sysCfg.RedisConfig.DB,
		})
		defer redisClient.Close()

		nodeSvc = node.NewNodeService(
			nodeport.NewNodeRepository(redisClient, logger).WithExpiration(sysCfg.NodeCfg.RegistrationTTL()),
			executionSvc,
			sysCfg.NodeCfg.ID,
			sysCfg.NodeCfg.Version,
			sysCfg.NodeCfg.HeartbeatInterval,
			logger,
		)
		heartbeatEngine = heartbeatengine.NewHeartbeatEngine(sysCfg.NodeCfg.HeartbeatInterval, nodeSvc, logger)
		if err := heartbeatEngine.Start(ctxBg); err != nil {
			logger.Error("Failed to register node, continuing without registry", "error", err)
			heartbeatEngine = nil
		}
	} else {
		logger.Info("REDIS_ADDR not set, node registry disabled")
	}

	//server
	serviceProvider := http2.NewServiceProvider(executionSvc, nodeSvc)
	httpServer := http2.NewServer(sysCfg.ServerCfg.Port, sysCfg.ServerCfg.ServiceName, *serviceProvider, logger)
	if err := httpServer.Init(); err != nil {
		panic(err)
	}
	httpServer.Start(ctxBg)

	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), sysCfg.ServerCfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Stop(ctx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}
	cancelBg()
	if heartbeatEngine != nil {
		heartbeatEngine.Stop(ctx)
	}

	logger.Info("successfully shutdown server")
}

// InitReader loads <env>.env when an environment name is given as the first argument
func InitReader() {
	if len(os.Args) < 2 {
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			log.Printf("Error loading .env file: %v", err)
		}
		return
	}

	environment := os.Args[1]
	if err := godotenv.Load(environment + ".env"); err != nil {
		log.Fatalf("Error loading %s.env file", environment)
	}
}
