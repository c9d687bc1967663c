package config

import (
	"os"
	"strconv"
)

type AppConfig struct {
	DebugMode   bool
	ExecutorCfg *ExecutorCfg
	ServerCfg   *ServerCfg
	NodeCfg     *NodeCfg
	RedisConfig *RedisConfig
}

func NewSystemConfig() *AppConfig {
	return &AppConfig{
		DebugMode:   os.Getenv("DEBUG_MODE") == "true",
		ExecutorCfg: NewExecutorCfg(),
		ServerCfg:   NewServerCfg(),
		NodeCfg:     NewNodeCfg(),
		RedisConfig: NewRedisConfig(),
	}
}

// intEnv reads a positive integer from the environment, falling back on absence or garbage
func intEnv(key string, fallback int) int {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	varInt, err := strconv.Atoi(value)
	if err != nil || varInt <= 0 {
		return fallback
	}
	return varInt
}

func stringEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
