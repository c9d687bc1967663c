package config

import (
	"time"

	"github.com/google/uuid"
)

type ServerCfg struct {
	Port            int
	ServiceName     string
	ShutdownTimeout time.Duration
}

func NewServerCfg() *ServerCfg {
	return &ServerCfg{
		Port:            intEnv("HTTP_PORT", 8082),
		ServiceName:     stringEnv("SERVICE_NAME", "codeExecutor"),
		ShutdownTimeout: time.Duration(intEnv("SHUTDOWN_TIMEOUT_SEC", 5)) * time.Second,
	}
}

type NodeCfg struct {
	ID                string
	HeartbeatInterval time.Duration
	Version           string
}

func NewNodeCfg() *NodeCfg {
	return &NodeCfg{
		ID:                stringEnv("NODE_ID", uuid.New().String()),
		HeartbeatInterval: time.Duration(intEnv("NODE_HEARTBEAT_INTERVAL_SEC", 30)) * time.Second,
		Version:           stringEnv("NODE_VERSION", "dev"),
	}
}

// RegistrationTTL is how long a registration outlives its last heartbeat
func (c *NodeCfg) RegistrationTTL() time.Duration {
	return 3 * c.HeartbeatInterval
}
