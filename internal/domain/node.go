package domain

import "time"

// NodeInfo represents information about an execution node
type NodeInfo struct {
	ID            string    `json:"id"`
	Capacity      int       `json:"capacity"`
	CurrentLoad   int       `json:"current_load"`
	LastHeartbeat time.Time `json:"last_heartbeat"`
	Host          string    `json:"host"`
	OS            string    `json:"os"`
	Version       string    `json:"version"`
	IsActive      bool      `json:"is_active"`
}
