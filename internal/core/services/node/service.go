package node

import (
	"context"

	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

// INodeService advertises this execution node and its load to the registry
type INodeService interface {
	// Register publishes the node as available for submissions
	Register(ctx context.Context) error

	// Heartbeat refreshes the registration with the current load
	Heartbeat(ctx context.Context) error

	// Deregister removes the node's registration
	Deregister(ctx context.Context) error

	// GetAllNodes gets all registered nodes
	GetAllNodes(ctx context.Context) ([]*domain.NodeInfo, error)

	// GetNode gets a single node by ID
	GetNode(ctx context.Context, nodeID string) (*domain.NodeInfo, error)
}
