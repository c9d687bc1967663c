package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/executor/internal/domain"
)

type NodeRepository interface {
	// SaveNode saves node information
	SaveNode(ctx context.Context, node *domain.NodeInfo) error

	// GetNode retrieves node information by ID
	GetNode(ctx context.Context, nodeID string) (*domain.NodeInfo, error)

	// GetAllNodes retrieves every registered node
	GetAllNodes(ctx context.Context) ([]*domain.NodeInfo, error)

	// RemoveNode deletes a node's registration
	RemoveNode(ctx context.Context, nodeID string) error
}
